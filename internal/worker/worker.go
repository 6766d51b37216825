// Package worker implements the pool processing saved searches.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one unit of work: processing a single saved search.
type Job struct {
	SearchID int
	Keyword  string
	Handler  func() error
}

// Metrics tracks pool throughput.
type Metrics struct {
	mu             sync.RWMutex
	processedJobs  int64
	failedJobs     int64
	processingTime time.Duration
}

// ProcessedJobs returns how many jobs completed, successfully or not.
func (m *Metrics) ProcessedJobs() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processedJobs
}

// FailedJobs returns how many jobs returned an error.
func (m *Metrics) FailedJobs() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failedJobs
}

func (m *Metrics) record(duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processedJobs++
	m.processingTime += duration
	if err != nil {
		m.failedJobs++
	}
}

// Pool is a bounded worker pool.
type Pool struct {
	workers  int
	jobQueue chan Job
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   *zap.Logger
	metrics  *Metrics
	stopOnce sync.Once
	stopped  bool
	mu       sync.RWMutex
}

// NewPool creates a worker pool with the given concurrency and queue size.
func NewPool(workers, queueSize int, logger *zap.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
		metrics:  &Metrics{},
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	p.logger.Info("Starting worker pool", zap.Int("workers", p.workers))

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop drains the queue and waits for workers to finish.
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool")
	p.cancel()

	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()
		close(p.jobQueue)
	})

	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

// Submit enqueues a job. It fails when the pool is stopped or the queue
// is full.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return fmt.Errorf("worker pool is stopped")
	}

	select {
	case p.jobQueue <- job:
		return nil
	default:
		return fmt.Errorf("worker pool queue is full")
	}
}

// GetMetrics returns the pool metrics.
func (p *Pool) GetMetrics() *Metrics {
	return p.metrics
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobQueue {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		start := time.Now()
		err := job.Handler()
		p.metrics.record(time.Since(start), err)

		if err != nil {
			p.logger.Error("Search processing failed",
				zap.Int("search_id", job.SearchID),
				zap.String("keyword", job.Keyword),
				zap.Error(err))
		}
	}
}
