package worker

import (
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestPool(t *testing.T) {
	pool := NewPool(2, 10, zap.NewNop())
	pool.Start()
	defer pool.Stop()

	var results sync.Map
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		jobID := i

		job := Job{
			SearchID: jobID,
			Keyword:  "test",
			Handler: func() error {
				defer wg.Done()
				results.Store(jobID, true)
				return nil
			},
		}

		if err := pool.Submit(job); err != nil {
			t.Errorf("Failed to submit job %d: %v", jobID, err)
		}
	}

	wg.Wait()

	for i := 0; i < 5; i++ {
		if _, ok := results.Load(i); !ok {
			t.Errorf("Job %d was not processed", i)
		}
	}
}

func TestPoolWithErrors(t *testing.T) {
	pool := NewPool(1, 5, zap.NewNop())
	pool.Start()

	var wg sync.WaitGroup
	wg.Add(1)

	job := Job{
		SearchID: 1,
		Keyword:  "failing",
		Handler: func() error {
			defer wg.Done()
			return errors.New("fetch failed")
		},
	}

	if err := pool.Submit(job); err != nil {
		t.Fatalf("Failed to submit job: %v", err)
	}

	wg.Wait()
	pool.Stop()

	metrics := pool.GetMetrics()
	if metrics.ProcessedJobs() != 1 {
		t.Errorf("Expected 1 processed job, got %d", metrics.ProcessedJobs())
	}
	if metrics.FailedJobs() != 1 {
		t.Errorf("Expected 1 failed job, got %d", metrics.FailedJobs())
	}
}

func TestPoolSubmitAfterStop(t *testing.T) {
	pool := NewPool(1, 1, zap.NewNop())
	pool.Start()
	pool.Stop()

	err := pool.Submit(Job{SearchID: 1, Handler: func() error { return nil }})
	if err == nil {
		t.Error("Submit after Stop should fail")
	}
}
