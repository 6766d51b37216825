// Package health exposes the health check HTTP server.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"vintedwatch/internal/service"

	"go.uber.org/zap"
)

// Pinger checks that the database connection is alive.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatsProvider exposes the watcher counters for the /stats endpoint.
type StatsProvider interface {
	Snapshot() service.Snapshot
}

// Server answers health, readiness and liveness probes, plus a small
// stats endpoint.
type Server struct {
	server *http.Server
	db     Pinger
	stats  StatsProvider
	logger *zap.Logger
}

// NewServer creates the health check server.
func NewServer(port string, db Pinger, stats StatsProvider, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	healthServer := &Server{
		server: &http.Server{
			Addr:    ":" + port,
			Handler: mux,
		},
		db:     db,
		stats:  stats,
		logger: logger,
	}

	mux.HandleFunc("/health", healthServer.healthHandler)
	mux.HandleFunc("/ready", healthServer.readyHandler)
	mux.HandleFunc("/live", healthServer.liveHandler)
	mux.HandleFunc("/stats", healthServer.statsHandler)

	return healthServer
}

// Start runs the server. It blocks until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("Starting health check server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("Stopping health check server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK

	if err := s.checkDatabase(r.Context()); err != nil {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
		s.logger.Error("Health check failed", zap.Error(err))
	}

	writeStatus(w, code, status)
}

func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	code := http.StatusOK

	if err := s.checkDatabase(r.Context()); err != nil {
		status = "not ready"
		code = http.StatusServiceUnavailable
		s.logger.Error("Readiness check failed", zap.Error(err))
	}

	writeStatus(w, code, status)
}

func (s *Server) liveHandler(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, "alive")
}

func (s *Server) statsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(s.stats.Snapshot()); err != nil {
		s.logger.Error("Failed to encode stats", zap.Error(err))
	}
}

func (s *Server) checkDatabase(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := s.db.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"status":"%s","timestamp":"%s"}`, status, time.Now().Format(time.RFC3339))
}
