package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the registry and attempt log over HTTP.
//
//	GET /health           summary, 503 when any service is unhealthy
//	GET /health/attempts  attempt history per operation
//	GET /metrics          Prometheus metrics from the given gatherer
type Server struct {
	registry *Registry
	attempts *AttemptLog
	server   *http.Server
}

// NewServer creates a health server listening on addr.
func NewServer(addr string, registry *Registry, attempts *AttemptLog, gatherer prometheus.Gatherer) *Server {
	mux := http.NewServeMux()
	s := &Server{
		registry: registry,
		attempts: attempts,
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/attempts", s.handleAttempts)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return s
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until Stop is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type healthResponse struct {
	Status       string          `json:"status"`
	HealthyCount int             `json:"healthy_count"`
	TotalCount   int             `json:"total_count"`
	Services     map[string]bool `json:"services"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	summary := s.registry.Summary()

	status := "healthy"
	code := http.StatusOK
	if !summary.AllHealthy() {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(healthResponse{
		Status:       status,
		HealthyCount: summary.HealthyCount,
		TotalCount:   summary.TotalCount,
		Services:     summary.Services,
	})
}

func (s *Server) handleAttempts(w http.ResponseWriter, r *http.Request) {
	report := make(map[string]any)
	for _, op := range s.attempts.Operations() {
		report[op] = s.attempts.Attempts(op)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
