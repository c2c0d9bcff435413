// Package api exposes the summarization pipeline and history store over
// HTTP.
package api

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"digestly/history"
	"digestly/summary"
)

// Server represents the API server
type Server struct {
	orchestrator *summary.Orchestrator
	history      *history.Store
	defaults     summary.Settings
	inflight     summary.Inflight
	port         int
	logger       *zap.Logger
}

// NewServer creates a new API server
func NewServer(orchestrator *summary.Orchestrator, store *history.Store, defaults summary.Settings, port int, logger *zap.Logger) *Server {
	return &Server{
		orchestrator: orchestrator,
		history:      store,
		defaults:     defaults,
		port:         port,
		logger:       logger,
	}
}

// Start starts the API server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/summarize", s.SummarizeHandler)
	mux.HandleFunc("/api/history", s.HistoryHandler)
	mux.HandleFunc("/api/history/", s.HistoryHandler)
	mux.HandleFunc("/api/history/search", s.SearchHandler)
	mux.HandleFunc("/api/providers", s.ProvidersHandler)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	s.logger.Info("starting API server", zap.Int("port", s.port))
	return http.ListenAndServe(fmt.Sprintf(":%d", s.port), mux)
}
