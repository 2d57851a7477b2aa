package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bobmcallan/coinfolio/internal/common"
	"github.com/bobmcallan/coinfolio/internal/interfaces"
)

// Server hosts the REST API for portfolios, transactions, holdings and
// valuation history.
type Server struct {
	config     *common.Config
	logger     *common.Logger
	storage    interfaces.StorageManager
	holdings   interfaces.HoldingsService
	history    interfaces.HistoryService
	httpServer *http.Server
}

// NewServer creates a server with its routes and middleware wired up.
func NewServer(
	config *common.Config,
	logger *common.Logger,
	storage interfaces.StorageManager,
	holdings interfaces.HoldingsService,
	history interfaces.HistoryService,
) *Server {
	s := &Server{
		config:   config,
		logger:   logger,
		storage:  storage,
		holdings: holdings,
		history:  history,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	var handler http.Handler = mux
	handler = s.authMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	handler = s.corsMiddleware(handler)
	handler = s.correlationIDMiddleware(handler)
	handler = s.recoveryMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start begins serving HTTP requests. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("Starting HTTP server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the fully wired root handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
