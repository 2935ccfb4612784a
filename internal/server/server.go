package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ian8500/Plane-Spotter/internal/service"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	logger     *logrus.Logger
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	RequestTimeout time.Duration
}

// NewServer creates the HTTP server and wires the feed routes.
func NewServer(cfg Config, pipeline *service.Pipeline, logger *logrus.Logger) *Server {
	h := &handlers{
		pipeline:       pipeline,
		logger:         logger,
		requestTimeout: cfg.RequestTimeout,
	}

	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(accessLogMiddleware(logger))

	router.HandleFunc("/api/adsb", h.handleFeed).Methods("GET")
	router.HandleFunc("/health", h.handleHealth).Methods("GET")

	// The write timeout must outlast the pipeline deadline or slow
	// enrichment requests get cut off mid-response.
	writeTimeout := 10 * time.Second
	if cfg.RequestTimeout > 0 {
		writeTimeout = cfg.RequestTimeout + 5*time.Second
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: writeTimeout,
			IdleTimeout:  15 * time.Second,
		},
		logger: logger,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Infof("Starting server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
