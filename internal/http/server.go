package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/davidbz/hearth/internal/config"
	"github.com/davidbz/hearth/internal/http/middleware"
	"github.com/davidbz/hearth/internal/observability"
)

// Server represents the HTTP server.
type Server struct {
	config      config.ServerConfig
	handler     *Handler
	middlewares middleware.Middleware
	srv         *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(
	cfg *config.Config,
	handler *Handler,
	middlewares middleware.Middleware,
) *Server {
	return &Server{
		config:      cfg.Server,
		handler:     handler,
		middlewares: middlewares,
		srv:         nil,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Register routes. Method matching is left to the mux.
	mux.HandleFunc("POST /v1/responses", s.handler.HandleResponses)
	mux.HandleFunc("POST /v1/images/generations", s.handler.HandleImageGeneration)
	mux.HandleFunc("POST /v1/audio/speech", s.handler.HandleSpeech)
	mux.HandleFunc("POST /v1/audio/transcriptions", s.handler.HandleTranscription)
	mux.HandleFunc("POST /v1/files", s.handler.HandleFileUpload)
	mux.HandleFunc("GET /v1/files", s.handler.HandleFileList)
	mux.HandleFunc("DELETE /v1/files/{id}", s.handler.HandleFileDelete)
	mux.HandleFunc("POST /v1/vector_stores/{store}/documents", s.handler.HandleDocumentIndex)
	mux.HandleFunc("POST /v1/vector_stores/{store}/search", s.handler.HandleDocumentSearch)
	mux.HandleFunc("GET /health", s.handler.HandleHealth)

	// Apply middleware chain.
	handlerWithMiddleware := s.middlewares(mux)

	// Create server with timeouts.
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      handlerWithMiddleware,
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
	}

	ctx := context.Background()
	observability.FromContext(ctx).Info("starting HTTP server", observability.Int("port", s.config.Port))

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	observability.FromContext(ctx).Info("shutting down HTTP server")

	if s.srv == nil {
		return nil
	}

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
