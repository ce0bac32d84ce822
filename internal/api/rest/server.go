package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/fortuna/pivotboard/internal/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// HealthChecker is anything the health endpoint can ping
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server represents the dashboard HTTP server
type Server struct {
	addr    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new dashboard server
func NewServer(addr string, dashboard *service.Dashboard, source HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := NewHandler(dashboard, source, logger)

	return &Server{
		addr:    addr,
		handler: handler,
		server: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(handler, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewRouter wires routes and middleware onto a fresh router
func NewRouter(handler *Handler, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggingMiddleware(logger))
	router.Use(CORSMiddleware)

	// Dashboard page
	router.HandleFunc("/", handler.Dashboard).Methods("GET")

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET", "OPTIONS")

	// API v1 routes; OPTIONS is matched so CORSMiddleware can answer preflight
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/categories", handler.GetCategories).Methods("GET", "OPTIONS")
	api.HandleFunc("/dashboard", handler.GetDashboard).Methods("GET", "OPTIONS")
	api.HandleFunc("/tables/{table}", handler.GetTable).Methods("GET", "OPTIONS")

	return router
}

// Handler returns the HTTP handler, for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
