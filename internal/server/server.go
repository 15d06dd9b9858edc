package server

import (
	"log/slog"
	"net/http"

	"pizza-dashboard/internal/charts"
	"pizza-dashboard/internal/handlers"
	"pizza-dashboard/internal/services"
	"pizza-dashboard/internal/session"
	"pizza-dashboard/internal/views"
)

type Server struct {
	dataset      *services.Dataset
	mux          *http.ServeMux
	logger       *slog.Logger
	pageHandlers *handlers.PageHandlers
	apiHandlers  *handlers.APIHandlers
	sseHandlers  *handlers.SSEHandlers
}

func NewServer(dataset *services.Dataset, sync *views.Synchronizer, sessions *session.Store, palette charts.Palette, logger *slog.Logger) *Server {
	s := &Server{
		dataset:      dataset,
		mux:          http.NewServeMux(),
		logger:       logger,
		pageHandlers: handlers.NewPageHandlers(dataset, sync, palette, logger),
		apiHandlers:  handlers.NewAPIHandlers(dataset, sync, sessions, logger),
		sseHandlers:  handlers.NewSSEHandlers(dataset, sync, palette, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", s.pageHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/pizzas", s.apiHandlers.HandlePizzas)
	s.mux.HandleFunc("GET /api/categories", s.apiHandlers.HandleCategories)
	s.mux.HandleFunc("GET /api/hierarchy", s.apiHandlers.HandleHierarchy)
	s.mux.HandleFunc("GET /api/top-today", s.apiHandlers.HandleTopToday)
	s.mux.HandleFunc("GET /api/selection", s.apiHandlers.HandleSelection)

	// Datastar SSE endpoints
	s.mux.HandleFunc("POST /sse/toggle", s.sseHandlers.HandleToggle)
	s.mux.HandleFunc("POST /sse/reset", s.sseHandlers.HandleReset)
	s.mux.HandleFunc("POST /sse/complete", s.sseHandlers.HandleComplete)
	s.mux.HandleFunc("GET /sse/top-today", s.sseHandlers.HandleTopToday)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
