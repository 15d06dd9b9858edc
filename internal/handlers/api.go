package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"pizza-dashboard/internal/errors"
	"pizza-dashboard/internal/services"
	"pizza-dashboard/internal/session"
	"pizza-dashboard/internal/views"
)

type APIHandlers struct {
	dataset  *services.Dataset
	sync     *views.Synchronizer
	sessions *session.Store
	logger   *slog.Logger
	now      func() time.Time
}

func NewAPIHandlers(dataset *services.Dataset, sync *views.Synchronizer, sessions *session.Store, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dataset:  dataset,
		sync:     sync,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

func (h *APIHandlers) HandlePizzas(w http.ResponseWriter, r *http.Request) {
	if !requireData(w, r, h.dataset, h.logger) {
		return
	}

	errors.WriteSuccessWithHeaders(w, h.sync.Ranking(), map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if !requireData(w, r, h.dataset, h.logger) {
		return
	}

	errors.WriteSuccessWithHeaders(w, h.sync.CategoryTotals(), map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

func (h *APIHandlers) HandleHierarchy(w http.ResponseWriter, r *http.Request) {
	if !requireData(w, r, h.dataset, h.logger) {
		return
	}

	errors.WriteSuccessWithHeaders(w, h.sync.Hierarchy(), map[string]string{
		"Cache-Control": cacheMaxAge,
	})
}

func (h *APIHandlers) HandleTopToday(w http.ResponseWriter, r *http.Request) {
	if !requireData(w, r, h.dataset, h.logger) {
		return
	}

	errors.WriteSuccess(w, h.sync.TopToday(h.now()))
}

// HandleSelection returns the caller's current side-panel view.
func (h *APIHandlers) HandleSelection(w http.ResponseWriter, r *http.Request) {
	if !requireData(w, r, h.dataset, h.logger) {
		return
	}
	sess, ok := requireSession(w, r, h.logger)
	if !ok {
		return
	}

	errors.WriteSuccess(w, h.sync.OnSelectionChanged(r.Context(), sess.Snapshot()))
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if !h.dataset.Ready() {
		status = "degraded"
	}

	errors.WriteSuccess(w, map[string]any{
		"status":     status,
		"data_ready": h.dataset.Ready(),
		"timestamp":  time.Now().Format(time.RFC3339),
		"version":    "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.dataset.Stats()
	stats["sessions"] = h.sessions.Len()

	errors.WriteSuccess(w, stats)
}
