package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"pizza-dashboard/internal/charts"
	"pizza-dashboard/internal/observability"
	"pizza-dashboard/internal/selection"
	"pizza-dashboard/internal/services"
	"pizza-dashboard/internal/ui/templates"
	"pizza-dashboard/internal/views"
)

const (
	renderTimeout = 10 * time.Second
	pageTitle     = "Pizza Sales Dashboard"
)

type PageHandlers struct {
	dataset *services.Dataset
	sync    *views.Synchronizer
	palette charts.Palette
	logger  *slog.Logger
}

func NewPageHandlers(dataset *services.Dataset, sync *views.Synchronizer, palette charts.Palette, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		dataset: dataset,
		sync:    sync,
		palette: palette,
		logger:  logger,
	}
}

// HandleDashboard renders the full page with every panel drawn for the
// caller's current selection.
func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	logger := observability.ContextLogger(ctx, h.logger)
	w.Header().Set("Cache-Control", "no-store")

	if !h.dataset.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		if err := templates.Unavailable(pageTitle).Render(ctx, w); err != nil {
			logger.Error("render unavailable page", "error", err)
		}
		return
	}

	sess, ok := requireSession(w, r, h.logger)
	if !ok {
		return
	}

	data, err := h.pageData(ctx, sess.Snapshot(), logger)
	if err != nil {
		logger.Error("render dashboard panels", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	if err := templates.Dashboard(data).Render(ctx, w); err != nil {
		logger.Error("render dashboard", "error", err)
	}
}

func (h *PageHandlers) pageData(ctx context.Context, snap selection.Snapshot, logger *slog.Logger) (templates.DashboardData, error) {
	data := templates.DashboardData{Title: pageTitle, Palette: h.palette.Name}

	var err error
	if data.Pack, err = charts.Pack(h.sync.Hierarchy(), snap, h.palette); err != nil {
		return data, err
	}
	if data.SidePanel, err = charts.SidePanel(h.sync.OnSelectionChanged(ctx, snap), h.palette, logger); err != nil {
		return data, err
	}
	if data.Ranking, err = charts.Ranking(h.sync.Ranking()); err != nil {
		return data, err
	}
	if data.Status, err = charts.Status(statusText(snap), false); err != nil {
		return data, err
	}
	data.Season = charts.SeasonPanel(h.sync.Season(), h.palette, logger)
	return data, nil
}
