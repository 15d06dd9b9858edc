package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"pizza-dashboard/internal/charts"
	"pizza-dashboard/internal/errors"
	"pizza-dashboard/internal/observability"
	"pizza-dashboard/internal/selection"
	"pizza-dashboard/internal/services"
	"pizza-dashboard/internal/views"
)

const (
	statusIdle      = "Click a pizza or a category to explore its sales."
	statusThrottled = "Too many clicks, slow down a little."
	statusRefused   = "Click ignored: reset the current selection to switch between pizzas and categories, or stay within the selection limit."
)

type SSEHandlers struct {
	dataset *services.Dataset
	sync    *views.Synchronizer
	palette charts.Palette
	logger  *slog.Logger
	now     func() time.Time
}

func NewSSEHandlers(dataset *services.Dataset, sync *views.Synchronizer, palette charts.Palette, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dataset: dataset,
		sync:    sync,
		palette: palette,
		logger:  logger,
		now:     time.Now,
	}
}

// panels is one rendered redraw of the selection-dependent fragments.
type panels struct {
	snap      selection.Snapshot
	pack      string
	sidePanel string
	status    string
}

func (h *SSEHandlers) renderPanels(r *http.Request, snap selection.Snapshot, status string, throttled bool) (panels, error) {
	logger := observability.ContextLogger(r.Context(), h.logger)
	view := h.sync.OnSelectionChanged(r.Context(), snap)

	p := panels{snap: snap}
	var err error
	if p.pack, err = charts.Pack(h.sync.Hierarchy(), snap, h.palette); err != nil {
		return p, fmt.Errorf("render pack: %w", err)
	}
	if p.sidePanel, err = charts.SidePanel(view, h.palette, logger); err != nil {
		return p, fmt.Errorf("render side panel: %w", err)
	}
	if p.status, err = charts.Status(status, throttled); err != nil {
		return p, fmt.Errorf("render status: %w", err)
	}
	return p, nil
}

func (h *SSEHandlers) sendPanels(sse *datastar.ServerSentEventGenerator, p panels) error {
	for _, fragment := range []string{p.pack, p.sidePanel, p.status} {
		if err := sse.PatchElements(fragment); err != nil {
			return err
		}
	}

	signals, err := json.Marshal(map[string]any{
		"mode":     p.snap.Mode,
		"selected": p.snap.Names,
	})
	if err != nil {
		return err
	}
	return sse.PatchSignals(signals)
}

// HandleToggle applies one pizza or category click and redraws the
// selection-dependent panels.
func (h *SSEHandlers) HandleToggle(w http.ResponseWriter, r *http.Request) {
	if !requireData(w, r, h.dataset, h.logger) {
		return
	}
	sess, ok := requireSession(w, r, h.logger)
	if !ok {
		return
	}

	requestID := observability.GetRequestID(r.Context())
	kind, ok := selection.ParseKind(r.URL.Query().Get("kind"))
	if !ok {
		errors.WriteError(w, h.logger, errors.BadRequest("kind must be pizza or category"), requestID)
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		errors.WriteError(w, h.logger, errors.BadRequest("name is required"), requestID)
		return
	}
	click := selection.Click{Kind: kind, Name: name}

	throttled := !sess.AllowClick()

	var p panels
	var err error
	sess.Update(func(state *selection.State) {
		var status string
		switch {
		case throttled:
			status = statusThrottled
		case !state.Toggle(click):
			status = statusRefused
		default:
			status = statusText(state.Snapshot())
		}
		p, err = h.renderPanels(r, state.Snapshot(), status, throttled)
	})
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to render dashboard"), requestID)
		return
	}

	observability.ContextLogger(r.Context(), h.logger).Debug("selection toggled",
		"kind", click.Kind,
		"name", click.Name,
		"mode", p.snap.Mode,
		"selected", len(p.snap.Names),
		"throttled", throttled,
	)

	sse := datastar.NewSSE(w, r)
	if err := h.sendPanels(sse, p); err != nil {
		h.logger.Error("send panels", "error", err, "request_id", requestID)
	}
}

// HandleReset clears the selection and hides the side panel.
func (h *SSEHandlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	if !requireData(w, r, h.dataset, h.logger) {
		return
	}
	sess, ok := requireSession(w, r, h.logger)
	if !ok {
		return
	}

	var p panels
	var err error
	sess.Update(func(state *selection.State) {
		state.Clear()
		p, err = h.renderPanels(r, state.Snapshot(), statusIdle, false)
	})
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to render dashboard"), observability.GetRequestID(r.Context()))
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := h.sendPanels(sse, p); err != nil {
		h.logger.Error("send panels", "error", err)
	}
}

// HandleComplete rates every picked pizza against the full ranking.
func (h *SSEHandlers) HandleComplete(w http.ResponseWriter, r *http.Request) {
	if !requireData(w, r, h.dataset, h.logger) {
		return
	}
	sess, ok := requireSession(w, r, h.logger)
	if !ok {
		return
	}

	html, err := charts.Summary(h.sync.Summarize(sess.Snapshot()))
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to render summary"), observability.GetRequestID(r.Context()))
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElements(html); err != nil {
		h.logger.Error("send summary", "error", err)
	}
}

// HandleTopToday fills the back of the flip card.
func (h *SSEHandlers) HandleTopToday(w http.ResponseWriter, r *http.Request) {
	if !requireData(w, r, h.dataset, h.logger) {
		return
	}

	html, err := charts.TopThree(h.sync.TopToday(h.now()), h.palette)
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to render top three"), observability.GetRequestID(r.Context()))
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElements(html); err != nil {
		h.logger.Error("send top three", "error", err)
	}
}

// HandleRefreshAll re-sends every panel for the caller's selection.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	if !requireData(w, r, h.dataset, h.logger) {
		return
	}
	sess, ok := requireSession(w, r, h.logger)
	if !ok {
		return
	}
	requestID := observability.GetRequestID(r.Context())

	var p panels
	var err error
	sess.Update(func(state *selection.State) {
		snap := state.Snapshot()
		p, err = h.renderPanels(r, snap, statusText(snap), false)
	})
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to render dashboard"), requestID)
		return
	}

	ranking, err := charts.Ranking(h.sync.Ranking())
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to render ranking"), requestID)
		return
	}
	season := charts.SeasonPanel(h.sync.Season(), h.palette, h.logger)

	sse := datastar.NewSSE(w, r)
	if err := h.sendPanels(sse, p); err != nil {
		h.logger.Error("send panels", "error", err, "request_id", requestID)
		return
	}
	for _, fragment := range []string{season, ranking} {
		if err := sse.PatchElements(fragment); err != nil {
			h.logger.Error("send fragment", "error", err, "request_id", requestID)
			return
		}
	}
}

func statusText(snap selection.Snapshot) string {
	if !snap.IsAnySelected() {
		return statusIdle
	}
	label := "pizzas"
	if snap.Mode == selection.ModeCategory {
		label = "categories"
	}
	return fmt.Sprintf("Selected %s: %s", label, strings.Join(snap.Names, ", "))
}
