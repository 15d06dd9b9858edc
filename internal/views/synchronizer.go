// Package views turns a selection snapshot into the datasets every dashboard
// panel draws from. It never mutates selection state.
package views

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"pizza-dashboard/internal/config"
	"pizza-dashboard/internal/models"
	"pizza-dashboard/internal/observability"
	"pizza-dashboard/internal/selection"
	"pizza-dashboard/internal/services"
)

const (
	PanelHidden  = "side-panel"
	PanelVisible = "side-panel is-visible is-expanded"

	NoPizzasSelected     = "No pizzas selected"
	NoCategoriesSelected = "No categories selected"
	NoDataToday          = "No data for today in the dataset."
	NoPicks              = "Pick at least one pizza first."

	dynamicHeadroom = 1.1
)

type Bar struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Total    int    `json:"total"`
}

type Point struct {
	Month time.Time `json:"month"`
	Total int       `json:"total"`
}

// Series is one timeline line, months ascending.
type Series struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Points   []Point `json:"points"`
}

// Timeline spans the first to the last month present in the filtered
// records. YMax is the top of the y-axis; the bottom is always 0.
type Timeline struct {
	Series []Series  `json:"series"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	YMax   float64   `json:"y_max"`
}

func (t Timeline) Empty() bool {
	return len(t.Series) == 0
}

// LegendEntry names one selected entity and the category that colors it.
type LegendEntry struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// View is everything the side panel needs after a selection change.
type View struct {
	Mode        selection.Mode `json:"mode"`
	Selected    []string       `json:"selected"`
	Visible     bool           `json:"visible"`
	Placeholder string         `json:"placeholder,omitempty"`
	PanelClass  string         `json:"panel_class"`
	Bars        []Bar          `json:"bars"`
	Timeline    Timeline       `json:"timeline"`
	Legend      []LegendEntry  `json:"legend"`
}

// TopThree backs the flip card. Placeholder is set when Items is empty.
type TopThree struct {
	Day         string `json:"day"`
	Items       []Bar  `json:"items"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Summary is the outcome of completing a selection.
type Summary struct {
	Picks       []services.PickSummary `json:"picks"`
	Placeholder string                 `json:"placeholder,omitempty"`
}

// Synchronizer precomputes the selection-independent aggregates once and
// derives per-selection views on demand. Safe for concurrent use.
type Synchronizer struct {
	records    []models.SalesRecord
	categories map[string]string
	ranking    []models.PizzaRank
	hierarchy  []models.CategoryGroup
	season     []services.Group[time.Month, string]
	yDomain    string
	yMax       float64
	logger     *slog.Logger
}

func NewSynchronizer(records []models.SalesRecord, cfg config.ViewConfig, logger *slog.Logger) *Synchronizer {
	dated := services.Filter(records, models.SalesRecord.HasDate)
	season := services.AggregateNested(dated, services.ByMonthOfYear, services.ByCategory)
	slices.SortFunc(season, func(a, b services.Group[time.Month, string]) int {
		return int(a.Key) - int(b.Key)
	})

	return &Synchronizer{
		records:    records,
		categories: services.PizzaCategories(records),
		ranking:    services.RankPizzas(records),
		hierarchy:  services.Hierarchy(records),
		season:     season,
		yDomain:    cfg.TimelineYDomain,
		yMax:       cfg.TimelineYMax,
		logger:     logger,
	}
}

// OnSelectionChanged derives the side-panel view for snap.
func (s *Synchronizer) OnSelectionChanged(ctx context.Context, snap selection.Snapshot) View {
	ctx, span := observability.StartSpan(ctx, "synchronize")
	defer span.FinishAndLog(ctx, s.logger)
	span.SetTag("mode", string(snap.Mode))
	span.SetTag("selected", strconv.Itoa(len(snap.Names)))

	if !snap.IsAnySelected() {
		return hidden(snap)
	}

	key := services.ByName(snap.Mode)
	filtered := services.Filter(s.records, func(r models.SalesRecord) bool {
		name, _ := key(r)
		return slices.Contains(snap.Names, name)
	})
	span.SetTag("records", strconv.Itoa(len(filtered)))
	if len(filtered) == 0 {
		return hidden(snap)
	}

	totals := services.Aggregate(filtered, key)
	bars := make([]Bar, len(totals))
	legend := make([]LegendEntry, len(totals))
	for i, t := range totals {
		category := s.categoryOf(snap.Mode, t.Key)
		bars[i] = Bar{Name: t.Key, Category: category, Total: t.Sum}
		legend[i] = LegendEntry{Name: t.Key, Category: category}
	}

	return View{
		Mode:       snap.Mode,
		Selected:   snap.Names,
		Visible:    true,
		PanelClass: PanelVisible,
		Bars:       bars,
		Timeline:   s.timeline(snap.Mode, filtered),
		Legend:     legend,
	}
}

func hidden(snap selection.Snapshot) View {
	placeholder := NoPizzasSelected
	if snap.Mode == selection.ModeCategory {
		placeholder = NoCategoriesSelected
	}
	return View{
		Mode:        snap.Mode,
		Selected:    snap.Names,
		Placeholder: placeholder,
		PanelClass:  PanelHidden,
	}
}

func (s *Synchronizer) timeline(mode selection.Mode, filtered []models.SalesRecord) Timeline {
	groups := services.AggregateNested(filtered, services.ByName(mode), services.ByMonth)

	var tl Timeline
	maxTotal := 0
	for _, g := range groups {
		points := make([]Point, len(g.Items))
		for i, item := range g.Items {
			points[i] = Point{Month: item.Key, Total: item.Sum}
			maxTotal = max(maxTotal, item.Sum)
			if tl.Start.IsZero() || item.Key.Before(tl.Start) {
				tl.Start = item.Key
			}
			if item.Key.After(tl.End) {
				tl.End = item.Key
			}
		}
		slices.SortFunc(points, func(a, b Point) int {
			return a.Month.Compare(b.Month)
		})
		tl.Series = append(tl.Series, Series{Name: g.Key, Category: s.categoryOf(mode, g.Key), Points: points})
	}

	tl.YMax = s.yMax
	if s.yDomain == config.YDomainDynamic {
		tl.YMax = max(float64(maxTotal)*dynamicHeadroom, 1)
	}
	return tl
}

func (s *Synchronizer) categoryOf(mode selection.Mode, name string) string {
	if mode == selection.ModeCategory {
		return name
	}
	return s.categories[name]
}

// TopToday reports the three best sellers on now's calendar day.
func (s *Synchronizer) TopToday(now time.Time) TopThree {
	top := TopThree{Day: now.Format("January 2")}
	for _, t := range services.TopToday(s.records, now) {
		top.Items = append(top.Items, Bar{Name: t.Key, Category: s.categories[t.Key], Total: t.Sum})
	}
	if len(top.Items) == 0 {
		top.Placeholder = NoDataToday
	}
	return top
}

// Summarize rates each picked pizza against the full ranking.
func (s *Synchronizer) Summarize(snap selection.Snapshot) Summary {
	if snap.Mode != selection.ModePizza || len(snap.Names) == 0 {
		return Summary{Placeholder: NoPicks}
	}
	picks := services.Summarize(s.ranking, snap.Names)
	if len(picks) == 0 {
		return Summary{Placeholder: NoPicks}
	}
	return Summary{Picks: picks}
}

func (s *Synchronizer) Ranking() []models.PizzaRank {
	return s.ranking
}

func (s *Synchronizer) Hierarchy() []models.CategoryGroup {
	return s.hierarchy
}

// Season is the per-calendar-month category mix, January first.
func (s *Synchronizer) Season() []services.Group[time.Month, string] {
	return s.season
}

func (s *Synchronizer) CategoryTotals() []models.CategoryTotal {
	return services.CategoryTotals(s.records)
}
