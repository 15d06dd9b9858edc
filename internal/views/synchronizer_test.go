package views

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"pizza-dashboard/internal/config"
	"pizza-dashboard/internal/models"
	"pizza-dashboard/internal/selection"
	"pizza-dashboard/internal/services"
)

func month(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testRecords() []models.SalesRecord {
	return []models.SalesRecord{
		{Date: month(2015, 1, 1), Quantity: 1, PizzaName: "Hawaiian", Category: "Classic"},
		{Date: month(2015, 1, 9), Quantity: 2, PizzaName: "Thai Chicken", Category: "Chicken"},
		{Date: month(2015, 2, 3), Quantity: 1, PizzaName: "Hawaiian", Category: "Classic"},
		{Date: month(2015, 2, 14), Quantity: 3, PizzaName: "Five Cheese", Category: "Veggie"},
		{Quantity: 4, PizzaName: "Hawaiian", Category: "Classic"},
		{Date: month(2015, 3, 30), Quantity: 2, PizzaName: "Pepperoni", Category: "Classic"},
	}
}

func newTestSynchronizer(yDomain string) *Synchronizer {
	cfg := config.ViewConfig{TimelineYDomain: yDomain, TimelineYMax: 110, Palette: "deep"}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewSynchronizer(testRecords(), cfg, logger)
}

func snapshot(mode selection.Mode, names ...string) selection.Snapshot {
	return selection.Snapshot{Mode: mode, Names: names}
}

func TestOnSelectionChanged_NothingSelected(t *testing.T) {
	s := newTestSynchronizer(config.YDomainDynamic)

	view := s.OnSelectionChanged(context.Background(), snapshot(selection.ModeNone))

	if view.Visible {
		t.Error("view should be hidden")
	}
	if view.Placeholder != NoPizzasSelected {
		t.Errorf("Placeholder = %q, want %q", view.Placeholder, NoPizzasSelected)
	}
	if view.PanelClass != PanelHidden {
		t.Errorf("PanelClass = %q, want %q", view.PanelClass, PanelHidden)
	}
	if len(view.Bars) != 0 || !view.Timeline.Empty() {
		t.Error("hidden view should carry no chart data")
	}
}

func TestOnSelectionChanged_NoMatchingRecords(t *testing.T) {
	s := newTestSynchronizer(config.YDomainDynamic)

	view := s.OnSelectionChanged(context.Background(), snapshot(selection.ModeCategory, "Dessert"))

	if view.Visible || view.Placeholder != NoCategoriesSelected {
		t.Errorf("view = %+v, want hidden with %q", view, NoCategoriesSelected)
	}
}

func TestOnSelectionChanged_Pizzas(t *testing.T) {
	s := newTestSynchronizer(config.YDomainDynamic)

	view := s.OnSelectionChanged(context.Background(), snapshot(selection.ModePizza, "Pepperoni", "Hawaiian"))

	if !view.Visible || view.PanelClass != PanelVisible {
		t.Fatalf("view should be visible, got %+v", view)
	}

	wantBars := []Bar{
		{Name: "Hawaiian", Category: "Classic", Total: 6},
		{Name: "Pepperoni", Category: "Classic", Total: 2},
	}
	if diff := cmp.Diff(wantBars, view.Bars); diff != "" {
		t.Errorf("Bars mismatch (-want +got):\n%s", diff)
	}

	wantSeries := []Series{
		{Name: "Hawaiian", Category: "Classic", Points: []Point{
			{Month: month(2015, 1, 1), Total: 1},
			{Month: month(2015, 2, 1), Total: 1},
		}},
		{Name: "Pepperoni", Category: "Classic", Points: []Point{
			{Month: month(2015, 3, 1), Total: 2},
		}},
	}
	if diff := cmp.Diff(wantSeries, view.Timeline.Series); diff != "" {
		t.Errorf("Series mismatch (-want +got):\n%s", diff)
	}

	if !view.Timeline.Start.Equal(month(2015, 1, 1)) || !view.Timeline.End.Equal(month(2015, 3, 1)) {
		t.Errorf("x domain = %v..%v", view.Timeline.Start, view.Timeline.End)
	}
	if math.Abs(view.Timeline.YMax-2.2) > 1e-9 {
		t.Errorf("YMax = %v, want 2.2", view.Timeline.YMax)
	}

	wantLegend := []LegendEntry{{"Hawaiian", "Classic"}, {"Pepperoni", "Classic"}}
	if diff := cmp.Diff(wantLegend, view.Legend); diff != "" {
		t.Errorf("Legend mismatch (-want +got):\n%s", diff)
	}
}

func TestOnSelectionChanged_CategoryIncludesUndatedInBars(t *testing.T) {
	s := newTestSynchronizer(config.YDomainFixed)

	view := s.OnSelectionChanged(context.Background(), snapshot(selection.ModeCategory, "Classic"))

	if diff := cmp.Diff([]Bar{{Name: "Classic", Category: "Classic", Total: 8}}, view.Bars); diff != "" {
		t.Errorf("Bars mismatch (-want +got):\n%s", diff)
	}

	series := view.Timeline.Series
	if len(series) != 1 || len(series[0].Points) != 3 {
		t.Fatalf("Series = %+v", series)
	}
	sum := 0
	for _, p := range series[0].Points {
		sum += p.Total
	}
	if sum != 4 {
		t.Errorf("timeline total = %d, want 4 (undated record excluded)", sum)
	}
	if view.Timeline.YMax != 110 {
		t.Errorf("fixed YMax = %v, want 110", view.Timeline.YMax)
	}
}

func TestTopToday(t *testing.T) {
	s := newTestSynchronizer(config.YDomainDynamic)

	top := s.TopToday(time.Date(2024, 1, 9, 18, 0, 0, 0, time.UTC))
	want := []Bar{{Name: "Thai Chicken", Category: "Chicken", Total: 2}}
	if diff := cmp.Diff(want, top.Items); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
	if top.Day != "January 9" || top.Placeholder != "" {
		t.Errorf("top = %+v", top)
	}

	empty := s.TopToday(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC))
	if empty.Placeholder != NoDataToday || len(empty.Items) != 0 {
		t.Errorf("empty day = %+v", empty)
	}
}

func TestSummarize(t *testing.T) {
	s := newTestSynchronizer(config.YDomainDynamic)

	summary := s.Summarize(snapshot(selection.ModePizza, "Hawaiian"))
	if len(summary.Picks) != 1 {
		t.Fatalf("Picks = %+v", summary.Picks)
	}
	pick := summary.Picks[0]
	if pick.Rank != 1 || pick.OutOf != 4 || pick.Band != services.BandTopTen {
		t.Errorf("pick = %+v", pick)
	}

	if got := s.Summarize(snapshot(selection.ModeCategory, "Classic")); got.Placeholder != NoPicks {
		t.Errorf("category summary = %+v, want placeholder", got)
	}
	if got := s.Summarize(snapshot(selection.ModeNone)); got.Placeholder != NoPicks {
		t.Errorf("empty summary = %+v, want placeholder", got)
	}
}

func TestSeason(t *testing.T) {
	s := newTestSynchronizer(config.YDomainDynamic)

	want := []services.Group[time.Month, string]{
		{Key: time.January, Sum: 3, Items: []services.Total[string]{{Key: "Classic", Sum: 1}, {Key: "Chicken", Sum: 2}}},
		{Key: time.February, Sum: 4, Items: []services.Total[string]{{Key: "Classic", Sum: 1}, {Key: "Veggie", Sum: 3}}},
		{Key: time.March, Sum: 2, Items: []services.Total[string]{{Key: "Classic", Sum: 2}}},
	}
	if diff := cmp.Diff(want, s.Season()); diff != "" {
		t.Errorf("Season mismatch (-want +got):\n%s", diff)
	}
}
