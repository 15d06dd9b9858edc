package charts

import (
	"errors"
	"html/template"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"pizza-dashboard/internal/views"
)

const (
	timelineWidth  = 480
	timelineHeight = 300
)

var errNoSeries = errors.New("no timeline series to draw")

// Timeline draws one line per entity over its monthly totals.
func Timeline(tl views.Timeline, palette Palette) (template.HTML, error) {
	if tl.Empty() {
		return "", errNoSeries
	}

	series := make([]chart.Series, 0, len(tl.Series))
	for _, s := range tl.Series {
		xs := make([]time.Time, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i] = p.Month
			ys[i] = float64(p.Total)
		}
		color := palette.drawingColor(s.Category)
		series = append(series, chart.TimeSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    3,
			},
		})
	}

	start, end := tl.Start, tl.End
	if !start.Before(end) {
		start = start.AddDate(0, -1, 0)
		end = end.AddDate(0, 1, 0)
	}

	ch := chart.Chart{
		Width:  timelineWidth,
		Height: timelineHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Style:          axisStyle(),
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan"),
			Range:          &chart.ContinuousRange{Min: chart.TimeToFloat64(start), Max: chart.TimeToFloat64(end)},
			Ticks:          monthTicks(start, end),
		},
		YAxis: chart.YAxis{
			Style: axisStyle(),
			Range: &chart.ContinuousRange{Min: 0, Max: tl.YMax},
		},
		Series: series,
	}
	return renderSVG(ch)
}

// monthTicks labels every month from start to end inclusive. Spans over a
// year add the year to January.
func monthTicks(start, end time.Time) []chart.Tick {
	var ticks []chart.Tick
	multiYear := end.Year() != start.Year()
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		label := m.Format("Jan")
		if multiYear && m.Month() == time.January {
			label = m.Format("Jan 06")
		}
		ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(m), Label: label})
	}
	return ticks
}
