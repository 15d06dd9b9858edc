package charts

import (
	"errors"
	"html/template"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"pizza-dashboard/internal/services"
)

const (
	seasonWidth    = 640
	seasonHeight   = 260
	seasonBarWidth = 30
)

var errNoSeason = errors.New("no dated sales to draw")

// Season stacks each calendar month's units by category.
func Season(mix []services.Group[time.Month, string], palette Palette) (template.HTML, error) {
	bars := make([]chart.StackedBar, 0, len(mix))
	for _, month := range mix {
		if month.Sum == 0 {
			continue
		}
		values := make([]chart.Value, len(month.Items))
		for i, item := range month.Items {
			color := palette.drawingColor(item.Key)
			values[i] = chart.Value{
				Label: item.Key,
				Value: float64(item.Sum),
				Style: chart.Style{FillColor: color, StrokeColor: color},
			}
		}
		bars = append(bars, chart.StackedBar{
			Name:   month.Key.String()[:3],
			Width:  seasonBarWidth,
			Values: values,
		})
	}
	if len(bars) == 0 {
		return "", errNoSeason
	}

	sbc := chart.StackedBarChart{
		Width:  seasonWidth,
		Height: seasonHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: axisStyle(),
		YAxis: axisStyle(),
		Bars:  bars,
	}
	return renderSVG(sbc)
}
