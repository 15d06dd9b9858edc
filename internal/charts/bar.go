package charts

import (
	"errors"
	"html/template"

	"github.com/wcharczuk/go-chart/v2"

	"pizza-dashboard/internal/views"
)

const (
	barChartWidth  = 480
	barChartHeight = 300
	barMaxWidth    = 60
	barMinWidth    = 10
)

var errNoBars = errors.New("no bars to draw")

// Bar draws one bar per selected entity, colored by its category.
func Bar(bars []views.Bar, palette Palette) (template.HTML, error) {
	if len(bars) == 0 {
		return "", errNoBars
	}

	values := make([]chart.Value, len(bars))
	maxTotal := 0
	for i, b := range bars {
		color := palette.drawingColor(b.Category)
		values[i] = chart.Value{
			Label: b.Name,
			Value: float64(b.Total),
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
		maxTotal = max(maxTotal, b.Total)
	}

	bc := chart.BarChart{
		Width:    barChartWidth,
		Height:   barChartHeight,
		BarWidth: barWidth(len(bars)),
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 10, Right: 10, Bottom: 10},
		},
		XAxis: axisStyle(),
		YAxis: chart.YAxis{
			Style: axisStyle(),
			Range: &chart.ContinuousRange{Min: 0, Max: yTop(float64(maxTotal))},
		},
		Bars: values,
	}
	return renderSVG(bc)
}

func barWidth(n int) int {
	w := (barChartWidth - 80) / (2 * n)
	return min(barMaxWidth, max(barMinWidth, w))
}

// yTop leaves headroom above the tallest bar and never collapses to zero.
func yTop(maxValue float64) float64 {
	return max(maxValue*1.1, 1)
}
