package charts

import (
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"pizza-dashboard/internal/models"
	"pizza-dashboard/internal/services"
	"pizza-dashboard/internal/views"
)

const topThreeMaxWidth = 400.0

var sidePanelTemplate = template.Must(template.New("sidePanel").Parse(`
<aside id="side-panel" class="{{.Class}}">
{{if .Placeholder}}{{.Placeholder}}{{else}}
<ul class="legend">
{{range .Legend}}<li><span class="swatch" style="{{.Style}}"></span>{{.Name}}</li>
{{end}}</ul>
<figure id="bar-chart" class="chart">{{.Bar}}</figure>
<figure id="timeline-chart" class="chart">{{.Timeline}}</figure>
{{end}}</aside>`))

var topThreeTemplate = template.Must(template.New("topThree").Parse(`
<div id="top-three" class="card-back">
<h3>Top pizzas on {{.Day}}</h3>
{{if .Placeholder}}{{.Placeholder}}{{else}}
{{range .Rows}}<div class="top-row" title="{{.Title}}">
<span class="top-name">{{.Name}}</span>
<span class="top-bar" style="{{.Style}}"></span>
<span class="top-total">{{.Total}}</span>
</div>
{{end}}{{end}}</div>`))

var summaryTemplate = template.Must(template.New("summary").Parse(`
<div id="summary" class="summary">
{{if .Placeholder}}{{.Placeholder}}{{else}}<ol>
{{range .Picks}}<li class="band-{{.Band}}">{{.Message}} <small>{{printf "%.2f" .Percentage}}% of all pizzas sold</small></li>
{{end}}</ol>{{end}}
</div>`))

var rankingTemplate = template.Must(template.New("ranking").Parse(`
<table id="ranking" class="modern-table">
<thead><tr><th>#</th><th>Pizza</th><th>Category</th><th>Sold</th><th>Share</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.Rank}}</td>
<td>{{.Name}}</td>
<td><span class="category-badge">{{.Category}}</span></td>
<td><strong>{{.Total}}</strong></td>
<td>{{printf "%.1f" .Percentage}}%</td>
</tr>{{end}}
</tbody>
</table>`))

type legendItem struct {
	Name  string
	Style template.CSS
}

// SidePanel renders the bar chart, timeline and legend for view, or its
// placeholder. A chart that fails to draw is replaced by a placeholder and
// logged.
func SidePanel(view views.View, palette Palette, logger *slog.Logger) (string, error) {
	data := struct {
		Class       string
		Placeholder template.HTML
		Legend      []legendItem
		Bar         template.HTML
		Timeline    template.HTML
	}{Class: view.PanelClass}

	if !view.Visible {
		data.Placeholder = Placeholder(view.Placeholder)
	} else {
		for _, entry := range view.Legend {
			data.Legend = append(data.Legend, legendItem{
				Name:  entry.Name,
				Style: template.CSS("background:" + palette.Color(entry.Category)),
			})
		}

		var err error
		if data.Bar, err = Bar(view.Bars, palette); err != nil {
			logger.Warn("bar chart render failed", "error", err)
			data.Bar = Placeholder("Bar chart unavailable")
		}
		if data.Timeline, err = Timeline(view.Timeline, palette); err != nil {
			logger.Warn("timeline render failed", "error", err)
			data.Timeline = Placeholder("No dated sales for this selection")
		}
	}

	html, err := execute(sidePanelTemplate, data)
	return string(html), err
}

type topRow struct {
	Name  string
	Title string
	Total int
	Style template.CSS
}

// TopThree renders horizontal bars scaled to the day's best seller.
func TopThree(top views.TopThree, palette Palette) (string, error) {
	data := struct {
		Day         string
		Placeholder template.HTML
		Rows        []topRow
	}{Day: top.Day}

	if len(top.Items) == 0 {
		data.Placeholder = Placeholder(top.Placeholder)
	}

	maxTotal := 0
	for _, item := range top.Items {
		maxTotal = max(maxTotal, item.Total)
	}
	for _, item := range top.Items {
		width := 0.0
		if maxTotal > 0 {
			width = float64(item.Total) / float64(maxTotal) * topThreeMaxWidth
		}
		data.Rows = append(data.Rows, topRow{
			Name:  item.Name,
			Title: fmt.Sprintf("%s (%s): %d sold", item.Name, item.Category, item.Total),
			Total: item.Total,
			Style: template.CSS(fmt.Sprintf("width:%.0fpx;background:%s", width, palette.Color(item.Category))),
		})
	}

	html, err := execute(topThreeTemplate, data)
	return string(html), err
}

// Summary renders the rank band message of every pick.
func Summary(summary views.Summary) (string, error) {
	data := struct {
		Placeholder template.HTML
		Picks       []services.PickSummary
	}{Picks: summary.Picks}
	if len(summary.Picks) == 0 {
		data.Placeholder = Placeholder(summary.Placeholder)
	}

	html, err := execute(summaryTemplate, data)
	return string(html), err
}

// SeasonPanel wraps the season chart in its reserved element.
func SeasonPanel(mix []services.Group[time.Month, string], palette Palette, logger *slog.Logger) string {
	svg, err := Season(mix, palette)
	if err != nil {
		logger.Warn("season chart render failed", "error", err)
		svg = Placeholder("No dated sales in the dataset")
	}
	return fmt.Sprintf(`<figure id="%s" class="chart">%s</figure>`, IDSeason, svg)
}

func Ranking(ranking []models.PizzaRank) (string, error) {
	html, err := execute(rankingTemplate, ranking)
	return string(html), err
}
