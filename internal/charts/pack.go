package charts

import (
	"fmt"
	"html/template"
	"math"
	"net/url"

	"pizza-dashboard/internal/models"
	"pizza-dashboard/internal/selection"
)

const (
	maxCircleDiameter = 96.0
	minCircleDiameter = 14.0
)

var packTemplate = template.Must(template.New("pack").Parse(`
<div id="pack" class="pack pack-{{.Mode}}">
{{range .Groups}}<div class="pack-group" style="{{.Style}}">
<button type="button" class="pack-category{{if .Selected}} selected{{end}}" data-on:click="{{.Action}}" title="{{.Title}}">{{.Name}}</button>
<div class="pack-circles">
{{range .Circles}}<button type="button" class="pack-circle{{if .Selected}} selected{{end}}" style="{{.Style}}" data-on:click="{{.Action}}" title="{{.Title}}"><span>{{.Name}}</span></button>
{{end}}</div>
</div>
{{end}}</div>`))

type packCircle struct {
	Name     string
	Title    string
	Style    template.CSS
	Action   template.JS
	Selected bool
}

type packGroup struct {
	packCircle
	Circles []packCircle
}

// Pack renders the circle selector: one group per category, one circle per
// pizza with area proportional to units sold. Every circle posts its click.
func Pack(groups []models.CategoryGroup, snap selection.Snapshot, palette Palette) (string, error) {
	maxTotal := 0
	for _, g := range groups {
		for _, p := range g.Pizzas {
			maxTotal = max(maxTotal, p.Total)
		}
	}

	data := struct {
		Mode   selection.Mode
		Groups []packGroup
	}{Mode: snap.Mode}

	for _, g := range groups {
		color := palette.Color(g.Category)
		click := selection.CategoryClick(g.Category)
		group := packGroup{
			packCircle: packCircle{
				Name:     g.Category,
				Title:    fmt.Sprintf("%s: %d sold", g.Category, g.Total),
				Style:    template.CSS("border-color:" + color),
				Action:   ToggleAction(click),
				Selected: snap.Contains(click),
			},
		}
		for _, p := range g.Pizzas {
			click := selection.PizzaClick(p.Name)
			d := circleDiameter(p.Total, maxTotal)
			group.Circles = append(group.Circles, packCircle{
				Name:     p.Name,
				Title:    fmt.Sprintf("%s (%s): %d sold", p.Name, p.Category, p.Total),
				Style:    template.CSS(fmt.Sprintf("width:%.0fpx;height:%.0fpx;background:%s", d, d, color)),
				Action:   ToggleAction(click),
				Selected: snap.Contains(click),
			})
		}
		data.Groups = append(data.Groups, group)
	}

	html, err := execute(packTemplate, data)
	return string(html), err
}

func circleDiameter(total, maxTotal int) float64 {
	if maxTotal <= 0 || total <= 0 {
		return minCircleDiameter
	}
	return math.Max(minCircleDiameter, maxCircleDiameter*math.Sqrt(float64(total)/float64(maxTotal)))
}

// ToggleAction is the Datastar expression that posts c to the server.
func ToggleAction(c selection.Click) template.JS {
	q := url.Values{"kind": {string(c.Kind)}, "name": {c.Name}}
	return template.JS(fmt.Sprintf("@post('/sse/toggle?%s')", q.Encode()))
}
