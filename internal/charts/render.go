package charts

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
)

// Element IDs the page shell reserves for each fragment.
const (
	IDPack      = "pack"
	IDSidePanel = "side-panel"
	IDTopThree  = "top-three"
	IDSeason    = "season-chart"
	IDSummary   = "summary"
	IDRanking   = "ranking"
	IDStatus    = "status"
)

var placeholderTemplate = template.Must(template.New("placeholder").Parse(
	`<p class="placeholder">{{.}}</p>`))

var statusTemplate = template.Must(template.New("status").Parse(
	`<div id="status" class="status{{if .Throttled}} is-throttled{{end}}">{{.Text}}</div>`))

// Placeholder renders an explicit empty state.
func Placeholder(text string) template.HTML {
	html, err := execute(placeholderTemplate, text)
	if err != nil {
		return ""
	}
	return html
}

// Status renders the one-line status bar under the selector.
func Status(text string, throttled bool) (string, error) {
	html, err := execute(statusTemplate, struct {
		Text      string
		Throttled bool
	}{text, throttled})
	return string(html), err
}

func execute(tmpl *template.Template, data any) (template.HTML, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(strings.TrimSpace(buf.String())), nil
}

type svgRenderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func renderSVG(c svgRenderable) (template.HTML, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.SVG, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func axisStyle() chart.Style {
	return chart.Style{
		StrokeColor: hexColor(inkColor),
		FontColor:   hexColor(inkColor),
		FontSize:    9,
	}
}
