// Package charts renders dashboard datasets to HTML fragments. Axis and bar
// geometry come from go-chart as inline SVG.
package charts

import (
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	fallbackColor = "#cccccc"
	inkColor      = "#41403e"
)

// Palette maps a pizza category to its display color.
type Palette struct {
	Name   string
	colors map[string]string
}

var palettes = map[string]Palette{
	"bright": {Name: "bright", colors: map[string]string{
		"Veggie":  "#038c0c",
		"Chicken": "#3558e6",
		"Supreme": "#b437d4",
		"Classic": "#fa193e",
	}},
	"deep": {Name: "deep", colors: map[string]string{
		"Veggie":  "#024702",
		"Chicken": "#0b159c",
		"Supreme": "#db0469",
		"Classic": "#ba0707",
	}},
}

// PaletteByName returns the named palette, or deep for unknown names.
func PaletteByName(name string) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes["deep"]
}

// Color returns the hex color of category, or a neutral gray.
func (p Palette) Color(category string) string {
	if c, ok := p.colors[category]; ok {
		return c
	}
	return fallbackColor
}

func (p Palette) drawingColor(category string) drawing.Color {
	return hexColor(p.Color(category))
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
