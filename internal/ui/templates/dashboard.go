// Package templates holds the page shell. Panels arrive pre-rendered from
// the charts package and are replaced in place over SSE.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// DashboardData carries the initial HTML of every panel.
type DashboardData struct {
	Title     string
	Palette   string
	Pack      string
	SidePanel string
	Season    string
	Ranking   string
	Status    string
}

func Dashboard(data DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := head(data.Title).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<body class="palette-`+templ.EscapeString(data.Palette)+`">
<header class="dashboard-header"><h1>`+templ.EscapeString(data.Title)+`</h1>
<div class="actions">
<button type="button" class="btn" data-on:click="@post('/sse/reset')">Reset</button>
<button type="button" class="btn btn-primary" data-on:click="@post('/sse/complete')">Complete selection</button>
<button type="button" class="btn" data-on:click="@get('/sse/refresh-all')">Refresh</button>
</div></header>
<main class="dashboard">
<section class="selector">
`+data.Status+`
`+data.Pack+`
</section>
`+data.SidePanel+`
<section class="flip-card" data-signals="{flipped: false}" data-class:is-flipped="$flipped">
<button type="button" class="card-front" data-on:click="$flipped = true; @get('/sse/top-today')">Today's top 3</button>
<div class="card-back-wrap" data-on:click="$flipped = false"><div id="top-three" class="card-back"></div></div>
</section>
<section class="season"><h2>Sales by month and category</h2>
`+data.Season+`
</section>
<section class="ranking-list"><h2>Every pizza, best seller first</h2>
`+data.Ranking+`
</section>
<section id="summary" class="summary"></section>
</main>
</body></html>`)
		return err
	})
}

// Unavailable is shown when the sales data failed to load.
func Unavailable(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := head(title).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<body><main class="dashboard unavailable">
<h1>`+templ.EscapeString(title)+`</h1>
<p class="placeholder">Data unavailable</p>
</main></body></html>`)
		return err
	})
}

func head(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en"><head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>`+templ.EscapeString(title)+`</title>
<script type="module" src="`+datastarScript+`"></script>
<style>`+styles+`</style>
</head>
`)
		return err
	})
}

const styles = `
body{font-family:system-ui,sans-serif;margin:0;color:#41403e;background:#faf8f5}
.dashboard-header{display:flex;justify-content:space-between;align-items:center;padding:1rem 2rem}
.dashboard{display:grid;grid-template-columns:1fr 520px;gap:1.5rem;padding:0 2rem 2rem}
.btn{border:1px solid #41403e;background:#fff;padding:.4rem .9rem;border-radius:4px;cursor:pointer}
.btn-primary{background:#41403e;color:#fff}
.pack{display:flex;flex-wrap:wrap;gap:1rem}
.pack-group{border:2px solid;border-radius:12px;padding:.5rem;max-width:320px}
.pack-category{display:block;font-weight:600;border:none;background:none;cursor:pointer}
.pack-circles{display:flex;flex-wrap:wrap;align-items:center;gap:4px}
.pack-circle{border-radius:50%;border:2px solid transparent;cursor:pointer;opacity:.8;padding:0;overflow:hidden}
.pack-circle span{font-size:9px;color:#fff}
.pack-circle.selected,.pack-category.selected{border-color:#41403e;opacity:1}
.side-panel{opacity:0;transform:translateX(20px);transition:all .3s ease}
.side-panel.is-visible{opacity:1;transform:none}
.legend{list-style:none;display:flex;gap:1rem;padding:0}
.swatch{display:inline-block;width:12px;height:12px;margin-right:4px;border-radius:2px}
.flip-card .card-back-wrap{display:none}
.flip-card.is-flipped .card-back-wrap{display:block}
.flip-card.is-flipped .card-front{display:none}
.top-row{display:flex;align-items:center;gap:.5rem;margin:.25rem 0}
.top-name{width:180px}
.top-bar{display:inline-block;height:16px;border-radius:3px}
.placeholder{color:#888;font-style:italic}
.status.is-throttled{color:#ba0707}
.modern-table{border-collapse:collapse;width:100%}
.modern-table td,.modern-table th{padding:.3rem .6rem;border-bottom:1px solid #eee;text-align:left}
.band-top10{color:#024702}.band-respectable{color:#0b159c}.band-rare_gem{color:#db0469}
`
