package templates

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><link rel="stylesheet" href="/static/style.css"></head><body>`)
		h.raw(`<header><h1><a href="/">Column Type Classifier</a></h1><nav><a href="/history">History</a></nav></header><main>`)
		h.render(body, ctx)
		h.raw(`</main><script src="/static/app.js" defer></script></body></html>`)
		return h.err
	})
}

// Index is the upload page.
func Index(page IndexPage) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section id="upload-section"><h2>Upload a dataset</h2>`)
		h.raw(`<form id="upload-form" action="/upload" method="post" enctype="multipart/form-data">`)
		h.raw(`<label for="file-upload" id="file-name">Choose a file</label>`)
		h.raw(`<input type="file" id="file-upload" name="file"`)
		h.attr("accept", strings.Join(page.Extensions, ","))
		h.raw(`><button type="submit" id="upload-btn" disabled>Classify</button></form>`)
		h.raw(`<p class="hint">Supported: `)
		h.text(strings.Join(page.Extensions, ", "))
		h.raw(`. Maximum size `)
		h.text(page.MaxFileSize)
		h.raw(`.</p><div id="upload-status" role="status"></div></section>`)
		h.raw(`<section id="result-section" class="hidden"></section>`)
		if len(page.Recent) > 0 {
			h.raw(`<section id="recent"><h2>Recent runs</h2>`)
			h.render(RunTable(page.Recent), ctx)
			h.raw(`</section>`)
		}
		return h.err
	})
	return Layout("Column Type Classifier", body)
}

// Results is the fragment returned to HTMX uploads and built by app.js
// for JSON uploads.
func Results(v ResultView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<div class="results"`)
		if v.RunID != "" {
			h.attr("data-run-id", v.RunID)
		}
		h.raw(`><p class="success">`)
		h.text(v.Message)
		h.raw(`: `)
		h.text(v.FileName)
		h.raw(` (`)
		h.text(strconv.Itoa(v.Rows))
		h.raw(` rows)</p><ul id="columns-list">`)
		for _, c := range v.Columns {
			h.raw(`<li class="column-item"`)
			h.attr("id", "col-"+c.Slug)
			h.raw(`><span class="column-name">`)
			h.text(c.Name)
			h.raw(`</span><span`)
			h.attr("class", "column-type type-"+c.Code)
			if c.DateFormat != "" {
				h.attr("title", c.DateFormat)
			}
			h.raw(`>`)
			h.text(c.Label)
			h.raw(`</span></li>`)
		}
		h.raw(`</ul>`)

		if len(v.Preview) > 0 {
			h.raw(`<table class="preview"><thead><tr>`)
			for _, c := range v.Columns {
				h.raw(`<th`)
				h.attr("class", "type-"+c.Code)
				h.raw(`>`)
				h.text(c.Name)
				h.raw(`</th>`)
			}
			h.raw(`</tr></thead><tbody>`)
			for _, row := range v.Preview {
				h.raw(`<tr>`)
				for _, cell := range row {
					h.raw(`<td>`)
					h.text(cell)
					h.raw(`</td>`)
				}
				h.raw(`</tr>`)
			}
			h.raw(`</tbody></table>`)
			if v.Truncated {
				h.raw(`<p class="hint">Showing the first `)
				h.text(strconv.Itoa(len(v.Preview)))
				h.raw(` rows.</p>`)
			}
		}
		h.raw(`</div>`)
		return h.err
	})
}

// RunTable lists recorded runs.
func RunTable(runs []RunView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<table class="history"><thead><tr><th>When</th><th>File</th><th>Rows</th><th>Columns</th><th>Types</th></tr></thead><tbody>`)
		for _, r := range runs {
			h.raw(`<tr`)
			h.attr("data-run-id", r.ID)
			h.raw(`><td>`)
			h.text(r.CreatedAt.Format("2006-01-02 15:04:05"))
			h.raw(`</td><td><a`)
			h.attr("href", "/api/history/"+r.ID)
			h.raw(`>`)
			h.text(r.FileName)
			h.raw(`</a></td><td>`)
			h.text(strconv.Itoa(r.Rows))
			h.raw(`</td><td>`)
			h.text(strconv.Itoa(r.Columns))
			h.raw(`</td><td>`)
			h.text(r.Summary)
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
		return h.err
	})
}

// HistoryPage shows recent runs.
func HistoryPage(runs []RunView) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section><h2>Classification history</h2>`)
		if len(runs) == 0 {
			h.raw(`<p class="hint">No runs recorded yet.</p>`)
		} else {
			h.render(RunTable(runs), ctx)
		}
		h.raw(`</section>`)
		return h.err
	})
	return Layout("History", body)
}

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<div class="alert alert-error" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<p>`)
			h.text(action)
			h.raw(`</p>`)
		}
		h.raw(`<small>Code: `)
		h.text(code)
		h.raw(`</small></div>`)
		return h.err
	})
}
