package handlers

import (
	"bytes"
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"
)

// ReportPage wraps the grid fragment in the page chrome: the search box,
// date range, refresh button and export links.
func ReportPage(title string, grid templ.Component) templ.Component {
	return htmlComponent(func(ctx context.Context, g *gridWriter) {
		g.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title>`, templ.EscapeString(title))
		g.write(`<script src="https://unpkg.com/htmx.org@2.0.4"></script><link rel="stylesheet" href="/static/report.css"></head><body>`)
		g.printf(`<h1>%s</h1><div class="report-toolbar">`, templ.EscapeString(title))
		g.printf(`<input type="search" name="q" placeholder="Search bookings" hx-post="/reports/master/view" hx-vals='{"action":"search"}' hx-trigger="input changed delay:300ms" hx-target="#%s" hx-swap="outerHTML">`, GridTarget)
		g.printf(`<form hx-post="/reports/master/view" hx-target="#%s" hx-swap="outerHTML"><input type="hidden" name="action" value="date_range">`, GridTarget)
		g.write(`<input type="date" name="start"><input type="date" name="end"><button type="submit">Apply</button></form>`)
		g.printf(`<button hx-post="/reports/master/refresh" hx-target="#%s" hx-swap="outerHTML">Refresh</button>`, GridTarget)
		g.write(`<div class="report-export">`)
		for _, link := range []struct{ href, label string }{
			{"/reports/master/export/csv", "CSV"},
			{"/reports/master/export/xlsx", "Excel"},
			{"/reports/master/export/pdf", "PDF"},
			{"/reports/master/export/tsv", "Copy"},
		} {
			g.printf(`<a href="%s">%s</a>`, templ.EscapeString(templ.URL(link.href)), link.label)
		}
		g.write(`</div></div>`)
		g.render(ctx, grid)
		g.write(`</body></html>`)
	})
}

// HandleReportPage renders the full master report page.
func HandleReportPage(r *Report) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rc := GetReportContext(e.Request)
		snap := r.Rows.Ensure(rc.Organization)
		g := r.newGridRequest(e, snap, r.View(rc.Owner).Config())

		var buf bytes.Buffer
		if err := ReportPage(r.Config.Title, r.gridComponent(g)).Render(e.Request.Context(), &buf); err != nil {
			return err
		}
		return e.HTML(http.StatusOK, buf.String())
	}
}
