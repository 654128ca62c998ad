package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	templruntime "github.com/a-h/templ/runtime"

	"github.com/funinthesundocs/epictours-sub001/services"
)

// GridTarget is the element id the grid fragment replaces.
const GridTarget = "master-report"

// RowsTarget is the element id the scroll-driven rows fragment replaces.
// Only the table body is swapped so the scroll container keeps its offset.
const RowsTarget = "master-report-rows"

// GridData is everything the grid fragment draws.
type GridData struct {
	View      services.ReportView
	Config    services.ViewConfiguration
	Renderer  services.CellRenderer
	First     int
	End       int
	RowHeight float64
	Viewport  float64
	Loaded    bool
	Banner    string
}

// ReportGrid renders the header, the visible window of rows between two
// spacer rows standing in for the rest, and the totals row.
func ReportGrid(d GridData) templ.Component {
	return htmlComponent(func(ctx context.Context, g *gridWriter) {
		g.printf(`<div id="%s" class="report-grid" data-total-rows="%d" data-row-height="%s">`,
			GridTarget, len(d.View.Rows), formatPx(d.RowHeight))
		if d.Banner != "" {
			g.printf(`<div class="report-banner report-banner-error" role="alert">%s</div>`, templ.EscapeString(d.Banner))
		}
		if d.Loaded {
			g.printf(`<div class="report-scroll" style="max-height: %spx; overflow-y: auto"`, formatPx(d.Viewport))
			g.write(` hx-get="/reports/master/grid?part=rows" hx-trigger="scroll throttle:100ms"`)
			g.write(` hx-vals="js:{scroll: this.scrollTop, viewport: this.clientHeight}"`)
			g.printf(` hx-target="#%s" hx-swap="outerHTML" hx-sync="this:replace" hx-disinherit="*">`, RowsTarget)
			g.render(ctx, templ.Join(gridHeader(d), ReportGridRows(d), gridTotals(d)))
			g.write(`</div>`)
			g.printf(`<div class="report-status">Showing %d of %d bookings</div>`, len(d.View.Rows), d.View.SourceCount)
		}
		g.write(`</div>`)
	})
}

func gridHeader(d GridData) templ.Component {
	return htmlComponent(func(_ context.Context, g *gridWriter) {
		g.write(`<table class="report-table"><thead><tr>`)
		for _, c := range d.View.Columns {
			writeHeaderCell(g, c, d.Config)
		}
		g.write(`</tr></thead>`)
	})
}

// ReportGridRows renders the table body for the visible window. It is the
// whole response when the grid container scrolls.
func ReportGridRows(d GridData) templ.Component {
	return htmlComponent(func(_ context.Context, g *gridWriter) {
		g.printf(`<tbody id="%s" data-first="%d" data-end="%d">`, RowsTarget, d.First, d.End)
		cols := len(d.View.Columns)
		if d.First > 0 {
			writeSpacer(g, cols, float64(d.First)*d.RowHeight)
		}
		for _, row := range d.View.Rows[d.First:d.End] {
			writeBodyRow(g, row, d.View.Columns, d.Renderer)
		}
		if rest := len(d.View.Rows) - d.End; rest > 0 {
			writeSpacer(g, cols, float64(rest)*d.RowHeight)
		}
		if d.Loaded && len(d.View.Rows) == 0 {
			g.printf(`<tr class="report-empty"><td colspan="%d">No bookings match the current filters.</td></tr>`, cols)
		}
		g.write(`</tbody>`)
	})
}

func gridTotals(d GridData) templ.Component {
	return htmlComponent(func(_ context.Context, g *gridWriter) {
		g.write(`<tfoot><tr class="report-totals">`)
		for i, tc := range d.View.Totals {
			g.printf(`<td class="%s"><strong>%s</strong></td>`,
				alignClass(d.View.Columns[i].Align), templ.EscapeString(tc.Text))
		}
		g.write(`</tr></tfoot></table>`)
	})
}

func writeSpacer(g *gridWriter, cols int, height float64) {
	g.printf(`<tr class="report-spacer" aria-hidden="true"><td colspan="%d" style="height: %spx"></td></tr>`,
		cols, formatPx(height))
}

func writeHeaderCell(g *gridWriter, c services.Column, cfg services.ViewConfiguration) {
	vals, _ := json.Marshal(map[string]string{"action": "cycle_sort", "key": c.Key})
	g.printf(`<th class="%s" data-column="%s" hx-post="/reports/master/view" hx-vals="%s" hx-target="#%s" hx-swap="outerHTML">%s`,
		alignClass(c.Align), templ.EscapeString(c.Key), templ.EscapeString(string(vals)), GridTarget,
		templ.EscapeString(c.Label))

	for i, sc := range cfg.SortCriteria {
		if sc.Key != c.Key {
			continue
		}
		arrow := "▲"
		if sc.Direction == services.SortDesc {
			arrow = "▼"
		}
		if len(cfg.SortCriteria) > 1 {
			arrow += strconv.Itoa(i + 1)
		}
		g.printf(`<span class="sort-indicator">%s</span>`, arrow)
	}

	f := cfg.Filter(c.Key)
	switch {
	case f.Active() && len(f.Values) == 0:
		g.write(`<span class="filter-indicator filter-excluded" title="No values selected">∅</span>`)
	case f.Active():
		g.write(`<span class="filter-indicator" title="Filtered">●</span>`)
	}
	g.write(`</th>`)
}

func writeBodyRow(g *gridWriter, row services.Row, columns []services.Column, cr services.CellRenderer) {
	g.printf(`<tr data-row-id="%s">`, templ.EscapeString(row.ID()))
	for _, c := range columns {
		detail := templ.URL(fmt.Sprintf("/reports/master/rows/%s/detail?column=%s",
			url.PathEscape(row.ID()), url.QueryEscape(c.Key)))
		g.printf(`<td class="%s" hx-get="%s" hx-swap="none">%s</td>`,
			alignClass(c.Align), templ.EscapeString(detail), templ.EscapeString(cr.Text(row, c)))
	}
	g.write(`</tr>`)
}

func alignClass(a services.Align) string {
	return "align-" + string(a)
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// htmlComponent renders through the pooled templ buffer, reusing the
// caller's buffer when components nest.
func htmlComponent(draw func(ctx context.Context, g *gridWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) (err error) {
		if err := ctx.Err(); err != nil {
			return err
		}
		buf, existing := templruntime.GetBuffer(w)
		if !existing {
			defer func() {
				if releaseErr := templruntime.ReleaseBuffer(buf); err == nil {
					err = releaseErr
				}
			}()
		}
		g := &gridWriter{buf: buf}
		draw(ctx, g)
		return g.err
	})
}

// gridWriter keeps the first write error so the markup code can stay linear.
type gridWriter struct {
	buf *templruntime.Buffer
	err error
}

func (g *gridWriter) write(s string) {
	if g.err != nil {
		return
	}
	_, g.err = g.buf.WriteString(s)
}

func (g *gridWriter) printf(format string, args ...any) {
	if g.err != nil {
		return
	}
	_, g.err = fmt.Fprintf(g.buf, format, args...)
}

func (g *gridWriter) render(ctx context.Context, c templ.Component) {
	if g.err != nil {
		return
	}
	g.err = c.Render(ctx, g.buf)
}
