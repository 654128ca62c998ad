package services

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// SubtotalLabel replaces TotalsLabel on per-group totals rows.
const SubtotalLabel = "Subtotal"

var (
	pdfHeaderBg  = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfStripeBg  = &props.Color{Red: 245, Green: 245, Blue: 245}
	pdfTotalsBg  = &props.Color{Red: 225, Green: 225, Blue: 225}
	pdfGroupBg   = &props.Color{Red: 210, Green: 222, Blue: 235}
	pdfMutedText = &props.Color{Red: 100, Green: 100, Blue: 100}
	pdfWhite     = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// PDFRenderer draws the report as an A4 manifest.
type PDFRenderer struct {
	Options PDFOptions
}

// Render implements TableRenderer. The title block and column header repeat
// on every page; the footer carries the timestamp and page numbers.
func (r PDFRenderer) Render(doc ReportDocument) ([]byte, error) {
	layout := r.Options.Layout
	if layout == LayoutGrouped && !doc.Groupable() {
		layout = LayoutFlat
	}

	orient := orientation.Vertical
	if r.Options.Orientation == Landscape {
		orient = orientation.Horizontal
	}

	t := newPDFTable(doc)

	cfg := config.NewBuilder().
		WithOrientation(orient).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithMaxGridSize(t.grid).
		WithDefaultFont(&props.Font{Size: t.fontSize}).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	header := append(t.titleRows(doc), t.headerRow(doc.Header))
	if err := m.RegisterHeader(header...); err != nil {
		return nil, fmt.Errorf("register pdf header: %w", err)
	}
	if err := m.RegisterFooter(t.footerRow(doc)); err != nil {
		return nil, fmt.Errorf("register pdf footer: %w", err)
	}

	switch layout {
	case LayoutGrouped:
		for _, g := range doc.Groups {
			m.AddRows(t.groupTitleRow(g))
			for i, cells := range g.Rows {
				m.AddRows(t.bodyRow(cells, i%2 == 1))
			}
			m.AddRows(t.totalsRow(g.Totals, SubtotalLabel))
			m.AddRows(row.New(3))
		}
		m.AddRows(t.totalsRow(doc.Totals, "Grand "+TotalsLabel))
	default:
		for i, cells := range doc.Rows {
			m.AddRows(t.bodyRow(cells, i%2 == 1))
		}
		m.AddRows(t.totalsRow(doc.Totals, TotalsLabel))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return out.GetBytes(), nil
}

// pdfTable holds the layout decided once from the full data set so that
// every sub-table of a grouped export lines up.
type pdfTable struct {
	columns   []Column
	sizes     []int
	grid      int
	fontSize  float64
	rowHeight float64
}

func newPDFTable(doc ReportDocument) pdfTable {
	t := pdfTable{
		columns:  doc.Columns,
		sizes:    pdfColumnSizes(doc),
		fontSize: pdfFontSize(len(doc.Columns)),
	}
	for _, s := range t.sizes {
		t.grid += s
	}
	if t.grid == 0 {
		t.grid = 12
	}
	t.rowHeight = math.Ceil(t.fontSize*0.6) + 2
	return t
}

// pdfFontSize shrinks the base font as more columns are shown.
func pdfFontSize(ncols int) float64 {
	switch {
	case ncols <= 6:
		return 9
	case ncols <= 9:
		return 8
	case ncols <= 12:
		return 7
	case ncols <= 16:
		return 6
	}
	return 5
}

// pdfColumnSizes gives each column a grid share proportional to the wider
// of its configured width and its longest rendered value, capped so one
// long note cannot starve the other columns.
func pdfColumnSizes(doc ReportDocument) []int {
	const minSize, maxSize = 4, 40
	sizes := make([]int, len(doc.Columns))
	for i, c := range doc.Columns {
		w := int(math.Round(c.Width))
		w = max(w, utf8.RuneCountInString(doc.Header[i]))
		for _, cells := range doc.Rows {
			w = max(w, utf8.RuneCountInString(cells[i]))
		}
		if i < len(doc.Totals) {
			w = max(w, utf8.RuneCountInString(doc.Totals[i].Text))
		}
		sizes[i] = min(max(w, minSize), maxSize)
	}
	return sizes
}

func pdfAlign(a Align) align.Type {
	switch a {
	case AlignRight:
		return align.Right
	case AlignCenter:
		return align.Center
	}
	return align.Left
}

func (t pdfTable) titleRows(doc ReportDocument) []core.Row {
	title := doc.Meta.Title
	if title == "" {
		title = "Master Report"
	}
	meta := "Generated " + doc.GeneratedLabel()
	if doc.Meta.PreparedBy != "" {
		meta += " | Prepared by " + doc.Meta.PreparedBy
	}
	org := doc.Meta.Organization
	half := t.grid / 2

	return []core.Row{
		row.New(10).Add(
			col.New(t.grid).Add(text.New(title, props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
		),
		row.New(6).Add(
			col.New(half).Add(text.New(org, props.Text{
				Size:  8,
				Align: align.Left,
				Color: pdfMutedText,
			})),
			col.New(t.grid-half).Add(text.New(meta, props.Text{
				Size:  8,
				Align: align.Right,
				Color: pdfMutedText,
			})),
		),
		row.New(6).Add(
			col.New(t.grid).Add(text.New(doc.Summary(), props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
		),
		row.New(2),
	}
}

func (t pdfTable) headerRow(labels []string) core.Row {
	cell := &props.Cell{BackgroundColor: pdfHeaderBg}
	cols := make([]core.Col, len(t.columns))
	for i, c := range t.columns {
		cols[i] = col.New(t.sizes[i]).Add(text.New(labels[i], props.Text{
			Size:  t.fontSize,
			Style: fontstyle.Bold,
			Align: pdfAlign(c.Align),
			Color: pdfWhite,
			Top:   1,
			Left:  1,
			Right: 1,
		})).WithStyle(cell)
	}
	return row.New(t.rowHeight + 1).Add(cols...)
}

func (t pdfTable) bodyRow(cells []string, striped bool) core.Row {
	var cell *props.Cell
	if striped {
		cell = &props.Cell{BackgroundColor: pdfStripeBg}
	}
	cols := make([]core.Col, len(t.columns))
	for i, c := range t.columns {
		cols[i] = col.New(t.sizes[i]).Add(text.New(cells[i], props.Text{
			Size:  t.fontSize,
			Align: pdfAlign(c.Align),
			Top:   1,
			Left:  1,
			Right: 1,
		}))
		if cell != nil {
			cols[i] = cols[i].WithStyle(cell)
		}
	}
	return row.New(t.rowHeight).Add(cols...)
}

// totalsTexts returns the cell texts of a totals row, printing label where
// ComputeTotals put TotalsLabel.
func (t pdfTable) totalsTexts(totals Totals, label string) []string {
	out := make([]string, len(t.columns))
	for i := range out {
		if i < len(totals) {
			out[i] = totals[i].Text
		}
		if out[i] == TotalsLabel {
			out[i] = label
		}
	}
	return out
}

func (t pdfTable) totalsRow(totals Totals, label string) core.Row {
	cell := &props.Cell{BackgroundColor: pdfTotalsBg}
	texts := t.totalsTexts(totals, label)
	cols := make([]core.Col, len(t.columns))
	for i, c := range t.columns {
		cols[i] = col.New(t.sizes[i]).Add(text.New(texts[i], props.Text{
			Size:  t.fontSize,
			Style: fontstyle.Bold,
			Align: pdfAlign(c.Align),
			Top:   1,
			Left:  1,
			Right: 1,
		})).WithStyle(cell)
	}
	return row.New(t.rowHeight + 1).Add(cols...)
}

func (t pdfTable) groupTitleRow(g ReportGroup) core.Row {
	label := fmt.Sprintf("%s (%d)", g.Name, len(g.Rows))
	return row.New(t.rowHeight + 1).Add(
		col.New(t.grid).Add(text.New(label, props.Text{
			Size:  t.fontSize + 1,
			Style: fontstyle.Bold,
			Align: align.Left,
			Top:   1,
			Left:  1,
		})).WithStyle(&props.Cell{BackgroundColor: pdfGroupBg}),
	)
}

func (t pdfTable) footerRow(doc ReportDocument) core.Row {
	return row.New(6).Add(
		col.New(t.grid).Add(text.New("Generated on "+doc.GeneratedLabel(), props.Text{
			Size:  7,
			Align: align.Left,
			Color: &props.Color{Red: 140, Green: 140, Blue: 140},
		})),
	)
}
