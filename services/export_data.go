package services

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// ExportFormat is one of the supported download formats.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportTSV  ExportFormat = "tsv"
	ExportXLSX ExportFormat = "xlsx"
	ExportPDF  ExportFormat = "pdf"
)

// ParseExportFormat validates a user-supplied format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ExportCSV, ExportTSV, ExportXLSX, ExportPDF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownExportFormat, s)
}

// Extension returns the file extension without the dot.
func (f ExportFormat) Extension() string {
	return string(f)
}

// ContentType returns the MIME type of the rendered document.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportCSV:
		return "text/csv; charset=utf-8"
	case ExportTSV:
		return "text/tab-separated-values; charset=utf-8"
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExportPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// PageOrientation of a PDF export.
type PageOrientation string

const (
	Portrait  PageOrientation = "portrait"
	Landscape PageOrientation = "landscape"
)

// PDFLayout selects one continuous table or one table per vehicle.
type PDFLayout string

const (
	LayoutFlat    PDFLayout = "flat"
	LayoutGrouped PDFLayout = "grouped"
)

// PDFOptions are the sub-options chosen for a PDF export.
type PDFOptions struct {
	Orientation PageOrientation
	Layout      PDFLayout
}

// ParsePDFOptions reads orientation and layout, falling back to fallback
// for anything unrecognized.
func ParsePDFOptions(orientation, layout string, fallback PDFOptions) PDFOptions {
	opts := fallback
	switch o := PageOrientation(strings.ToLower(orientation)); o {
	case Portrait, Landscape:
		opts.Orientation = o
	}
	switch l := PDFLayout(strings.ToLower(layout)); l {
	case LayoutFlat, LayoutGrouped:
		opts.Layout = l
	}
	return opts
}

// ExportMeta is the document header information.
type ExportMeta struct {
	Title        string
	Organization string
	PreparedBy   string
	GeneratedAt  time.Time
	Location     *time.Location
}

// GroupKey is the row field grouped PDF exports partition on.
const GroupKey = "vehicle_name"

// ReportGroup is one partition of a grouped export.
type ReportGroup struct {
	Name   string
	Rows   [][]string
	Totals Totals
}

// ReportDocument is everything an exporter draws: rows, columns and totals
// are decided here once, and renderers only lay them out.
type ReportDocument struct {
	Meta        ExportMeta
	Columns     []Column
	Header      []string
	Rows        [][]string
	Totals      Totals
	SourceCount int

	// Groups is set only when every row has a resolved vehicle.
	Groups []ReportGroup
}

// Groupable reports whether a grouped layout is possible.
func (d ReportDocument) Groupable() bool {
	return len(d.Groups) > 0
}

// GeneratedLabel is the timestamp printed in headers and footers.
func (d ReportDocument) GeneratedLabel() string {
	loc := d.Meta.Location
	if loc == nil {
		loc = time.Local
	}
	return d.Meta.GeneratedAt.In(loc).Format("Jan 02, 2006 15:04")
}

// Summary is the one-line record count shown under the title.
func (d ReportDocument) Summary() string {
	s := fmt.Sprintf("%d of %d bookings", len(d.Rows), d.SourceCount)
	if len(d.Groups) > 0 {
		s += fmt.Sprintf(" in %d vehicles", len(d.Groups))
	}
	return s
}

// BuildReportDocument renders view with cr into a document.
func BuildReportDocument(view ReportView, cr CellRenderer, meta ExportMeta) ReportDocument {
	if meta.Location == nil {
		meta.Location = cr.Location
	}
	doc := ReportDocument{
		Meta:        meta,
		Columns:     view.Columns,
		Header:      make([]string, len(view.Columns)),
		Rows:        renderRows(view.Rows, view.Columns, cr),
		Totals:      view.Totals,
		SourceCount: view.SourceCount,
	}
	for i, c := range view.Columns {
		doc.Header[i] = c.Label
	}
	doc.Groups = groupRows(view.Rows, view.Columns, cr)
	return doc
}

func renderRows(rows []Row, columns []Column, cr CellRenderer) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(columns))
		for j, c := range columns {
			cells[j] = cr.Text(row, c)
		}
		out[i] = cells
	}
	return out
}

// groupRows partitions rows by vehicle in order of first appearance, so
// the active sort is kept inside each group. It returns nil when any row
// has no vehicle.
func groupRows(rows []Row, columns []Column, cr CellRenderer) []ReportGroup {
	if len(rows) == 0 {
		return nil
	}
	var order []string
	members := make(map[string][]Row)
	for _, row := range rows {
		name := strings.TrimSpace(row.String(GroupKey))
		if name == "" {
			return nil
		}
		if _, ok := members[name]; !ok {
			order = append(order, name)
		}
		members[name] = append(members[name], row)
	}

	groups := make([]ReportGroup, 0, len(order))
	for _, name := range order {
		groupRows := members[name]
		groups = append(groups, ReportGroup{
			Name:   name,
			Rows:   renderRows(groupRows, columns, cr),
			Totals: ComputeTotals(groupRows, columns),
		})
	}
	return groups
}

// TableRenderer draws a report document into file bytes.
type TableRenderer interface {
	Render(doc ReportDocument) ([]byte, error)
}

// RendererFor returns the renderer of format. A grouped PDF layout falls
// back to flat when doc cannot be grouped.
func RendererFor(format ExportFormat, pdf PDFOptions) (TableRenderer, error) {
	switch format {
	case ExportCSV:
		return CSVRenderer{}, nil
	case ExportTSV:
		return TSVRenderer{}, nil
	case ExportXLSX:
		return ExcelRenderer{}, nil
	case ExportPDF:
		return PDFRenderer{Options: pdf}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownExportFormat, format)
}

// RenderExport draws doc in format.
func RenderExport(format ExportFormat, pdf PDFOptions, doc ReportDocument) ([]byte, error) {
	r, err := RendererFor(format, pdf)
	if err != nil {
		return nil, err
	}
	if format == ExportPDF && pdf.Layout == LayoutGrouped && !doc.Groupable() {
		log.Printf("export: grouped layout unavailable for %d rows, rendering flat", len(doc.Rows))
	}
	return r.Render(doc)
}

// ExportFilename is MasterReport_<org>_<user>_<YYYY-MM-DD>.<ext>, leaving out
// identifiers that are not known.
func ExportFilename(org, user string, date time.Time, format ExportFormat) string {
	parts := []string{"MasterReport"}
	for _, p := range []string{org, user} {
		if p = SanitizeFilename(p); p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, date.Format(dateOnlyLayout))
	return strings.Join(parts, "_") + "." + format.Extension()
}

// SanitizeFilename removes characters that are unsafe for filenames.
func SanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, "\"", "")
	s = strings.ReplaceAll(s, "_", "-")
	return s
}
