package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// excelHeaderRow is the worksheet row holding column labels. Rows above it
// carry the title block.
const excelHeaderRow = 5

// ExcelRenderer writes the report as a single-sheet workbook.
type ExcelRenderer struct{}

// Render implements TableRenderer.
func (ExcelRenderer) Render(doc ReportDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Master Report"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	ncols := len(doc.Columns)
	if ncols == 0 {
		ncols = 1
	}
	lastCol := excelColName(ncols)

	for i, c := range doc.Columns {
		name := excelColName(i + 1)
		if err := f.SetColWidth(sheetName, name, name, c.Width+2); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", name, err)
		}
	}

	styles, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}

	// ── Title block ─────────────────────────────────────────────────────

	title := doc.Meta.Title
	if title == "" {
		title = "Master Report"
	}
	infoLines := []string{title, excelMetaLine(doc), doc.Summary()}
	for i, line := range infoLines {
		r := i + 1
		from, to := fmt.Sprintf("A%d", r), fmt.Sprintf("%s%d", lastCol, r)
		if ncols > 1 {
			if err := f.MergeCell(sheetName, from, to); err != nil {
				return nil, fmt.Errorf("merge info row %d: %w", r, err)
			}
		}
		f.SetCellValue(sheetName, from, sanitizeExcelCell(line))
		style := styles.subtitle
		if i == 0 {
			style = styles.title
		}
		f.SetCellStyle(sheetName, from, to, style)
	}

	// ── Column headers ──────────────────────────────────────────────────

	for i, h := range doc.Header {
		f.SetCellValue(sheetName, excelCell(i+1, excelHeaderRow), sanitizeExcelCell(h))
	}
	f.SetCellStyle(sheetName, excelCell(1, excelHeaderRow), excelCell(ncols, excelHeaderRow), styles.header)

	// ── Data rows ───────────────────────────────────────────────────────

	row := excelHeaderRow + 1
	for _, cells := range doc.Rows {
		for i, v := range cells {
			cell := excelCell(i+1, row)
			f.SetCellValue(sheetName, cell, sanitizeReportCell(v))
			f.SetCellStyle(sheetName, cell, cell, styles.body[doc.Columns[i].Align])
		}
		row++
	}

	// ── Totals row ──────────────────────────────────────────────────────

	for i, tc := range doc.Totals {
		cell := excelCell(i+1, row)
		f.SetCellValue(sheetName, cell, sanitizeReportCell(tc.Text))
		f.SetCellStyle(sheetName, cell, cell, styles.totals[doc.Columns[i].Align])
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      excelHeaderRow,
		TopLeftCell: excelCell(1, excelHeaderRow+1),
		ActivePane:  "bottomLeft",
	})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

type excelStyles struct {
	title, subtitle, header int
	body, totals            map[Align]int
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	s := excelStyles{body: map[Align]int{}, totals: map[Align]int{}}
	var err error

	s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return s, fmt.Errorf("create title style: %w", err)
	}
	s.subtitle, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 10, Color: "#555555"}})
	if err != nil {
		return s, fmt.Errorf("create subtitle style: %w", err)
	}

	// Column header: bold white on charcoal.
	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return s, fmt.Errorf("create header style: %w", err)
	}

	for _, a := range []Align{AlignLeft, AlignCenter, AlignRight} {
		s.body[a], err = f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Size: 10},
			Alignment: &excelize.Alignment{Horizontal: string(a), Vertical: "center"},
			Border:    thinBorders(),
		})
		if err != nil {
			return s, fmt.Errorf("create %s body style: %w", a, err)
		}
		s.totals[a], err = f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 10},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E8E8E8"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: string(a), Vertical: "center"},
			Border:    thinBorders(),
		})
		if err != nil {
			return s, fmt.Errorf("create %s totals style: %w", a, err)
		}
	}
	return s, nil
}

func excelMetaLine(doc ReportDocument) string {
	line := "Generated " + doc.GeneratedLabel()
	if doc.Meta.Organization != "" {
		line = doc.Meta.Organization + " | " + line
	}
	if doc.Meta.PreparedBy != "" {
		line += " | Prepared by " + doc.Meta.PreparedBy
	}
	return line
}

// excelColName maps a 1-based column number to its letters.
func excelColName(n int) string {
	name, err := excelize.ColumnNumberToName(n)
	if err != nil {
		return "A"
	}
	return name
}

func excelCell(col, row int) string {
	return fmt.Sprintf("%s%d", excelColName(col), row)
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// sanitizeReportCell leaves the empty-cell marker and rendered amounts such
// as -$100.00 untouched; they cannot be read as formulas.
func sanitizeReportCell(s string) string {
	if s == EmptyCell {
		return s
	}
	if _, ok := numericValue(strings.Replace(s, "-"+CurrencySymbol, "-", 1)); ok {
		return s
	}
	return sanitizeExcelCell(s)
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
