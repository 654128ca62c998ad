package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVRenderer writes header, rows and the totals row as RFC 4180 CSV.
type CSVRenderer struct{}

// Render implements TableRenderer.
func (CSVRenderer) Render(doc ReportDocument) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := make([][]string, 0, len(doc.Rows)+2)
	records = append(records, doc.Header)
	records = append(records, doc.Rows...)
	records = append(records, doc.Totals.Texts())

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// TSVRenderer writes the same lines tab separated for pasting into a
// spreadsheet. Values are written raw.
type TSVRenderer struct{}

// Render implements TableRenderer.
func (TSVRenderer) Render(doc ReportDocument) ([]byte, error) {
	var b strings.Builder
	writeLine := func(cells []string) {
		b.WriteString(strings.Join(cells, "\t"))
		b.WriteByte('\n')
	}
	writeLine(doc.Header)
	for _, r := range doc.Rows {
		writeLine(r)
	}
	writeLine(doc.Totals.Texts())
	return []byte(b.String()), nil
}
