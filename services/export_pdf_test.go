package services

import (
	"bytes"
	"testing"
)

func TestPDFRenderer_Layouts(t *testing.T) {
	withVehicles := DefaultViewConfiguration().SetSearch("van")
	tests := []struct {
		name string
		cfg  ViewConfiguration
		opts PDFOptions
	}{
		{"flat landscape", DefaultViewConfiguration(), PDFOptions{Landscape, LayoutFlat}},
		{"flat portrait", DefaultViewConfiguration(), PDFOptions{Portrait, LayoutFlat}},
		{"grouped", withVehicles, PDFOptions{Landscape, LayoutGrouped}},
		{"grouped falls back to flat", DefaultViewConfiguration(), PDFOptions{Portrait, LayoutGrouped}},
		{"empty result", DefaultViewConfiguration().ExcludeAllValues("status"), PDFOptions{Landscape, LayoutFlat}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDocument(t, tt.cfg)
			out, err := PDFRenderer{Options: tt.opts}.Render(doc)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if !bytes.HasPrefix(out, []byte("%PDF")) {
				t.Errorf("output does not look like a PDF (%d bytes)", len(out))
			}
		})
	}
}

func TestPDFRenderer_ManyColumns(t *testing.T) {
	v := DefaultViewConfiguration()
	for _, c := range MasterReportColumns().ListColumns() {
		v.VisibleColumns = append(v.VisibleColumns, c.Key)
	}
	doc := sampleDocument(t, v)
	if len(doc.Columns) != len(masterReportColumns) {
		t.Fatalf("columns = %d", len(doc.Columns))
	}
	out, err := PDFRenderer{Options: PDFOptions{Landscape, LayoutFlat}}.Render(doc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(out) == 0 {
		t.Error("empty PDF")
	}
}

func TestPDFFontSize(t *testing.T) {
	tests := []struct {
		ncols int
		want  float64
	}{
		{1, 9}, {6, 9}, {7, 8}, {9, 8}, {12, 7}, {16, 6}, {20, 5},
	}
	for _, tt := range tests {
		if got := pdfFontSize(tt.ncols); got != tt.want {
			t.Errorf("pdfFontSize(%d) = %v, want %v", tt.ncols, got, tt.want)
		}
	}
}

func TestPDFColumnSizes(t *testing.T) {
	doc := ReportDocument{
		Columns: []Column{{Key: "a", Width: 2}, {Key: "b", Width: 10}, {Key: "c", Width: 5}},
		Header:  []string{"A", "Bee", "C"},
		Rows: [][]string{
			{"x", "short", string(bytes.Repeat([]byte("n"), 120))},
		},
		Totals: Totals{{Text: "Total"}, {}, {}},
	}
	got := pdfColumnSizes(doc)
	want := []int{5, 10, 40}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sizes = %v, want %v", got, want)
			break
		}
	}
}

func TestPDFColumnSizes_SharedAcrossGroups(t *testing.T) {
	doc := sampleDocument(t, DefaultViewConfiguration().SetSearch("van"))
	if !doc.Groupable() {
		t.Fatal("expected groupable document")
	}
	full := newPDFTable(doc)
	for _, g := range doc.Groups {
		sub := doc
		sub.Rows = g.Rows
		if newPDFTable(sub).grid > full.grid {
			t.Errorf("group %s wider than the full table", g.Name)
		}
	}
}
