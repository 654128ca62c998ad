package services

import (
	"slices"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExcelRenderer_Layout(t *testing.T) {
	doc := sampleDocument(t, DefaultViewConfiguration().CycleSort("customer_name"))

	result, err := ExcelRenderer{}.Render(doc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("Render() returned empty bytes")
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Master Report" {
		t.Fatalf("sheets = %v", sheets)
	}

	title, _ := f.GetCellValue("Master Report", "A1")
	if title != "Master Report" {
		t.Errorf("A1 = %q", title)
	}
	summary, _ := f.GetCellValue("Master Report", "A3")
	if summary != "3 of 3 bookings" {
		t.Errorf("A3 = %q", summary)
	}

	header, _ := f.GetCellValue("Master Report", excelCell(1, excelHeaderRow))
	if header != "Customer" {
		t.Errorf("header A5 = %q", header)
	}
	first, _ := f.GetCellValue("Master Report", excelCell(1, excelHeaderRow+1))
	if first != "Alice Johnson" {
		t.Errorf("first data row = %q", first)
	}
}

func TestExcelRenderer_TotalsMatchGrid(t *testing.T) {
	doc := sampleDocument(t, DefaultViewConfiguration().SetSearch("van"))

	result, err := ExcelRenderer{}.Render(doc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	totalsRow := excelHeaderRow + len(doc.Rows) + 1
	got := make([]string, len(doc.Columns))
	for i := range doc.Columns {
		got[i], _ = f.GetCellValue("Master Report", excelCell(i+1, totalsRow))
	}
	if want := doc.Totals.Texts(); !slices.Equal(got, want) {
		t.Errorf("excel totals = %v, want %v", got, want)
	}
}

func TestExcelRenderer_EmptyResult(t *testing.T) {
	doc := sampleDocument(t, DefaultViewConfiguration().ExcludeAllValues("status"))

	result, err := ExcelRenderer{}.Render(doc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	label, _ := f.GetCellValue("Master Report", excelCell(1, excelHeaderRow+1))
	if label != TotalsLabel {
		t.Errorf("totals label = %q, want directly under header", label)
	}
}

func TestSanitizeReportCell(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"-", "-"},
		{"-$100.00", "-$100.00"},
		{"$1,234.50", "$1,234.50"},
		{"-12", "-12"},
		{"=HYPERLINK(\"x\")", "'=HYPERLINK(\"x\")"},
		{"@SUM(A1)", "'@SUM(A1)"},
		{"+1 (555) 123-4567", "'+1 (555) 123-4567"},
		{"Alice", "Alice"},
	}
	for _, tt := range tests {
		if got := sanitizeReportCell(tt.input); got != tt.expect {
			t.Errorf("sanitizeReportCell(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}

func TestExcelColName(t *testing.T) {
	tests := map[int]string{1: "A", 26: "Z", 27: "AA", 52: "AZ"}
	for n, want := range tests {
		if got := excelColName(n); got != want {
			t.Errorf("excelColName(%d) = %q, want %q", n, got, want)
		}
	}
}
