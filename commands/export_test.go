package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/funinthesundocs/epictours-sub001/config"
	"github.com/funinthesundocs/epictours-sub001/services"
	"github.com/funinthesundocs/epictours-sub001/testhelpers"
)

func testConfig() *config.Config {
	return &config.Config{
		Title:               "Master Report",
		DefaultOrganization: "demo",
		RowHeight:           36,
		ViewportHeight:      720,
		PDFOrientation:      "landscape",
		PDFLayout:           "flat",
	}
}

func TestRunExport_CSV(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestBooking(t, app, testhelpers.BookingFixture{Organization: "demo", Customer: "Alice Johnson", Total: 250})
	testhelpers.CreateTestBooking(t, app, testhelpers.BookingFixture{Organization: "demo", Customer: "Bob Lee", Total: 100})

	out := filepath.Join(t.TempDir(), "report.csv")
	path, count, err := RunExport(app, testConfig(), ExportOptions{
		Organization: "demo",
		Format:       "csv",
		Out:          out,
		Owner:        "guest",
	}, time.Now())
	if err != nil {
		t.Fatalf("RunExport() error = %v", err)
	}
	if path != out || count != 2 {
		t.Errorf("path %q count %d", path, count)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Customer,", "Alice Johnson", "Bob Lee", "$350.00"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("csv missing %q", want)
		}
	}
}

func TestRunExport_Preset(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestBooking(t, app, testhelpers.BookingFixture{Organization: "demo", Customer: "Alice Johnson"})
	testhelpers.CreateTestBooking(t, app, testhelpers.BookingFixture{Organization: "demo", Customer: "Bob Lee"})

	store := services.NewPresetStore(app, services.MasterReportColumns())
	if _, err := store.Create("kai", "Bob only", services.DefaultViewConfiguration().SetSearch("bob")); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "bob.pdf")
	_, count, err := RunExport(app, testConfig(), ExportOptions{
		Organization: "demo",
		Format:       "pdf",
		Out:          out,
		Preset:       "BOB ONLY",
		Owner:        "kai",
		Orientation:  "portrait",
	}, time.Now())
	if err != nil {
		t.Fatalf("RunExport() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	data, _ := os.ReadFile(out)
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestRunExport_Errors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	dir := t.TempDir()

	_, _, err := RunExport(app, testConfig(), ExportOptions{Organization: "demo", Format: "docx", Out: filepath.Join(dir, "x")}, time.Now())
	if !errors.Is(err, services.ErrUnknownExportFormat) {
		t.Errorf("unknown format err = %v", err)
	}

	_, _, err = RunExport(app, testConfig(), ExportOptions{Organization: "demo", Format: "csv", Preset: "missing", Owner: "kai", Out: filepath.Join(dir, "y")}, time.Now())
	if !errors.Is(err, services.ErrPresetNotFound) {
		t.Errorf("missing preset err = %v", err)
	}
}

func TestNewExportCommand_Flags(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cmd := NewExportCommand(app, testConfig())

	if cmd.Use != "export" {
		t.Errorf("Use = %q", cmd.Use)
	}
	for _, name := range []string{"org", "format", "out", "preset", "owner", "orientation", "layout"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s flag", name)
		}
	}
	if got := cmd.Flags().Lookup("org").DefValue; got != "demo" {
		t.Errorf("--org default = %q", got)
	}
}

func TestNewExportCommand_Run(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestBooking(t, app, testhelpers.BookingFixture{Organization: "demo", Customer: "Alice Johnson"})

	out := filepath.Join(t.TempDir(), "report.tsv")
	cmd := NewExportCommand(app, testConfig())
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--format", "tsv", "-o", out})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "Wrote 1 bookings to "+out) {
		t.Errorf("stdout = %q", stdout.String())
	}
}
