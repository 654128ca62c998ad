package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funinthesundocs/epictours-sub001/services"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Title != "Master Report" || cfg.DefaultOrganization != "demo" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.RowHeight != 36 || cfg.ViewportHeight != 720 {
		t.Errorf("geometry = %v / %v", cfg.RowHeight, cfg.ViewportHeight)
	}
	if got := cfg.PDFDefaults(); got != (services.PDFOptions{Orientation: services.Landscape, Layout: services.LayoutFlat}) {
		t.Errorf("PDFDefaults() = %+v", got)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("REPORT_TIMEZONE", "Pacific/Honolulu")
	t.Setenv("REPORT_DEFAULT_ORGANIZATION", "maui")
	t.Setenv("REPORT_PDF_ORIENTATION", "portrait")
	t.Setenv("REPORT_PDF_LAYOUT", "grouped")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Location().String() != "Pacific/Honolulu" {
		t.Errorf("Location() = %s", cfg.Location())
	}
	if cfg.DefaultOrganization != "maui" {
		t.Errorf("DefaultOrganization = %q", cfg.DefaultOrganization)
	}
	if got := cfg.PDFDefaults(); got != (services.PDFOptions{Orientation: services.Portrait, Layout: services.LayoutGrouped}) {
		t.Errorf("PDFDefaults() = %+v", got)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("REPORT_TITLE=Daily Manifest\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("REPORT_TITLE") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Title != "Daily Manifest" {
		t.Errorf("Title = %q", cfg.Title)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bad timezone", "REPORT_TIMEZONE", "Mars/Olympus"},
		{"zero row height", "REPORT_ROW_HEIGHT", "0"},
		{"negative viewport", "REPORT_VIEWPORT_HEIGHT", "-5"},
		{"not a number", "REPORT_ROW_HEIGHT", "tall"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLocation_Unset(t *testing.T) {
	var cfg Config
	if cfg.Location() == nil {
		t.Error("Location() should never be nil")
	}
}
