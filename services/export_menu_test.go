package services

import (
	"errors"
	"sync"
	"testing"
	"time"
)

var menuDefaults = PDFOptions{Orientation: Landscape, Layout: LayoutFlat}

func TestExportMenu_CSVPath(t *testing.T) {
	m := NewExportMenu(menuDefaults)
	if m.State != MenuClosed {
		t.Fatalf("initial state = %s", m.State)
	}
	m, err := m.Open()
	if err != nil || m.State != MenuOpen {
		t.Fatalf("Open() = %s, %v", m.State, err)
	}
	m, err = m.Choose(ExportCSV)
	if err != nil || m.State != MenuFormatChosen || !m.Ready() {
		t.Fatalf("Choose(csv) = %s, %v", m.State, err)
	}
	m, err = m.Generate()
	if err != nil || m.State != MenuGenerated {
		t.Fatalf("Generate() = %s, %v", m.State, err)
	}
	if m = m.Close(); m.State != MenuClosed {
		t.Errorf("Close() = %s", m.State)
	}
}

func TestExportMenu_PDFOptions(t *testing.T) {
	m, _ := NewExportMenu(menuDefaults).Open()
	m, err := m.Choose(ExportPDF)
	if err != nil || m.State != MenuPDFOptions {
		t.Fatalf("Choose(pdf) = %s, %v", m.State, err)
	}
	if m.PDF != menuDefaults {
		t.Errorf("defaults not preselected: %+v", m.PDF)
	}
	m, err = m.ConfigurePDF(PDFOptions{Orientation: Portrait, Layout: LayoutGrouped})
	if err != nil {
		t.Fatal(err)
	}
	if m.PDF != (PDFOptions{Portrait, LayoutGrouped}) || !m.Ready() {
		t.Errorf("after configure: %+v", m)
	}
}

func TestExportMenu_InvalidTransitions(t *testing.T) {
	closed := NewExportMenu(menuDefaults)
	open, _ := closed.Open()
	chosen, _ := open.Choose(ExportXLSX)

	tests := []struct {
		name string
		run  func() error
	}{
		{"choose while closed", func() error { _, err := closed.Choose(ExportCSV); return err }},
		{"generate while open", func() error { _, err := open.Generate(); return err }},
		{"open twice", func() error { _, err := open.Open(); return err }},
		{"pdf options for xlsx", func() error { _, err := chosen.ConfigurePDF(menuDefaults); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, ErrInvalidExportTransition) {
				t.Errorf("err = %v", err)
			}
		})
	}

	if _, err := open.Choose("docx"); !errors.Is(err, ErrUnknownExportFormat) {
		t.Errorf("unknown format err = %v", err)
	}
}

func TestExportMenu_CloseFromAnyState(t *testing.T) {
	open, _ := NewExportMenu(menuDefaults).Open()
	pdf, _ := open.Choose(ExportPDF)
	for _, m := range []ExportMenu{NewExportMenu(menuDefaults), open, pdf} {
		if got := m.Close(); got.State != MenuClosed || got.Format != "" {
			t.Errorf("Close() from %s = %+v", m.State, got)
		}
	}
}

func TestExportGate_OnePerOwner(t *testing.T) {
	g := NewExportGate()
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.Do("kai", func() ([]byte, error) {
			close(started)
			<-release
			return []byte("done"), nil
		})
	}()
	<-started

	if _, err := g.Do("kai", func() ([]byte, error) { return nil, nil }); !errors.Is(err, ErrExportInProgress) {
		t.Errorf("second export err = %v", err)
	}
	if out, err := g.Do("lani", func() ([]byte, error) { return []byte("ok"), nil }); err != nil || string(out) != "ok" {
		t.Errorf("other owner blocked: %q %v", out, err)
	}

	close(release)
	wg.Wait()

	if _, err := g.Do("kai", func() ([]byte, error) { return nil, nil }); err != nil {
		t.Errorf("gate not released: %v", err)
	}
}

func TestExporter_Export(t *testing.T) {
	p := testPipeline()
	x := Exporter{Gate: NewExportGate(), Renderer: p.Renderer()}
	view := p.Run(sampleRows(), DefaultViewConfiguration())
	meta := ExportMeta{Title: "Master Report", GeneratedAt: time.Now()}

	open, _ := NewExportMenu(menuDefaults).Open()
	menu, _ := open.Choose(ExportCSV)

	out, after, err := x.Export("kai", menu, view, meta)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(out) == 0 || after.State != MenuClosed {
		t.Errorf("out %d bytes, menu %s", len(out), after.State)
	}

	if _, after, err := x.Export("kai", open, view, meta); !errors.Is(err, ErrInvalidExportTransition) || after.State != MenuClosed {
		t.Errorf("export without format: %v, %s", err, after.State)
	}
}
