package services

import (
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ExportMenuState is a step of the export menu.
type ExportMenuState string

const (
	MenuClosed       ExportMenuState = "closed"
	MenuOpen         ExportMenuState = "menu-open"
	MenuFormatChosen ExportMenuState = "format-chosen"
	MenuPDFOptions   ExportMenuState = "pdf-options"
	MenuGenerated    ExportMenuState = "generated"
)

// ExportMenu walks closed → menu-open → format-chosen → (pdf-options) →
// generated → closed. Close is valid from every state and never touches
// report data.
type ExportMenu struct {
	State  ExportMenuState
	Format ExportFormat
	PDF    PDFOptions
}

// NewExportMenu returns a closed menu whose PDF sub-options start at defaults.
func NewExportMenu(defaults PDFOptions) ExportMenu {
	return ExportMenu{State: MenuClosed, PDF: defaults}
}

func (m ExportMenu) invalid(action string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidExportTransition, action, m.State)
}

// Open shows the format list.
func (m ExportMenu) Open() (ExportMenu, error) {
	if m.State != MenuClosed {
		return m, m.invalid("open")
	}
	m.State = MenuOpen
	m.Format = ""
	return m, nil
}

// Choose picks a format. PDF moves on to its sub-options.
func (m ExportMenu) Choose(f ExportFormat) (ExportMenu, error) {
	if m.State != MenuOpen {
		return m, m.invalid("choose")
	}
	if _, err := ParseExportFormat(string(f)); err != nil {
		return m, err
	}
	m.Format = f
	m.State = MenuFormatChosen
	if f == ExportPDF {
		m.State = MenuPDFOptions
	}
	return m, nil
}

// ConfigurePDF sets orientation and layout while the PDF options are shown.
func (m ExportMenu) ConfigurePDF(opts PDFOptions) (ExportMenu, error) {
	if m.State != MenuPDFOptions {
		return m, m.invalid("configure pdf")
	}
	m.PDF = ParsePDFOptions(string(opts.Orientation), string(opts.Layout), m.PDF)
	return m, nil
}

// Ready reports whether Generate may run.
func (m ExportMenu) Ready() bool {
	return m.State == MenuFormatChosen || m.State == MenuPDFOptions
}

// Generate marks the document as produced.
func (m ExportMenu) Generate() (ExportMenu, error) {
	if !m.Ready() {
		return m, m.invalid("generate")
	}
	m.State = MenuGenerated
	return m, nil
}

// Close returns to closed from any state.
func (m ExportMenu) Close() ExportMenu {
	return ExportMenu{State: MenuClosed, PDF: m.PDF}
}

// ExportGate lets at most one export render per owner at a time. A second
// request fails fast instead of queueing.
type ExportGate struct {
	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

// NewExportGate returns an empty gate.
func NewExportGate() *ExportGate {
	return &ExportGate{sems: make(map[string]*semaphore.Weighted)}
}

func (g *ExportGate) sem(owner string) *semaphore.Weighted {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sems[owner]
	if !ok {
		s = semaphore.NewWeighted(1)
		g.sems[owner] = s
	}
	return s
}

// Do runs render unless another export of owner is still running, in which
// case it returns ErrExportInProgress.
func (g *ExportGate) Do(owner string, render func() ([]byte, error)) ([]byte, error) {
	s := g.sem(owner)
	if !s.TryAcquire(1) {
		return nil, ErrExportInProgress
	}
	defer s.Release(1)
	return render()
}

// Exporter renders the current view once the menu is ready, one export per
// owner at a time.
type Exporter struct {
	Gate     *ExportGate
	Renderer CellRenderer
}

// Export renders view for the format chosen in menu. The returned menu is
// closed again whether or not rendering succeeded.
func (x Exporter) Export(owner string, menu ExportMenu, view ReportView, meta ExportMeta) ([]byte, ExportMenu, error) {
	if !menu.Ready() {
		return nil, menu.Close(), menu.invalid("generate")
	}
	doc := BuildReportDocument(view, x.Renderer, meta)
	data, err := x.Gate.Do(owner, func() ([]byte, error) {
		return RenderExport(menu.Format, menu.PDF, doc)
	})
	if err != nil {
		return nil, menu.Close(), err
	}
	generated, err := menu.Generate()
	if err != nil {
		return nil, menu.Close(), err
	}
	return data, generated.Close(), nil
}
