package handlers

import (
	"errors"
	"log"
	"math"
	"sync"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"github.com/funinthesundocs/epictours-sub001/config"
	"github.com/funinthesundocs/epictours-sub001/services"
)

// Report holds what the master report handlers share across requests.
type Report struct {
	App      core.App
	Config   *config.Config
	Pipeline services.Pipeline
	Rows     *services.RowCache
	Presets  *services.PresetStore
	Exporter services.Exporter

	mu    sync.Mutex
	views map[string]*services.ViewController
}

// NewReport wires the master report over app.
func NewReport(app core.App, cfg *config.Config) *Report {
	pipeline := services.NewPipeline(cfg.Location())
	return &Report{
		App:      app,
		Config:   cfg,
		Pipeline: pipeline,
		Rows:     services.NewRowCache(services.NewRecordRowSource(app)),
		Presets:  services.NewPresetStore(app, pipeline.Registry),
		Exporter: services.Exporter{
			Gate:     services.NewExportGate(),
			Renderer: pipeline.Renderer(),
		},
		views: make(map[string]*services.ViewController),
	}
}

// View returns the view controller of owner, loading it on first use.
func (r *Report) View(owner string) *services.ViewController {
	r.mu.Lock()
	defer r.mu.Unlock()
	vc, ok := r.views[owner]
	if !ok {
		store := services.NewRecordViewStore(r.App, owner)
		vc = services.LoadViewController(r.Pipeline.Registry, store, services.MasterReportViewSlot)
		r.views[owner] = vc
	}
	return vc
}

// gridRequest collects what is needed to draw the grid for one request.
type gridRequest struct {
	snap     services.RowSnapshot
	cfg      services.ViewConfiguration
	scroll   float64
	viewport float64
	rowsOnly bool
}

func (r *Report) newGridRequest(e *core.RequestEvent, snap services.RowSnapshot, cfg services.ViewConfiguration) gridRequest {
	viewport := cast.ToFloat64(e.Request.FormValue("viewport"))
	if !(viewport > 0) || math.IsInf(viewport, 0) {
		viewport = r.Config.ViewportHeight
	}
	scroll := cast.ToFloat64(e.Request.FormValue("scroll"))
	if math.IsNaN(scroll) || math.IsInf(scroll, 0) {
		scroll = 0
	}
	return gridRequest{
		snap:     snap,
		cfg:      cfg,
		scroll:   scroll,
		viewport: viewport,
		rowsOnly: e.Request.FormValue("part") == "rows",
	}
}

// gridComponent runs the pipeline and returns the grid fragment.
func (r *Report) gridComponent(g gridRequest) templ.Component {
	data := GridData{
		Config:    g.cfg,
		Renderer:  r.Pipeline.Renderer(),
		RowHeight: r.Config.RowHeight,
		Viewport:  g.viewport,
		Loaded:    g.snap.Loaded,
	}
	if g.snap.Err != nil {
		data.Banner = fetchErrorMessage(g.snap.Err)
	}
	if g.snap.Loaded {
		data.View = r.Pipeline.Run(g.snap.Rows, g.cfg)
		data.First, data.End = services.VisibleRange(g.scroll, g.viewport, r.Config.RowHeight, len(data.View.Rows))
	}
	if g.rowsOnly {
		return ReportGridRows(data)
	}
	return ReportGrid(data)
}

// renderGrid writes the grid fragment.
func (r *Report) renderGrid(e *core.RequestEvent, g gridRequest) error {
	e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
	return r.gridComponent(g).Render(e.Request.Context(), e.Response)
}

func fetchErrorMessage(err error) string {
	var fe *services.FetchError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return "Could not load bookings. Please try again."
}

// HandleReportGrid renders the grid for the current view. With part=rows it
// renders only the table body, which is what the scroll trigger asks for.
func HandleReportGrid(r *Report) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rc := GetReportContext(e.Request)
		snap := r.Rows.Ensure(rc.Organization)
		if snap.Err != nil {
			log.Printf("report_grid: request %s: %v", rc.RequestID, snap.Err)
		}
		return r.renderGrid(e, r.newGridRequest(e, snap, r.View(rc.Owner).Config()))
	}
}

// HandleReportRefresh refetches rows. On failure the previous rows stay on
// screen under an error banner.
func HandleReportRefresh(r *Report) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rc := GetReportContext(e.Request)
		snap := r.Rows.Refresh(rc.Organization)
		if snap.Err != nil {
			log.Printf("report_refresh: request %s: %v", rc.RequestID, snap.Err)
			SetToast(e, "error", fetchErrorMessage(snap.Err))
		}
		return r.renderGrid(e, r.newGridRequest(e, snap, r.View(rc.Owner).Config()))
	}
}
