package services

import (
	"time"
)

// ReportView is the filtered, sorted and totalled result that the grid and
// the exporters render.
type ReportView struct {
	Columns     []Column
	Rows        []Row
	Totals      Totals
	SourceCount int
}

// Pipeline runs filter → sort → totals over raw rows. It holds no state
// between runs, so equal inputs always produce equal views.
type Pipeline struct {
	Registry *ColumnRegistry
	Location *time.Location
}

// NewPipeline returns a pipeline over the master report columns.
func NewPipeline(loc *time.Location) Pipeline {
	if loc == nil {
		loc = time.Local
	}
	return Pipeline{Registry: MasterReportColumns(), Location: loc}
}

// Renderer returns the cell renderer shared by grid, filters and exports.
func (p Pipeline) Renderer() CellRenderer {
	return CellRenderer{Location: p.Location}
}

// Run applies cfg to raw.
func (p Pipeline) Run(raw []Row, cfg ViewConfiguration) ReportView {
	cfg = cfg.Repair(p.Registry)
	filtered := FilterRows(raw, cfg.FilterParams(p.Registry, p.Location))
	sorted := SortRows(filtered, cfg.SortCriteria)
	columns := p.Registry.Resolve(cfg.VisibleColumns)
	return ReportView{
		Columns:     columns,
		Rows:        sorted,
		Totals:      ComputeTotals(sorted, columns),
		SourceCount: len(raw),
	}
}

// Universe returns the distinct rendered values of key over raw rows.
func (p Pipeline) Universe(raw []Row, key string) []string {
	col, ok := p.Registry.Column(key)
	if !ok {
		return nil
	}
	return DistinctValues(raw, col, p.Location)
}
