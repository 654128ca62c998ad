package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"github.com/funinthesundocs/epictours-sub001/services"
)

// RowDetailEvent is the HX-Trigger event fired when a grid cell is clicked.
const RowDetailEvent = "rowDetailRequested"

// HandleRowDetail routes a click on a grid cell to the editor that owns the
// clicked value. The grid itself is left untouched.
func HandleRowDetail(r *Report) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rc := GetReportContext(e.Request)
		rowID := e.Request.PathValue("id")

		col, ok := r.Pipeline.Registry.Column(e.Request.URL.Query().Get("column"))
		if !ok {
			return e.String(http.StatusNotFound, "Unknown column")
		}
		row, ok := services.FindRow(r.Rows.Snapshot(rc.Organization).Rows, rowID)
		if !ok {
			return e.String(http.StatusNotFound, "Booking not found")
		}

		event := services.NewRowDetailRequested(row, col)
		setHXTrigger(e, RowDetailEvent, event)
		return e.JSON(http.StatusOK, event)
	}
}
