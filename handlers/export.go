package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"github.com/funinthesundocs/epictours-sub001/services"
)

// exportMenu walks the export menu to a ready state for the requested
// format, applying PDF sub-options from the query string.
func (r *Report) exportMenu(e *core.RequestEvent, format services.ExportFormat) (services.ExportMenu, error) {
	menu, err := services.NewExportMenu(r.Config.PDFDefaults()).Open()
	if err != nil {
		return menu, err
	}
	if menu, err = menu.Choose(format); err != nil {
		return menu, err
	}
	if format == services.ExportPDF {
		q := e.Request.URL.Query()
		opts := services.ParsePDFOptions(q.Get("orientation"), q.Get("layout"), menu.PDF)
		if menu, err = menu.ConfigurePDF(opts); err != nil {
			return menu, err
		}
	}
	return menu, nil
}

func (r *Report) exportMeta(rc ReportContext, now time.Time) services.ExportMeta {
	org := r.Config.OrganizationName
	if org == "" {
		org = rc.Organization
	}
	return services.ExportMeta{
		Title:        r.Config.Title,
		Organization: org,
		PreparedBy:   rc.PreparedBy,
		GeneratedAt:  now,
		Location:     r.Config.Location(),
	}
}

// HandleReportExport renders the current view (filtered, sorted, visible
// columns) as CSV, TSV, XLSX or PDF. TSV is served inline for the clipboard.
func HandleReportExport(r *Report) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rc := GetReportContext(e.Request)

		format, err := services.ParseExportFormat(e.Request.PathValue("format"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Unknown export format")
		}

		// After a failed refresh the grid keeps stale rows under a banner;
		// a file carries no banner, so exporting waits for a good fetch.
		snap := r.Rows.Ensure(rc.Organization)
		if !snap.Loaded || snap.Err != nil {
			log.Printf("report_export: request %s: rows unavailable: %v", rc.RequestID, snap.Err)
			return ErrorToast(e, http.StatusServiceUnavailable, fetchErrorMessage(snap.Err))
		}

		menu, err := r.exportMenu(e, format)
		if err != nil {
			log.Printf("report_export: menu: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Invalid export options")
		}

		now := time.Now()
		view := r.Pipeline.Run(snap.Rows, r.View(rc.Owner).Config())
		data, _, err := r.Exporter.Export(rc.Owner, menu, view, r.exportMeta(rc, now))
		if errors.Is(err, services.ErrExportInProgress) {
			return ErrorToast(e, http.StatusConflict, "An export is already being generated")
		}
		if err != nil {
			log.Printf("report_export: failed to generate %s: %v", format, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate export")
		}

		filename := services.ExportFilename(rc.Organization, rc.PreparedBy, now.In(r.Config.Location()), format)
		disposition := "attachment"
		if format == services.ExportTSV {
			disposition = "inline"
		}

		e.Response.Header().Set("Content-Type", format.ContentType())
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, filename))
		e.Response.WriteHeader(http.StatusOK)
		_, err = e.Response.Write(data)
		return err
	}
}
