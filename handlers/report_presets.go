package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pocketbase/pocketbase/core"

	"github.com/funinthesundocs/epictours-sub001/services"
)

// PresetSummary is one entry of the preset list.
type PresetSummary struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Updated time.Time `json:"updated"`
	Age     string    `json:"age"`
}

func presetSummary(p services.Preset) PresetSummary {
	return PresetSummary{ID: p.ID, Name: p.Name, Updated: p.Updated, Age: humanize.Time(p.Updated)}
}

// presetError maps preset store errors to a status and toast message.
func presetError(e *core.RequestEvent, op string, err error) error {
	switch {
	case errors.Is(err, services.ErrPresetNameRequired):
		return ErrorToast(e, http.StatusUnprocessableEntity, "Preset name is required")
	case errors.Is(err, services.ErrPresetNameTaken):
		return ErrorToast(e, http.StatusUnprocessableEntity, "A preset with this name already exists")
	case errors.Is(err, services.ErrPresetNotFound):
		return ErrorToast(e, http.StatusNotFound, "Preset not found")
	}
	log.Printf("report_presets: %s: %v", op, err)
	return ErrorToast(e, http.StatusInternalServerError, "Failed to "+op+" preset")
}

// HandlePresetList returns the caller's presets ordered by name.
func HandlePresetList(r *Report) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rc := GetReportContext(e.Request)
		presets, err := r.Presets.List(rc.Owner)
		if err != nil {
			return presetError(e, "list", err)
		}
		out := make([]PresetSummary, 0, len(presets))
		for _, p := range presets {
			out = append(out, presetSummary(p))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandlePresetCreate saves the current view under the submitted name.
func HandlePresetCreate(r *Report) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rc := GetReportContext(e.Request)
		p, err := r.Presets.Create(rc.Owner, e.Request.FormValue("name"), r.View(rc.Owner).Config())
		if err != nil {
			return presetError(e, "save", err)
		}
		SetToast(e, "success", "Preset \""+p.Name+"\" saved")
		return e.JSON(http.StatusCreated, presetSummary(p))
	}
}

// HandlePresetUpdate overwrites a preset with the current view, renaming it
// when a name is submitted.
func HandlePresetUpdate(r *Report) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rc := GetReportContext(e.Request)
		id := e.Request.PathValue("id")

		name := e.Request.FormValue("name")
		if name == "" {
			existing, err := r.Presets.Get(rc.Owner, id)
			if err != nil {
				return presetError(e, "update", err)
			}
			name = existing.Name
		}

		p, err := r.Presets.Update(rc.Owner, id, name, r.View(rc.Owner).Config())
		if err != nil {
			return presetError(e, "update", err)
		}
		SetToast(e, "success", "Preset \""+p.Name+"\" updated")
		return e.JSON(http.StatusOK, presetSummary(p))
	}
}

// HandlePresetLoad replaces the current view with a preset and re-renders
// the grid.
func HandlePresetLoad(r *Report) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rc := GetReportContext(e.Request)
		p, err := r.Presets.Get(rc.Owner, e.Request.PathValue("id"))
		if err != nil {
			return presetError(e, "load", err)
		}

		cfg, err := r.View(rc.Owner).Replace(p.Settings)
		if err != nil {
			log.Printf("report_presets: save view for %s: %v", rc.Owner, err)
			SetToast(e, "error", "Your view could not be saved")
		} else {
			SetToast(e, "success", "Preset \""+p.Name+"\" loaded")
		}
		snap := r.Rows.Ensure(rc.Organization)
		return r.renderGrid(e, r.newGridRequest(e, snap, cfg))
	}
}

// HandlePresetDelete removes a preset.
func HandlePresetDelete(r *Report) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rc := GetReportContext(e.Request)
		if err := r.Presets.Delete(rc.Owner, e.Request.PathValue("id")); err != nil {
			return presetError(e, "delete", err)
		}
		SetToast(e, "success", "Preset deleted")
		return e.NoContent(http.StatusNoContent)
	}
}
