package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"github.com/funinthesundocs/epictours-sub001/services"
)

// viewTransition turns one submitted form into a view reducer. raw is the
// organization's unfiltered rows, the universe column filters normalize
// against.
func (r *Report) viewTransition(req *http.Request, raw []services.Row) (func(services.ViewConfiguration) services.ViewConfiguration, error) {
	reg := r.Pipeline.Registry
	key := req.FormValue("key")
	from := cast.ToInt(req.FormValue("from"))
	to := cast.ToInt(req.FormValue("to"))

	switch action := req.FormValue("action"); action {
	case "toggle_column":
		return func(v services.ViewConfiguration) services.ViewConfiguration { return v.ToggleColumn(reg, key) }, nil
	case "reorder_columns":
		return func(v services.ViewConfiguration) services.ViewConfiguration { return v.ReorderColumns(from, to) }, nil
	case "toggle_sort":
		return func(v services.ViewConfiguration) services.ViewConfiguration { return v.ToggleSort(key) }, nil
	case "flip_sort":
		return func(v services.ViewConfiguration) services.ViewConfiguration { return v.FlipSortDirection(key) }, nil
	case "reorder_sort":
		return func(v services.ViewConfiguration) services.ViewConfiguration { return v.ReorderSort(from, to) }, nil
	case "cycle_sort":
		return func(v services.ViewConfiguration) services.ViewConfiguration { return v.CycleSort(key) }, nil
	case "set_filter":
		values := req.Form["values"]
		universe := r.Pipeline.Universe(raw, key)
		return func(v services.ViewConfiguration) services.ViewConfiguration {
			return v.SetColumnFilter(key, values, universe)
		}, nil
	case "clear_filter":
		return func(v services.ViewConfiguration) services.ViewConfiguration { return v.ClearColumnFilter(key) }, nil
	case "exclude_all":
		return func(v services.ViewConfiguration) services.ViewConfiguration { return v.ExcludeAllValues(key) }, nil
	case "clear_all_filters":
		return services.ViewConfiguration.ClearAllFilters, nil
	case "search":
		q := req.FormValue("q")
		return func(v services.ViewConfiguration) services.ViewConfiguration { return v.SetSearch(q) }, nil
	case "date_range":
		dr := services.DateRange{Start: req.FormValue("start"), End: req.FormValue("end")}
		return func(v services.ViewConfiguration) services.ViewConfiguration { return v.SetDateRange(dr) }, nil
	case "date_type":
		t := services.DateFilterType(req.FormValue("type"))
		return func(v services.ViewConfiguration) services.ViewConfiguration { return v.SetDateFilterType(t) }, nil
	case "reset":
		return func(services.ViewConfiguration) services.ViewConfiguration {
			return services.DefaultViewConfiguration()
		}, nil
	default:
		return nil, fmt.Errorf("unknown view action %q", action)
	}
}

// HandleViewGet returns the current view configuration as JSON.
func HandleViewGet(r *Report) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rc := GetReportContext(e.Request)
		return e.JSON(http.StatusOK, r.View(rc.Owner).Config())
	}
}

// HandleViewUpdate applies one view action and re-renders the grid. A
// failed save is reported with a toast; the change still takes effect.
func HandleViewUpdate(r *Report) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rc := GetReportContext(e.Request)
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		snap := r.Rows.Ensure(rc.Organization)
		transition, err := r.viewTransition(e.Request, snap.Rows)
		if err != nil {
			log.Printf("report_view: request %s: %v", rc.RequestID, err)
			return ErrorToast(e, http.StatusBadRequest, "Unknown report action")
		}

		cfg, err := r.View(rc.Owner).Apply(transition)
		if err != nil {
			log.Printf("report_view: save view for %s: %v", rc.Owner, err)
			SetToast(e, "error", "Your view could not be saved")
		}
		return r.renderGrid(e, r.newGridRequest(e, snap, cfg))
	}
}

// FilterValue is one entry of a column's filter picker.
type FilterValue struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// FilterValues is the filter picker state of one column.
type FilterValues struct {
	Column      string        `json:"column"`
	Active      bool          `json:"active"`
	ExcludedAll bool          `json:"excludedAll"`
	Values      []FilterValue `json:"values"`
}

// HandleColumnValues lists the distinct values of a column across all rows
// of the organization, marking which ones the current filter lets through.
func HandleColumnValues(r *Report) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rc := GetReportContext(e.Request)
		key := strings.TrimSpace(e.Request.PathValue("key"))
		if _, ok := r.Pipeline.Registry.Column(key); !ok {
			return e.String(http.StatusNotFound, "Unknown column")
		}

		snap := r.Rows.Ensure(rc.Organization)
		f := r.View(rc.Owner).Config().Filter(key)

		out := FilterValues{
			Column:      key,
			Active:      f.Active(),
			ExcludedAll: f.Active() && len(f.Values) == 0,
			Values:      []FilterValue{},
		}
		for _, v := range r.Pipeline.Universe(snap.Rows, key) {
			out.Values = append(out.Values, FilterValue{Value: v, Selected: f.Allows(v)})
		}
		return e.JSON(http.StatusOK, out)
	}
}
