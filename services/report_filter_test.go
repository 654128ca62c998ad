package services

import (
	"slices"
	"testing"
	"time"
)

func filterParams(v ViewConfiguration, loc *time.Location) FilterParams {
	return v.FilterParams(MasterReportColumns(), loc)
}

func TestFilterRows_DateOnlyIsLocalCalendarDate(t *testing.T) {
	zones := []string{"UTC", "Pacific/Honolulu", "Asia/Tokyo", "America/New_York"}
	for _, name := range zones {
		t.Run(name, func(t *testing.T) {
			loc, err := time.LoadLocation(name)
			if err != nil {
				t.Skipf("zoneinfo not available: %v", err)
			}
			v := DefaultViewConfiguration().SetDateRange(DateRange{Start: "2026-01-24", End: "2026-01-24"})
			got := rowIDs(FilterRows(sampleRows(), filterParams(v, loc)))
			// b3 has no activity date and always passes.
			want := []string{"b1", "b3"}
			if !slices.Equal(got, want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestFilterRows_TimestampBoundaries(t *testing.T) {
	rows := []Row{
		{"booking_id": "start", "created": "2026-01-10 00:00:00.000Z"},
		{"booking_id": "last-ms", "created": "2026-01-12 23:59:59.999Z"},
		{"booking_id": "before", "created": "2026-01-09 23:59:59.999Z"},
		{"booking_id": "after", "created": "2026-01-13 00:00:00.000Z"},
		{"booking_id": "undated"},
	}
	v := DefaultViewConfiguration().
		SetDateFilterType(DateFilterBooked).
		SetDateRange(DateRange{Start: "2026-01-10", End: "2026-01-12"})

	got := rowIDs(FilterRows(rows, filterParams(v, time.UTC)))
	want := []string{"start", "last-ms", "undated"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFilterRows_OpenEndedRange(t *testing.T) {
	tests := []struct {
		name string
		rng  DateRange
		want []string
	}{
		{"start only", DateRange{Start: "2026-01-25"}, []string{"b2", "b3"}},
		{"end only", DateRange{End: "2026-01-24"}, []string{"b1", "b3"}},
		{"malformed start ignored", DateRange{Start: "yesterday", End: "2026-01-24"}, []string{"b1", "b3"}},
		{"none", DateRange{}, []string{"b1", "b2", "b3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filterParams(DefaultViewConfiguration(), time.UTC)
			p.DateRange = tt.rng
			got := rowIDs(FilterRows(sampleRows(), p))
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterRows_Search(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"case insensitive name", "alice", []string{"b1"}},
		{"confirmation number", "ept-1002", []string{"b2"}},
		{"email", "@example.com", []string{"b1", "b2"}},
		{"notes", "said", []string{"b3"}},
		{"vehicle", "van", []string{"b1", "b2"}},
		{"whitespace only", "   ", []string{"b1", "b2", "b3"}},
		{"status is not searched", "pending", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := DefaultViewConfiguration().SetSearch(tt.query)
			got := rowIDs(FilterRows(sampleRows(), filterParams(v, time.UTC)))
			if !slices.Equal(got, tt.want) {
				t.Errorf("search %q = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilterRows_ColumnFiltersAreANDed(t *testing.T) {
	v := DefaultViewConfiguration()
	v.ColumnFilters["status"] = IncludeOnly("confirmed")
	v.ColumnFilters["vehicle_name"] = IncludeOnly("Van 1", "Van 2")

	got := rowIDs(FilterRows(sampleRows(), filterParams(v, time.UTC)))
	if !slices.Equal(got, []string{"b1"}) {
		t.Errorf("got %v, want [b1]", got)
	}
}

func TestFilterRows_PlaceholderIsFilterable(t *testing.T) {
	v := DefaultViewConfiguration()
	v.ColumnFilters["vehicle_name"] = IncludeOnly(EmptyCell)

	got := rowIDs(FilterRows(sampleRows(), filterParams(v, time.UTC)))
	if !slices.Equal(got, []string{"b3"}) {
		t.Errorf("got %v, want [b3]", got)
	}
}

func TestFilterRows_MatchesRenderedValues(t *testing.T) {
	v := DefaultViewConfiguration()
	v.ColumnFilters["total_amount"] = IncludeOnly("$1,400.00")
	v.ColumnFilters["start_date"] = IncludeOnly("Jan 25, 2026")

	got := rowIDs(FilterRows(sampleRows(), filterParams(v, time.UTC)))
	if !slices.Equal(got, []string{"b2"}) {
		t.Errorf("got %v, want [b2]", got)
	}
}

func TestColumnFilter_SelectAllAndClearAll(t *testing.T) {
	p := testPipeline()
	raw := sampleRows()
	universe := p.Universe(raw, "status")

	all := DefaultViewConfiguration().SetColumnFilter("status", universe, universe)
	if all.IsColumnFilterActive("status") {
		t.Error("selecting every value should clear the filter")
	}
	if got := len(p.Run(raw, all).Rows); got != 3 {
		t.Errorf("all selected: %d rows, want 3", got)
	}

	none := DefaultViewConfiguration().ExcludeAllValues("status")
	if !none.IsColumnFilterActive("status") {
		t.Error("excluding every value should leave an active filter")
	}
	if got := len(p.Run(raw, none).Rows); got != 0 {
		t.Errorf("none selected: %d rows, want 0", got)
	}

	emptySelection := DefaultViewConfiguration().SetColumnFilter("status", nil, universe)
	if got := len(p.Run(raw, emptySelection).Rows); got != 0 {
		t.Errorf("empty selection: %d rows, want 0", got)
	}

	cleared := none.ClearColumnFilter("status")
	if got := len(p.Run(raw, cleared).Rows); got != 3 {
		t.Errorf("cleared: %d rows, want 3", got)
	}
}

func TestDistinctValues(t *testing.T) {
	reg := MasterReportColumns()
	col, _ := reg.Column("vehicle_name")
	got := DistinctValues(sampleRows(), col, time.UTC)
	want := []string{EmptyCell, "Van 1", "Van 2"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
