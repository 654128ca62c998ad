package services

import (
	"slices"
	"strings"
	"time"
)

// FilterMode tags a ColumnFilter.
type FilterMode string

const (
	// FilterNone imposes no constraint on the column.
	FilterNone FilterMode = "none"
	// FilterInclude lets through only the listed display values. An empty
	// include set lets nothing through.
	FilterInclude FilterMode = "include"
)

// ColumnFilter is either NoFilter or IncludeOnly(values).
type ColumnFilter struct {
	Mode   FilterMode
	Values map[string]struct{}
}

// NoFilter returns a filter that passes every row.
func NoFilter() ColumnFilter {
	return ColumnFilter{Mode: FilterNone}
}

// IncludeOnly returns a filter passing rows whose cell is one of values.
func IncludeOnly(values ...string) ColumnFilter {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return ColumnFilter{Mode: FilterInclude, Values: set}
}

// Active reports whether the filter can exclude rows.
func (f ColumnFilter) Active() bool {
	return f.Mode == FilterInclude
}

// Allows reports whether a rendered cell passes the filter.
func (f ColumnFilter) Allows(cell string) bool {
	if !f.Active() {
		return true
	}
	_, ok := f.Values[cell]
	return ok
}

// SortedValues returns the include set in ascending byte order.
func (f ColumnFilter) SortedValues() []string {
	out := make([]string, 0, len(f.Values))
	for v := range f.Values {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Normalize collapses an include set that covers every known value back
// to NoFilter so the "filter active" indicator stays accurate.
func (f ColumnFilter) Normalize(universe []string) ColumnFilter {
	if !f.Active() || len(universe) == 0 {
		return f
	}
	for _, v := range universe {
		if _, ok := f.Values[v]; !ok {
			return f
		}
	}
	return NoFilter()
}

func (f ColumnFilter) clone() ColumnFilter {
	if f.Values == nil {
		return ColumnFilter{Mode: f.Mode}
	}
	vals := make(map[string]struct{}, len(f.Values))
	for v := range f.Values {
		vals[v] = struct{}{}
	}
	return ColumnFilter{Mode: f.Mode, Values: vals}
}

// DateFilterType selects which row date drives the date-range filter.
type DateFilterType string

const (
	DateFilterActivity DateFilterType = "activity"
	DateFilterBooked   DateFilterType = "booked"
)

// dateFilterFields maps each DateFilterType to its row field.
var dateFilterFields = map[DateFilterType]string{
	DateFilterActivity: "start_date",
	DateFilterBooked:   "created",
}

// Field returns the row key the type filters on, defaulting to activity date.
func (t DateFilterType) Field() string {
	if f, ok := dateFilterFields[t]; ok {
		return f
	}
	return dateFilterFields[DateFilterActivity]
}

// DateRange holds inclusive YYYY-MM-DD bounds. Empty bounds are open.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// searchFields is the allow-list for free-text search.
var searchFields = []string{
	"booking_id",
	"confirmation_number",
	"customer_name",
	"customer_email",
	"customer_phone",
	"activity_name",
	"pickup_hotel",
	"notes",
	"voucher_number",
	"vehicle_name",
	"driver_name",
	"guide_name",
	"start_date",
}

// FilterParams is the filter portion of a view configuration.
type FilterParams struct {
	DateRange      DateRange
	DateFilterType DateFilterType
	Search         string
	ColumnFilters  map[string]ColumnFilter
	Registry       *ColumnRegistry
	Location       *time.Location
}

// FilterRows applies, in order, the date-range filter, free-text search and
// per-column inclusion filters. The result keeps the input order.
func FilterRows(rows []Row, p FilterParams) []Row {
	out := filterByDateRange(rows, p.DateRange, p.DateFilterType.Field(), p.Location)
	out = filterBySearch(out, p.Search)
	out = filterByColumns(out, p.ColumnFilters, p.Registry, CellRenderer{Location: p.Location})
	return out
}

// dayBounds returns [start 00:00:00.000, end 23:59:59.999] in loc. A bound
// that does not parse is treated as open.
func dayBounds(r DateRange, loc *time.Location) (from, to time.Time, hasFrom, hasTo bool) {
	if loc == nil {
		loc = time.Local
	}
	if s := strings.TrimSpace(r.Start); s != "" {
		if t, err := time.ParseInLocation(dateOnlyLayout, s, loc); err == nil {
			from, hasFrom = t, true
		}
	}
	if s := strings.TrimSpace(r.End); s != "" {
		if t, err := time.ParseInLocation(dateOnlyLayout, s, loc); err == nil {
			to, hasTo = t.AddDate(0, 0, 1).Add(-time.Millisecond), true
		}
	}
	return from, to, hasFrom, hasTo
}

func filterByDateRange(rows []Row, r DateRange, field string, loc *time.Location) []Row {
	from, to, hasFrom, hasTo := dayBounds(r, loc)
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if !hasFrom && !hasTo {
			out = append(out, row)
			continue
		}
		v, ok := row.Value(field)
		if !ok {
			out = append(out, row)
			continue
		}
		t, ok := parseRowDate(v, loc)
		if !ok {
			out = append(out, row)
			continue
		}
		if hasFrom && t.Before(from) {
			continue
		}
		if hasTo && t.After(to) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func filterBySearch(rows []Row, query string) []Row {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(rows)
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		for _, field := range searchFields {
			if strings.Contains(strings.ToLower(row.String(field)), q) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

func filterByColumns(rows []Row, filters map[string]ColumnFilter, reg *ColumnRegistry, cr CellRenderer) []Row {
	type activeFilter struct {
		col    Column
		filter ColumnFilter
	}
	var active []activeFilter
	for key, f := range filters {
		if !f.Active() {
			continue
		}
		col := Column{Key: key, Format: FormatText}
		if reg != nil {
			known, ok := reg.Column(key)
			if !ok {
				continue
			}
			col = known
		}
		active = append(active, activeFilter{col: col, filter: f})
	}
	if len(active) == 0 {
		return rows
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		pass := true
		for _, af := range active {
			if !af.filter.Allows(cr.Text(row, af.col)) {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, row)
		}
	}
	return out
}

// DistinctValues returns the distinct rendered values of col across rows in
// locale order. This is the universe a column filter is normalized against.
func DistinctValues(rows []Row, col Column, loc *time.Location) []string {
	cr := CellRenderer{Location: loc}
	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		v := cr.Text(row, col)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	c := newCollator()
	slices.SortStableFunc(out, func(a, b string) int {
		return c.CompareString(a, b)
	})
	return out
}
