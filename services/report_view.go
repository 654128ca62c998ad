package services

import (
	"slices"
	"strings"
	"time"
)

// ViewConfiguration is the complete user-chosen state of one report view.
// Values are never mutated in place: every transition returns a new value.
type ViewConfiguration struct {
	VisibleColumns []string
	SortCriteria   []SortCriterion
	ColumnFilters  map[string]ColumnFilter
	SearchQuery    string
	DateRange      DateRange
	DateFilterType DateFilterType
}

// DefaultViewConfiguration is the state of a view nobody has touched yet.
func DefaultViewConfiguration() ViewConfiguration {
	return ViewConfiguration{
		VisibleColumns: slices.Clone(defaultVisibleColumns),
		SortCriteria:   []SortCriterion{},
		ColumnFilters:  map[string]ColumnFilter{},
		DateFilterType: DateFilterActivity,
	}
}

// Clone returns a deep copy.
func (v ViewConfiguration) Clone() ViewConfiguration {
	out := v
	out.VisibleColumns = slices.Clone(v.VisibleColumns)
	out.SortCriteria = slices.Clone(v.SortCriteria)
	out.ColumnFilters = make(map[string]ColumnFilter, len(v.ColumnFilters))
	for k, f := range v.ColumnFilters {
		out.ColumnFilters[k] = f.clone()
	}
	return out
}

// Filter returns the filter for key, NoFilter when none is set.
func (v ViewConfiguration) Filter(key string) ColumnFilter {
	if f, ok := v.ColumnFilters[key]; ok {
		return f
	}
	return NoFilter()
}

// IsColumnFilterActive reports whether key currently restricts rows.
func (v ViewConfiguration) IsColumnFilterActive(key string) bool {
	return v.Filter(key).Active()
}

// FilterParams extracts the filter stage inputs.
func (v ViewConfiguration) FilterParams(reg *ColumnRegistry, loc *time.Location) FilterParams {
	return FilterParams{
		DateRange:      v.DateRange,
		DateFilterType: v.DateFilterType,
		Search:         v.SearchQuery,
		ColumnFilters:  v.ColumnFilters,
		Registry:       reg,
		Location:       loc,
	}
}

// Repair makes v consistent with reg: unknown or repeated column keys are
// dropped, always-visible columns are restored, and an empty column list
// falls back to the defaults. Only the invalid portion is replaced.
func (v ViewConfiguration) Repair(reg *ColumnRegistry) ViewConfiguration {
	out := v.Clone()

	out.VisibleColumns = reg.Reconcile(out.VisibleColumns)
	if len(out.VisibleColumns) == 0 {
		out.VisibleColumns = reg.Reconcile(defaultVisibleColumns)
	}
	for _, key := range reg.alwaysVisibleKeys() {
		if !slices.Contains(out.VisibleColumns, key) {
			out.VisibleColumns = append([]string{key}, out.VisibleColumns...)
		}
	}

	seen := make(map[string]bool, len(out.SortCriteria))
	criteria := make([]SortCriterion, 0, len(out.SortCriteria))
	for _, sc := range out.SortCriteria {
		if _, ok := reg.Column(sc.Key); !ok || seen[sc.Key] {
			continue
		}
		if sc.Direction != SortAsc && sc.Direction != SortDesc {
			sc.Direction = DefaultSortDirection
		}
		seen[sc.Key] = true
		criteria = append(criteria, sc)
	}
	out.SortCriteria = criteria

	for key := range out.ColumnFilters {
		if _, ok := reg.Column(key); !ok {
			delete(out.ColumnFilters, key)
		}
	}

	if _, ok := dateFilterFields[out.DateFilterType]; !ok {
		out.DateFilterType = DateFilterActivity
	}
	out.DateRange = DateRange{Start: validDate(out.DateRange.Start), End: validDate(out.DateRange.End)}
	return out
}

func validDate(s string) string {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(dateOnlyLayout, s); err != nil {
		return ""
	}
	return s
}

// ToggleColumn shows a hidden column (appended at the end) or hides a
// visible one. Always-visible columns and the last visible column stay.
func (v ViewConfiguration) ToggleColumn(reg *ColumnRegistry, key string) ViewConfiguration {
	col, ok := reg.Column(key)
	if !ok {
		return v.Clone()
	}
	out := v.Clone()
	if i := slices.Index(out.VisibleColumns, key); i >= 0 {
		if col.AlwaysVisible || len(out.VisibleColumns) == 1 {
			return out
		}
		out.VisibleColumns = slices.Delete(out.VisibleColumns, i, i+1)
		return out
	}
	out.VisibleColumns = append(out.VisibleColumns, key)
	return out
}

// ReorderColumns moves the visible column at from to index to.
func (v ViewConfiguration) ReorderColumns(from, to int) ViewConfiguration {
	out := v.Clone()
	out.VisibleColumns = reorder(out.VisibleColumns, from, to)
	return out
}

// ToggleSort adds key as the lowest-priority criterion with the default
// direction, or removes it when it is already a criterion.
func (v ViewConfiguration) ToggleSort(key string) ViewConfiguration {
	out := v.Clone()
	i := slices.IndexFunc(out.SortCriteria, func(sc SortCriterion) bool { return sc.Key == key })
	if i >= 0 {
		out.SortCriteria = slices.Delete(out.SortCriteria, i, i+1)
		return out
	}
	out.SortCriteria = append(out.SortCriteria, SortCriterion{Key: key, Direction: DefaultSortDirection})
	return out
}

// FlipSortDirection reverses the direction of key without moving it.
func (v ViewConfiguration) FlipSortDirection(key string) ViewConfiguration {
	out := v.Clone()
	for i := range out.SortCriteria {
		if out.SortCriteria[i].Key == key {
			out.SortCriteria[i].Direction = out.SortCriteria[i].Direction.Flipped()
		}
	}
	return out
}

// ReorderSort changes criterion priority; membership is unchanged.
func (v ViewConfiguration) ReorderSort(from, to int) ViewConfiguration {
	out := v.Clone()
	out.SortCriteria = reorder(out.SortCriteria, from, to)
	return out
}

// CycleSort is the simple grid's header click: sorting by key alone,
// ascending first, then alternating.
func (v ViewConfiguration) CycleSort(key string) ViewConfiguration {
	out := v.Clone()
	dir := SortAsc
	if len(out.SortCriteria) == 1 && out.SortCriteria[0].Key == key {
		dir = out.SortCriteria[0].Direction.Flipped()
	}
	out.SortCriteria = []SortCriterion{{Key: key, Direction: dir}}
	return out
}

// SetColumnFilter restricts key to values. A selection covering the whole
// universe is stored as NoFilter.
func (v ViewConfiguration) SetColumnFilter(key string, values []string, universe []string) ViewConfiguration {
	out := v.Clone()
	f := IncludeOnly(values...).Normalize(universe)
	if !f.Active() {
		delete(out.ColumnFilters, key)
		return out
	}
	out.ColumnFilters[key] = f
	return out
}

// ClearColumnFilter removes any restriction on key ("select all").
func (v ViewConfiguration) ClearColumnFilter(key string) ViewConfiguration {
	out := v.Clone()
	delete(out.ColumnFilters, key)
	return out
}

// ExcludeAllValues filters key to nothing ("clear all"): no row passes.
func (v ViewConfiguration) ExcludeAllValues(key string) ViewConfiguration {
	out := v.Clone()
	out.ColumnFilters[key] = IncludeOnly()
	return out
}

// ClearAllFilters drops column filters, search and date range.
func (v ViewConfiguration) ClearAllFilters() ViewConfiguration {
	out := v.Clone()
	out.ColumnFilters = map[string]ColumnFilter{}
	out.SearchQuery = ""
	out.DateRange = DateRange{}
	return out
}

// SetSearch replaces the free-text query.
func (v ViewConfiguration) SetSearch(q string) ViewConfiguration {
	out := v.Clone()
	out.SearchQuery = q
	return out
}

// SetDateRange replaces the date range. Malformed bounds become open.
func (v ViewConfiguration) SetDateRange(r DateRange) ViewConfiguration {
	out := v.Clone()
	out.DateRange = DateRange{Start: validDate(r.Start), End: validDate(r.End)}
	return out
}

// SetDateFilterType switches the date field the range applies to.
func (v ViewConfiguration) SetDateFilterType(t DateFilterType) ViewConfiguration {
	out := v.Clone()
	if _, ok := dateFilterFields[t]; ok {
		out.DateFilterType = t
	}
	return out
}

// reorder removes the element at from and reinserts it at to. Out of range
// indexes leave the list unchanged.
func reorder[T any](s []T, from, to int) []T {
	if from < 0 || from >= len(s) || to < 0 || to >= len(s) || from == to {
		return s
	}
	item := s[from]
	s = slices.Delete(s, from, from+1)
	return slices.Insert(s, to, item)
}
