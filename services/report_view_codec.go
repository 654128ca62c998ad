package services

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

// legacyClearAllSentinel was stored by older clients in a filter value list
// to mean "nothing selected".
const legacyClearAllSentinel = "__CLEAR_ALL__"

type columnFilterJSON struct {
	Mode   FilterMode `json:"mode"`
	Values []string   `json:"values"`
}

type viewConfigurationJSON struct {
	VisibleColumns []string                    `json:"visibleColumns"`
	SortCriteria   []SortCriterion             `json:"sortCriteria"`
	ColumnFilters  map[string]columnFilterJSON `json:"columnFilters"`
	SearchQuery    string                      `json:"searchQuery"`
	DateRange      DateRange                   `json:"dateRange"`
	DateFilterType DateFilterType              `json:"dateFilterType"`
}

// MarshalJSON writes the persisted form. NoFilter columns are omitted.
func (v ViewConfiguration) MarshalJSON() ([]byte, error) {
	w := viewConfigurationJSON{
		VisibleColumns: v.VisibleColumns,
		SortCriteria:   v.SortCriteria,
		ColumnFilters:  make(map[string]columnFilterJSON, len(v.ColumnFilters)),
		SearchQuery:    v.SearchQuery,
		DateRange:      v.DateRange,
		DateFilterType: v.DateFilterType,
	}
	if w.VisibleColumns == nil {
		w.VisibleColumns = []string{}
	}
	if w.SortCriteria == nil {
		w.SortCriteria = []SortCriterion{}
	}
	for key, f := range v.ColumnFilters {
		if !f.Active() {
			continue
		}
		w.ColumnFilters[key] = columnFilterJSON{Mode: FilterInclude, Values: f.SortedValues()}
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the persisted form leniently: each portion that is
// missing or has the wrong shape keeps its default. Only syntactically
// invalid JSON is an error. Call Repair afterwards to validate column keys.
func (v *ViewConfiguration) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("view configuration: invalid JSON")
	}
	*v = decodeViewConfiguration(gjson.ParseBytes(data))
	return nil
}

// ParseViewConfiguration decodes persisted settings and repairs them against
// reg. Absent or corrupt data yields the defaults.
func ParseViewConfiguration(raw []byte, reg *ColumnRegistry) ViewConfiguration {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return DefaultViewConfiguration().Repair(reg)
	}
	return decodeViewConfiguration(gjson.ParseBytes(raw)).Repair(reg)
}

func decodeViewConfiguration(doc gjson.Result) ViewConfiguration {
	v := DefaultViewConfiguration()
	if !doc.IsObject() {
		return v
	}

	if cols := doc.Get("visibleColumns"); cols.IsArray() {
		var keys []string
		for _, c := range cols.Array() {
			if c.Type == gjson.String {
				keys = append(keys, c.String())
			}
		}
		if len(keys) > 0 {
			v.VisibleColumns = keys
		}
	}

	if sorts := doc.Get("sortCriteria"); sorts.IsArray() {
		for _, s := range sorts.Array() {
			key := s.Get("key")
			if key.Type != gjson.String || key.String() == "" {
				continue
			}
			v.SortCriteria = append(v.SortCriteria, SortCriterion{
				Key:       key.String(),
				Direction: SortDirection(s.Get("direction").String()),
			})
		}
	}

	if filters := doc.Get("columnFilters"); filters.IsObject() {
		filters.ForEach(func(key, value gjson.Result) bool {
			if f, ok := decodeColumnFilter(value); ok {
				v.ColumnFilters[key.String()] = f
			}
			return true
		})
	}

	if q := doc.Get("searchQuery"); q.Type == gjson.String {
		v.SearchQuery = q.String()
	}

	if r := doc.Get("dateRange"); r.IsObject() {
		v.DateRange = DateRange{
			Start: validDate(r.Get("start").String()),
			End:   validDate(r.Get("end").String()),
		}
	}

	if t := doc.Get("dateFilterType"); t.Type == gjson.String {
		if _, ok := dateFilterFields[DateFilterType(t.String())]; ok {
			v.DateFilterType = DateFilterType(t.String())
		}
	}
	return v
}

// decodeColumnFilter accepts the tagged form {"mode","values"} as well as
// the legacy bare value list, where an empty list meant no filter and the
// clear-all sentinel meant an empty selection. The second result is false
// when the value means "no filter" or cannot be read.
func decodeColumnFilter(value gjson.Result) (ColumnFilter, bool) {
	switch {
	case value.IsObject():
		if value.Get("mode").String() != string(FilterInclude) {
			return ColumnFilter{}, false
		}
		return IncludeOnly(stringArray(value.Get("values"))...), true
	case value.IsArray():
		values := stringArray(value)
		if len(values) == 0 {
			return ColumnFilter{}, false
		}
		kept := values[:0]
		for _, s := range values {
			if s != legacyClearAllSentinel {
				kept = append(kept, s)
			}
		}
		return IncludeOnly(kept...), true
	}
	return ColumnFilter{}, false
}

func stringArray(r gjson.Result) []string {
	var out []string
	for _, item := range r.Array() {
		if item.Type == gjson.String {
			out = append(out, item.String())
		}
	}
	return out
}

// IsLegacyViewSettings reports whether raw stores any column filter in the
// legacy bare-list form.
func IsLegacyViewSettings(raw []byte) bool {
	if !gjson.ValidBytes(raw) {
		return false
	}
	legacy := false
	gjson.GetBytes(raw, "columnFilters").ForEach(func(_, value gjson.Result) bool {
		if value.IsArray() {
			legacy = true
			return false
		}
		return true
	})
	return legacy
}
