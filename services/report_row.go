package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Row is one denormalized master report record keyed by column key. Rows
// are treated as immutable snapshots once produced by the row source.
type Row map[string]any

// RowIDKey is the stable identity field of every row.
const RowIDKey = "booking_id"

// ID returns the row identity.
func (r Row) ID() string {
	return cast.ToString(r[RowIDKey])
}

// Value returns the raw value for key. Nil values count as absent.
func (r Row) Value(key string) (any, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns the raw value as a string, "" when absent.
func (r Row) String(key string) string {
	v, ok := r.Value(key)
	if !ok {
		return ""
	}
	return cast.ToString(v)
}

// numericValue interprets v as a decimal. Currency strings such as
// "$1,200.50" are accepted; anything else unparsable yields false.
func numericValue(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return n, true
	case string:
		s := strings.TrimSpace(n)
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimPrefix(s, "$")
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case bool:
		return decimal.Zero, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// isNumber reports whether v is a Go numeric type (not a numeric-looking string).
func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, decimal.Decimal:
		return true
	}
	return false
}

// dateOnlyLayout is how activity dates are stored.
const dateOnlyLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.000Z07:00",
	"2006-01-02 15:04:05.000Z",
	"2006-01-02 15:04:05Z07:00",
}

// localTimestampLayouts carry no zone and are read in the report location.
var localTimestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseRowDate parses a row date. Date-only strings are calendar dates in
// loc (midnight local, no UTC shift); full timestamps keep their instant.
func parseRowDate(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	if t, ok := v.(time.Time); ok {
		return t, !t.IsZero()
	}
	s := strings.TrimSpace(cast.ToString(v))
	if s == "" {
		return time.Time{}, false
	}
	if len(s) == len(dateOnlyLayout) {
		if t, err := time.ParseInLocation(dateOnlyLayout, s, loc); err == nil {
			return t, true
		}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localTimestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
