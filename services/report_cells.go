package services

import (
	"strings"
	"time"

	"github.com/spf13/cast"
)

// EmptyCell is rendered for absent, null and blank values. Column filters
// match against it like any other value.
const EmptyCell = "-"

// CellRenderer turns raw row values into display strings. The grid, the
// column filters and every export use the same renderer so a value shown
// on screen is exactly the value a filter or export sees.
type CellRenderer struct {
	Location *time.Location
}

// Text renders the cell of row for col.
func (cr CellRenderer) Text(row Row, col Column) string {
	v, ok := row.Value(col.Key)
	if !ok {
		return EmptyCell
	}

	switch col.Format {
	case FormatCurrency:
		if d, ok := numericValue(v); ok {
			return FormatUSD(d)
		}
	case FormatNumber:
		if d, ok := numericValue(v); ok {
			return formatNumber(d)
		}
	case FormatDate:
		if t, ok := parseRowDate(v, cr.Location); ok {
			return formatDisplayDate(t, cr.Location)
		}
	case FormatPhone:
		if s := strings.TrimSpace(cast.ToString(v)); s != "" {
			return formatPhone(s)
		}
	}

	s := strings.TrimSpace(cast.ToString(v))
	if s == "" {
		return EmptyCell
	}
	return s
}
