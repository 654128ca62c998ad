package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every currency cell and total.
const CurrencySymbol = "$"

// FormatUSD formats an amount as US dollars with thousands grouping
// and exactly 2 decimal places (e.g., $1,234.56, -$100.00).
func FormatUSD(amount decimal.Decimal) string {
	negative := amount.IsNegative()

	// Split into integer and decimal parts.
	raw := amount.Abs().StringFixed(2)
	parts := strings.SplitN(raw, ".", 2)

	result := CurrencySymbol + groupThousands(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts commas into a non-negative integer string.
func groupThousands(s string) string {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return s
	}
	return humanize.Comma(n)
}

// formatNumber renders a plain number without trailing zeros.
func formatNumber(d decimal.Decimal) string {
	return d.String()
}

// formatPhone renders 10-digit (or 1 + 10-digit) North American numbers as
// (555) 123-4567. Anything else is returned unchanged.
func formatPhone(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	prefix := ""
	if len(d) == 11 && d[0] == '1' {
		prefix = "+1 "
		d = d[1:]
	}
	if len(d) != 10 {
		return s
	}
	return prefix + "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}

// displayDateLayout is used for date cells in the grid and every export.
const displayDateLayout = "Jan 02, 2006"

func formatDisplayDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(displayDateLayout)
}
