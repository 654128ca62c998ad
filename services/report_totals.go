package services

import (
	"github.com/shopspring/decimal"
)

// TotalsLabel marks the totals row in its first non-summable column.
const TotalsLabel = "Total"

// TotalCell is the totals-row cell for one visible column.
type TotalCell struct {
	Key      string
	Summable bool
	Sum      decimal.Decimal
	Text     string
}

// Totals is the totals row, one cell per visible column in display order.
type Totals []TotalCell

// Cell returns the totals cell for key.
func (t Totals) Cell(key string) (TotalCell, bool) {
	for _, c := range t {
		if c.Key == key {
			return c, true
		}
	}
	return TotalCell{}, false
}

// Texts returns the rendered totals row.
func (t Totals) Texts() []string {
	out := make([]string, len(t))
	for i, c := range t {
		out[i] = c.Text
	}
	return out
}

// ComputeTotals sums every summable column over rows. Values that are not
// numbers contribute zero. This is the only totals computation; the grid and
// every export render its output.
func ComputeTotals(rows []Row, columns []Column) Totals {
	totals := make(Totals, len(columns))
	labelled := false
	for i, col := range columns {
		cell := TotalCell{Key: col.Key, Summable: col.Summable, Sum: decimal.Zero}
		if !col.Summable {
			if !labelled {
				cell.Text = TotalsLabel
				labelled = true
			}
			totals[i] = cell
			continue
		}

		for _, row := range rows {
			v, ok := row.Value(col.Key)
			if !ok {
				continue
			}
			if d, ok := numericValue(v); ok {
				cell.Sum = cell.Sum.Add(d)
			}
		}
		cell.Text = formatTotal(cell.Sum, col)
		totals[i] = cell
	}
	return totals
}

func formatTotal(sum decimal.Decimal, col Column) string {
	if col.Format == FormatCurrency {
		return FormatUSD(sum)
	}
	return formatNumber(sum)
}
