package services

import (
	"slices"

	"github.com/spf13/cast"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortDirection is the order of one sort key.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// DefaultSortDirection is used for keys newly added from the sort picker.
const DefaultSortDirection = SortDesc

// SortCriterion is one (column, direction) pair.
type SortCriterion struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// Flipped returns the opposite direction.
func (d SortDirection) Flipped() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// newCollator returns an English collator. Collators are not safe for
// concurrent use, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

// SortRows returns a stably sorted copy of rows. Criteria are applied in
// priority order; absent values go last whatever the direction.
func SortRows(rows []Row, criteria []SortCriterion) []Row {
	out := slices.Clone(rows)
	if len(criteria) == 0 {
		return out
	}
	c := newCollator()
	slices.SortStableFunc(out, func(a, b Row) int {
		for _, sc := range criteria {
			if n := compareValues(c, a, b, sc); n != 0 {
				return n
			}
		}
		return 0
	})
	return out
}

func compareValues(c *collate.Collator, a, b Row, sc SortCriterion) int {
	av, aok := a.Value(sc.Key)
	bv, bok := b.Value(sc.Key)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}

	var n int
	if isNumber(av) && isNumber(bv) {
		ad, _ := numericValue(av)
		bd, _ := numericValue(bv)
		n = ad.Cmp(bd)
	} else {
		n = c.CompareString(cast.ToString(av), cast.ToString(bv))
	}
	if sc.Direction == SortDesc {
		return -n
	}
	return n
}
