package services

import "math"

// WindowOverscan is how many rows are materialized beyond each edge of the
// viewport.
const WindowOverscan = 5

// VisibleRange returns the half-open index range [first, end) of rows to
// render for a viewport scrolled to scrollOffset. Invalid geometry renders
// nothing.
func VisibleRange(scrollOffset, viewportHeight, rowHeight float64, totalRows int) (first, end int) {
	if !finite(scrollOffset) || !finite(viewportHeight) || !finite(rowHeight) {
		return 0, 0
	}
	if totalRows <= 0 || rowHeight <= 0 || viewportHeight < 0 {
		return 0, 0
	}
	scrollOffset = max(scrollOffset, 0)

	// Clamp before converting: huge offsets overflow int.
	total := float64(totalRows)
	lo := clampRows(math.Floor(scrollOffset/rowHeight)-WindowOverscan, total)
	hi := clampRows(math.Ceil((scrollOffset+viewportHeight)/rowHeight)+WindowOverscan, total)

	first, end = int(lo), int(hi)
	if first > end {
		first = end
	}
	return first, end
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clampRows(v, total float64) float64 {
	return math.Min(math.Max(v, 0), total)
}
