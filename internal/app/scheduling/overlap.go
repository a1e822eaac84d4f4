// Package scheduling holds the pure conflict-detection core: the interval
// overlap primitive, the intra-batch consistency checker, the bulk-update
// planner and the ranged-creation day expansion. Nothing in this package
// touches storage; the scheduling service feeds it candidate tuples and
// persists only when every check comes back clean.
package scheduling

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back intervals (aEnd == bStart) do not
// overlap. Symmetric in its two intervals; callers are responsible for
// end > start.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
