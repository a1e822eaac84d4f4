package scheduling

import (
	"sort"
	"time"
)

// CheckBatch detects conflicts among the candidate set itself: two candidates
// of the same batch that would overlap for a shared instructor, which a
// database query cannot see because neither interval is persisted yet.
//
// Candidates are grouped per instructor; groups with at least two entries are
// stable-sorted by start time (insertion order breaks ties) and scanned
// pairwise. Batches are small in this domain, so the O(k²) scan per group is
// fine. Every overlapping pair is reported; the reported window is the one of
// the earlier candidate.
func CheckBatch(candidates []Candidate) []ConflictPair {
	type item struct {
		eventID    int64
		start, end time.Time
	}

	groups := make(map[int64][]item)
	var order []int64
	for _, c := range candidates {
		for _, id := range c.InstructorIDs {
			if _, seen := groups[id]; !seen {
				order = append(order, id)
			}
			groups[id] = append(groups[id], item{eventID: c.EventID, start: c.StartAt, end: c.EndAt})
		}
	}

	var pairs []ConflictPair
	for _, instructorID := range order {
		items := groups[instructorID]
		if len(items) < 2 {
			continue
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].start.Before(items[j].start)
		})
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				if Overlaps(items[i].start, items[i].end, items[j].start, items[j].end) {
					pairs = append(pairs, ConflictPair{
						InstructorID: instructorID,
						EventIDA:     items[i].eventID,
						EventIDB:     items[j].eventID,
						StartAt:      items[i].start,
						EndAt:        items[i].end,
					})
				}
			}
		}
	}
	return pairs
}
