package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainingops/trainingops/internal/pkg/apperrors"
)

func TestConflictReportEmpty(t *testing.T) {
	r := &ConflictReport{}
	assert.True(t, r.Empty())
	assert.Equal(t, "", r.Summary())

	r.Pairs = []ConflictPair{{InstructorID: 1, EventIDA: 2, EventIDB: 3}}
	assert.False(t, r.Empty())
}

func TestConflictReportSummary(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	r := &ConflictReport{
		Instructors: ConflictMap{
			7: {{
				EventID:         12,
				EngagementID:    3,
				EngagementTitle: "Corso sicurezza",
				StartAt:         start,
				EndAt:           start.Add(4 * time.Hour),
			}},
		},
		Pairs: []ConflictPair{{
			InstructorID: 9,
			EventIDA:     20,
			EventIDB:     21,
			StartAt:      start,
			EndAt:        start.Add(2 * time.Hour),
		}},
		InstructorNames: map[int64]string{7: "Mario Rossi"},
	}

	s := r.Summary()
	assert.Contains(t, s, "Mario Rossi")
	assert.Contains(t, s, "event 12 (Corso sicurezza)")
	assert.Contains(t, s, "2026-01-05 09:00")
	// No name known for 9, falls back to the id
	assert.Contains(t, s, "instructor 9: overlap between selected events 20 and 21")
}

func TestConflictReportSummaryTruncation(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	evs := make([]EventConflict, maxEventsPerInstructor+4)
	for i := range evs {
		evs[i] = EventConflict{EventID: int64(i + 1), StartAt: start, EndAt: start.Add(time.Hour)}
	}
	r := &ConflictReport{Instructors: ConflictMap{7: evs}}

	assert.Contains(t, r.Summary(), "(+4 more)")
}

func TestConflictReportSummaryStableOrder(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	conflicts := ConflictMap{}
	for _, id := range []int64{42, 7, 19, 3} {
		conflicts[id] = []EventConflict{{EventID: id, StartAt: start, EndAt: start.Add(time.Hour)}}
	}
	r := &ConflictReport{Instructors: conflicts}

	first := r.Summary()
	for i := 0; i < 10; i++ {
		require.Equal(t, first, r.Summary())
	}

	// Instructor sections come out in ascending id order
	positions := make([]int, 0, 4)
	for _, id := range []int64{3, 7, 19, 42} {
		idx := strings.Index(first, fmt.Sprintf("- instructor %d:", id))
		require.GreaterOrEqual(t, idx, 0)
		positions = append(positions, idx)
	}
	assert.IsIncreasing(t, positions)
}

func TestConflictMapMerge(t *testing.T) {
	a := ConflictMap{7: {{EventID: 1}}}
	a.Merge(ConflictMap{
		7: {{EventID: 2}},
		9: {{EventID: 3}},
	})

	require.Len(t, a[7], 2)
	require.Len(t, a[9], 1)
	assert.Equal(t, int64(2), a[7][1].EventID)
}

func TestConflictError(t *testing.T) {
	report := ConflictReport{
		Pairs: []ConflictPair{{InstructorID: 7, EventIDA: 1, EventIDB: 2}},
	}
	err := fmt.Errorf("bulk update: %w", NewConflictError(report))

	assert.ErrorIs(t, err, apperrors.ErrScheduleConflict)

	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	require.Len(t, ce.Report.Pairs, 1)
	assert.Equal(t, int64(7), ce.Report.Pairs[0].InstructorID)
}
