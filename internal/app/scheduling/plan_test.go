package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
)

func event(id int64, start, end time.Time, instructors ...int64) *models.Event {
	return &models.Event{
		ID:            id,
		StartAt:       start,
		EndAt:         end,
		InstructorIDs: instructors,
	}
}

func TestPlanEventsShift(t *testing.T) {
	monday := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	planned, err := PlanEvents([]*models.Event{
		event(1, monday, monday.Add(4*time.Hour), 7),
		event(2, tuesday, tuesday.Add(4*time.Hour), 7),
	}, BulkChange{ShiftDays: 1})
	require.NoError(t, err)
	require.Len(t, planned, 2)

	assert.Equal(t, tuesday, planned[0].StartAt)
	assert.Equal(t, tuesday.AddDate(0, 0, 1), planned[1].StartAt)
	// Shifting both by the same offset keeps them disjoint
	assert.Empty(t, CheckBatch(planned))
}

func TestPlanEventsShiftMinutes(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	planned, err := PlanEvents([]*models.Event{
		event(1, start, start.Add(2*time.Hour)),
	}, BulkChange{ShiftMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, start.Add(30*time.Minute), planned[0].StartAt)
	assert.Equal(t, start.Add(2*time.Hour+30*time.Minute), planned[0].EndAt)
}

func TestPlanEventsTimeOnly(t *testing.T) {
	monday := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	planned, err := PlanEvents([]*models.Event{
		event(1, monday, monday.Add(4*time.Hour)),
		event(2, tuesday, tuesday.Add(4*time.Hour)),
	}, BulkChange{
		ApplyTimeOnly: true,
		TimeStart:     ClockTime{Hour: 14, Minute: 0},
		TimeEnd:       ClockTime{Hour: 18, Minute: 0},
	})
	require.NoError(t, err)

	// Dates stay, only the time of day moves
	assert.Equal(t, time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC), planned[0].StartAt)
	assert.Equal(t, time.Date(2026, 1, 6, 18, 0, 0, 0, time.UTC), planned[1].EndAt)
}

func TestPlanEventsAbsoluteCollapsesBatch(t *testing.T) {
	monday := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	target := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)

	planned, err := PlanEvents([]*models.Event{
		event(1, monday, monday.Add(4*time.Hour), 7),
		event(2, tuesday, tuesday.Add(4*time.Hour), 7),
	}, BulkChange{
		ApplyAbsolute: true,
		AbsStart:      target,
		AbsEnd:        target.Add(4 * time.Hour),
	})
	require.NoError(t, err)

	// Both events land on the same interval; the batch checker must catch it
	pairs := CheckBatch(planned)
	require.Len(t, pairs, 1)
	assert.Equal(t, int64(7), pairs[0].InstructorID)
}

func TestPlanEventsRejectsInvertedInterval(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	_, err := PlanEvents([]*models.Event{
		event(1, start, start.Add(time.Hour)),
	}, BulkChange{
		ApplyAbsolute: true,
		AbsStart:      start.Add(time.Hour),
		AbsEnd:        start,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestPlanEventsRejectsDegenerateEvent(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	_, err := PlanEvents([]*models.Event{
		event(1, start, start),
	}, BulkChange{ApplyTitle: true, Title: "renamed"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInterval)
}

func TestPlanEventsRosterFallback(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	planned, err := PlanEvents([]*models.Event{
		event(1, start, start.Add(time.Hour), 7, 8),
	}, BulkChange{})
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, planned[0].InstructorIDs)

	planned, err = PlanEvents([]*models.Event{
		event(1, start, start.Add(time.Hour), 7, 8),
	}, BulkChange{ApplyRoster: true, RosterIDs: []int64{9}})
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, planned[0].InstructorIDs)
}

func TestBulkChangeValidate(t *testing.T) {
	err := BulkChange{
		ApplyTimeOnly: true,
		TimeStart:     ClockTime{Hour: 18},
		TimeEnd:       ClockTime{Hour: 9},
	}.Validate()
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	assert.NoError(t, BulkChange{ShiftDays: -3}.Validate())
}

func TestBulkChangeChangesTime(t *testing.T) {
	assert.False(t, BulkChange{ApplyTitle: true}.ChangesTime())
	assert.True(t, BulkChange{ShiftDays: 1}.ChangesTime())
	assert.True(t, BulkChange{ShiftMinutes: -15}.ChangesTime())
	assert.True(t, BulkChange{ApplyTimeOnly: true}.ChangesTime())
	assert.True(t, BulkChange{ApplyAbsolute: true}.ChangesTime())
}
