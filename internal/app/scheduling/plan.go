package scheduling

import (
	"fmt"
	"time"

	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
)

// BulkChange describes one bulk-update request over a selection of events.
// Field overrides toggle independently; the time transforms compose in a
// fixed order (shift, then time-only reset, then absolute), matching the
// form semantics where at most one is normally active.
type BulkChange struct {
	ApplyTitle bool
	Title      string

	ApplyNotes bool
	Notes      *string

	ApplyRoster bool
	RosterIDs   []int64

	ShiftDays    int
	ShiftMinutes int

	ApplyTimeOnly bool
	TimeStart     ClockTime
	TimeEnd       ClockTime

	ApplyAbsolute bool
	AbsStart      time.Time
	AbsEnd        time.Time
}

// ChangesTime reports whether the change retimes the selected events at all.
func (c BulkChange) ChangesTime() bool {
	return c.ShiftDays != 0 || c.ShiftMinutes != 0 || c.ApplyTimeOnly || c.ApplyAbsolute
}

// Validate checks the transform parameters that can be rejected before
// looking at any event.
func (c BulkChange) Validate() error {
	if c.ApplyTimeOnly && !c.TimeStart.Before(c.TimeEnd) {
		return fmt.Errorf("%w: end time must be after start time", apperrors.ErrValidationFailed)
	}
	if c.ApplyAbsolute && !c.AbsEnd.After(c.AbsStart) {
		return fmt.Errorf("%w: absolute end must be after absolute start", apperrors.ErrValidationFailed)
	}
	return nil
}

// PlanEvents computes the planned (start, end, roster) tuple for every
// selected event under the requested change, without mutating anything.
// The roster falls back to each event's current assignment when no roster
// replacement is requested. Any planned interval with end <= start aborts
// the whole plan.
func PlanEvents(events []*models.Event, change BulkChange) ([]Candidate, error) {
	if err := change.Validate(); err != nil {
		return nil, err
	}

	planned := make([]Candidate, 0, len(events))
	for _, ev := range events {
		start, end := ev.StartAt, ev.EndAt

		if change.ShiftDays != 0 || change.ShiftMinutes != 0 {
			start = start.AddDate(0, 0, change.ShiftDays).Add(time.Duration(change.ShiftMinutes) * time.Minute)
			end = end.AddDate(0, 0, change.ShiftDays).Add(time.Duration(change.ShiftMinutes) * time.Minute)
		}
		if change.ApplyTimeOnly {
			start = change.TimeStart.On(start)
			end = change.TimeEnd.On(end)
		}
		if change.ApplyAbsolute {
			start = change.AbsStart
			end = change.AbsEnd
		}

		if !end.After(start) {
			return nil, fmt.Errorf("%w: event %d: end must be after start", apperrors.ErrInvalidInterval, ev.ID)
		}

		roster := ev.InstructorIDs
		if change.ApplyRoster {
			roster = change.RosterIDs
		}
		ids := make([]int64, len(roster))
		copy(ids, roster)

		planned = append(planned, Candidate{
			EventID:       ev.ID,
			InstructorIDs: ids,
			StartAt:       start,
			EndAt:         end,
		})
	}
	return planned, nil
}
