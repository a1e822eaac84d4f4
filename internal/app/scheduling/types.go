package scheduling

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/trainingops/trainingops/internal/pkg/apperrors"
)

// EventConflict describes one persisted event that collides with a candidate
// interval. It carries enough context (engagement title, window) for the
// presentation layer to build a message without further lookups.
type EventConflict struct {
	EventID         int64     `json:"eventId"`
	EngagementID    int64     `json:"engagementId"`
	EngagementTitle string    `json:"engagementTitle"`
	Title           string    `json:"title"`
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
}

// ConflictMap maps an instructor id to the persisted events conflicting with
// the candidate interval(s) checked for that instructor. Instructors with no
// conflicts never appear.
type ConflictMap map[int64][]EventConflict

// Merge appends all entries of other into m.
func (m ConflictMap) Merge(other ConflictMap) {
	for id, evs := range other {
		m[id] = append(m[id], evs...)
	}
}

// ConflictPair reports two events of the same batch that would overlap for a
// shared instructor. StartAt/EndAt are the window of the earlier candidate.
type ConflictPair struct {
	InstructorID int64     `json:"instructorId"`
	EventIDA     int64     `json:"eventIdA"`
	EventIDB     int64     `json:"eventIdB"`
	StartAt      time.Time `json:"startAt"`
	EndAt        time.Time `json:"endAt"`
}

// Candidate is one planned (event, roster, interval) tuple produced by a
// scheduling operation before anything is written.
type Candidate struct {
	EventID       int64
	InstructorIDs []int64
	StartAt       time.Time
	EndAt         time.Time
}

// ConflictReport is the structured result handed back on any conflict
// rejection: per-instructor collisions against persisted events, pairs
// within the batch itself, and display names for message building.
type ConflictReport struct {
	Instructors     ConflictMap      `json:"instructors,omitempty"`
	Pairs           []ConflictPair   `json:"pairs,omitempty"`
	InstructorNames map[int64]string `json:"instructorNames,omitempty"`
}

// Empty reports whether the report carries no conflicts at all.
func (r *ConflictReport) Empty() bool {
	return len(r.Instructors) == 0 && len(r.Pairs) == 0
}

const (
	maxEventsPerInstructor = 10
	maxPairLines           = 25
	timeLayout             = "2006-01-02 15:04"
)

// Summary renders a plain-text, line-per-conflict description of the report.
// The HTTP layer returns the structured report as well; this string is for
// logs, audit entries and simple clients.
func (r *ConflictReport) Summary() string {
	if r.Empty() {
		return ""
	}

	var parts []string
	if len(r.Instructors) > 0 {
		parts = append(parts, "instructor constraint: assignment impossible due to overlapping events")
		ids := make([]int64, 0, len(r.Instructors))
		for id := range r.Instructors {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			evs := r.Instructors[id]
			parts = append(parts, fmt.Sprintf("- %s:", r.name(id)))
			for i, e := range evs {
				if i == maxEventsPerInstructor {
					parts = append(parts, fmt.Sprintf("  * ... (+%d more)", len(evs)-maxEventsPerInstructor))
					break
				}
				parts = append(parts, fmt.Sprintf("  * event %d (%s) %s - %s",
					e.EventID, e.EngagementTitle,
					e.StartAt.Format(timeLayout), e.EndAt.Format(timeLayout)))
			}
		}
	}
	if len(r.Pairs) > 0 {
		parts = append(parts, "instructor constraint: selected events overlap each other")
		for i, p := range r.Pairs {
			if i == maxPairLines {
				parts = append(parts, fmt.Sprintf("... (+%d more)", len(r.Pairs)-maxPairLines))
				break
			}
			parts = append(parts, fmt.Sprintf("- %s: overlap between selected events %d and %d (%s - %s)",
				r.name(p.InstructorID), p.EventIDA, p.EventIDB,
				p.StartAt.Format(timeLayout), p.EndAt.Format(timeLayout)))
		}
	}
	return strings.Join(parts, "\n")
}

func (r *ConflictReport) name(instructorID int64) string {
	if n, ok := r.InstructorNames[instructorID]; ok && n != "" {
		return n
	}
	return fmt.Sprintf("instructor %d", instructorID)
}

// ConflictError carries a ConflictReport through the error chain. It unwraps
// to apperrors.ErrScheduleConflict so callers can match it with errors.Is,
// and the HTTP error middleware extracts the report with errors.As.
type ConflictError struct {
	Report ConflictReport
}

// NewConflictError wraps a report into an error.
func NewConflictError(report ConflictReport) *ConflictError {
	return &ConflictError{Report: report}
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return e.Report.Summary()
}

// Unwrap lets errors.Is(err, apperrors.ErrScheduleConflict) match.
func (e *ConflictError) Unwrap() error {
	return apperrors.ErrScheduleConflict
}
