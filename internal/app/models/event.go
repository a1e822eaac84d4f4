package models

import (
	"time"
)

// Event defines a scheduled session ("evento") based on the 'events' table.
// StartAt is inclusive, EndAt exclusive for overlap purposes; EndAt > StartAt
// is enforced before any persist. Instructor assignments live in the
// 'event_instructors' join table and are carried here as an id slice.
type Event struct {
	ID            int64       `json:"id" db:"id"`
	EngagementID  int64       `json:"engagementId" db:"engagement_id"`
	Title         string      `json:"title" db:"title"`
	Notes         *string     `json:"notes,omitempty" db:"notes"`
	StartAt       time.Time   `json:"startAt" db:"start_at"`
	EndAt         time.Time   `json:"endAt" db:"end_at"`
	Status        EventStatus `json:"status" db:"status"`
	InstructorIDs []int64     `json:"instructorIds"` // Relation, no db tag
}

// Hours returns the event duration in hours, never negative.
func (e *Event) Hours() float64 {
	h := e.EndAt.Sub(e.StartAt).Hours()
	if h < 0 {
		return 0
	}
	return h
}
