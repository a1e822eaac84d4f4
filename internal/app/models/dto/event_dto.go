package dto

import "time"

// CreateEventRequest represents a single event creation form. Events start
// with an empty roster; instructors are assigned afterwards.
type CreateEventRequest struct {
	Title   string    `json:"title" binding:"required" example:"Modulo 1 - Antincendio"`
	Notes   *string   `json:"notes,omitempty"`
	StartAt time.Time `json:"startAt" binding:"required" example:"2026-01-05T09:00:00Z"`
	EndAt   time.Time `json:"endAt" binding:"required" example:"2026-01-05T13:00:00Z"`
	Status  string    `json:"status" binding:"omitempty,oneof=Opzionato Confermato" example:"Opzionato"`
}

// CreateEventRangeRequest creates one event per day over a date range with a
// shared time-of-day window.
type CreateEventRangeRequest struct {
	Title           string  `json:"title" binding:"required"`
	Notes           *string `json:"notes,omitempty"`
	Status          string  `json:"status" binding:"omitempty,oneof=Opzionato Confermato"`
	StartDate       string  `json:"startDate" binding:"required,datetime=2006-01-02" example:"2026-01-05"`
	EndDate         string  `json:"endDate" binding:"required,datetime=2006-01-02" example:"2026-01-11"`
	StartTime       string  `json:"startTime" binding:"required" example:"09:00"`
	EndTime         string  `json:"endTime" binding:"required" example:"13:00"`
	ExcludeWeekends bool    `json:"excludeWeekends" example:"true"`
}

// UpdateEventRequest replaces an event's fields and its full roster
type UpdateEventRequest struct {
	Title         string    `json:"title" binding:"required"`
	Notes         *string   `json:"notes,omitempty"`
	StartAt       time.Time `json:"startAt" binding:"required"`
	EndAt         time.Time `json:"endAt" binding:"required"`
	Status        string    `json:"status" binding:"required,oneof=Opzionato Confermato"`
	InstructorIDs []int64   `json:"instructorIds"`
}

// BulkAssignRequest adds instructors to a selection of events
type BulkAssignRequest struct {
	EventIDs      []int64 `json:"eventIds" binding:"required,min=1"`
	InstructorIDs []int64 `json:"instructorIds" binding:"required,min=1"`
}

// Time transform modes accepted by BulkUpdateRequest
const (
	BulkTimeModeNone     = "none"
	BulkTimeModeShift    = "shift"
	BulkTimeModeTimeOnly = "time"
	BulkTimeModeAbsolute = "absolute"
)

// BulkUpdateRequest retimes and/or rewrites a selection of events in one
// atomic operation. Optional fields left nil are untouched.
type BulkUpdateRequest struct {
	EventIDs []int64 `json:"eventIds" binding:"required,min=1"`

	Title         *string  `json:"title,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	Status        *string  `json:"status,omitempty" binding:"omitempty,oneof=Opzionato Confermato"`
	InstructorIDs *[]int64 `json:"instructorIds,omitempty"`

	TimeMode     string     `json:"timeMode" binding:"omitempty,oneof=none shift time absolute" example:"shift"`
	ShiftDays    int        `json:"shiftDays,omitempty" example:"1"`
	ShiftMinutes int        `json:"shiftMinutes,omitempty"`
	StartTime    string     `json:"startTime,omitempty" example:"14:00"`
	EndTime      string     `json:"endTime,omitempty" example:"18:00"`
	StartAt      *time.Time `json:"startAt,omitempty"`
	EndAt        *time.Time `json:"endAt,omitempty"`
}

// BulkDeleteRequest removes a selection of events
type BulkDeleteRequest struct {
	EventIDs []int64 `json:"eventIds" binding:"required,min=1"`
}

// InstructorBrief is the roster entry shown inside event responses
type InstructorBrief struct {
	ID          int64  `json:"id" example:"7"`
	DisplayName string `json:"displayName" example:"Mario Rossi"`
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID            int64             `json:"id" example:"42"`
	EngagementID  int64             `json:"engagementId" example:"1"`
	Title         string            `json:"title"`
	Notes         *string           `json:"notes,omitempty"`
	StartAt       time.Time         `json:"startAt"`
	EndAt         time.Time         `json:"endAt"`
	Status        string            `json:"status" example:"Confermato"`
	Hours         float64           `json:"hours" example:"4"`
	InstructorIDs []int64           `json:"instructorIds"`
	Instructors   []InstructorBrief `json:"instructors,omitempty"`
}

// BulkResultResponse reports how many events a bulk operation touched
type BulkResultResponse struct {
	Affected int64   `json:"affected" example:"5"`
	EventIDs []int64 `json:"eventIds"`
}

// ConflictEventDetail is one already-booked event inside a conflict report
type ConflictEventDetail struct {
	EventID         int64     `json:"eventId"`
	EngagementID    int64     `json:"engagementId"`
	EngagementTitle string    `json:"engagementTitle"`
	Title           string    `json:"title"`
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
}

// ConflictPairDetail is one intra-batch overlap inside a conflict report
type ConflictPairDetail struct {
	InstructorID   int64     `json:"instructorId"`
	InstructorName string    `json:"instructorName,omitempty"`
	EventIDA       int64     `json:"eventIdA"`
	EventIDB       int64     `json:"eventIdB"`
	StartAt        time.Time `json:"startAt"`
	EndAt          time.Time `json:"endAt"`
}

// ConflictInstructorDetail groups the conflicts of one instructor
type ConflictInstructorDetail struct {
	InstructorID   int64                 `json:"instructorId"`
	InstructorName string                `json:"instructorName,omitempty"`
	Events         []ConflictEventDetail `json:"events"`
}

// ConflictReportResponse is the 409 payload of every scheduling operation
type ConflictReportResponse struct {
	Summary     string                     `json:"summary"`
	Instructors []ConflictInstructorDetail `json:"instructors,omitempty"`
	Pairs       []ConflictPairDetail       `json:"pairs,omitempty"`
}
