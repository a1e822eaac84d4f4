package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/app/repositories"
	"github.com/trainingops/trainingops/internal/app/scheduling"
	"github.com/trainingops/trainingops/internal/db"
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
	"github.com/trainingops/trainingops/internal/pkg/audit"
	"github.com/trainingops/trainingops/internal/pkg/helpers"
	"github.com/trainingops/trainingops/internal/pkg/logger"
	"github.com/trainingops/trainingops/internal/pkg/realtime"
)

// RangeSpec describes a ranged creation request: one event per day between
// StartDate and EndDate inclusive, all sharing the same time-of-day window.
type RangeSpec struct {
	Title           string
	Notes           *string
	Status          models.EventStatus
	StartDate       time.Time
	EndDate         time.Time
	StartTime       scheduling.ClockTime
	EndTime         scheduling.ClockTime
	ExcludeWeekends bool
}

// SchedulingService defines the interface for event scheduling operations.
// Every mutation runs inside a single transaction and either commits fully
// or leaves the calendar untouched; conflicts surface as *scheduling.ConflictError.
type SchedulingService interface {
	CreateEvent(ctx context.Context, actorID int64, event *models.Event) error
	CreateEventRange(ctx context.Context, actorID, engagementID int64, spec RangeSpec) ([]*models.Event, error)
	UpdateEvent(ctx context.Context, actorID int64, event *models.Event) (*models.Event, error)
	BulkAssign(ctx context.Context, actorID, engagementID int64, eventIDs, instructorIDs []int64) ([]int64, error)
	BulkUpdate(ctx context.Context, actorID, engagementID int64, eventIDs []int64, change scheduling.BulkChange, status *models.EventStatus) ([]*models.Event, error)
	BulkDelete(ctx context.Context, actorID, engagementID int64, eventIDs []int64) (int64, error)

	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	ListEvents(ctx context.Context, engagementID int64, instructorID *int64, from, to *time.Time) ([]*models.Event, error)
	ListInstructorEvents(ctx context.Context, instructorID int64, from, to *time.Time) ([]*models.Event, error)
	InstructorNames(ctx context.Context, events []*models.Event) (map[int64]string, error)
}

// schedulingServiceImpl implements the SchedulingService interface
type schedulingServiceImpl struct {
	database       *db.PostgresDB
	eventRepo      *repositories.EventRepository
	engagementRepo *repositories.EngagementRepository
	instructorRepo *repositories.InstructorRepository
	hub            *realtime.Hub
	trail          *audit.Trail
}

// NewSchedulingService creates a new scheduling service instance
func NewSchedulingService(
	database *db.PostgresDB,
	eventRepo *repositories.EventRepository,
	engagementRepo *repositories.EngagementRepository,
	instructorRepo *repositories.InstructorRepository,
	hub *realtime.Hub,
	trail *audit.Trail,
) SchedulingService {
	return &schedulingServiceImpl{
		database:       database,
		eventRepo:      eventRepo,
		engagementRepo: engagementRepo,
		instructorRepo: instructorRepo,
		hub:            hub,
		trail:          trail,
	}
}

func validateEventFields(event *models.Event) error {
	if event.Title == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidationFailed)
	}
	if event.Status == "" {
		event.Status = models.EventOptioned
	}
	if !event.Status.IsValid() {
		return fmt.Errorf("%w: unknown event status %q", apperrors.ErrValidationFailed, event.Status)
	}
	if !event.EndAt.After(event.StartAt) {
		return apperrors.ErrInvalidInterval
	}
	return nil
}

// CreateEvent inserts a single event. Creation carries no roster, so there
// is nothing to check against the calendar yet.
func (s *schedulingServiceImpl) CreateEvent(ctx context.Context, actorID int64, event *models.Event) error {
	if err := validateEventFields(event); err != nil {
		return err
	}
	event.InstructorIDs = nil

	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.eventRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return err
	}

	s.afterCommit(actorID, event.EngagementID, realtime.ActionCreated, []int64{event.ID},
		fmt.Sprintf("event %d (%s) created", event.ID, event.Title))
	return nil
}

// CreateEventRange creates one event per day over a date range. The day
// expansion is pure; all resulting inserts share one transaction.
func (s *schedulingServiceImpl) CreateEventRange(ctx context.Context, actorID, engagementID int64, spec RangeSpec) ([]*models.Event, error) {
	if spec.Title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidationFailed)
	}
	if spec.Status == "" {
		spec.Status = models.EventOptioned
	}
	if !spec.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown event status %q", apperrors.ErrValidationFailed, spec.Status)
	}

	windows, err := scheduling.ExpandRange(spec.StartDate, spec.EndDate, spec.StartTime, spec.EndTime, spec.ExcludeWeekends)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: range contains no eligible days", apperrors.ErrValidationFailed)
	}

	events := make([]*models.Event, 0, len(windows))
	for _, w := range windows {
		events = append(events, &models.Event{
			EngagementID: engagementID,
			Title:        spec.Title,
			Notes:        spec.Notes,
			StartAt:      w.StartAt,
			EndAt:        w.EndAt,
			Status:       spec.Status,
		})
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, ev := range events {
			if err := s.eventRepo.Create(ctx, tx, ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(actorID, engagementID, realtime.ActionCreated, eventIDsOf(events),
		fmt.Sprintf("%d events created over range %s..%s", len(events),
			spec.StartDate.Format("2006-01-02"), spec.EndDate.Format("2006-01-02")))
	return events, nil
}

// UpdateEvent replaces an event's fields and its full roster. The new roster
// is checked against the calendar (excluding the event itself) before
// anything is written; a conflict rolls the whole edit back.
func (s *schedulingServiceImpl) UpdateEvent(ctx context.Context, actorID int64, event *models.Event) (*models.Event, error) {
	if err := validateEventFields(event); err != nil {
		return nil, err
	}
	roster := helpers.Int64SliceToSet(event.InstructorIDs)

	var updated *models.Event
	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		current, err := s.eventRepo.GetByIDForUpdate(ctx, tx, event.ID)
		if err != nil {
			return err
		}
		event.EngagementID = current.EngagementID

		conflicts, err := s.eventRepo.FindConflicts(ctx, tx, roster, event.StartAt, event.EndAt, []int64{event.ID})
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return s.conflictError(ctx, scheduling.ConflictReport{Instructors: conflicts})
		}

		if err := s.eventRepo.Update(ctx, tx, event); err != nil {
			return err
		}
		if err := s.eventRepo.ReplaceRoster(ctx, tx, event.ID, roster); err != nil {
			return err
		}
		event.InstructorIDs = roster
		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(actorID, updated.EngagementID, realtime.ActionUpdated, []int64{updated.ID},
		fmt.Sprintf("event %d (%s) updated", updated.ID, updated.Title))
	return updated, nil
}

// BulkAssign adds instructors to every selected event. Assignment is
// idempotent: instructors already on an event stay on it. Each (event,
// instructor) pair is validated against the calendar at the event's current
// interval, excluding the event itself; any conflict rejects the whole batch.
func (s *schedulingServiceImpl) BulkAssign(ctx context.Context, actorID, engagementID int64, eventIDs, instructorIDs []int64) ([]int64, error) {
	eventIDs = helpers.Int64SliceToSet(eventIDs)
	instructorIDs = helpers.Int64SliceToSet(instructorIDs)
	if len(eventIDs) == 0 {
		return nil, apperrors.ErrEmptySelection
	}
	if len(instructorIDs) == 0 {
		return nil, fmt.Errorf("%w: no instructors selected", apperrors.ErrValidationFailed)
	}

	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		events, err := s.lockOwnedEvents(ctx, tx, engagementID, eventIDs)
		if err != nil {
			return err
		}

		report := scheduling.ConflictReport{Instructors: scheduling.ConflictMap{}}
		for _, ev := range events {
			conflicts, err := s.eventRepo.FindConflicts(ctx, tx, instructorIDs, ev.StartAt, ev.EndAt, []int64{ev.ID})
			if err != nil {
				return err
			}
			report.Instructors.Merge(conflicts)
		}
		if !report.Empty() {
			return s.conflictError(ctx, report)
		}

		for _, ev := range events {
			merged := helpers.Int64SliceToSet(append(append([]int64{}, ev.InstructorIDs...), instructorIDs...))
			if err := s.eventRepo.ReplaceRoster(ctx, tx, ev.ID, merged); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(actorID, engagementID, realtime.ActionAssigned, eventIDs,
		fmt.Sprintf("%d instructors assigned to %d events", len(instructorIDs), len(eventIDs)))
	return eventIDs, nil
}

// BulkUpdate applies field overrides, an optional roster replacement and an
// optional time transform to a selection of events. The new layout is
// planned first, then validated in two phases: every planned tuple against
// the calendar excluding the whole selection, and the planned tuples against
// each other. Only a fully clean plan is written.
func (s *schedulingServiceImpl) BulkUpdate(ctx context.Context, actorID, engagementID int64, eventIDs []int64, change scheduling.BulkChange, status *models.EventStatus) ([]*models.Event, error) {
	eventIDs = helpers.Int64SliceToSet(eventIDs)
	if len(eventIDs) == 0 {
		return nil, apperrors.ErrEmptySelection
	}
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown event status %q", apperrors.ErrValidationFailed, *status)
	}
	if change.ApplyRoster {
		change.RosterIDs = helpers.Int64SliceToSet(change.RosterIDs)
	}

	var updated []*models.Event
	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		events, err := s.lockOwnedEvents(ctx, tx, engagementID, eventIDs)
		if err != nil {
			return err
		}

		planned, err := scheduling.PlanEvents(events, change)
		if err != nil {
			return err
		}

		report := scheduling.ConflictReport{Instructors: scheduling.ConflictMap{}}
		for _, cand := range planned {
			conflicts, err := s.eventRepo.FindConflicts(ctx, tx, cand.InstructorIDs, cand.StartAt, cand.EndAt, eventIDs)
			if err != nil {
				return err
			}
			report.Instructors.Merge(conflicts)
		}
		report.Pairs = scheduling.CheckBatch(planned)
		if !report.Empty() {
			return s.conflictError(ctx, report)
		}

		for i, ev := range events {
			cand := planned[i]
			ev.StartAt = cand.StartAt
			ev.EndAt = cand.EndAt
			if change.ApplyTitle {
				ev.Title = change.Title
			}
			if change.ApplyNotes {
				ev.Notes = change.Notes
			}
			if status != nil {
				ev.Status = *status
			}
			if err := s.eventRepo.Update(ctx, tx, ev); err != nil {
				return err
			}
			if change.ApplyRoster {
				if err := s.eventRepo.ReplaceRoster(ctx, tx, ev.ID, cand.InstructorIDs); err != nil {
					return err
				}
				ev.InstructorIDs = cand.InstructorIDs
			}
		}
		updated = events
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(actorID, engagementID, realtime.ActionUpdated, eventIDs,
		fmt.Sprintf("%d events bulk-updated", len(updated)))
	return updated, nil
}

// BulkDelete removes a selection of events and, via cascade, their roster rows.
func (s *schedulingServiceImpl) BulkDelete(ctx context.Context, actorID, engagementID int64, eventIDs []int64) (int64, error) {
	eventIDs = helpers.Int64SliceToSet(eventIDs)
	if len(eventIDs) == 0 {
		return 0, apperrors.ErrEmptySelection
	}

	var deleted int64
	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := s.lockOwnedEvents(ctx, tx, engagementID, eventIDs); err != nil {
			return err
		}
		var err error
		deleted, err = s.eventRepo.DeleteMany(ctx, tx, eventIDs)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.afterCommit(actorID, engagementID, realtime.ActionDeleted, eventIDs,
		fmt.Sprintf("%d events deleted", deleted))
	return deleted, nil
}

// GetEvent retrieves one event with its roster.
func (s *schedulingServiceImpl) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// ListEvents lists an engagement's events, optionally filtered by assigned
// instructor and time window.
func (s *schedulingServiceImpl) ListEvents(ctx context.Context, engagementID int64, instructorID *int64, from, to *time.Time) ([]*models.Event, error) {
	if _, err := s.engagementRepo.GetByID(ctx, engagementID); err != nil {
		return nil, err
	}
	return s.eventRepo.GetByEngagement(ctx, engagementID, instructorID, from, to)
}

// ListInstructorEvents lists every event an instructor is assigned to,
// across engagements.
func (s *schedulingServiceImpl) ListInstructorEvents(ctx context.Context, instructorID int64, from, to *time.Time) ([]*models.Event, error) {
	return s.eventRepo.GetForInstructor(ctx, instructorID, from, to)
}

// InstructorNames resolves display names for every instructor assigned to
// the given events, for roster rendering.
func (s *schedulingServiceImpl) InstructorNames(ctx context.Context, events []*models.Event) (map[int64]string, error) {
	var ids []int64
	for _, ev := range events {
		ids = append(ids, ev.InstructorIDs...)
	}
	ids = helpers.Int64SliceToSet(ids)
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	return s.instructorRepo.NamesByIDs(ctx, ids)
}

// lockOwnedEvents locks the selected rows and verifies every one belongs to
// the engagement the caller is operating on.
func (s *schedulingServiceImpl) lockOwnedEvents(ctx context.Context, tx pgx.Tx, engagementID int64, eventIDs []int64) ([]*models.Event, error) {
	events, err := s.eventRepo.GetByIDsForUpdate(ctx, tx, eventIDs)
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		if ev.EngagementID != engagementID {
			return nil, apperrors.ErrEventNotFound
		}
	}
	return events, nil
}

// conflictError resolves display names for every instructor involved and
// wraps the report. Name lookup failures degrade to numeric ids.
func (s *schedulingServiceImpl) conflictError(ctx context.Context, report scheduling.ConflictReport) error {
	ids := make([]int64, 0, len(report.Instructors))
	for id := range report.Instructors {
		ids = append(ids, id)
	}
	for _, p := range report.Pairs {
		ids = append(ids, p.InstructorID)
	}
	ids = helpers.Int64SliceToSet(ids)

	names, err := s.instructorRepo.NamesByIDs(ctx, ids)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to resolve instructor names for conflict report")
	} else {
		report.InstructorNames = names
	}

	s.trail.Record(audit.Entry{
		Kind:    "schedule_conflict_rejected",
		Message: report.Summary(),
	})
	return scheduling.NewConflictError(report)
}

// afterCommit fires the best-effort side effects of a committed mutation:
// a websocket notification to the engagement's subscribers and an audit entry.
func (s *schedulingServiceImpl) afterCommit(actorID, engagementID int64, action string, eventIDs []int64, message string) {
	s.hub.Notify(&realtime.Notification{
		Action:       action,
		EngagementID: engagementID,
		EventIDs:     eventIDs,
		ActorID:      actorID,
		Timestamp:    time.Now(),
	})
	s.trail.Record(audit.Entry{
		Kind:    "schedule_" + action,
		Message: message,
		Actor:   &audit.Actor{ID: actorID},
	})
}

func eventIDsOf(events []*models.Event) []int64 {
	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	return ids
}
