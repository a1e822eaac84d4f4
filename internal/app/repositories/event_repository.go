package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/app/scheduling"
	"github.com/trainingops/trainingops/internal/db"
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
	"github.com/trainingops/trainingops/internal/pkg/helpers"
	"github.com/trainingops/trainingops/internal/pkg/logger"
)

const eventColumns = "id, engagement_id, title, notes, start_at, end_at, status"

// EventRepository handles event and roster database operations. Mutating
// methods and the conflict query take a db.Querier so scheduling operations
// can run them inside one transaction.
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(
		&event.ID,
		&event.EngagementID,
		&event.Title,
		&event.Notes,
		&event.StartAt,
		&event.EndAt,
		&event.Status,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Create inserts an event with its roster and sets the generated ID.
func (r *EventRepository) Create(ctx context.Context, q db.Querier, event *models.Event) error {
	sql, args, err := r.sb.Insert("events").
		Columns("engagement_id", "title", "notes", "start_at", "end_at", "status").
		Values(event.EngagementID, event.Title, event.Notes, event.StartAt, event.EndAt, event.Status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&event.ID); err != nil {
		if isForeignKeyError(err) {
			return apperrors.ErrEngagementNotFound
		}
		logger.Error().Err(err).Str("title", event.Title).Msg("Error executing create event query")
		return fmt.Errorf("error creating event: %w", err)
	}

	return r.ReplaceRoster(ctx, q, event.ID, event.InstructorIDs)
}

// GetByID retrieves an event with its roster loaded.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	return r.getByID(ctx, r.db, id, false)
}

// GetByIDForUpdate retrieves an event inside a transaction with a row lock.
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, q db.Querier, id int64) (*models.Event, error) {
	return r.getByID(ctx, q, id, true)
}

func (r *EventRepository) getByID(ctx context.Context, q db.Querier, id int64, forUpdate bool) (*models.Event, error) {
	builder := r.sb.Select(eventColumns).
		From("events").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	event, err := scanEvent(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Int64("eventID", id).Msg("Error scanning event row")
		return nil, fmt.Errorf("error getting event by ID: %w", err)
	}

	if err := r.attachRosters(ctx, q, []*models.Event{event}); err != nil {
		return nil, err
	}
	return event, nil
}

// GetByIDsForUpdate retrieves and locks the given events inside a
// transaction, rosters loaded. Missing IDs surface as ErrEventNotFound.
func (r *EventRepository) GetByIDsForUpdate(ctx context.Context, q db.Querier, ids []int64) ([]*models.Event, error) {
	if len(ids) == 0 {
		return nil, apperrors.ErrEmptySelection
	}

	sql, args, err := r.sb.Select(eventColumns).
		From("events").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("start_at ASC", "id ASC").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get events query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error getting events by IDs: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	if len(events) != len(helpers.Int64SliceToSet(ids)) {
		return nil, apperrors.ErrEventNotFound
	}

	if err := r.attachRosters(ctx, q, events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetByEngagement retrieves the engagement's events ordered by start time,
// rosters loaded. A non-nil instructorID narrows to that instructor's events.
func (r *EventRepository) GetByEngagement(ctx context.Context, engagementID int64, instructorID *int64, from, to *time.Time) ([]*models.Event, error) {
	builder := r.sb.Select(eventColumns).
		From("events").
		Where(squirrel.Eq{"engagement_id": engagementID}).
		OrderBy("start_at ASC", "id ASC")

	if instructorID != nil {
		builder = builder.Where("id IN (SELECT event_id FROM event_instructors WHERE instructor_id = ?)", *instructorID)
	}
	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"end_at": *from})
	}
	if to != nil {
		builder = builder.Where(squirrel.Lt{"start_at": *to})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	if err := r.attachRosters(ctx, r.db, events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetForInstructor retrieves every event an instructor is assigned to in a
// time window, rosters loaded.
func (r *EventRepository) GetForInstructor(ctx context.Context, instructorID int64, from, to *time.Time) ([]*models.Event, error) {
	builder := r.sb.Select(eventColumns).
		From("events").
		Where("id IN (SELECT event_id FROM event_instructors WHERE instructor_id = ?)", instructorID).
		OrderBy("start_at ASC", "id ASC")

	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"end_at": *from})
	}
	if to != nil {
		builder = builder.Where(squirrel.Lt{"start_at": *to})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build instructor events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing instructor events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	if err := r.attachRosters(ctx, r.db, events); err != nil {
		return nil, err
	}
	return events, nil
}

// Update replaces the mutable fields of an event, roster excluded.
func (r *EventRepository) Update(ctx context.Context, q db.Querier, event *models.Event) error {
	sql, args, err := r.sb.Update("events").
		Set("title", event.Title).
		Set("notes", event.Notes).
		Set("start_at", event.StartAt).
		Set("end_at", event.EndAt).
		Set("status", event.Status).
		Where(squirrel.Eq{"id": event.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", event.ID).Msg("Error updating event")
		return fmt.Errorf("error updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// ReplaceRoster rewrites the instructor assignments of an event.
func (r *EventRepository) ReplaceRoster(ctx context.Context, q db.Querier, eventID int64, instructorIDs []int64) error {
	delSQL, delArgs, err := r.sb.Delete("event_instructors").
		Where(squirrel.Eq{"event_id": eventID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear roster query: %w", err)
	}
	if _, err := q.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("error clearing event roster: %w", err)
	}

	ids := helpers.Int64SliceToSet(instructorIDs)
	if len(ids) == 0 {
		return nil
	}

	builder := r.sb.Insert("event_instructors").Columns("event_id", "instructor_id")
	for _, id := range ids {
		builder = builder.Values(eventID, id)
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build roster insert query: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyError(err) {
			return apperrors.ErrInstructorNotFound
		}
		logger.Error().Err(err).Int64("eventID", eventID).Msg("Error inserting event roster")
		return fmt.Errorf("error inserting event roster: %w", err)
	}
	return nil
}

// DeleteMany removes the given events; roster rows cascade.
func (r *EventRepository) DeleteMany(ctx context.Context, q db.Querier, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.ErrEmptySelection
	}

	sql, args, err := r.sb.Delete("events").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete events query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Ints64("eventIDs", ids).Msg("Error deleting events")
		return 0, fmt.Errorf("error deleting events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// FindConflicts returns, per instructor, the stored events overlapping the
// half-open window [startAt, endAt). Events in excludeEventIDs are ignored so
// an edit does not collide with the rows it is replacing.
func (r *EventRepository) FindConflicts(ctx context.Context, q db.Querier, instructorIDs []int64, startAt, endAt time.Time, excludeEventIDs []int64) (scheduling.ConflictMap, error) {
	if len(instructorIDs) == 0 {
		return scheduling.ConflictMap{}, nil
	}

	builder := r.sb.Select(
		"ei.instructor_id", "ev.id", "ev.engagement_id", "en.title", "ev.title", "ev.start_at", "ev.end_at",
	).
		From("event_instructors ei").
		Join("events ev ON ev.id = ei.event_id").
		Join("engagements en ON en.id = ev.engagement_id").
		Where(squirrel.Eq{"ei.instructor_id": instructorIDs}).
		Where(squirrel.Lt{"ev.start_at": endAt}).
		Where(squirrel.Gt{"ev.end_at": startAt}).
		OrderBy("ev.start_at ASC", "ev.id ASC")

	if len(excludeEventIDs) > 0 {
		builder = builder.Where(squirrel.NotEq{"ev.id": excludeEventIDs})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build conflict query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing conflict query")
		return nil, fmt.Errorf("error finding conflicts: %w", err)
	}
	defer rows.Close()

	conflicts := scheduling.ConflictMap{}
	for rows.Next() {
		var instructorID int64
		var c scheduling.EventConflict
		err := rows.Scan(
			&instructorID,
			&c.EventID,
			&c.EngagementID,
			&c.EngagementTitle,
			&c.Title,
			&c.StartAt,
			&c.EndAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning conflict row: %w", err)
		}
		conflicts[instructorID] = append(conflicts[instructorID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conflict rows: %w", err)
	}
	return conflicts, nil
}

// attachRosters loads instructor assignments for the given events in one
// query and fills each event's InstructorIDs slice.
func (r *EventRepository) attachRosters(ctx context.Context, q db.Querier, events []*models.Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(events))
	byID := make(map[int64]*models.Event, len(events))
	for _, event := range events {
		event.InstructorIDs = []int64{}
		ids = append(ids, event.ID)
		byID[event.ID] = event
	}

	sql, args, err := r.sb.Select("event_id", "instructor_id").
		From("event_instructors").
		Where(squirrel.Eq{"event_id": ids}).
		OrderBy("event_id ASC", "instructor_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build roster query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error loading event rosters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, instructorID int64
		if err := rows.Scan(&eventID, &instructorID); err != nil {
			return fmt.Errorf("error scanning roster row: %w", err)
		}
		if event, ok := byID[eventID]; ok {
			event.InstructorIDs = append(event.InstructorIDs, instructorID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating roster rows: %w", err)
	}
	return nil
}
