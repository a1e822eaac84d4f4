package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
	"github.com/trainingops/trainingops/internal/pkg/logger"
)

// EngagementRepository handles engagement database operations
type EngagementRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEngagementRepository creates a new EngagementRepository
func NewEngagementRepository(db *pgxpool.Pool) *EngagementRepository {
	return &EngagementRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanEngagementWithClient(row pgx.Row) (*models.Engagement, error) {
	engagement := &models.Engagement{Client: &models.Client{}}
	err := row.Scan(
		&engagement.ID,
		&engagement.ClientID,
		&engagement.Title,
		&engagement.Description,
		&engagement.State,
		&engagement.Timezone,
		&engagement.Client.ID,
		&engagement.Client.BusinessName,
		&engagement.Client.Email,
		&engagement.Client.Phone,
		&engagement.Client.Notes,
	)
	if err != nil {
		return nil, err
	}
	return engagement, nil
}

func (r *EngagementRepository) selectWithClient() squirrel.SelectBuilder {
	return r.sb.Select(
		"e.id", "e.client_id", "e.title", "e.description", "e.state", "e.timezone",
		"c.id", "c.business_name", "c.email", "c.phone", "c.notes",
	).
		From("engagements e").
		Join("clients c ON c.id = e.client_id")
}

// Create inserts a new engagement and sets its generated ID.
func (r *EngagementRepository) Create(ctx context.Context, engagement *models.Engagement) error {
	sql, args, err := r.sb.Insert("engagements").
		Columns("client_id", "title", "description", "state", "timezone").
		Values(engagement.ClientID, engagement.Title, engagement.Description, engagement.State, engagement.Timezone).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create engagement query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&engagement.ID); err != nil {
		if isForeignKeyError(err) {
			return apperrors.ErrClientNotFound
		}
		logger.Error().Err(err).Str("title", engagement.Title).Msg("Error executing create engagement query")
		return fmt.Errorf("error creating engagement: %w", err)
	}
	return nil
}

// GetByID retrieves an engagement with its client joined.
func (r *EngagementRepository) GetByID(ctx context.Context, id int64) (*models.Engagement, error) {
	sql, args, err := r.selectWithClient().
		Where(squirrel.Eq{"e.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get engagement query: %w", err)
	}

	engagement, err := scanEngagementWithClient(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEngagementNotFound
		}
		logger.Error().Err(err).Int64("engagementID", id).Msg("Error scanning engagement row")
		return nil, fmt.Errorf("error getting engagement by ID: %w", err)
	}
	return engagement, nil
}

// GetAll retrieves engagements with clients joined, optionally filtered by
// client and by a case-insensitive search across engagement title and client
// business name.
func (r *EngagementRepository) GetAll(ctx context.Context, clientID *int64, search *string) ([]*models.Engagement, error) {
	builder := r.selectWithClient().OrderBy("c.business_name ASC", "e.title ASC")

	if clientID != nil {
		builder = builder.Where(squirrel.Eq{"e.client_id": *clientID})
	}
	if search != nil && *search != "" {
		pattern := "%" + *search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"e.title": pattern},
			squirrel.ILike{"c.business_name": pattern},
		})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list engagements query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing engagements: %w", err)
	}
	defer rows.Close()

	var engagements []*models.Engagement
	for rows.Next() {
		engagement, err := scanEngagementWithClient(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning engagement row: %w", err)
		}
		engagements = append(engagements, engagement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating engagement rows: %w", err)
	}
	return engagements, nil
}

// GetForInstructor retrieves the engagements an instructor is assigned to
// through at least one event. This is the instructor's whole visible world.
func (r *EngagementRepository) GetForInstructor(ctx context.Context, instructorID int64) ([]*models.Engagement, error) {
	sql, args, err := r.selectWithClient().
		Where("EXISTS (SELECT 1 FROM events ev JOIN event_instructors ei ON ei.event_id = ev.id"+
			" WHERE ev.engagement_id = e.id AND ei.instructor_id = ?)", instructorID).
		OrderBy("c.business_name ASC", "e.title ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build instructor engagements query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing instructor engagements: %w", err)
	}
	defer rows.Close()

	var engagements []*models.Engagement
	for rows.Next() {
		engagement, err := scanEngagementWithClient(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning engagement row: %w", err)
		}
		engagements = append(engagements, engagement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating engagement rows: %w", err)
	}
	return engagements, nil
}

// InstructorHasEvents reports whether an instructor has at least one event in
// the engagement. Used for instructor-side access checks.
func (r *EngagementRepository) InstructorHasEvents(ctx context.Context, engagementID, instructorID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("events ev").
		Join("event_instructors ei ON ei.event_id = ev.id").
		Where(squirrel.Eq{"ev.engagement_id": engagementID, "ei.instructor_id": instructorID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build instructor membership query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking instructor membership: %w", err)
	}
	return true, nil
}

// Update replaces all mutable fields of an engagement.
func (r *EngagementRepository) Update(ctx context.Context, engagement *models.Engagement) error {
	sql, args, err := r.sb.Update("engagements").
		Set("client_id", engagement.ClientID).
		Set("title", engagement.Title).
		Set("description", engagement.Description).
		Set("state", engagement.State).
		Set("timezone", engagement.Timezone).
		Where(squirrel.Eq{"id": engagement.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update engagement query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if isForeignKeyError(err) {
			return apperrors.ErrClientNotFound
		}
		return fmt.Errorf("error updating engagement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEngagementNotFound
	}
	return nil
}

// Delete removes an engagement and cascades to its events.
func (r *EngagementRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("engagements").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete engagement query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("engagementID", id).Msg("Error deleting engagement")
		return fmt.Errorf("error deleting engagement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEngagementNotFound
	}
	return nil
}

// GetStats aggregates event counts and hours by status for one engagement.
func (r *EngagementRepository) GetStats(ctx context.Context, engagementID int64) (*models.EngagementStats, error) {
	const hoursByStatus = "COALESCE(SUM(EXTRACT(EPOCH FROM (end_at - start_at)) / 3600) FILTER (WHERE status = ?), 0)"
	sql, args, err := r.sb.Select().
		Column(squirrel.Expr(hoursByStatus, models.EventOptioned)).
		Column(squirrel.Expr(hoursByStatus, models.EventConfirmed)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?)", models.EventOptioned)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?)", models.EventConfirmed)).
		Column("COUNT(*)").
		From("events").
		Where(squirrel.Eq{"engagement_id": engagementID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build engagement stats query: %w", err)
	}

	stats := &models.EngagementStats{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&stats.OptionedHours,
		&stats.ConfirmedHours,
		&stats.OptionedCount,
		&stats.ConfirmedCount,
		&stats.TotalCount,
	)
	if err != nil {
		logger.Error().Err(err).Int64("engagementID", engagementID).Msg("Error scanning engagement stats")
		return nil, fmt.Errorf("error getting engagement stats: %w", err)
	}
	stats.TotalHours = stats.OptionedHours + stats.ConfirmedHours
	return stats, nil
}
