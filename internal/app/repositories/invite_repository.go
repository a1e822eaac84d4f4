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
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
	"github.com/trainingops/trainingops/internal/pkg/logger"
)

const inviteColumns = "id, token, code, created_at, expires_at, used_at, used_by_user_id"

// InviteRepository handles registration invite database operations
type InviteRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInviteRepository creates a new InviteRepository
func NewInviteRepository(db *pgxpool.Pool) *InviteRepository {
	return &InviteRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanInvite(row pgx.Row) (*models.Invite, error) {
	invite := &models.Invite{}
	err := row.Scan(
		&invite.ID,
		&invite.Token,
		&invite.Code,
		&invite.CreatedAt,
		&invite.ExpiresAt,
		&invite.UsedAt,
		&invite.UsedByUserID,
	)
	if err != nil {
		return nil, err
	}
	return invite, nil
}

// Create inserts a new invite and sets its generated ID.
func (r *InviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	sql, args, err := r.sb.Insert("invites").
		Columns("token", "code", "expires_at").
		Values(invite.Token, invite.Code, invite.ExpiresAt).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create invite query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&invite.ID, &invite.CreatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create invite query")
		return fmt.Errorf("error creating invite: %w", err)
	}
	return nil
}

// GetByToken retrieves an invite by its URL token.
func (r *InviteRepository) GetByToken(ctx context.Context, token string) (*models.Invite, error) {
	sql, args, err := r.sb.Select(inviteColumns).
		From("invites").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get invite query: %w", err)
	}

	invite, err := scanInvite(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInviteNotFound
		}
		logger.Error().Err(err).Msg("Error scanning invite row")
		return nil, fmt.Errorf("error getting invite by token: %w", err)
	}
	return invite, nil
}

// GetByID retrieves an invite by ID.
func (r *InviteRepository) GetByID(ctx context.Context, id int64) (*models.Invite, error) {
	sql, args, err := r.sb.Select(inviteColumns).
		From("invites").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get invite query: %w", err)
	}

	invite, err := scanInvite(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInviteNotFound
		}
		return nil, fmt.Errorf("error getting invite by ID: %w", err)
	}
	return invite, nil
}

// GetAll retrieves every invite, newest first.
func (r *InviteRepository) GetAll(ctx context.Context) ([]*models.Invite, error) {
	sql, args, err := r.sb.Select(inviteColumns).
		From("invites").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list invites query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing invites: %w", err)
	}
	defer rows.Close()

	var invites []*models.Invite
	for rows.Next() {
		invite, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning invite row: %w", err)
		}
		invites = append(invites, invite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invite rows: %w", err)
	}
	return invites, nil
}

// MarkUsed consumes an invite atomically. It only succeeds if the invite is
// still unused, so two concurrent registrations cannot both claim it.
func (r *InviteRepository) MarkUsed(ctx context.Context, inviteID, userID int64, usedAt time.Time) error {
	sql, args, err := r.sb.Update("invites").
		Set("used_at", usedAt).
		Set("used_by_user_id", userID).
		Where(squirrel.Eq{"id": inviteID}).
		Where("used_at IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark invite used query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error marking invite used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInviteUsed
	}
	return nil
}

// Delete removes an unused invite. Used invites are kept for audit and
// surface a sentinel instead.
func (r *InviteRepository) Delete(ctx context.Context, id int64) error {
	invite, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invite.IsUsed() {
		return apperrors.ErrInviteRevokedUsed
	}

	sql, args, err := r.sb.Delete("invites").
		Where(squirrel.Eq{"id": id}).
		Where("used_at IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete invite query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting invite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInviteRevokedUsed
	}
	return nil
}
