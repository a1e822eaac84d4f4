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

// ClientRepository handles customer database operations
type ClientRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanClient(row pgx.Row) (*models.Client, error) {
	client := &models.Client{}
	err := row.Scan(&client.ID, &client.BusinessName, &client.Email, &client.Phone, &client.Notes)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Create inserts a new client and sets its generated ID.
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	sql, args, err := r.sb.Insert("clients").
		Columns("business_name", "email", "phone", "notes").
		Values(client.BusinessName, client.Email, client.Phone, client.Notes).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create client query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&client.ID); err != nil {
		logger.Error().Err(err).Str("businessName", client.BusinessName).Msg("Error executing create client query")
		return fmt.Errorf("error creating client: %w", err)
	}
	return nil
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	sql, args, err := r.sb.Select("id", "business_name", "email", "phone", "notes").
		From("clients").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get client query: %w", err)
	}

	client, err := scanClient(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClientNotFound
		}
		logger.Error().Err(err).Int64("clientID", id).Msg("Error scanning client row")
		return nil, fmt.Errorf("error getting client by ID: %w", err)
	}
	return client, nil
}

// GetAll retrieves clients, optionally filtered by a case-insensitive search
// on the business name, ordered by name.
func (r *ClientRepository) GetAll(ctx context.Context, search *string) ([]*models.Client, error) {
	builder := r.sb.Select("id", "business_name", "email", "phone", "notes").
		From("clients").
		OrderBy("business_name ASC")

	if search != nil && *search != "" {
		builder = builder.Where(squirrel.ILike{"business_name": "%" + *search + "%"})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list clients query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing clients: %w", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning client row: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}
	return clients, nil
}

// Update replaces all mutable fields of a client.
func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	sql, args, err := r.sb.Update("clients").
		Set("business_name", client.BusinessName).
		Set("email", client.Email).
		Set("phone", client.Phone).
		Set("notes", client.Notes).
		Where(squirrel.Eq{"id": client.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update client query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClientNotFound
	}
	return nil
}

// Delete removes a client and cascades to its engagements and events.
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("clients").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete client query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("clientID", id).Msg("Error deleting client")
		return fmt.Errorf("error deleting client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClientNotFound
	}
	return nil
}
