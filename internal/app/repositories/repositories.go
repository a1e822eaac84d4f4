package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	TokenRepository      *TokenRepository
	InviteRepository     *InviteRepository
	ClientRepository     *ClientRepository
	EngagementRepository *EngagementRepository
	EventRepository      *EventRepository
	InstructorRepository *InstructorRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		TokenRepository:      NewTokenRepository(db),
		InviteRepository:     NewInviteRepository(db),
		ClientRepository:     NewClientRepository(db),
		EngagementRepository: NewEngagementRepository(db),
		EventRepository:      NewEventRepository(db),
		InstructorRepository: NewInstructorRepository(db),
	}
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation error.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // 23505 is unique_violation
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation error.
func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503" // 23503 is foreign_key_violation
}
