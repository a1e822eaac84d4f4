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

var instructorColumns = []string{
	"id", "first_name", "last_name", "email", "birth_date", "birth_place",
	"res_street", "res_number", "res_city", "res_postcode", "res_province", "res_country",
	"gender", "fiscal_code", "vat_number", "vat_regime", "subject_type",
	"business_name", "bank", "bank_holder", "iban", "bic_swift",
	"cv_filename", "cv_uploaded_at",
}

// InstructorRepository handles trainer profile database operations
type InstructorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInstructorRepository creates a new InstructorRepository
func NewInstructorRepository(db *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanInstructor(row pgx.Row) (*models.Instructor, error) {
	ins := &models.Instructor{}
	err := row.Scan(
		&ins.ID, &ins.FirstName, &ins.LastName, &ins.Email, &ins.BirthDate, &ins.BirthPlace,
		&ins.ResidenceStreet, &ins.ResidenceNumber, &ins.ResidenceCity, &ins.ResidencePostcode,
		&ins.ResidenceProvince, &ins.ResidenceCountry,
		&ins.Gender, &ins.FiscalCode, &ins.VATNumber, &ins.VATRegime, &ins.Subject,
		&ins.BusinessName, &ins.Bank, &ins.BankHolder, &ins.IBAN, &ins.BICSwift,
		&ins.CVFilename, &ins.CVUploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return ins, nil
}

func instructorValues(ins *models.Instructor) []interface{} {
	return []interface{}{
		ins.FirstName, ins.LastName, ins.Email, ins.BirthDate, ins.BirthPlace,
		ins.ResidenceStreet, ins.ResidenceNumber, ins.ResidenceCity, ins.ResidencePostcode,
		ins.ResidenceProvince, ins.ResidenceCountry,
		ins.Gender, ins.FiscalCode, ins.VATNumber, ins.VATRegime, ins.Subject,
		ins.BusinessName, ins.Bank, ins.BankHolder, ins.IBAN, ins.BICSwift,
	}
}

// Create inserts a new instructor profile and sets its generated ID.
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	sql, args, err := r.sb.Insert("instructors").
		Columns(instructorColumns[1:22]...).
		Values(instructorValues(instructor)...).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create instructor query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&instructor.ID); err != nil {
		logger.Error().Err(err).Str("name", instructor.DisplayName()).Msg("Error executing create instructor query")
		return fmt.Errorf("error creating instructor: %w", err)
	}
	return nil
}

// GetByID retrieves an instructor profile by ID.
func (r *InstructorRepository) GetByID(ctx context.Context, id int64) (*models.Instructor, error) {
	sql, args, err := r.sb.Select(instructorColumns...).
		From("instructors").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get instructor query: %w", err)
	}

	instructor, err := scanInstructor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstructorNotFound
		}
		logger.Error().Err(err).Int64("instructorID", id).Msg("Error scanning instructor row")
		return nil, fmt.Errorf("error getting instructor by ID: %w", err)
	}
	return instructor, nil
}

// GetByIDs retrieves multiple instructor profiles. Missing IDs are simply
// absent from the result.
func (r *InstructorRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Instructor, error) {
	if len(ids) == 0 {
		return []*models.Instructor{}, nil
	}

	sql, args, err := r.sb.Select(instructorColumns...).
		From("instructors").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("last_name ASC", "first_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get instructors query: %w", err)
	}

	return r.queryMany(ctx, sql, args)
}

// GetAll retrieves instructors, optionally filtered by a case-insensitive
// search across name and email, ordered by surname.
func (r *InstructorRepository) GetAll(ctx context.Context, search *string) ([]*models.Instructor, error) {
	builder := r.sb.Select(instructorColumns...).
		From("instructors").
		OrderBy("last_name ASC", "first_name ASC")

	if search != nil && *search != "" {
		pattern := "%" + *search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list instructors query: %w", err)
	}

	return r.queryMany(ctx, sql, args)
}

func (r *InstructorRepository) queryMany(ctx context.Context, sql string, args []interface{}) ([]*models.Instructor, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing instructors: %w", err)
	}
	defer rows.Close()

	var instructors []*models.Instructor
	for rows.Next() {
		instructor, err := scanInstructor(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning instructor row: %w", err)
		}
		instructors = append(instructors, instructor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instructor rows: %w", err)
	}
	return instructors, nil
}

// Update replaces all mutable profile fields, CV excluded.
func (r *InstructorRepository) Update(ctx context.Context, instructor *models.Instructor) error {
	builder := r.sb.Update("instructors")
	values := instructorValues(instructor)
	for i, col := range instructorColumns[1:22] {
		builder = builder.Set(col, values[i])
	}

	sql, args, err := builder.Where(squirrel.Eq{"id": instructor.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update instructor query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("instructorID", instructor.ID).Msg("Error updating instructor")
		return fmt.Errorf("error updating instructor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInstructorNotFound
	}
	return nil
}

// SetCV records the stored CV filename and upload time. A nil filename
// clears the CV.
func (r *InstructorRepository) SetCV(ctx context.Context, instructorID int64, filename *string, uploadedAt *time.Time) error {
	sql, args, err := r.sb.Update("instructors").
		Set("cv_filename", filename).
		Set("cv_uploaded_at", uploadedAt).
		Where(squirrel.Eq{"id": instructorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set CV query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error setting instructor CV: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInstructorNotFound
	}
	return nil
}

// Delete removes an instructor profile; the linked account and event
// assignments cascade.
func (r *InstructorRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("instructors").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete instructor query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("instructorID", id).Msg("Error deleting instructor")
		return fmt.Errorf("error deleting instructor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInstructorNotFound
	}
	return nil
}

// NamesByIDs returns a display name per instructor ID, used to label
// conflict reports.
func (r *InstructorRepository) NamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	sql, args, err := r.sb.Select("id", "first_name", "last_name").
		From("instructors").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build instructor names query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing instructor names: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var first, last string
		if err := rows.Scan(&id, &first, &last); err != nil {
			return nil, fmt.Errorf("error scanning instructor name row: %w", err)
		}
		ins := models.Instructor{FirstName: first, LastName: last}
		names[id] = ins.DisplayName()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instructor name rows: %w", err)
	}
	return names, nil
}
