package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/app/repositories"
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
	"github.com/trainingops/trainingops/internal/pkg/audit"
	"github.com/trainingops/trainingops/internal/pkg/auth"
	"github.com/trainingops/trainingops/internal/pkg/filestorage"
	"github.com/trainingops/trainingops/internal/pkg/logger"
)

// InstructorService defines the interface for trainer profile operations
type InstructorService interface {
	CreateInstructor(ctx context.Context, instructor *models.Instructor) error
	GetInstructorByID(ctx context.Context, id int64) (*models.Instructor, error)
	GetAllInstructors(ctx context.Context, search *string) ([]*models.Instructor, error)
	UpdateInstructor(ctx context.Context, instructor *models.Instructor) error
	DeleteInstructor(ctx context.Context, id int64) error

	UploadCV(ctx context.Context, instructorID int64, fileHeader *multipart.FileHeader) error
	CVDownloadPath(ctx context.Context, instructorID int64) (path, downloadName string, err error)
	DeleteCV(ctx context.Context, instructorID int64) error

	SetUserStatus(ctx context.Context, instructorID int64, status models.AccountStatus) error
	ResetPassword(ctx context.Context, instructorID int64, newPassword string) error
}

// instructorServiceImpl implements the InstructorService interface
type instructorServiceImpl struct {
	instructorRepo *repositories.InstructorRepository
	userRepo       *repositories.UserRepository
	tokenRepo      *repositories.TokenRepository
	cvStorage      filestorage.CVStorage
	trail          *audit.Trail
}

// NewInstructorService creates a new instructor service instance
func NewInstructorService(
	instructorRepo *repositories.InstructorRepository,
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	cvStorage filestorage.CVStorage,
	trail *audit.Trail,
) InstructorService {
	return &instructorServiceImpl{
		instructorRepo: instructorRepo,
		userRepo:       userRepo,
		tokenRepo:      tokenRepo,
		cvStorage:      cvStorage,
		trail:          trail,
	}
}

func validateInstructor(instructor *models.Instructor) error {
	if instructor == nil {
		return fmt.Errorf("%w: instructor is nil", apperrors.ErrValidationFailed)
	}
	instructor.FirstName = strings.TrimSpace(instructor.FirstName)
	instructor.LastName = strings.TrimSpace(instructor.LastName)
	if instructor.FirstName == "" || instructor.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", apperrors.ErrValidationFailed)
	}
	if instructor.Subject == "" {
		instructor.Subject = models.SubjectFreelancer
	}
	if instructor.Subject == models.SubjectCompany && (instructor.BusinessName == nil || strings.TrimSpace(*instructor.BusinessName) == "") {
		return fmt.Errorf("%w: business name is required for companies", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreateInstructor persists an admin-created profile without a login account.
func (s *instructorServiceImpl) CreateInstructor(ctx context.Context, instructor *models.Instructor) error {
	if err := validateInstructor(instructor); err != nil {
		return err
	}
	if err := s.instructorRepo.Create(ctx, instructor); err != nil {
		return err
	}
	logger.Info().Int64("instructorID", instructor.ID).Str("name", instructor.DisplayName()).Msg("Instructor created")
	return nil
}

// GetInstructorByID retrieves a profile with its linked account, when one
// exists.
func (s *instructorServiceImpl) GetInstructorByID(ctx context.Context, id int64) (*models.Instructor, error) {
	instructor, err := s.instructorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByInstructorID(ctx, id)
	if err == nil {
		instructor.User = user
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}
	return instructor, nil
}

// GetAllInstructors lists profiles, optionally filtered by name or email.
func (s *instructorServiceImpl) GetAllInstructors(ctx context.Context, search *string) ([]*models.Instructor, error) {
	return s.instructorRepo.GetAll(ctx, search)
}

// UpdateInstructor persists profile changes, CV untouched.
func (s *instructorServiceImpl) UpdateInstructor(ctx context.Context, instructor *models.Instructor) error {
	if err := validateInstructor(instructor); err != nil {
		return err
	}
	return s.instructorRepo.Update(ctx, instructor)
}

// DeleteInstructor removes a profile, its stored CV file and, through
// cascade, the linked account and event assignments.
func (s *instructorServiceImpl) DeleteInstructor(ctx context.Context, id int64) error {
	instructor, err := s.instructorRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.instructorRepo.Delete(ctx, id); err != nil {
		return err
	}
	if instructor.CVFilename != nil {
		if err := s.cvStorage.DeleteCV(*instructor.CVFilename); err != nil {
			logger.Warn().Err(err).Int64("instructorID", id).Msg("Failed to delete CV file with instructor")
		}
	}

	s.trail.Record(audit.Entry{
		Kind:    "instructor_deleted",
		Message: fmt.Sprintf("instructor %d (%s) deleted", id, instructor.DisplayName()),
	})
	logger.Info().Int64("instructorID", id).Msg("Instructor deleted")
	return nil
}

// UploadCV stores a new CV, replacing the previous file when present.
func (s *instructorServiceImpl) UploadCV(ctx context.Context, instructorID int64, fileHeader *multipart.FileHeader) error {
	instructor, err := s.instructorRepo.GetByID(ctx, instructorID)
	if err != nil {
		return err
	}

	filename, err := s.cvStorage.SaveCV(fileHeader, instructorID)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := s.instructorRepo.SetCV(ctx, instructorID, &filename, &now); err != nil {
		_ = s.cvStorage.DeleteCV(filename)
		return err
	}

	if instructor.CVFilename != nil && *instructor.CVFilename != filename {
		if err := s.cvStorage.DeleteCV(*instructor.CVFilename); err != nil {
			logger.Warn().Err(err).Str("filename", *instructor.CVFilename).Msg("Failed to delete replaced CV file")
		}
	}

	logger.Info().Int64("instructorID", instructorID).Msg("CV uploaded")
	return nil
}

// CVDownloadPath validates and resolves the stored CV for download.
func (s *instructorServiceImpl) CVDownloadPath(ctx context.Context, instructorID int64) (string, string, error) {
	instructor, err := s.instructorRepo.GetByID(ctx, instructorID)
	if err != nil {
		return "", "", err
	}
	if instructor.CVFilename == nil {
		return "", "", apperrors.ErrCVNotFound
	}

	path, err := s.cvStorage.CVPath(instructorID, *instructor.CVFilename)
	if err != nil {
		return "", "", err
	}

	downloadName := fmt.Sprintf("cv_%s_%s.pdf",
		NormalizeNamePart(instructor.FirstName), NormalizeNamePart(instructor.LastName))
	return path, downloadName, nil
}

// DeleteCV removes the stored CV file and clears the profile columns.
func (s *instructorServiceImpl) DeleteCV(ctx context.Context, instructorID int64) error {
	instructor, err := s.instructorRepo.GetByID(ctx, instructorID)
	if err != nil {
		return err
	}
	if instructor.CVFilename == nil {
		return apperrors.ErrCVNotFound
	}

	if err := s.instructorRepo.SetCV(ctx, instructorID, nil, nil); err != nil {
		return err
	}
	if err := s.cvStorage.DeleteCV(*instructor.CVFilename); err != nil {
		logger.Warn().Err(err).Int64("instructorID", instructorID).Msg("Failed to delete CV file")
	}
	return nil
}

// SetUserStatus changes the login status of the instructor's account.
// Disabling also revokes every open session.
func (s *instructorServiceImpl) SetUserStatus(ctx context.Context, instructorID int64, status models.AccountStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown account status %q", apperrors.ErrValidationFailed, status)
	}

	user, err := s.userRepo.GetByInstructorID(ctx, instructorID)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdateStatus(ctx, user.ID, status); err != nil {
		return err
	}
	if status == models.AccountDisabled {
		if err := s.tokenRepo.RevokeAllUserTokens(ctx, user.ID); err != nil {
			logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to revoke sessions on disable")
		}
	}

	s.trail.Record(audit.Entry{
		Kind:    "account_status_changed",
		Message: fmt.Sprintf("account %q set to %s", user.Username, status),
	})
	logger.Info().Int64("userID", user.ID).Str("status", string(status)).Msg("Account status changed")
	return nil
}

// ResetPassword sets a new password on the instructor's account and revokes
// its sessions. Meant for admins; the policy still applies.
func (s *instructorServiceImpl) ResetPassword(ctx context.Context, instructorID int64, newPassword string) error {
	user, err := s.userRepo.GetByInstructorID(ctx, instructorID)
	if err != nil {
		return err
	}

	if err := auth.ValidatePasswordPolicy(newPassword); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, user.ID); err != nil {
		logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to revoke sessions after password reset")
	}

	s.trail.Record(audit.Entry{
		Kind:    "password_reset",
		Message: fmt.Sprintf("password reset for account %q", user.Username),
	})
	return nil
}
