// Package auth implements access decisions that go beyond role gates:
// instructors may only see engagements and events they are assigned to.
package auth

import (
	"context"

	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/app/repositories"
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
)

// AuthorizationService answers ownership questions for instructor-facing
// endpoints. Admins pass every check.
type AuthorizationService struct {
	userRepo       *repositories.UserRepository
	engagementRepo *repositories.EngagementRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo *repositories.UserRepository, engagementRepo *repositories.EngagementRepository) *AuthorizationService {
	return &AuthorizationService{
		userRepo:       userRepo,
		engagementRepo: engagementRepo,
	}
}

// CanAccessEngagement reports whether the user may read an engagement's
// calendar. Instructors qualify only through at least one assigned event.
func (s *AuthorizationService) CanAccessEngagement(ctx context.Context, userID int64, role models.RoleType, engagementID int64) (bool, error) {
	if role == models.RoleAdmin {
		if _, err := s.engagementRepo.GetByID(ctx, engagementID); err != nil {
			return false, err
		}
		return true, nil
	}

	instructorID, err := s.InstructorID(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.engagementRepo.InstructorHasEvents(ctx, engagementID, instructorID)
}

// InstructorID resolves the instructor profile linked to a user account.
func (s *AuthorizationService) InstructorID(ctx context.Context, userID int64) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user.InstructorID == nil {
		return 0, apperrors.NewForbiddenError("account has no instructor profile")
	}
	return *user.InstructorID, nil
}

// RequireEngagementAccess is CanAccessEngagement with a forbidden error
// instead of a boolean, for service-layer call sites.
func (s *AuthorizationService) RequireEngagementAccess(ctx context.Context, userID int64, role models.RoleType, engagementID int64) error {
	allowed, err := s.CanAccessEngagement(ctx, userID, role, engagementID)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.NewForbiddenError("no access to this engagement")
	}
	return nil
}
