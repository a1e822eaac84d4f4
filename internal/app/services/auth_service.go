package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/app/models/dto"
	"github.com/trainingops/trainingops/internal/app/repositories"
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
	"github.com/trainingops/trainingops/internal/pkg/audit"
	"github.com/trainingops/trainingops/internal/pkg/auth"
	"github.com/trainingops/trainingops/internal/pkg/filestorage"
	"github.com/trainingops/trainingops/internal/pkg/helpers"
	"github.com/trainingops/trainingops/internal/pkg/logger"
)

const (
	maxFailedLogins = 10
	lockoutDuration = 15 * time.Minute
)

// TokenPair carries the tokens issued on login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	RegisterViaInvite(ctx context.Context, token string, req *dto.RegisterViaInviteRequest, cv *multipart.FileHeader) (*models.User, error)
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	userRepo       *repositories.UserRepository
	tokenRepo      *repositories.TokenRepository
	inviteRepo     *repositories.InviteRepository
	instructorRepo *repositories.InstructorRepository
	jwtService     *auth.JWTService
	cvStorage      filestorage.CVStorage
	trail          *audit.Trail
}

// NewAuthService creates a new authentication service instance
func NewAuthService(
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	inviteRepo *repositories.InviteRepository,
	instructorRepo *repositories.InstructorRepository,
	jwtService *auth.JWTService,
	cvStorage filestorage.CVStorage,
	trail *audit.Trail,
) AuthService {
	return &authServiceImpl{
		userRepo:       userRepo,
		tokenRepo:      tokenRepo,
		inviteRepo:     inviteRepo,
		instructorRepo: instructorRepo,
		jwtService:     jwtService,
		cvStorage:      cvStorage,
		trail:          trail,
	}
}

// Login authenticates a user. Ten consecutive failures lock the account for
// fifteen minutes; a successful login resets the counter.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Same answer as a wrong password, no account enumeration
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	now := time.Now()
	if user.IsLocked(now) {
		s.trail.Record(audit.Entry{
			Kind:    "login_locked",
			Message: fmt.Sprintf("login attempt on locked account %q", username),
		})
		return nil, nil, apperrors.ErrAccountLocked
	}

	if !auth.CheckPassword(user.Password, password) {
		failedCount := user.FailedLoginCount + 1
		var lockedUntil *time.Time
		if failedCount >= maxFailedLogins {
			deadline := now.Add(lockoutDuration)
			lockedUntil = &deadline
		}
		if err := s.userRepo.RecordFailedLogin(ctx, user.ID, failedCount, now, lockedUntil); err != nil {
			logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to record login failure")
		}
		s.trail.Record(audit.Entry{
			Kind:    "login_failed",
			Message: fmt.Sprintf("wrong password for %q (attempt %d)", username, failedCount),
		})
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	switch user.Status {
	case models.AccountPending:
		return nil, nil, apperrors.ErrAccountPending
	case models.AccountDisabled:
		return nil, nil, apperrors.ErrAccountDisabled
	}

	if user.FailedLoginCount > 0 || user.LockedUntil != nil {
		if err := s.userRepo.ResetFailedLogins(ctx, user.ID); err != nil {
			logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to reset login failures")
		}
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.trail.Record(audit.Entry{
		Kind:  "login",
		Actor: &audit.Actor{ID: user.ID, Username: user.Username, Role: string(user.RoleType)},
	})
	logger.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("User logged in")
	return user, pair, nil
}

// RefreshToken rotates a refresh token, returning a fresh pair.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	userID, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive() {
		return nil, nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout revokes the presented refresh token.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokenRepo.RevokeToken(ctx, refreshToken)
	if errors.Is(err, apperrors.ErrTokenNotFound) {
		// Logging out with an unknown token is not worth an error
		return nil
	}
	return err
}

// ChangePassword verifies the current password, applies the policy to the
// new one and revokes every open session.
func (s *authServiceImpl) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, currentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	if err := auth.ValidatePasswordPolicy(newPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke sessions after password change")
	}

	s.trail.Record(audit.Entry{
		Kind:  "password_changed",
		Actor: &audit.Actor{ID: user.ID, Username: user.Username, Role: string(user.RoleType)},
	})
	return nil
}

// RegisterViaInvite redeems an invite and creates the instructor profile
// plus its pending login account in one go. The CV PDF is mandatory.
func (s *authServiceImpl) RegisterViaInvite(ctx context.Context, token string, req *dto.RegisterViaInviteRequest, cv *multipart.FileHeader) (*models.User, error) {
	invite, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if invite.IsUsed() {
		return nil, apperrors.ErrInviteUsed
	}
	if invite.IsExpired(now) {
		return nil, apperrors.ErrInviteExpired
	}
	if !strings.EqualFold(strings.TrimSpace(req.Code), invite.Code) {
		return nil, apperrors.ErrInviteCodeWrong
	}

	if err := validateRegistration(req, cv); err != nil {
		return nil, err
	}
	if err := auth.ValidatePasswordPolicy(req.Password); err != nil {
		return nil, err
	}

	instructor, err := instructorFromRegistration(req)
	if err != nil {
		return nil, err
	}

	if err := s.instructorRepo.Create(ctx, instructor); err != nil {
		return nil, err
	}

	// Registration spans several writes; on any later failure the partial
	// profile and stored CV are rolled back by hand.
	cleanup := func(cvFilename string) {
		if cvFilename != "" {
			_ = s.cvStorage.DeleteCV(cvFilename)
		}
		if err := s.instructorRepo.Delete(ctx, instructor.ID); err != nil {
			logger.Warn().Err(err).Int64("instructorID", instructor.ID).Msg("Failed to clean up instructor after registration failure")
		}
	}

	cvFilename, err := s.cvStorage.SaveCV(cv, instructor.ID)
	if err != nil {
		cleanup("")
		return nil, err
	}
	if err := s.instructorRepo.SetCV(ctx, instructor.ID, &cvFilename, &now); err != nil {
		cleanup(cvFilename)
		return nil, err
	}

	username, err := generateUniqueUsername(ctx, req.FirstName, req.LastName, s.userRepo.UsernameExists)
	if err != nil {
		cleanup(cvFilename)
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		cleanup(cvFilename)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Password:     hash,
		RoleType:     models.RoleInstructor,
		Status:       models.AccountPending,
		InstructorID: &instructor.ID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		cleanup(cvFilename)
		return nil, err
	}

	if err := s.inviteRepo.MarkUsed(ctx, invite.ID, user.ID, now); err != nil {
		// Another registration won the race on the same invite
		if delErr := s.userRepo.Delete(ctx, user.ID); delErr != nil {
			logger.Warn().Err(delErr).Int64("userID", user.ID).Msg("Failed to clean up user after invite race")
		}
		cleanup(cvFilename)
		return nil, err
	}

	s.trail.Record(audit.Entry{
		Kind:    "instructor_registered",
		Message: fmt.Sprintf("invite %d redeemed by %s (%s)", invite.ID, instructor.DisplayName(), username),
	})
	logger.Info().
		Int64("instructorID", instructor.ID).
		Int64("userID", user.ID).
		Str("username", username).
		Msg("Instructor registered via invite")
	return user, nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessToken, refreshToken, expiresIn, _, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(expiresIn) * time.Second),
	}, nil
}

// validateRegistration applies the fiscal rules that go beyond binding tags:
// VAT regime must be known, VAT number is mandatory outside "R.A. secca",
// companies must state a business name, and the CV must be present.
func validateRegistration(req *dto.RegisterViaInviteRequest, cv *multipart.FileHeader) error {
	if cv == nil {
		return fmt.Errorf("%w: CV file is required", apperrors.ErrValidationFailed)
	}
	if !models.IsKnownVATRegime(req.VATRegime) {
		return fmt.Errorf("%w: unknown VAT regime %q", apperrors.ErrValidationFailed, req.VATRegime)
	}
	if models.VATRegimeRequiresNumber(req.VATRegime) && strings.TrimSpace(req.VATNumber) == "" {
		return fmt.Errorf("%w: VAT number is required for regime %q", apperrors.ErrValidationFailed, req.VATRegime)
	}
	if models.SubjectType(req.Subject) == models.SubjectCompany && strings.TrimSpace(req.BusinessName) == "" {
		return fmt.Errorf("%w: business name is required for companies", apperrors.ErrValidationFailed)
	}
	return nil
}

func instructorFromRegistration(req *dto.RegisterViaInviteRequest) (*models.Instructor, error) {
	instructor := &models.Instructor{
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      helpers.StringPtrOrNil(req.Email),
		BirthPlace: helpers.StringPtrOrNil(req.BirthPlace),

		ResidenceStreet:   helpers.StringPtrOrNil(req.ResidenceStreet),
		ResidenceNumber:   helpers.StringPtrOrNil(req.ResidenceNumber),
		ResidenceCity:     helpers.StringPtrOrNil(req.ResidenceCity),
		ResidencePostcode: helpers.StringPtrOrNil(req.ResidencePostcode),
		ResidenceProvince: helpers.StringPtrOrNil(strings.ToUpper(req.ResidenceProvince)),
		ResidenceCountry:  helpers.StringPtrOrNil(req.ResidenceCountry),

		Gender:     helpers.StringPtrOrNil(req.Gender),
		FiscalCode: helpers.StringPtrOrNil(strings.ToUpper(strings.TrimSpace(req.FiscalCode))),
		VATNumber:  helpers.StringPtrOrNil(req.VATNumber),
		VATRegime:  helpers.StringPtrOrNil(req.VATRegime),
		Subject:    models.SubjectType(req.Subject),

		BusinessName: helpers.StringPtrOrNil(req.BusinessName),
		Bank:         helpers.StringPtrOrNil(req.Bank),
		BankHolder:   helpers.StringPtrOrNil(req.BankHolder),
		IBAN:         helpers.StringPtrOrNil(req.IBAN),
		BICSwift:     helpers.StringPtrOrNil(req.BICSwift),
	}

	if req.BirthDate != "" {
		birthDate, err := helpers.ParseDate(req.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid birth date", apperrors.ErrValidationFailed)
		}
		instructor.BirthDate = &birthDate
	}
	return instructor, nil
}
