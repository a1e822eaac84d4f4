package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/app/repositories"
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
	"github.com/trainingops/trainingops/internal/pkg/logger"
)

// Ambiguous characters (0/O, 1/I/L) are excluded because the code is read
// aloud or typed from paper.
const inviteCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const inviteCodeLength = 10

// InviteService defines the interface for registration invite operations
type InviteService interface {
	CreateInvite(ctx context.Context, expiresInDays *int) (*models.Invite, error)
	GetAllInvites(ctx context.Context) ([]*models.Invite, error)
	RevokeInvite(ctx context.Context, id int64) error
	CheckInvite(ctx context.Context, token string) (*models.Invite, error)
}

// inviteServiceImpl implements the InviteService interface
type inviteServiceImpl struct {
	inviteRepo *repositories.InviteRepository
}

// NewInviteService creates a new invite service instance
func NewInviteService(inviteRepo *repositories.InviteRepository) InviteService {
	return &inviteServiceImpl{inviteRepo: inviteRepo}
}

func generateInviteCode() (string, error) {
	code := make([]byte, inviteCodeLength)
	max := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}
		code[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// CreateInvite issues a new single-use invite with a URL token and an
// out-of-band confirmation code.
func (s *inviteServiceImpl) CreateInvite(ctx context.Context, expiresInDays *int) (*models.Invite, error) {
	code, err := generateInviteCode()
	if err != nil {
		return nil, err
	}

	invite := &models.Invite{
		Token: uuid.New().String(),
		Code:  code,
	}
	if expiresInDays != nil {
		expiry := time.Now().AddDate(0, 0, *expiresInDays)
		invite.ExpiresAt = &expiry
	}

	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, err
	}
	logger.Info().Int64("inviteID", invite.ID).Msg("Invite created")
	return invite, nil
}

// GetAllInvites lists every invite, newest first.
func (s *inviteServiceImpl) GetAllInvites(ctx context.Context) ([]*models.Invite, error) {
	return s.inviteRepo.GetAll(ctx)
}

// RevokeInvite deletes an invite that has not been redeemed yet.
func (s *inviteServiceImpl) RevokeInvite(ctx context.Context, id int64) error {
	if err := s.inviteRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info().Int64("inviteID", id).Msg("Invite revoked")
	return nil
}

// CheckInvite resolves a token and verifies it is still redeemable. The
// confirmation code is deliberately not checked here; that happens only on
// actual registration.
func (s *inviteServiceImpl) CheckInvite(ctx context.Context, token string) (*models.Invite, error) {
	invite, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if invite.IsUsed() {
		return nil, apperrors.ErrInviteUsed
	}
	if invite.IsExpired(time.Now()) {
		return nil, apperrors.ErrInviteExpired
	}
	return invite, nil
}
