package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/app/repositories"
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
	"github.com/trainingops/trainingops/internal/pkg/logger"
)

// ClientService defines the interface for customer-related operations
type ClientService interface {
	CreateClient(ctx context.Context, client *models.Client) error
	GetClientByID(ctx context.Context, id int64) (*models.Client, error)
	GetAllClients(ctx context.Context, search *string) ([]*models.Client, error)
	UpdateClient(ctx context.Context, client *models.Client) error
	DeleteClient(ctx context.Context, id int64) error
}

// clientServiceImpl implements the ClientService interface
type clientServiceImpl struct {
	clientRepo *repositories.ClientRepository
}

// NewClientService creates a new client service instance
func NewClientService(clientRepo *repositories.ClientRepository) ClientService {
	return &clientServiceImpl{clientRepo: clientRepo}
}

func validateClient(client *models.Client) error {
	if client == nil {
		return fmt.Errorf("%w: client is nil", apperrors.ErrValidationFailed)
	}
	client.BusinessName = strings.TrimSpace(client.BusinessName)
	if client.BusinessName == "" {
		return fmt.Errorf("%w: business name cannot be empty", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreateClient validates and persists a new client.
func (s *clientServiceImpl) CreateClient(ctx context.Context, client *models.Client) error {
	if err := validateClient(client); err != nil {
		return err
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return err
	}
	logger.Info().Int64("clientID", client.ID).Str("businessName", client.BusinessName).Msg("Client created")
	return nil
}

// GetClientByID retrieves a single client.
func (s *clientServiceImpl) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

// GetAllClients lists clients, optionally filtered by business name.
func (s *clientServiceImpl) GetAllClients(ctx context.Context, search *string) ([]*models.Client, error) {
	return s.clientRepo.GetAll(ctx, search)
}

// UpdateClient validates and persists client changes.
func (s *clientServiceImpl) UpdateClient(ctx context.Context, client *models.Client) error {
	if err := validateClient(client); err != nil {
		return err
	}
	return s.clientRepo.Update(ctx, client)
}

// DeleteClient removes a client together with its engagements and events.
func (s *clientServiceImpl) DeleteClient(ctx context.Context, id int64) error {
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info().Int64("clientID", id).Msg("Client deleted")
	return nil
}
