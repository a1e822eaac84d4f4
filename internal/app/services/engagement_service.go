package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/app/repositories"
	"github.com/trainingops/trainingops/internal/pkg/apperrors"
	"github.com/trainingops/trainingops/internal/pkg/logger"
)

// EngagementService defines the interface for engagement-related operations
type EngagementService interface {
	CreateEngagement(ctx context.Context, engagement *models.Engagement) error
	GetEngagementByID(ctx context.Context, id int64) (*models.Engagement, error)
	GetAllEngagements(ctx context.Context, clientID *int64, search *string) ([]*models.Engagement, error)
	GetEngagementsForInstructor(ctx context.Context, instructorID int64) ([]*models.Engagement, error)
	UpdateEngagement(ctx context.Context, engagement *models.Engagement) error
	DeleteEngagement(ctx context.Context, id int64) error
	GetStats(ctx context.Context, engagementID int64) (*models.EngagementStats, error)
	ExportICal(ctx context.Context, engagementID int64, instructorID *int64) (string, error)
}

// engagementServiceImpl implements the EngagementService interface
type engagementServiceImpl struct {
	engagementRepo *repositories.EngagementRepository
	eventRepo      *repositories.EventRepository
}

// NewEngagementService creates a new engagement service instance
func NewEngagementService(engagementRepo *repositories.EngagementRepository, eventRepo *repositories.EventRepository) EngagementService {
	return &engagementServiceImpl{
		engagementRepo: engagementRepo,
		eventRepo:      eventRepo,
	}
}

func validateEngagement(engagement *models.Engagement) error {
	if engagement == nil {
		return fmt.Errorf("%w: engagement is nil", apperrors.ErrValidationFailed)
	}
	engagement.Title = strings.TrimSpace(engagement.Title)
	if engagement.Title == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
	}
	if engagement.ClientID <= 0 {
		return fmt.Errorf("%w: client is required", apperrors.ErrValidationFailed)
	}
	if engagement.State == "" {
		engagement.State = "Attivo"
	}
	if engagement.Timezone == "" {
		engagement.Timezone = "Europe/Rome"
	}
	if _, err := time.LoadLocation(engagement.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", apperrors.ErrValidationFailed, engagement.Timezone)
	}
	return nil
}

// CreateEngagement validates and persists a new engagement.
func (s *engagementServiceImpl) CreateEngagement(ctx context.Context, engagement *models.Engagement) error {
	if err := validateEngagement(engagement); err != nil {
		return err
	}
	if err := s.engagementRepo.Create(ctx, engagement); err != nil {
		return err
	}
	logger.Info().Int64("engagementID", engagement.ID).Str("title", engagement.Title).Msg("Engagement created")
	return nil
}

// GetEngagementByID retrieves an engagement with its client.
func (s *engagementServiceImpl) GetEngagementByID(ctx context.Context, id int64) (*models.Engagement, error) {
	return s.engagementRepo.GetByID(ctx, id)
}

// GetAllEngagements lists engagements with optional client and text filters.
func (s *engagementServiceImpl) GetAllEngagements(ctx context.Context, clientID *int64, search *string) ([]*models.Engagement, error) {
	return s.engagementRepo.GetAll(ctx, clientID, search)
}

// GetEngagementsForInstructor lists only the engagements the instructor has
// assigned events in.
func (s *engagementServiceImpl) GetEngagementsForInstructor(ctx context.Context, instructorID int64) ([]*models.Engagement, error) {
	return s.engagementRepo.GetForInstructor(ctx, instructorID)
}

// UpdateEngagement validates and persists engagement changes.
func (s *engagementServiceImpl) UpdateEngagement(ctx context.Context, engagement *models.Engagement) error {
	if err := validateEngagement(engagement); err != nil {
		return err
	}
	return s.engagementRepo.Update(ctx, engagement)
}

// DeleteEngagement removes an engagement together with its events.
func (s *engagementServiceImpl) DeleteEngagement(ctx context.Context, id int64) error {
	if err := s.engagementRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info().Int64("engagementID", id).Msg("Engagement deleted")
	return nil
}

// GetStats aggregates optioned/confirmed hours and counts.
func (s *engagementServiceImpl) GetStats(ctx context.Context, engagementID int64) (*models.EngagementStats, error) {
	if _, err := s.engagementRepo.GetByID(ctx, engagementID); err != nil {
		return nil, err
	}
	return s.engagementRepo.GetStats(ctx, engagementID)
}

// ExportICal renders the engagement calendar as an iCalendar document.
// Passing an instructor ID narrows the export to that instructor's events.
func (s *engagementServiceImpl) ExportICal(ctx context.Context, engagementID int64, instructorID *int64) (string, error) {
	engagement, err := s.engagementRepo.GetByID(ctx, engagementID)
	if err != nil {
		return "", err
	}

	loc, err := time.LoadLocation(engagement.Timezone)
	if err != nil {
		loc = time.UTC
	}

	events, err := s.eventRepo.GetByEngagement(ctx, engagementID, instructorID, nil, nil)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	now := time.Now()
	for _, e := range events {
		vevent := cal.AddEvent(fmt.Sprintf("event-%d@trainingops", e.ID))
		vevent.SetDtStampTime(now)
		vevent.SetStartAt(e.StartAt.In(loc))
		vevent.SetEndAt(e.EndAt.In(loc))
		vevent.SetSummary(fmt.Sprintf("%s [%s]", e.Title, e.Status))
		if e.Notes != nil && *e.Notes != "" {
			vevent.SetDescription(*e.Notes)
		}
		vevent.SetLocation(engagement.Client.BusinessName)
	}

	logger.Debug().Int64("engagementID", engagementID).Int("events", len(events)).Msg("iCal export generated")
	return cal.Serialize(), nil
}
