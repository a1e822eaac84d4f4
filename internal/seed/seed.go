// Package seed creates demo data on first startup so a fresh install has an
// admin to log in with and a small calendar to look at. Seeding is skipped
// entirely once the admin account exists.
package seed

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/trainingops/trainingops/internal/app/models"
	"github.com/trainingops/trainingops/internal/app/repositories"
	"github.com/trainingops/trainingops/internal/pkg/auth"
	"github.com/trainingops/trainingops/internal/pkg/helpers"
)

const (
	adminUsername = "admin"
	adminPassword = "Admin123!ChangeMe"

	demoInstructorUsername = "mario.rossi0001"
	demoInstructorPassword = "Demo123!ChangeMe"
)

// CreateDefaultData seeds the demo admin, instructor, client, engagement and
// a few events. Returns nil without touching anything when the admin account
// already exists.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)
	instructorRepo := repositories.NewInstructorRepository(dbPool)
	clientRepo := repositories.NewClientRepository(dbPool)
	engagementRepo := repositories.NewEngagementRepository(dbPool)
	eventRepo := repositories.NewEventRepository(dbPool)

	exists, err := userRepo.UsernameExists(ctx, adminUsername)
	if err != nil {
		return err
	}
	if exists {
		lgr.Debug().Msg("Admin account present, skipping seed data")
		return nil
	}
	lgr.Info().Msg("Seeding default data...")

	adminHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	admin := &models.User{
		Username: adminUsername,
		Password: adminHash,
		RoleType: models.RoleAdmin,
		Status:   models.AccountActive,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	instructor := &models.Instructor{
		FirstName:  "Mario",
		LastName:   "Rossi",
		Email:      helpers.StringPtrOrNil("mario.rossi@example.com"),
		FiscalCode: helpers.StringPtrOrNil("RSSMRA85H14F205Z"),
		VATRegime:  helpers.StringPtrOrNil("Partita Iva in Regime dei minimi / agevolato / forfettario"),
		VATNumber:  helpers.StringPtrOrNil("12345678903"),
		Subject:    models.SubjectFreelancer,
	}
	if err := instructorRepo.Create(ctx, instructor); err != nil {
		return err
	}

	demoHash, err := auth.HashPassword(demoInstructorPassword)
	if err != nil {
		return err
	}
	demoUser := &models.User{
		Username:     demoInstructorUsername,
		Password:     demoHash,
		RoleType:     models.RoleInstructor,
		Status:       models.AccountActive,
		InstructorID: &instructor.ID,
	}
	if err := userRepo.Create(ctx, demoUser); err != nil {
		return err
	}

	client := &models.Client{
		BusinessName: "ACME Formazione Srl",
		Email:        helpers.StringPtrOrNil("info@acmeformazione.example"),
	}
	if err := clientRepo.Create(ctx, client); err != nil {
		return err
	}

	engagement := &models.Engagement{
		ClientID:    client.ID,
		Title:       "Corso sicurezza 2026",
		Description: helpers.StringPtrOrNil("Formazione obbligatoria sicurezza sul lavoro"),
		State:       "Attivo",
		Timezone:    "Europe/Rome",
	}
	if err := engagementRepo.Create(ctx, engagement); err != nil {
		return err
	}

	rome, err := time.LoadLocation(engagement.Timezone)
	if err != nil {
		rome = time.UTC
	}
	base := time.Now().In(rome).AddDate(0, 0, 7)
	day := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, rome)
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}

	seedEvents := []*models.Event{
		{
			EngagementID:  engagement.ID,
			Title:         "Modulo 1 - Normativa",
			StartAt:       day.Add(9 * time.Hour),
			EndAt:         day.Add(13 * time.Hour),
			Status:        models.EventConfirmed,
			InstructorIDs: []int64{instructor.ID},
		},
		{
			EngagementID:  engagement.ID,
			Title:         "Modulo 2 - Antincendio",
			StartAt:       day.AddDate(0, 0, 1).Add(9 * time.Hour),
			EndAt:         day.AddDate(0, 0, 1).Add(13 * time.Hour),
			Status:        models.EventOptioned,
			InstructorIDs: []int64{instructor.ID},
		},
		{
			EngagementID: engagement.ID,
			Title:        "Modulo 3 - Primo soccorso",
			StartAt:      day.AddDate(0, 0, 2).Add(14 * time.Hour),
			EndAt:        day.AddDate(0, 0, 2).Add(18 * time.Hour),
			Status:       models.EventOptioned,
		},
	}
	for _, ev := range seedEvents {
		if err := eventRepo.Create(ctx, dbPool, ev); err != nil {
			return err
		}
	}

	lgr.Info().
		Str("admin", adminUsername).
		Str("instructor", demoInstructorUsername).
		Msg("Seed data created; change the default passwords")
	return nil
}
