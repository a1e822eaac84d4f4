// Package bootstrap wires configuration, storage, services and HTTP
// handlers together at startup.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/trainingops/trainingops/internal/app/auth"
	appControllers "github.com/trainingops/trainingops/internal/app/controllers"
	appMigrations "github.com/trainingops/trainingops/internal/app/migrations"
	appRepos "github.com/trainingops/trainingops/internal/app/repositories"
	appRoutes "github.com/trainingops/trainingops/internal/app/routes"
	appServices "github.com/trainingops/trainingops/internal/app/services"
	"github.com/trainingops/trainingops/internal/config"
	"github.com/trainingops/trainingops/internal/db"
	appMiddleware "github.com/trainingops/trainingops/internal/middleware"
	"github.com/trainingops/trainingops/internal/pkg/audit"
	pkgAuth "github.com/trainingops/trainingops/internal/pkg/auth"
	"github.com/trainingops/trainingops/internal/pkg/filestorage"
	"github.com/trainingops/trainingops/internal/pkg/geo"
	"github.com/trainingops/trainingops/internal/pkg/helpers"
	"github.com/trainingops/trainingops/internal/pkg/logger"
	"github.com/trainingops/trainingops/internal/pkg/realtime"
	"github.com/trainingops/trainingops/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       appServices.AuthService
	InviteService     appServices.InviteService
	ClientService     appServices.ClientService
	EngagementService appServices.EngagementService
	SchedulingService appServices.SchedulingService
	InstructorService appServices.InstructorService

	AuthController       *appControllers.AuthController
	InviteController     *appControllers.InviteController
	ClientController     *appControllers.ClientController
	EngagementController *appControllers.EngagementController
	EventController      *appControllers.EventController
	InstructorController *appControllers.InstructorController
	GeoController        *appControllers.GeoController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	Hub            *realtime.Hub
	WSHandler      *realtime.Handler
	Trail          *audit.Trail
	CVStorage      *filestorage.LocalStorage
	GeoService     *geo.Service
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), database.Pool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.CVStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Uploads.MaxCVSizeMB)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Trail = audit.NewTrail(cfg.Audit.Path)
	deps.GeoService = geo.NewService(cfg.Geo.DataDir, cfg.Geo.SourceURL)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthzService = appAuth.NewAuthorizationService(
		deps.Repos.UserRepository,
		deps.Repos.EngagementRepository,
	)

	deps.Hub = realtime.NewHub(lgr)
	deps.WSHandler = realtime.NewHandler(deps.Hub, deps.AuthzService, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.Repos.InviteRepository,
		deps.Repos.InstructorRepository,
		deps.JWTService,
		deps.CVStorage,
		deps.Trail,
	)
	deps.InviteService = appServices.NewInviteService(deps.Repos.InviteRepository)
	deps.ClientService = appServices.NewClientService(deps.Repos.ClientRepository)
	deps.EngagementService = appServices.NewEngagementService(
		deps.Repos.EngagementRepository,
		deps.Repos.EventRepository,
	)
	deps.SchedulingService = appServices.NewSchedulingService(
		database,
		deps.Repos.EventRepository,
		deps.Repos.EngagementRepository,
		deps.Repos.InstructorRepository,
		deps.Hub,
		deps.Trail,
	)
	deps.InstructorService = appServices.NewInstructorService(
		deps.Repos.InstructorRepository,
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.CVStorage,
		deps.Trail,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.InviteController = appControllers.NewInviteController(deps.InviteService, deps.AuthService)
	deps.ClientController = appControllers.NewClientController(deps.ClientService)
	deps.EngagementController = appControllers.NewEngagementController(deps.EngagementService, deps.AuthzService)
	deps.EventController = appControllers.NewEventController(deps.SchedulingService, deps.AuthzService)
	deps.InstructorController = appControllers.NewInstructorController(deps.InstructorService)
	deps.GeoController = appControllers.NewGeoController(deps.GeoService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterCustomValidators()

	router := gin.Default()

	// Fan-out loop for websocket notifications
	go deps.Hub.Run()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.InviteController,
		deps.ClientController,
		deps.EngagementController,
		deps.EventController,
		deps.InstructorController,
		deps.GeoController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
