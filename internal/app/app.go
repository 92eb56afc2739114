package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/habitkit/internal/config"
	"github.com/templui/habitkit/internal/db"
	"github.com/templui/habitkit/internal/metrics"
	"github.com/templui/habitkit/internal/repository"
	"github.com/templui/habitkit/internal/service"
	"github.com/templui/habitkit/internal/storage"
)

type App struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	Metrics       *metrics.Metrics
	AuthService   *service.AuthService
	UserService   *service.UserService
	EmailService  *service.EmailService
	HabitService  *service.HabitService
	ExportService *service.ExportService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	habitRepository := repository.NewHabitRepository(database)
	completionRepository := repository.NewCompletionRepository(database)

	// Storage (optional)
	exportStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	m := metrics.New()

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(userRepository, emailService, cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(userRepository, emailService)
	habitService := service.NewHabitService(habitRepository, completionRepository, m, cfg.Location)
	exportService := service.NewExportService(habitService, exportStorage, cfg.S3PresignExpiry)

	return &App{
		Cfg:           cfg,
		DB:            database,
		Metrics:       m,
		AuthService:   authService,
		UserService:   userService,
		EmailService:  emailService,
		HabitService:  habitService,
		ExportService: exportService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
