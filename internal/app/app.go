package app

import (
	"fmt"

	"github.com/appfair/marketplace/internal/config"
	"github.com/appfair/marketplace/internal/db"
	"github.com/appfair/marketplace/internal/repository"
	"github.com/appfair/marketplace/internal/service"
	"github.com/appfair/marketplace/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg *config.Config
	DB  *sqlx.DB

	UserRepository        repository.UserRepository
	ListingRepository     repository.ListingRepository
	VersionRepository     repository.VersionRepository
	BlockedSlugRepository repository.BlockedSlugRepository

	RereviewService   *service.RereviewService
	NewsletterService *service.NewsletterService
	FlagService       *service.FlagService
	SubmissionService *service.SubmissionService
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
	listingRepository := repository.NewListingRepository(database)
	deviceRepository := repository.NewDeviceRepository(database)
	versionRepository := repository.NewVersionRepository(database)
	featureRepository := repository.NewFeatureRepository(database)
	uploadRepository := repository.NewUploadRepository(database)
	noteRepository := repository.NewNoteRepository(database)
	notificationRepository := repository.NewNotificationRepository(database)
	blockedSlugRepository := repository.NewBlockedSlugRepository(database)
	rereviewRepository := repository.NewRereviewRepository(database)
	switchRepository := repository.NewSwitchRepository(database)

	// Storage
	packageStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	rereviewService := service.NewRereviewService(rereviewRepository)
	newsletterService := service.NewNewsletterService(
		cfg.ResendAPIKey,
		cfg.ResendAudienceID,
		cfg.AppURL,
		cfg.IsDevelopment(),
	)
	flagService := service.NewFlagService(switchRepository, cfg.FlagDefaults())
	submissionService := service.NewSubmissionService(
		listingRepository,
		deviceRepository,
		versionRepository,
		featureRepository,
		uploadRepository,
		noteRepository,
		notificationRepository,
		userRepository,
		blockedSlugRepository,
		rereviewService,
		newsletterService,
		flagService,
		packageStorage,
		cfg.DefaultLocale,
	)

	return &App{
		Cfg:                   cfg,
		DB:                    database,
		UserRepository:        userRepository,
		ListingRepository:     listingRepository,
		VersionRepository:     versionRepository,
		BlockedSlugRepository: blockedSlugRepository,
		RereviewService:       rereviewService,
		NewsletterService:     newsletterService,
		FlagService:           flagService,
		SubmissionService:     submissionService,
	}, nil
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
