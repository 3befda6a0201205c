package main

import (
	api "fyndflip-backend/cmd/api"
	authdomain "fyndflip-backend/internal/auth/domain"
	authRepo "fyndflip-backend/internal/auth/repository"
	"fyndflip-backend/internal/auth/scheduler"
	authUsecase "fyndflip-backend/internal/auth/usecase"
	listingdomain "fyndflip-backend/internal/listing/domain"
	listingRepo "fyndflip-backend/internal/listing/repository"
	listingUsecase "fyndflip-backend/internal/listing/usecase"
	notifdomain "fyndflip-backend/internal/notification/domain"
	notifRepo "fyndflip-backend/internal/notification/repository"
	notifUsecase "fyndflip-backend/internal/notification/usecase"
	pricingdomain "fyndflip-backend/internal/pricing/domain"
	pricingRepo "fyndflip-backend/internal/pricing/repository"
	pricingUsecase "fyndflip-backend/internal/pricing/usecase"
	"fyndflip-backend/pkg/config"
	"fyndflip-backend/pkg/database"
	"fyndflip-backend/pkg/logger"
	"fyndflip-backend/pkg/mailer"
	"fyndflip-backend/pkg/metrics"
	"fyndflip-backend/pkg/oauth"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New("production")
		fallbackLog.Fatal().Err(err).Msg("Invalid configuration")
	}

	log := logger.New(cfg.AppEnv)

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.Credential{},
		&authdomain.RefreshToken{},
		&authdomain.RecoveryToken{},
		&notifdomain.Notification{},
		&listingdomain.Listing{},
		&pricingdomain.ProductPrice{},
	); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	credentialRepository := authRepo.NewCredentialRepository(db)
	notificationRepository := notifRepo.NewNotificationRepository(db)
	listingRepository := listingRepo.NewListingRepository(db)
	priceRepository := pricingRepo.NewPriceRepository(db)

	// OAuth providers are resolved once here; a provider disabled for this
	// environment stays disabled for the life of the process.
	providers := oauth.NewRegistry(cfg)
	for _, p := range providers.EnabledProviders() {
		log.Info().Str("provider", string(p)).Msg("OAuth provider enabled")
	}

	resetMailer := mailer.NewLogMailer(log)
	m := metrics.New()

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(credentialRepository, userRepository, providers, resetMailer, cfg, log)
	notifUsecaseInstance := notifUsecase.NewNotificationUsecase(notificationRepository, cfg.NotificationLimits, log)
	listingUsecaseInstance := listingUsecase.NewListingUsecase(listingRepository)
	pricingUsecaseInstance := pricingUsecase.NewPricingUsecase(priceRepository, cfg.MinPriceRecords)

	// Expired refresh and recovery tokens are purged on a timer.
	cleanup := scheduler.NewTokenCleanupScheduler(credentialRepository, cfg.TokenCleanupInterval, log)
	cleanup.Start()
	defer cleanup.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(
		authUsecaseInstance,
		notifUsecaseInstance,
		listingUsecaseInstance,
		pricingUsecaseInstance,
		providers,
		db,
		cfg,
		m,
		log,
	)

	// Start server
	log.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
