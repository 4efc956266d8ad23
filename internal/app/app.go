package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/postwind/postwind/config"
	"github.com/postwind/postwind/internal/database"
	"github.com/postwind/postwind/internal/domain"
	httpHandler "github.com/postwind/postwind/internal/http"
	"github.com/postwind/postwind/internal/http/middleware"
	"github.com/postwind/postwind/internal/repository"
	"github.com/postwind/postwind/internal/resend"
	"github.com/postwind/postwind/internal/service"
	"github.com/postwind/postwind/internal/service/delivery"
	"github.com/postwind/postwind/pkg/logger"
	"github.com/postwind/postwind/pkg/ratelimiter"
)

// App wires configuration, storage, services, the scheduler and the
// HTTP surface together.
type App struct {
	config *config.Config
	logger logger.Logger
	db     *sql.DB

	// Repositories
	subscriberRepo  domain.SubscriberRepository
	contactListRepo domain.ContactListRepository
	campaignRepo    domain.CampaignRepository
	sequenceRepo    domain.SequenceRepository
	deliveryLogRepo domain.DeliveryLogRepository
	shortURLRepo    domain.ShortURLRepository
	brandRepo       domain.BrandSettingsRepository
	authRepo        domain.AuthRepository

	// Provider
	providerClient domain.ProviderClient

	// Services
	templateService    *service.TemplateService
	subscriberService  *service.SubscriberService
	contactListService *service.ContactListService
	campaignService    *service.CampaignService
	sequenceService    *service.SequenceService
	brandService       *service.BrandSettingsService
	analyticsService   *service.AnalyticsService
	authService        *service.AuthService
	unsubscribeService *service.UnsubscribeService
	eventService       *service.DeliveryEventService

	// Delivery pipeline
	sender    delivery.Sender
	scheduler *delivery.Scheduler

	// HTTP
	limiter *ratelimiter.RateLimiter
	mux     *http.ServeMux
	server  *http.Server
}

// AppOption configures the App
type AppOption func(*App)

// WithLogger sets a custom logger
func WithLogger(log logger.Logger) AppOption {
	return func(a *App) {
		a.logger = log
	}
}

// WithDB injects an existing database handle, used by tests.
func WithDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

func NewApp(cfg *config.Config, opts ...AppOption) *App {
	a := &App{config: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.NewLogger(cfg.LogLevel)
	}
	return a
}

// Initialize runs every init step in dependency order.
func (a *App) Initialize() error {
	if err := a.InitDB(); err != nil {
		return err
	}
	a.InitRepositories()
	if err := a.InitServices(); err != nil {
		return err
	}
	a.InitHandlers()
	return nil
}

func (a *App) InitDB() error {
	if a.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := database.EnsureAdminUser(ctx, db, a.config.Security.AdminEmail, a.config.Security.AdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap admin user: %w", err)
	}

	a.db = db
	a.logger.WithField("database", a.config.Database.DBName).Info("Connected to database")
	return nil
}

func (a *App) InitRepositories() {
	a.subscriberRepo = repository.NewSubscriberRepository(a.db)
	a.contactListRepo = repository.NewContactListRepository(a.db)
	a.campaignRepo = repository.NewCampaignRepository(a.db)
	a.sequenceRepo = repository.NewSequenceRepository(a.db)
	a.deliveryLogRepo = repository.NewDeliveryLogRepository(a.db)
	a.shortURLRepo = repository.NewShortURLRepository(a.db)
	a.brandRepo = repository.NewBrandSettingsRepository(a.db)
	a.authRepo = repository.NewAuthRepository(a.db)
}

func (a *App) InitServices() error {
	cfg := a.config

	a.providerClient = resend.NewClient(cfg.Provider.APIKey, cfg.Provider.BaseURL, a.logger)

	templateService, err := service.NewTemplateService(a.shortURLRepo, cfg.ShortURL, a.logger)
	if err != nil {
		return fmt.Errorf("failed to init template service: %w", err)
	}
	a.templateService = templateService

	a.subscriberService = service.NewSubscriberService(
		a.subscriberRepo,
		a.sequenceRepo,
		a.brandRepo,
		a.templateService,
		a.providerClient,
		service.SubscriberServiceConfig{
			SiteURL:            cfg.SiteURL,
			ConfirmTokenSecret: cfg.Security.ConfirmTokenSecret,
			FromName:           cfg.Sender.FromName,
			FromEmail:          cfg.Sender.FromEmail,
			ReplyTo:            cfg.Sender.ReplyTo,
		},
		a.logger,
	)
	a.contactListService = service.NewContactListService(a.contactListRepo, a.providerClient, a.logger)
	a.campaignService = service.NewCampaignService(a.campaignRepo, a.deliveryLogRepo, a.shortURLRepo, a.logger)
	a.sequenceService = service.NewSequenceService(a.sequenceRepo, a.subscriberRepo, a.logger)
	a.brandService = service.NewBrandSettingsService(a.brandRepo, a.logger)
	a.analyticsService = service.NewAnalyticsService(a.subscriberRepo, a.campaignRepo, a.deliveryLogRepo, a.logger)
	a.authService = service.NewAuthService(a.authRepo, cfg.Security.AdminAPIKey, a.logger)
	a.unsubscribeService = service.NewUnsubscribeService(a.subscriberRepo, a.providerClient, cfg.Provider.DefaultSegmentID, a.logger)
	a.eventService = service.NewDeliveryEventService(a.deliveryLogRepo, a.logger)

	a.initDeliveryPipeline()
	return nil
}

// initDeliveryPipeline selects the sender strategy and assembles the
// scheduler around it.
func (a *App) initDeliveryPipeline() {
	cfg := a.config
	clock := delivery.NewClock()
	senderCfg := delivery.SenderConfig{
		FromName:         cfg.Sender.FromName,
		FromEmail:        cfg.Sender.FromEmail,
		ReplyTo:          cfg.Sender.ReplyTo,
		SiteURL:          cfg.SiteURL,
		DefaultSegmentID: cfg.Provider.DefaultSegmentID,
	}

	// The broadcast path needs a segment to address; without a default
	// segment every sequence step and list-less campaign would fail to
	// resolve one, so fall back to transactional sends.
	if cfg.Provider.UseBroadcastAPI && cfg.Provider.DefaultSegmentID != "" {
		a.sender = delivery.NewBroadcastSender(
			a.templateService, a.brandRepo, a.deliveryLogRepo, a.providerClient,
			a.contactListService, clock, senderCfg, a.logger)
		a.logger.Info("Using provider broadcast API for campaign sends")
	} else {
		if cfg.Provider.UseBroadcastAPI {
			a.logger.Warn("USE_BROADCAST_API is set but no default segment is configured, using transactional sends")
		}
		a.sender = delivery.NewTransactionalSender(
			a.templateService, a.brandRepo, a.deliveryLogRepo, a.providerClient,
			clock, senderCfg, a.logger)
	}

	offset := cfg.Scheduler.RegionalOffsetMinutes
	sequences := delivery.NewSequenceProcessor(a.sequenceRepo, a.deliveryLogRepo, a.sender, clock, offset, a.logger)
	orchestrator := delivery.NewABOrchestrator(a.campaignRepo, a.subscriberRepo, a.deliveryLogRepo, a.sender, clock, a.logger)
	dispatcher := delivery.NewCampaignDispatcher(a.campaignRepo, a.subscriberRepo, a.sender, clock, offset, a.logger)
	a.scheduler = delivery.NewScheduler(sequences, orchestrator, dispatcher, cfg.Scheduler.Interval, a.logger)
}

func (a *App) InitHandlers() {
	cfg := a.config

	a.limiter = ratelimiter.NewRateLimiter()
	a.limiter.SetPolicy("auth.login", 10, 15*time.Minute)
	a.limiter.SetPolicy("newsletter.subscribe", 10, time.Hour)
	a.limiter.SetPolicy("newsletter.confirm", 20, time.Hour)
	a.limiter.SetPolicy("newsletter.unsubscribe", 20, time.Hour)
	a.limiter.SetPolicy("archive", 120, time.Minute)
	a.limiter.SetPolicy("shorturl", 300, time.Minute)

	authMiddleware := middleware.NewAuthMiddleware(a.authService, a.logger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(a.limiter, a.logger)
	requireAuth := authMiddleware.RequireAuth
	rateLimit := rateLimitMiddleware.Limit

	a.mux = http.NewServeMux()

	httpHandler.NewCampaignHandler(a.campaignService, a.logger).RegisterRoutes(a.mux, requireAuth)
	httpHandler.NewSequenceHandler(a.sequenceService, a.logger).RegisterRoutes(a.mux, requireAuth)
	httpHandler.NewSubscriberHandler(a.subscriberService, a.logger).RegisterRoutes(a.mux, requireAuth)
	httpHandler.NewContactListHandler(a.contactListService, a.logger).RegisterRoutes(a.mux, requireAuth)
	httpHandler.NewBrandSettingsHandler(a.brandService, a.logger).RegisterRoutes(a.mux, requireAuth)
	httpHandler.NewDashboardHandler(a.analyticsService, a.logger).RegisterRoutes(a.mux, requireAuth)
	httpHandler.NewTemplateHandler(
		a.templateService, a.brandRepo, a.providerClient,
		httpHandler.TemplateHandlerConfig{
			FromName:  cfg.Sender.FromName,
			FromEmail: cfg.Sender.FromEmail,
			ReplyTo:   cfg.Sender.ReplyTo,
			SiteURL:   cfg.SiteURL,
		},
		a.logger,
	).RegisterRoutes(a.mux, requireAuth)

	httpHandler.NewAuthHandler(a.authService, cfg.IsProduction(), a.logger).RegisterRoutes(a.mux, rateLimit)
	httpHandler.NewNewsletterHandler(a.subscriberService, a.unsubscribeService, cfg.SiteURL, a.logger).RegisterRoutes(a.mux, rateLimit)
	httpHandler.NewArchiveHandler(a.campaignService, a.logger).RegisterRoutes(a.mux, rateLimit)
	httpHandler.NewShortURLHandler(a.shortURLRepo, a.logger).RegisterRoutes(a.mux, rateLimit)
	httpHandler.NewWebhookHandler(a.eventService, cfg.Security.WebhookSecretBytes, a.logger).RegisterRoutes(a.mux)
}

// Start launches the scheduler and blocks serving HTTP until Shutdown.
func (a *App) Start() error {
	if a.config.Scheduler.Enabled {
		a.scheduler.Start()
	} else {
		a.logger.Warn("Scheduler disabled, campaigns and sequences will not dispatch")
	}

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:              addr,
		Handler:           a.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.logger.WithFields(map[string]interface{}{
		"address": addr,
		"version": a.config.Version,
	}).Info("Server starting")
	return a.server.ListenAndServe()
}

// Shutdown stops the scheduler, drains the HTTP server and closes the
// database.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown")

	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	a.logger.Info("Shutdown complete")
	return nil
}

// Mux exposes the route table for tests.
func (a *App) Mux() *http.ServeMux {
	return a.mux
}
