package main

import (
	"time"

	"github.com/jackhellowin/portfolio-api/internal/config"
	"github.com/jackhellowin/portfolio-api/internal/handlers"
	"github.com/jackhellowin/portfolio-api/internal/metrics"
	"github.com/jackhellowin/portfolio-api/internal/middleware"
	"github.com/jackhellowin/portfolio-api/internal/models"
	"github.com/jackhellowin/portfolio-api/internal/services"
	"github.com/jackhellowin/portfolio-api/internal/utils"
	"github.com/jackhellowin/portfolio-api/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg *config.Config
	db  *gorm.DB

	authService    *services.AuthService
	events         services.EventPublisher
	systemLogs     *services.SystemLogService
	logCleanup     *services.LogCleanupScheduler
	loginLimiter   *middleware.RateLimiter
	httpMetrics    *metrics.HTTP
	authHandler    *handlers.AuthHandler
	userHandler    *handlers.UserHandler
	workHandler    *handlers.WorkHandler
	skillHandler   *handlers.SkillHandler
	socialHandler  *handlers.SocialMediaHandler
	selfHandler    *handlers.SelfContentHandler
	logHandler     *handlers.SystemLogHandler
	healthHandler  *handlers.HealthHandler
	metricsHandler *handlers.MetricsHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	if err := models.InitDB(&cfg.Database, cfg.Server.Mode == "debug"); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	return newAppServices(cfg, models.GetDB())
}

// newAppServices wires services and handlers on an open database.
func newAppServices(cfg *config.Config, db *gorm.DB) *appServices {
	if !cfg.Admin.Enabled() {
		logger.Warn().Msg("ADMIN_USERNAME/ADMIN_PASSWORD not set, environment admin login disabled")
	}

	tokens := utils.NewTokenService([]byte(cfg.JWT.Secret),
		utils.WithAccessTTL(time.Duration(cfg.JWT.AccessTTLMinutes)*time.Minute),
		utils.WithRefreshTTL(time.Duration(cfg.JWT.RefreshTTLDays)*24*time.Hour),
	)

	var events services.EventPublisher = services.NopPublisher{}
	if cfg.Kafka.Enabled {
		events = services.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Auth events published to Kafka")
	}

	store := services.NewGormCredentialStore(db)
	authService := services.NewAuthService(store, tokens, cfg.Admin, events)
	userService := services.NewUserService(store, events)

	systemLogs := services.NewSystemLogService(db)
	logCleanup := services.NewLogCleanupScheduler(systemLogs, cfg.Audit.RetentionDays)
	if err := logCleanup.Start(cfg.Audit.CleanupSpec); err != nil {
		logger.Fatalf("Invalid audit cleanup schedule %q: %v", cfg.Audit.CleanupSpec, err)
	}

	registry := prometheus.NewRegistry()

	return &appServices{
		cfg:            cfg,
		db:             db,
		authService:    authService,
		events:         events,
		systemLogs:     systemLogs,
		logCleanup:     logCleanup,
		loginLimiter:   middleware.NewRateLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst),
		authHandler:    handlers.NewAuthHandler(authService, cfg.Cookie),
		userHandler:    handlers.NewUserHandler(userService, authService),
		workHandler:    handlers.NewWorkHandler(services.NewWorkService(db)),
		skillHandler:   handlers.NewSkillHandler(services.NewSkillService(db)),
		socialHandler:  handlers.NewSocialMediaHandler(services.NewSocialMediaService(db)),
		selfHandler:    handlers.NewSelfContentHandler(services.NewSelfContentService(db)),
		logHandler:     handlers.NewSystemLogHandler(systemLogs),
		healthHandler:  handlers.NewHealthHandler(db),
		httpMetrics:    metrics.NewHTTP(registry),
		metricsHandler: handlers.NewMetricsHandler(db, registry),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.logCleanup.Stop()
	s.loginLimiter.Stop()
	logger.Info().Msg("All schedulers stopped")

	if err := s.events.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close event publisher")
	}
	if err := models.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close database")
	}
}
