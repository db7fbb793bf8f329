// Package main provides the main entry point for the tallybook counter service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirphl/tallybook/app/handlers"
	"github.com/amirphl/tallybook/app/router"
	"github.com/amirphl/tallybook/app/services"
	businessflow "github.com/amirphl/tallybook/business_flow"
	"github.com/amirphl/tallybook/config"
	"github.com/amirphl/tallybook/models"
	"github.com/amirphl/tallybook/repository"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	db        *gorm.DB
	logger    *logrus.Logger
	stopFuncs []func()
}

func main() {
	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logging)
	logger.WithFields(logrus.Fields{
		"environment": cfg.Deployment.Environment,
		"version":     cfg.Deployment.Version,
	}).Info("Starting tallybook...")

	app, err := initializeApplication(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize application")
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := app.router.Start(address); err != nil {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-sigChan
	logger.Info("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	if err := app.router.Shutdown(cfg.Server.ShutdownTimeout); err != nil {
		logger.WithError(err).Error("Error during shutdown")
	}
	if err := repository.CloseDatabase(app.db); err != nil {
		logger.WithError(err).Error("Error closing database")
	}

	logger.Info("Server stopped")
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig, logger *logrus.Logger) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.WithField("db", cfg.RedisDB).Info("Redis connection established")
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis.
// The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration, logger *logrus.Logger) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					logger.WithError(err).Warn("Redis healthcheck failed")
				}
				c()
			}
		}
	}()
	return cancel
}

// defaultViewState reads the configured board defaults; unknown values keep the built-in ones
func defaultViewState(cfg config.AppConfig) models.ViewState {
	view := models.DefaultViewState()
	if m, err := models.ParseSortMethod(cfg.DefaultSort); err == nil {
		view.Sort = m
	}
	if p, err := models.ParsePeriod(cfg.DefaultPeriod); err == nil {
		view.Period = p
	}
	if v, err := models.ParseVisibility(cfg.DefaultView); err == nil {
		view.Visibility = v
	}
	view.Compact = cfg.DefaultCompact
	return view
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig, logger *logrus.Logger) (*Application, error) {
	var stopFuncs []func()
	ctx := context.Background()

	db, err := repository.OpenDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := repository.RunMigrations(ctx, db); err != nil {
			_ = repository.CloseDatabase(db)
			return nil, err
		}
		logger.WithField("driver", cfg.Database.Driver).Info("Migrations applied")
	}

	rc, err := initializeCache(cfg.Cache, logger)
	if err != nil {
		_ = repository.CloseDatabase(db)
		return nil, err
	}

	var preferenceStore services.PreferenceStore
	if rc != nil {
		preferenceStore = services.NewRedisPreferenceStore(rc, cfg.Cache.RedisPrefix)
		stopFuncs = append(stopFuncs, startCacheHealthMonitor(ctx, rc, cfg.Cache.HealthCheckInterval, logger))
		stopFuncs = append(stopFuncs, func() { _ = rc.Close() })
	} else {
		preferenceStore = services.NewMemoryPreferenceStore()
	}

	// Initialize repositories
	counterRepo := repository.NewCounterRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Initialize business flows
	clock := businessflow.Clock(time.Now)
	location := cfg.App.Location()
	locale := language.Make(cfg.App.Locale)

	orderingFlow := businessflow.NewOrderingFlow(counterRepo, clock, logger)
	counterFlow := businessflow.NewCounterFlow(counterRepo, orderingFlow, clock, logger)
	eventFlow := businessflow.NewEventFlow(counterRepo, eventRepo, clock, logger)
	boardFlow := businessflow.NewBoardFlow(counterRepo, eventRepo, clock, location, locale, logger)
	exportFlow := businessflow.NewExportFlow(counterRepo, eventRepo, clock, location, logger)
	preferenceFlow := businessflow.NewPreferenceFlow(preferenceStore, defaultViewState(cfg.App), logger)

	sqlDB, err := db.DB()
	if err != nil {
		_ = repository.CloseDatabase(db)
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Initialize handlers
	appRouter := router.NewFiberRouter(router.Handlers{
		Health:     handlers.NewHealthHandler(sqlDB, cfg.Deployment.Version, logger),
		Counter:    handlers.NewCounterHandler(counterFlow, orderingFlow, boardFlow, preferenceFlow, logger),
		Event:      handlers.NewEventHandler(eventFlow, logger),
		Export:     handlers.NewExportHandler(exportFlow, logger),
		Preference: handlers.NewPreferenceHandler(preferenceFlow, logger),
	}, cfg, logger)

	return &Application{
		router:    appRouter,
		config:    cfg,
		db:        db,
		logger:    logger,
		stopFuncs: stopFuncs,
	}, nil
}
