package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/je4550/repair-app/internal/adapters"
	"github.com/je4550/repair-app/internal/appointments"
	"github.com/je4550/repair-app/internal/auth"
	"github.com/je4550/repair-app/internal/catalog"
	"github.com/je4550/repair-app/internal/communications"
	"github.com/je4550/repair-app/internal/customers"
	"github.com/je4550/repair-app/internal/email"
	"github.com/je4550/repair-app/internal/events"
	apphttp "github.com/je4550/repair-app/internal/http"
	"github.com/je4550/repair-app/internal/http/router"
	"github.com/je4550/repair-app/internal/locations"
	"github.com/je4550/repair-app/internal/reminders"
	"github.com/je4550/repair-app/internal/reviews"
	"github.com/je4550/repair-app/internal/scheduler"
	"github.com/je4550/repair-app/internal/shops"
	"github.com/je4550/repair-app/migrations"
	"github.com/je4550/repair-app/platform/config"
	"github.com/je4550/repair-app/platform/db"
	"github.com/je4550/repair-app/platform/logger"
	"github.com/je4550/repair-app/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS, ".")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender := email.NewSender(cfg)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(pool, cfg, val, log)
	shopsModule := shops.NewModule(pool, val, eventBus, log)
	locationsModule := locations.NewModule(pool, val, log)
	customersModule := customers.NewModule(pool, val, log)

	locationDirectory := adapters.NewLocationsDirectory(locationsModule.Service())
	catalogModule := catalog.NewModule(pool, val, locationDirectory, log)
	catalogModule.RegisterHandlers(eventBus)

	// Appointments consume customers and catalog through narrow ports
	vehicleDirectory := adapters.NewCustomersVehicleDirectory(customersModule.Service())
	rateProvider := adapters.NewCatalogRateProvider(catalogModule.Service())
	appointmentsModule := appointments.NewModule(pool, val, vehicleDirectory, rateProvider, eventBus)

	communicationsModule := communications.NewModule(pool, val, sender, log)
	reviewsModule := reviews.NewModule(pool, val, log)

	remindersModule := reminders.NewModule(pool, val, reminderScheduler, sender, log)
	remindersModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			shopsModule,
			locationsModule,
			customersModule,
			catalogModule,
			appointmentsModule,
			communicationsModule,
			reviewsModule,
			remindersModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ReminderScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; service reminder delivery disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
