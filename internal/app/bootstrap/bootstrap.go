package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	invoiceservice "relish/contexts/billing/invoice-service"
	invoicepostgres "relish/contexts/billing/invoice-service/adapters/postgres"
	invoiceworkers "relish/contexts/billing/invoice-service/application/workers"
	contactservice "relish/contexts/crm/contact-service"
	contactpostgres "relish/contexts/crm/contact-service/adapters/postgres"
	interactionservice "relish/contexts/crm/interaction-service"
	interactionpostgres "relish/contexts/crm/interaction-service/adapters/postgres"
	opportunityservice "relish/contexts/crm/opportunity-service"
	opportunitypostgres "relish/contexts/crm/opportunity-service/adapters/postgres"
	opportunityworkers "relish/contexts/crm/opportunity-service/application/workers"
	organizationservice "relish/contexts/crm/organization-service"
	organizationpostgres "relish/contexts/crm/organization-service/adapters/postgres"
	taskservice "relish/contexts/crm/task-service"
	taskpostgres "relish/contexts/crm/task-service/adapters/postgres"
	taskworkers "relish/contexts/crm/task-service/application/workers"
	userservice "relish/contexts/identity-access/user-service"
	userpostgres "relish/contexts/identity-access/user-service/adapters/postgres"
	settingsservice "relish/contexts/internal-ops/settings-service"
	settingspostgres "relish/contexts/internal-ops/settings-service/adapters/postgres"
	"relish/internal/platform/config"
	"relish/internal/platform/db"
	"relish/internal/platform/httpserver"
	"relish/internal/platform/httpserver/middleware"
	"relish/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	addr     string
	logger   *slog.Logger

	// background holds loops the API process owns: the counter cleanup
	// sweep, and in dev mode (no POSTGRES_DSN) the event workers that
	// otherwise live in the worker process.
	background []func(context.Context) error
}

type WorkerApp struct {
	postgres       *db.Postgres
	bus            *messaging.Bus
	relay          opportunityworkers.OutboxRelay
	scanner        taskworkers.DueScanner
	consumer       invoiceworkers.OpportunityWonConsumer
	enableScanner  bool
	enableConsumer bool
	logger         *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	secret := strings.TrimSpace(cfg.SessionSecret)
	if secret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}

	limits := httpserver.Limits{
		API:   middleware.RateLimitConfig{MaxAttempts: cfg.APIRateMaxAttempts, Window: cfg.APIRateWindow},
		Login: middleware.RateLimitConfig{MaxAttempts: cfg.LoginRateMaxAttempts, Window: cfg.LoginRateWindow},
	}

	var counters middleware.CounterStore
	var memCounters *middleware.MemoryCounterStore
	if cfg.RedisAddr != "" {
		counters = middleware.NewRedisCounterStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		memCounters = middleware.NewMemoryCounterStore()
		counters = memCounters
	}

	app := &APIApp{
		addr:   normalizeAddr(cfg.HTTPPort),
		logger: logger,
	}

	var modules httpserver.Modules
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err := db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		app.postgres = pg
		modules = postgresModules(pg, []byte(secret), cfg, logger)
	} else {
		modules = memoryModules([]byte(secret), cfg, logger)

		// Without a shared database the worker process has nothing to
		// read, so the event loops run here against the same stores.
		bus := messaging.NewBus(logger)
		relay := opportunityworkers.OutboxRelay{
			Outbox:    modules.Opportunities.Outbox,
			Clock:     modules.Opportunities.Store,
			Publisher: bus,
			Limiter:   rate.NewLimiter(rate.Limit(cfg.OutboxPublishPerSec), 1),
			Interval:  cfg.OutboxPollInterval,
			Logger:    logger,
		}
		scanner := taskworkers.DueScanner{
			Tasks:     modules.Tasks.Store,
			Clock:     modules.Tasks.Store,
			Publisher: bus,
			Interval:  cfg.TaskScanInterval,
			Logger:    logger,
		}
		consumer := invoiceworkers.OpportunityWonConsumer{
			Service:    modules.Invoices.Service,
			Subscriber: bus,
			Logger:     logger,
		}
		if cfg.EnableInvoiceConsumer {
			app.background = append(app.background, consumer.Run)
		}
		app.background = append(app.background, relay.Run)
		if cfg.EnableTaskDueScanner {
			app.background = append(app.background, scanner.Run)
		}
	}

	if memCounters != nil {
		window := cfg.APIRateWindow
		if cfg.LoginRateWindow > window {
			window = cfg.LoginRateWindow
		}
		app.background = append(app.background, counterCleanupLoop(memCounters, window))
	}

	app.server = httpserver.New(modules, modules.Users.Authenticator, counters, limits, logger)
	return app, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required; without it the api process runs the event loops itself")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	oppRepo := opportunitypostgres.NewRepository(pg.DB, logger)
	taskRepo := taskpostgres.NewRepository(pg.DB, logger)
	invoiceModule := invoiceservice.NewModule(invoiceservice.Dependencies{
		Invoices:    invoicepostgres.NewRepository(pg.DB, logger),
		Clock:       invoicepostgres.SystemClock{},
		IDGenerator: invoicepostgres.UUIDGenerator{},
		TaxRate:     cfg.InvoiceTaxRate,
		Logger:      logger,
	})

	return &WorkerApp{
		postgres: pg,
		bus:      bus,
		relay: opportunityworkers.OutboxRelay{
			Outbox:    oppRepo,
			Clock:     opportunitypostgres.SystemClock{},
			Publisher: bus,
			Limiter:   rate.NewLimiter(rate.Limit(cfg.OutboxPublishPerSec), 1),
			Interval:  cfg.OutboxPollInterval,
			Logger:    logger,
		},
		scanner: taskworkers.DueScanner{
			Tasks:     taskRepo,
			Clock:     taskpostgres.SystemClock{},
			Publisher: bus,
			Interval:  cfg.TaskScanInterval,
			Logger:    logger,
		},
		consumer: invoiceworkers.OpportunityWonConsumer{
			Service:    invoiceModule.Service,
			Subscriber: bus,
			Logger:     logger,
		},
		enableScanner:  cfg.EnableTaskDueScanner,
		enableConsumer: cfg.EnableInvoiceConsumer,
		logger:         logger,
	}, nil
}

func postgresModules(pg *db.Postgres, secret []byte, cfg config.Config, logger *slog.Logger) httpserver.Modules {
	oppRepo := opportunitypostgres.NewRepository(pg.DB, logger)
	return httpserver.Modules{
		Users: userservice.NewModule(userservice.Dependencies{
			Users:         userpostgres.NewRepository(pg.DB, logger),
			Clock:         userpostgres.SystemClock{},
			IDGenerator:   userpostgres.UUIDGenerator{},
			SessionSecret: secret,
			SessionTTL:    cfg.SessionTTL,
			Logger:        logger,
		}),
		Organizations: organizationservice.NewModule(organizationservice.Dependencies{
			Orgs:        organizationpostgres.NewRepository(pg.DB, logger),
			Clock:       organizationpostgres.SystemClock{},
			IDGenerator: organizationpostgres.UUIDGenerator{},
			Logger:      logger,
		}),
		Contacts: contactservice.NewModule(contactservice.Dependencies{
			Contacts:    contactpostgres.NewRepository(pg.DB, logger),
			Clock:       contactpostgres.SystemClock{},
			IDGenerator: contactpostgres.UUIDGenerator{},
			Logger:      logger,
		}),
		Interactions: interactionservice.NewModule(interactionservice.Dependencies{
			Interactions: interactionpostgres.NewRepository(pg.DB, logger),
			Clock:        interactionpostgres.SystemClock{},
			IDGenerator:  interactionpostgres.UUIDGenerator{},
			Logger:       logger,
		}),
		Tasks: taskservice.NewModule(taskservice.Dependencies{
			Tasks:       taskpostgres.NewRepository(pg.DB, logger),
			Clock:       taskpostgres.SystemClock{},
			IDGenerator: taskpostgres.UUIDGenerator{},
			Logger:      logger,
		}),
		Opportunities: opportunityservice.NewModule(opportunityservice.Dependencies{
			Opportunities: oppRepo,
			Outbox:        oppRepo,
			Clock:         opportunitypostgres.SystemClock{},
			IDGenerator:   opportunitypostgres.UUIDGenerator{},
			Logger:        logger,
		}),
		Invoices: invoiceservice.NewModule(invoiceservice.Dependencies{
			Invoices:    invoicepostgres.NewRepository(pg.DB, logger),
			Clock:       invoicepostgres.SystemClock{},
			IDGenerator: invoicepostgres.UUIDGenerator{},
			TaxRate:     cfg.InvoiceTaxRate,
			Logger:      logger,
		}),
		Settings: settingsservice.NewModule(settingsservice.Dependencies{
			Settings: settingspostgres.NewRepository(pg.DB, logger),
			Clock:    settingspostgres.SystemClock{},
			Logger:   logger,
		}),
	}
}

func memoryModules(secret []byte, cfg config.Config, logger *slog.Logger) httpserver.Modules {
	return httpserver.Modules{
		Users:         userservice.NewInMemoryModule(secret, logger),
		Organizations: organizationservice.NewInMemoryModule(nil, logger),
		Contacts:      contactservice.NewInMemoryModule(nil, logger),
		Interactions:  interactionservice.NewInMemoryModule(nil, logger),
		Tasks:         taskservice.NewInMemoryModule(nil, logger),
		Opportunities: opportunityservice.NewInMemoryModule(nil, logger),
		Invoices:      invoiceservice.NewInMemoryModule(nil, cfg.InvoiceTaxRate, logger),
		Settings:      settingsservice.NewInMemoryModule(logger),
	}
}

func counterCleanupLoop(counters *middleware.MemoryCounterStore, window time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		ticker := time.NewTicker(window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				counters.Cleanup(window)
			}
		}
	}
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *APIApp) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, loop := range a.background {
		group.Go(func() error { return ignoreCancel(loop(ctx)) })
	}

	srv := &http.Server{
		Addr:              a.addr,
		Handler:           a.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	group.Go(func() error {
		a.logger.Info("http server starting",
			"event", "http_server_starting",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"addr", a.addr,
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"invoice_consumer", w.enableConsumer,
		"task_due_scanner", w.enableScanner,
	)

	group, ctx := errgroup.WithContext(ctx)
	if w.enableConsumer {
		group.Go(func() error { return ignoreCancel(w.consumer.Run(ctx)) })
	}
	group.Go(func() error { return ignoreCancel(w.relay.Run(ctx)) })
	if w.enableScanner {
		group.Go(func() error { return ignoreCancel(w.scanner.Run(ctx)) })
	}
	return group.Wait()
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// ignoreCancel turns a context-cancel exit into a clean stop.
func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
