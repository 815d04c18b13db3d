package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phrazzld/tasklist-api/internal/api/middleware"
	"github.com/phrazzld/tasklist-api/internal/config"
	"github.com/phrazzld/tasklist-api/internal/dispatch"
	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/events"
	"github.com/phrazzld/tasklist-api/internal/notification"
	"github.com/phrazzld/tasklist-api/internal/platform/postgres"
	"github.com/phrazzld/tasklist-api/internal/platform/rabbitmq"
	"github.com/phrazzld/tasklist-api/internal/platform/redis"
	"github.com/phrazzld/tasklist-api/internal/service"
	"github.com/phrazzld/tasklist-api/internal/service/auth"
	"github.com/phrazzld/tasklist-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	taskStore     store.TaskStore
	taskListStore store.TaskListStore
	userStore     store.UserStore

	// Services
	jwtService       auth.JWTService
	authenticator    *auth.Authenticator
	taskService      service.TaskService
	taskQueryService service.TaskQueryService
	taskListService  service.TaskListService
	userService      service.UserService

	// Event system
	eventEmitter *events.InMemoryEventEmitter

	// Optional integrations; nil when not configured
	limiter middleware.Limiter

	// closers are released in reverse order on shutdown
	closers []namedCloser
}

type namedCloser struct {
	name   string
	closer io.Closer
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)

	// Stores
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.taskListStore = postgres.NewPostgresTaskListStore(db, logger)
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	txRunner := store.NewDBTxRunner(db)

	// Notifications
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(notification.NewMockEmailHandler(logger))
	if err := app.setupPublisher(); err != nil {
		app.cleanup()
		return nil, err
	}
	notifier := notification.NewNotifier(app.notificationEmitter(), logger)

	if err := app.setupLimiter(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	clock := domain.Clock(domain.SystemClock)

	app.authenticator = auth.NewAuthenticator(app.userStore, hasher, logger)

	app.taskService, err = service.NewTaskService(
		app.taskStore, app.taskListStore, app.userStore, txRunner, notifier, clock, logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.taskQueryService, err = service.NewTaskQueryService(app.taskStore, app.taskListStore, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task query service: %w", err)
	}

	app.taskListService, err = service.NewTaskListService(app.taskListStore, txRunner, clock, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task list service: %w", err)
	}

	app.userService, err = service.NewUserService(app.userStore, txRunner, hasher, clock, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	logger.Info("Application initialized successfully",
		"event_handlers", app.eventEmitter.HandlerCount())
	return app, nil
}

// setupPublisher registers the RabbitMQ publisher when an AMQP URL is configured.
func (app *application) setupPublisher() error {
	cfg := app.config.Notification
	if cfg.AMQPURL == "" {
		app.logger.Info("AMQP URL not configured, notification events are only logged")
		return nil
	}

	publisher, err := rabbitmq.Dial(cfg.AMQPURL, cfg.Exchange, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize notification publisher: %w", err)
	}

	app.eventEmitter.RegisterHandler(publisher.WithTimeout())
	app.closers = append(app.closers, namedCloser{name: "rabbitmq", closer: publisher})
	app.logger.Info("Notification publisher initialized", "exchange", cfg.Exchange)
	return nil
}

// notificationEmitter returns the emitter the notifier publishes through.
// With workers configured, delivery moves to a background pool that is
// drained on shutdown before the publisher closes.
func (app *application) notificationEmitter() events.EventEmitter {
	cfg := app.config.Notification
	if cfg.Workers <= 0 {
		return app.eventEmitter
	}

	async := dispatch.NewAsyncEmitter(app.eventEmitter, cfg.QueueSize, dispatch.WorkerPoolConfig{
		WorkerCount: cfg.Workers,
		JobTimeout:  time.Duration(cfg.JobTimeoutSeconds) * time.Second,
	}, app.logger)
	async.Start()
	app.closers = append(app.closers, namedCloser{name: "notification_dispatcher", closer: async})
	return async
}

// setupLimiter connects the Redis rate limiter when a Redis URL is configured.
func (app *application) setupLimiter(ctx context.Context) error {
	cfg := app.config.RateLimit
	if cfg.RedisURL == "" {
		app.logger.Info("Redis URL not configured, rate limiting disabled")
		return nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := redis.Connect(connectCtx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	app.limiter = redis.NewLimiter(client, "")
	app.closers = append(app.closers, namedCloser{name: "redis", closer: client})
	app.logger.Info("Rate limiter initialized",
		"auth_requests", cfg.AuthRequests,
		"window_seconds", cfg.WindowSeconds)
	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		c := app.closers[i]
		if err := c.closer.Close(); err != nil {
			app.logger.Error("Error closing resource", "resource", c.name, "error", err)
		}
	}
	app.closers = nil

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
		app.db = nil
	}

	app.logger.Info("Application shutdown completed")
}
