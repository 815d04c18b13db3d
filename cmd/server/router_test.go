package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/tasklist-api/internal/config"
	"github.com/phrazzld/tasklist-api/internal/dispatch"
	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/events"
	"github.com/phrazzld/tasklist-api/internal/mocks"
	"github.com/phrazzld/tasklist-api/internal/notification"
	"github.com/phrazzld/tasklist-api/internal/platform/redis"
	"github.com/phrazzld/tasklist-api/internal/service"
	"github.com/phrazzld/tasklist-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	allowed bool
	calls   int
	resets  []string
}

func (s *stubLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*redis.Result, error) {
	s.calls++
	return &redis.Result{Allowed: s.allowed, Limit: limit, ResetAt: time.Now().Add(window)}, nil
}

func (s *stubLimiter) Reset(ctx context.Context, key string) error {
	s.resets = append(s.resets, key)
	return nil
}

// newTestApplication builds an application over in-memory stores, skipping
// the database and external brokers.
func newTestApplication(t *testing.T, limiter *stubLimiter) *application {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Server:    config.ServerConfig{Port: 8080, LogLevel: "info"},
		Auth:      config.AuthConfig{JWTSecret: strings.Repeat("k", 32), TokenLifetimeMinutes: 30, BCryptCost: 4},
		RateLimit: config.RateLimitConfig{AuthRequests: 3, WindowSeconds: 60},
	}

	tasks, lists, users := mocks.NewMockStores()
	tx := &mocks.MockTxRunner{}
	hasher := &mocks.MockPasswordHasher{}
	emitter := events.NewInMemoryEventEmitter(log)
	notifier := notification.NewNotifier(emitter, log)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	require.NoError(t, err)

	app := &application{
		config:        cfg,
		logger:        log,
		taskStore:     tasks,
		taskListStore: lists,
		userStore:     users,
		jwtService:    jwtService,
		authenticator: auth.NewAuthenticator(users, hasher, log),
		eventEmitter:  emitter,
	}
	if limiter != nil {
		app.limiter = limiter
	}

	app.taskService, err = service.NewTaskService(tasks, lists, users, tx, notifier, domain.SystemClock, log)
	require.NoError(t, err)
	app.taskQueryService, err = service.NewTaskQueryService(tasks, lists, log)
	require.NoError(t, err)
	app.taskListService, err = service.NewTaskListService(lists, tx, domain.SystemClock, log)
	require.NoError(t, err)
	app.userService, err = service.NewUserService(users, tx, hasher, domain.SystemClock, log)
	require.NoError(t, err)

	return app
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router := newTestApplication(t, nil).setupRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "tasklist_http_request_duration_seconds")
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router := newTestApplication(t, nil).setupRouter()

	for _, path := range []string{"/api/v1/tasks", "/api/v1/task-lists", "/api/v1/users", "/api/v1/auth/me"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"), path)
	}
}

func TestRouter_RegisterLoginAndUseToken(t *testing.T) {
	router := newTestApplication(t, nil).setupRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"email":"ada@example.com","password":"password123"}`)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"password123"}`)))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, jsonDecode(rr, &token))
	assert.Equal(t, "bearer", token.TokenType)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/task-lists", strings.NewReader(`{"name":"Inbox"}`))
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/task-lists", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Inbox"`)
}

func TestRouter_RateLimitsAuthRoutesOnly(t *testing.T) {
	limiter := &stubLimiter{allowed: false}
	router := newTestApplication(t, limiter).setupRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"a@example.com","password":"x"}`)))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "3", rr.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, 1, limiter.calls)
}

func TestRouter_SuccessfulLoginResetsLimit(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	router := newTestApplication(t, limiter).setupRouter()

	post := func(path, body string) int {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	require.Equal(t, http.StatusCreated,
		post("/api/v1/auth/register", `{"email":"ada@example.com","password":"correct horse"}`))
	assert.Equal(t, http.StatusUnauthorized,
		post("/api/v1/auth/login", `{"email":"ada@example.com","password":"wrong guess"}`))
	assert.Empty(t, limiter.resets)

	assert.Equal(t, http.StatusOK,
		post("/api/v1/auth/login", `{"email":"ada@example.com","password":"correct horse"}`))
	assert.Equal(t, []string{"/api/v1/auth/login:192.0.2.1"}, limiter.resets)
	assert.Equal(t, 3, limiter.calls)
}

func TestApplicationCleanupClosesInReverseOrder(t *testing.T) {
	var order []string
	app := &application{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		closers: []namedCloser{
			{name: "first", closer: closerFunc(func() error { order = append(order, "first"); return nil })},
			{name: "second", closer: closerFunc(func() error { order = append(order, "second"); return io.ErrClosedPipe })},
		},
	}

	app.cleanup()
	app.cleanup()

	assert.Equal(t, []string{"second", "first"}, order)
}

func TestNotificationEmitter(t *testing.T) {
	t.Run("synchronous without workers", func(t *testing.T) {
		app := newTestApplication(t, nil)
		app.config.Notification.Workers = 0

		assert.Same(t, app.eventEmitter, app.notificationEmitter())
		assert.Empty(t, app.closers)
	})

	t.Run("background pool drained on cleanup", func(t *testing.T) {
		app := newTestApplication(t, nil)
		app.config.Notification = config.NotificationConfig{Workers: 2, QueueSize: 8, JobTimeoutSeconds: 1}

		delivered := make(chan string, 1)
		app.eventEmitter.RegisterHandler(events.HandlerFunc(func(_ context.Context, e *events.Event) error {
			delivered <- e.Type
			return nil
		}))

		emitter := app.notificationEmitter()
		require.IsType(t, &dispatch.AsyncEmitter{}, emitter)
		require.Len(t, app.closers, 1)
		assert.Equal(t, "notification_dispatcher", app.closers[0].name)

		event, err := events.NewEvent("task.assigned", map[string]int{"task_id": 1})
		require.NoError(t, err)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		app.cleanup()
		assert.Equal(t, "task.assigned", <-delivered)
	})
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
