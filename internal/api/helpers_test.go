package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasklist-api/internal/api/middleware"
	"github.com/phrazzld/tasklist-api/internal/api/shared"
	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/events"
	"github.com/phrazzld/tasklist-api/internal/mocks"
	"github.com/phrazzld/tasklist-api/internal/notification"
	"github.com/phrazzld/tasklist-api/internal/service"
	"github.com/phrazzld/tasklist-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// testEnv wires the real services over the in-memory stores behind a chi
// router shaped like the production one.
type testEnv struct {
	tasks  *mocks.MockTaskStore
	lists  *mocks.MockTaskListStore
	users  *mocks.MockUserStore
	jwt    *mocks.MockJWTService
	router http.Handler

	mu     sync.Mutex
	events []*events.Event
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tasks, lists, users := mocks.NewMockStores()
	tx := &mocks.MockTxRunner{}
	clock := func() time.Time { return baseTime }

	env := &testEnv{tasks: tasks, lists: lists, users: users}

	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(events.HandlerFunc(func(ctx context.Context, e *events.Event) error {
		env.mu.Lock()
		defer env.mu.Unlock()
		env.events = append(env.events, e)
		return nil
	}))
	notifier := notification.NewNotifier(emitter, log)

	taskSvc, err := service.NewTaskService(tasks, lists, users, tx, notifier, clock, log)
	require.NoError(t, err)
	querySvc, err := service.NewTaskQueryService(tasks, lists, log)
	require.NoError(t, err)
	listSvc, err := service.NewTaskListService(lists, tx, clock, log)
	require.NoError(t, err)
	userSvc, err := service.NewUserService(users, tx, &mocks.MockPasswordHasher{}, clock, log)
	require.NoError(t, err)

	// Tokens are the decimal user ID, so tests can act as any user.
	env.jwt = &mocks.MockJWTService{
		Token:    "issued-token",
		Lifetime: 30 * time.Minute,
		VerifyTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
			id, err := strconv.ParseInt(token, 10, 64)
			if err != nil {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{UserID: id}, nil
		},
	}

	authenticator := auth.NewAuthenticator(users, &mocks.MockPasswordHasher{}, log)

	authHandler := NewAuthHandler(userSvc, authenticator, env.jwt, log)
	userHandler := NewUserHandler(userSvc, log)
	listHandler := NewTaskListHandler(listSvc, log)
	taskHandler := NewTaskHandler(taskSvc, querySvc, log)
	authMW := middleware.NewAuthMiddleware(env.jwt)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(log))
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.Get("/auth/me", authHandler.Me)

			r.Get("/users", userHandler.ListUsers)
			r.Put("/users/me", userHandler.UpdateMe)
			r.Delete("/users/me", userHandler.DeleteMe)
			r.Get("/users/{id}", userHandler.GetUser)

			r.Post("/task-lists", listHandler.CreateTaskList)
			r.Get("/task-lists", listHandler.ListTaskLists)
			r.Get("/task-lists/{id}", listHandler.GetTaskList)
			r.Put("/task-lists/{id}", listHandler.UpdateTaskList)
			r.Delete("/task-lists/{id}", listHandler.DeleteTaskList)

			r.Post("/tasks", taskHandler.CreateTask)
			r.Get("/tasks", taskHandler.ListTasks)
			r.Get("/tasks/search", taskHandler.SearchTasks)
			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Put("/tasks/{id}", taskHandler.UpdateTask)
			r.Patch("/tasks/{id}/status", taskHandler.UpdateTaskStatus)
			r.Patch("/tasks/{id}/assign", taskHandler.AssignTask)
			r.Patch("/tasks/{id}/unassign", taskHandler.UnassignTask)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)
		})
	})
	env.router = r

	return env
}

// do sends a JSON request as userID. A zero userID sends no Authorization header.
func (e *testEnv) do(t *testing.T, method, path string, userID int64, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("Authorization", "Bearer "+strconv.FormatInt(userID, 10))
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) eventTypes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	types := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		types = append(types, ev.Type)
	}
	return types
}

func (e *testEnv) seedUser(t *testing.T, email string) *domain.User {
	t.Helper()
	em, err := domain.NewEmail(email)
	require.NoError(t, err)
	user, err := domain.NewUser(em, nil, "hashed:password123", baseTime)
	require.NoError(t, err)
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) seedList(t *testing.T, name string) *domain.TaskList {
	t.Helper()
	n, err := domain.NewTaskListName(name)
	require.NoError(t, err)
	list := domain.NewTaskList(n, baseTime)
	require.NoError(t, e.lists.Create(context.Background(), list))
	return list
}

func (e *testEnv) seedTask(t *testing.T, listID int64, title string, status domain.TaskStatus) *domain.Task {
	t.Helper()
	tt, err := domain.NewTitle(title)
	require.NoError(t, err)
	task, err := domain.NewTask(tt, nil, domain.TaskPriorityMedium, listID, baseTime)
	require.NoError(t, err)
	task.Status = status
	e.tasks.Seed(task)
	return task
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	return decode[shared.ErrorResponse](t, rr)
}
