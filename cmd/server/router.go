package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasklist-api/internal/api"
	apiMiddleware "github.com/phrazzld/tasklist-api/internal/api/middleware"
	"github.com/phrazzld/tasklist-api/internal/platform/metrics"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.Metrics)

	authHandler := api.NewAuthHandler(app.userService, app.authenticator, app.jwtService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	taskListHandler := api.NewTaskListHandler(app.taskListService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.taskQueryService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api/v1", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Group(func(r chi.Router) {
			if app.limiter != nil {
				window := time.Duration(app.config.RateLimit.WindowSeconds) * time.Second
				r.Use(apiMiddleware.RateLimit(app.limiter, app.config.RateLimit.AuthRequests, window))
			}
			r.Post("/auth/register", authHandler.Register)
			if app.limiter != nil {
				r.With(apiMiddleware.ResetOnSuccess(app.limiter)).Post("/auth/login", authHandler.Login)
			} else {
				r.Post("/auth/login", authHandler.Login)
			}
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.ListUsers)
				r.Put("/me", userHandler.UpdateMe)
				r.Delete("/me", userHandler.DeleteMe)
				r.Get("/{id}", userHandler.GetUser)
			})

			r.Route("/task-lists", func(r chi.Router) {
				r.Post("/", taskListHandler.CreateTaskList)
				r.Get("/", taskListHandler.ListTaskLists)
				r.Get("/{id}", taskListHandler.GetTaskList)
				r.Put("/{id}", taskListHandler.UpdateTaskList)
				r.Delete("/{id}", taskListHandler.DeleteTaskList)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", taskHandler.CreateTask)
				r.Get("/", taskHandler.ListTasks)
				r.Get("/search", taskHandler.SearchTasks)
				r.Get("/{id}", taskHandler.GetTask)
				r.Put("/{id}", taskHandler.UpdateTask)
				r.Patch("/{id}/status", taskHandler.UpdateTaskStatus)
				r.Patch("/{id}/assign", taskHandler.AssignTask)
				r.Patch("/{id}/unassign", taskHandler.UnassignTask)
				r.Delete("/{id}", taskHandler.DeleteTask)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Handle("/metrics", metrics.Handler())

	return r
}
