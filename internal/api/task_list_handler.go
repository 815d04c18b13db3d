package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasklist-api/internal/api/shared"
	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/service"
)

// TaskListHandler handles task list API requests.
type TaskListHandler struct {
	lists  service.TaskListService
	logger *slog.Logger
}

// NewTaskListHandler creates a TaskListHandler.
func NewTaskListHandler(lists service.TaskListService, logger *slog.Logger) *TaskListHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskListHandler{
		lists:  lists,
		logger: logger.With(slog.String("component", "task_list_handler")),
	}
}

// CreateTaskList handles POST /task-lists.
func (h *TaskListHandler) CreateTaskList(w http.ResponseWriter, r *http.Request) {
	var req TaskListRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		handleValidationError(w, r, err)
		return
	}

	list, err := h.lists.Create(r.Context(), req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task list")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskListToResponse(list))
}

// ListTaskLists handles GET /task-lists. An optional name parameter filters
// by case-insensitive substring.
func (h *TaskListHandler) ListTaskLists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := parsePage(q)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var lists []*domain.TaskList
	if name := q.Get("name"); name != "" {
		lists, err = h.lists.Search(r.Context(), name, page)
	} else {
		lists, err = h.lists.List(r.Context(), page)
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list task lists")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskListsToResponse(lists))
}

// GetTaskList handles GET /task-lists/{id}.
func (h *TaskListHandler) GetTaskList(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	list, err := h.lists.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task list")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskListToResponse(list))
}

// UpdateTaskList handles PUT /task-lists/{id}.
func (h *TaskListHandler) UpdateTaskList(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req TaskListRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		handleValidationError(w, r, err)
		return
	}

	list, err := h.lists.Rename(r.Context(), id, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task list")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskListToResponse(list))
}

// DeleteTaskList handles DELETE /task-lists/{id}. The list's tasks are deleted with it.
func (h *TaskListHandler) DeleteTaskList(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.lists.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task list")
		return
	}

	shared.RespondWithNoContent(w)
}
