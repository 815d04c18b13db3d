package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasklist-api/internal/api/shared"
	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/service"
	"github.com/phrazzld/tasklist-api/internal/store"
)

// getUserIDFromContext extracts the authenticated user's ID from the request context.
// The user ID is expected to be placed in the context by the authentication middleware.
func getUserIDFromContext(r *http.Request) (int64, bool) {
	return shared.UserIDFromContext(r.Context())
}

// getPathID extracts a positive integer ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// handlePathID extracts the path ID and writes a 400 response when it is
// missing or malformed.
func handlePathID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (int64, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	id, err := getPathID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return 0, false
	}

	return id, true
}

// parsePage reads skip and limit from the query string. Absent values take
// the store defaults; range checks are left to the services.
func parsePage(q url.Values) (store.Page, error) {
	page := store.DefaultPage()

	if raw := q.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil {
			return store.Page{}, domain.NewValidationError("skip", "must be an integer", nil)
		}
		page.Skip = skip
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return store.Page{}, domain.NewValidationError("limit", "must be an integer", nil)
		}
		page.Limit = limit
	}

	return page, nil
}

// optionalInt64 parses a positive integer query parameter. An absent
// parameter yields nil.
func optionalInt64(q url.Values, name string) (*int64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, domain.NewValidationError(name, "must be a positive integer", domain.ErrInvalidID)
	}
	return &v, nil
}

// parseTaskQuery reads the task listing filters and page from the query
// string. It also returns task_list_id when present.
func parseTaskQuery(q url.Values) (service.TaskQuery, *int64, error) {
	var query service.TaskQuery

	page, err := parsePage(q)
	if err != nil {
		return query, nil, err
	}
	query.Page = page

	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseTaskStatus(raw)
		if err != nil {
			return query, nil, err
		}
		query.Status = &status
	}

	if raw := q.Get("priority"); raw != "" {
		priority, err := domain.ParseTaskPriority(raw)
		if err != nil {
			return query, nil, err
		}
		query.Priority = &priority
	}

	if query.UserID, err = optionalInt64(q, "user_id"); err != nil {
		return query, nil, err
	}

	// task_list_id=0 selects no list, the same as leaving it out.
	if strings.TrimSpace(q.Get("task_list_id")) == "0" {
		return query, nil, nil
	}
	taskListID, err := optionalInt64(q, "task_list_id")
	if err != nil {
		return query, nil, err
	}

	return query, taskListID, nil
}
