package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasklist-api/internal/events"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
)

// MockEmailHandler "sends" notification emails by logging them.
type MockEmailHandler struct {
	logger *slog.Logger
}

var _ events.EventHandler = (*MockEmailHandler)(nil)

// NewMockEmailHandler creates a MockEmailHandler.
func NewMockEmailHandler(log *slog.Logger) *MockEmailHandler {
	if log == nil {
		log = slog.Default()
	}
	return &MockEmailHandler{logger: log.With(slog.String("component", "mock_email"))}
}

// HandleEvent logs the email carried by a notification event.
func (h *MockEmailHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	log := logger.FromContextOrDefault(ctx, h.logger)

	var email Email
	if err := event.UnmarshalPayload(&email); err != nil {
		return fmt.Errorf("failed to decode email payload: %w", err)
	}

	attrs := []any{
		slog.String("event_type", event.Type),
		slog.Int64("task_id", email.TaskID),
	}
	if email.OldStatus != nil && email.NewStatus != nil {
		attrs = append(attrs,
			slog.String("old_status", string(*email.OldStatus)),
			slog.String("new_status", string(*email.NewStatus)))
	}

	log.Info(fmt.Sprintf("MOCK EMAIL SENT - To: %s, Subject: %s", email.To, email.Subject), attrs...)
	log.Debug("email body", slog.String("body", email.Body))
	return nil
}
