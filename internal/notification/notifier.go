package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/events"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/platform/metrics"
)

// Port is invoked by the task services after a change has been persisted.
// Implementations never return errors: a failed delivery is logged and
// reported as false. Behind a deferred emitter, true means the event was
// queued; delivery failures are then logged and counted by the dispatcher.
type Port interface {
	NotifyAssignment(ctx context.Context, task *domain.Task, user *domain.User) bool
	NotifyUnassignment(ctx context.Context, task *domain.Task, user *domain.User) bool
	NotifyStatusChange(
		ctx context.Context,
		task *domain.Task,
		oldStatus domain.TaskStatus,
		user *domain.User,
	) bool
}

// Notifier turns task changes into email events on an EventEmitter.
type Notifier struct {
	emitter events.EventEmitter
	logger  *slog.Logger
}

var _ Port = (*Notifier)(nil)

// NewNotifier creates a Notifier that emits through emitter.
func NewNotifier(emitter events.EventEmitter, log *slog.Logger) *Notifier {
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{
		emitter: emitter,
		logger:  log.With(slog.String("component", "notifier")),
	}
}

// NotifyAssignment tells user the task was assigned to them.
func (n *Notifier) NotifyAssignment(ctx context.Context, task *domain.Task, user *domain.User) bool {
	if task == nil || user == nil {
		return false
	}
	return n.send(ctx, EventTaskAssigned, assignmentEmail(task, user))
}

// NotifyUnassignment tells user the task was taken away from them.
func (n *Notifier) NotifyUnassignment(ctx context.Context, task *domain.Task, user *domain.User) bool {
	if task == nil || user == nil {
		return false
	}
	return n.send(ctx, EventTaskUnassigned, unassignmentEmail(task, user))
}

// NotifyStatusChange tells the assignee about a status change. With no
// assignee there is nobody to tell, which counts as success.
func (n *Notifier) NotifyStatusChange(
	ctx context.Context,
	task *domain.Task,
	oldStatus domain.TaskStatus,
	user *domain.User,
) bool {
	if task == nil {
		return false
	}
	if user == nil {
		logger.FromContextOrDefault(ctx, n.logger).Debug("no user assigned, skipping notification",
			slog.Int64("task_id", task.ID))
		return true
	}
	return n.send(ctx, EventTaskStatusChanged, statusChangeEmail(task, oldStatus, user))
}

func (n *Notifier) send(ctx context.Context, eventType string, email Email) (ok bool) {
	log := logger.FromContextOrDefault(ctx, n.logger)

	result := metrics.ResultFailed
	defer func() {
		if r := recover(); r != nil {
			log.Error("notification handler panicked",
				slog.String("event_type", eventType),
				slog.String("panic", fmt.Sprint(r)))
			ok, result = false, metrics.ResultFailed
		}
		metrics.RecordNotification(eventType, result)
	}()

	event, err := events.NewEvent(eventType, email)
	if err != nil {
		log.Error("failed to build notification event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return false
	}

	if err := n.emitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to send notification",
			slog.String("event_type", eventType),
			slog.Int64("task_id", email.TaskID),
			slog.String("error", err.Error()))
		return false
	}

	result = metrics.ResultSent
	if d, deferred := n.emitter.(events.DeferredEmitter); deferred && d.Deferred() {
		result = metrics.ResultQueued
	}
	return true
}
