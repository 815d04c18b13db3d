package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasklist-api/internal/events"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/platform/metrics"
)

// AsyncEmitter is an events.EventEmitter that hands each event to a worker
// pool and returns once it is queued. Delivery outcomes are counted in
// tasklist_notifications_total when the job finishes, since the caller has
// already moved on.
type AsyncEmitter struct {
	next   events.EventEmitter
	queue  *Queue
	pool   *WorkerPool
	logger *slog.Logger
}

var _ events.DeferredEmitter = (*AsyncEmitter)(nil)

// NewAsyncEmitter creates an AsyncEmitter delivering to next. The queue holds
// up to queueSize pending events. Call Start before emitting and Close on
// shutdown.
func NewAsyncEmitter(
	next events.EventEmitter,
	queueSize int,
	config WorkerPoolConfig,
	log *slog.Logger,
) *AsyncEmitter {
	if log == nil {
		log = slog.Default()
	}
	queue := NewQueue(queueSize, log)
	pool := NewWorkerPool(queue, config, log)
	pool.SetErrorHandler(func(job Job, _ error) {
		metrics.IncrementNotification(job.Type(), false)
	})
	return &AsyncEmitter{
		next:   next,
		queue:  queue,
		pool:   pool,
		logger: log.With(slog.String("component", "async_emitter")),
	}
}

// Deferred reports that EmitEvent only queues.
func (e *AsyncEmitter) Deferred() bool { return true }

// Start launches the delivery workers.
func (e *AsyncEmitter) Start() {
	e.pool.Start()
}

// EmitEvent queues the event for delivery. It fails only when the queue is
// full or closed.
func (e *AsyncEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	// The job context owns the deadline; only the request logger carries over.
	log := logger.FromContextOrDefault(ctx, e.logger)

	job := NewJobFunc(event.Type, func(jobCtx context.Context) error {
		if err := e.next.EmitEvent(logger.WithLogger(jobCtx, log), event); err != nil {
			return err
		}
		metrics.IncrementNotification(event.Type, true)
		return nil
	})
	if err := e.queue.Enqueue(job); err != nil {
		return fmt.Errorf("queue event %s: %w", event.ID, err)
	}
	return nil
}

// Close stops accepting events and waits for the queued ones to be delivered.
func (e *AsyncEmitter) Close() error {
	e.queue.Close()
	e.pool.Wait()
	e.logger.Info("async emitter drained")
	return nil
}
