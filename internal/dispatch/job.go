package dispatch

import (
	"context"

	"github.com/google/uuid"
)

// Job is a unit of background work.
type Job interface {
	// ID returns the job's unique identifier
	ID() uuid.UUID

	// Type names the kind of work, used in logs
	Type() string

	// Execute runs the job
	Execute(ctx context.Context) error
}

// QueueReader gives workers read-only access to queued jobs.
type QueueReader interface {
	Channel() <-chan Job
}

// QueueWriter accepts jobs for processing.
type QueueWriter interface {
	// Enqueue adds a job without blocking. It fails when the queue is full
	// or closed.
	Enqueue(job Job) error

	// Close prevents further submission. Jobs already queued stay readable.
	Close()
}

// JobFunc adapts a function to Job.
type JobFunc struct {
	id      uuid.UUID
	jobType string
	fn      func(ctx context.Context) error
}

// NewJobFunc creates a Job of the given type that runs fn.
func NewJobFunc(jobType string, fn func(ctx context.Context) error) *JobFunc {
	return &JobFunc{id: uuid.New(), jobType: jobType, fn: fn}
}

func (j *JobFunc) ID() uuid.UUID { return j.id }

func (j *JobFunc) Type() string { return j.jobType }

func (j *JobFunc) Execute(ctx context.Context) error { return j.fn(ctx) }
