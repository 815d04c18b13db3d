package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// WorkerPoolConfig holds configuration options for the worker pool.
type WorkerPoolConfig struct {
	// WorkerCount is the number of concurrent workers. Values below 1 mean 1.
	WorkerCount int

	// JobTimeout bounds a single Execute call. Zero means no limit.
	JobTimeout time.Duration
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults.
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 2,
		JobTimeout:  10 * time.Second,
	}
}

// WorkerPool runs jobs from a QueueReader until the queue is closed and drained.
type WorkerPool struct {
	queue        QueueReader
	config       WorkerPoolConfig
	wg           sync.WaitGroup
	startOnce    sync.Once
	logger       *slog.Logger
	errorHandler func(job Job, err error)
}

// NewWorkerPool creates a worker pool reading from queue.
func NewWorkerPool(queue QueueReader, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "worker_pool"))

	if config.WorkerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
		config.WorkerCount = 1
	}

	return &WorkerPool{
		queue:  queue,
		config: config,
		logger: logger,
	}
}

// SetErrorHandler sets a callback for failed jobs. Must be called before Start.
func (p *WorkerPool) SetErrorHandler(handler func(job Job, err error)) {
	p.errorHandler = handler
}

// Start launches the workers. Calls after the first are no-ops.
func (p *WorkerPool) Start() {
	p.startOnce.Do(func() {
		for i := 0; i < p.config.WorkerCount; i++ {
			p.wg.Add(1)
			go p.worker(i)
		}
		p.logger.Info("worker pool started", "worker_count", p.config.WorkerCount)
	})
}

// Wait blocks until every worker has exited, which happens once the queue is
// closed and drained.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("starting worker", "worker_id", id)
	for job := range p.queue.Channel() {
		p.process(job, id)
	}
	p.logger.Debug("job channel closed, stopping worker", "worker_id", id)
}

func (p *WorkerPool) process(job Job, workerID int) {
	log := p.logger.With(
		"job_id", job.ID(),
		"job_type", job.Type(),
		"worker_id", workerID,
	)

	ctx := context.Background()
	if p.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.JobTimeout)
		defer cancel()
	}

	err := p.execute(ctx, job)
	if err == nil {
		log.Debug("job completed")
		return
	}

	log.Error("job execution failed", "error", err)
	if p.errorHandler != nil {
		p.errorHandler(job, err)
	}
}

// execute turns a panicking job into an error so one bad job cannot take a
// worker down.
func (p *WorkerPool) execute(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job.Execute(ctx)
}
