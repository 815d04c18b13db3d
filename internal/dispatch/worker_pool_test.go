package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool(t *testing.T) {
	queue := NewQueue(1, setupTestLogger())

	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 5}, setupTestLogger())
	assert.Equal(t, 5, pool.config.WorkerCount)
	assert.Nil(t, pool.errorHandler)

	pool = NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 0}, setupTestLogger())
	assert.Equal(t, 1, pool.config.WorkerCount)

	pool = NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: -5}, nil)
	assert.Equal(t, 1, pool.config.WorkerCount)
}

func TestWorkerPool_ProcessesAllJobsBeforeExit(t *testing.T) {
	queue := NewQueue(50, setupTestLogger())
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 3}, setupTestLogger())

	var processed atomic.Int32
	for i := 0; i < 50; i++ {
		require.NoError(t, queue.Enqueue(NewJobFunc("count", func(context.Context) error {
			processed.Add(1)
			return nil
		})))
	}

	pool.Start()
	pool.Start()
	queue.Close()
	pool.Wait()

	assert.Equal(t, int32(50), processed.Load())
}

func TestWorkerPool_ErrorHandler(t *testing.T) {
	queue := NewQueue(5, setupTestLogger())
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())

	var (
		mu     sync.Mutex
		failed []string
	)
	pool.SetErrorHandler(func(job Job, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, job.Type()+": "+err.Error())
	})

	require.NoError(t, queue.Enqueue(NewJobFunc("ok", func(context.Context) error { return nil })))
	require.NoError(t, queue.Enqueue(NewJobFunc("bad", func(context.Context) error {
		return errors.New("boom")
	})))
	require.NoError(t, queue.Enqueue(NewJobFunc("panics", func(context.Context) error {
		panic("kaboom")
	})))

	pool.Start()
	queue.Close()
	pool.Wait()

	assert.Equal(t, []string{"bad: boom", "panics: job panicked: kaboom"}, failed)
}

func TestWorkerPool_JobTimeout(t *testing.T) {
	queue := NewQueue(1, setupTestLogger())
	pool := NewWorkerPool(queue, WorkerPoolConfig{
		WorkerCount: 1,
		JobTimeout:  20 * time.Millisecond,
	}, setupTestLogger())

	var gotErr error
	pool.SetErrorHandler(func(_ Job, err error) { gotErr = err })

	require.NoError(t, queue.Enqueue(NewJobFunc("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})))

	pool.Start()
	queue.Close()
	pool.Wait()

	assert.ErrorIs(t, gotErr, context.DeadlineExceeded)
}
