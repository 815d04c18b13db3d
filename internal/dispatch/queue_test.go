package dispatch

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func noopJob() Job {
	return NewJobFunc("noop", func(context.Context) error { return nil })
}

func TestNewQueue(t *testing.T) {
	queue := NewQueue(10, setupTestLogger())

	assert.Equal(t, 10, cap(queue.jobs))
	assert.False(t, queue.closed)

	queue = NewQueue(0, nil)
	assert.Equal(t, 1, cap(queue.jobs), "non-positive size is raised to 1")
}

func TestQueue_Enqueue(t *testing.T) {
	queue := NewQueue(2, setupTestLogger())

	require.NoError(t, queue.Enqueue(noopJob()))
	require.NoError(t, queue.Enqueue(noopJob()))

	err := queue.Enqueue(noopJob())
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Contains(t, err.Error(), "capacity 2")
}

func TestQueue_Close(t *testing.T) {
	queue := NewQueue(2, setupTestLogger())
	job := noopJob()
	require.NoError(t, queue.Enqueue(job))

	queue.Close()
	queue.Close()

	assert.ErrorIs(t, queue.Enqueue(noopJob()), ErrQueueClosed)

	got, ok := <-queue.Channel()
	require.True(t, ok, "jobs queued before Close remain readable")
	assert.Equal(t, job.ID(), got.ID())

	_, ok = <-queue.Channel()
	assert.False(t, ok)
}

func TestQueue_ConcurrentEnqueueAndClose(t *testing.T) {
	queue := NewQueue(100, setupTestLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = queue.Enqueue(noopJob())
			}
		}()
	}
	queue.Close()
	wg.Wait()

	assert.ErrorIs(t, queue.Enqueue(noopJob()), ErrQueueClosed)
}

func TestJobFunc(t *testing.T) {
	called := false
	job := NewJobFunc("example", func(context.Context) error {
		called = true
		return nil
	})

	assert.Equal(t, "example", job.Type())
	assert.NotEqual(t, NewJobFunc("example", nil).ID(), job.ID())
	require.NoError(t, job.Execute(context.Background()))
	assert.True(t, called)
}
