package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter(t *testing.T) {
	l := NewLimiter(nil, "")
	assert.Equal(t, DefaultKeyPrefix, l.keyPrefix)

	l = NewLimiter(nil, "test:")
	assert.Equal(t, "test:", l.keyPrefix)
}

func TestAllowRejectsBadArguments(t *testing.T) {
	l := NewLimiter(nil, "test:")

	_, err := l.Allow(context.Background(), "k", 0, time.Minute)
	assert.Error(t, err)

	_, err = l.Allow(context.Background(), "k", 10, 0)
	assert.Error(t, err)
}

func TestParseResult(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	t.Run("allowed", func(t *testing.T) {
		r, err := parseResult([]int64{1, 9, 0}, now, time.Minute, 10)
		require.NoError(t, err)
		assert.True(t, r.Allowed)
		assert.Equal(t, 9, r.Remaining)
		assert.Equal(t, 10, r.Limit)
		assert.Equal(t, now.Add(time.Minute), r.ResetAt)
	})

	t.Run("rejected uses oldest entry", func(t *testing.T) {
		r, err := parseResult([]int64{0, 0, now.UnixMilli() + 5000}, now, time.Minute, 10)
		require.NoError(t, err)
		assert.False(t, r.Allowed)
		assert.Equal(t, 0, r.Remaining)
		assert.Equal(t, now.Add(5*time.Second).UnixMilli(), r.ResetAt.UnixMilli())
	})

	t.Run("malformed reply", func(t *testing.T) {
		_, err := parseResult([]int64{1}, now, time.Minute, 10)
		assert.Error(t, err)
	})
}

func TestConnectInvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "http://not-redis")
	assert.Error(t, err)
}
