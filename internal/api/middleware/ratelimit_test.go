package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/phrazzld/tasklist-api/internal/platform/redis"
	"github.com/stretchr/testify/assert"
)

type fakeLimiter struct {
	result   *redis.Result
	err      error
	resetErr error
	keys     []string
	resets   []string
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*redis.Result, error) {
	f.keys = append(f.keys, key)
	return f.result, f.err
}

func (f *fakeLimiter) Reset(ctx context.Context, key string) error {
	f.resets = append(f.resets, key)
	return f.resetErr
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit(t *testing.T) {
	resetAt := time.Now().Add(30 * time.Second)

	tests := []struct {
		name           string
		limiter        *fakeLimiter
		expectedStatus int
		expectHeaders  bool
		expectRetry    bool
	}{
		{
			name: "allowed",
			limiter: &fakeLimiter{result: &redis.Result{
				Allowed: true, Remaining: 4, Limit: 5, ResetAt: resetAt,
			}},
			expectedStatus: http.StatusOK,
			expectHeaders:  true,
		},
		{
			name: "rejected",
			limiter: &fakeLimiter{result: &redis.Result{
				Allowed: false, Remaining: 0, Limit: 5, ResetAt: resetAt,
			}},
			expectedStatus: http.StatusTooManyRequests,
			expectHeaders:  true,
			expectRetry:    true,
		},
		{
			name:           "limiter error fails open",
			limiter:        &fakeLimiter{err: errors.New("connection refused")},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := RateLimit(tc.limiter, 5, time.Minute)(okHandler())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
			req.RemoteAddr = "203.0.113.9:51234"
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, []string{"/api/v1/auth/login:203.0.113.9"}, tc.limiter.keys)

			if tc.expectHeaders {
				assert.Equal(t, "5", rr.Header().Get("X-RateLimit-Limit"))
				assert.Equal(t, strconv.Itoa(tc.limiter.result.Remaining), rr.Header().Get("X-RateLimit-Remaining"))
				assert.Equal(t, strconv.FormatInt(resetAt.Unix(), 10), rr.Header().Get("X-RateLimit-Reset"))
			} else {
				assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
			}

			if tc.expectRetry {
				retry, err := strconv.Atoi(rr.Header().Get("Retry-After"))
				assert.NoError(t, err)
				assert.InDelta(t, 30, retry, 2)
			} else {
				assert.Empty(t, rr.Header().Get("Retry-After"))
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req.RemoteAddr = "198.51.100.1:8080"
	assert.Equal(t, "198.51.100.1", clientIP(req))

	req.RemoteAddr = "198.51.100.1"
	assert.Equal(t, "198.51.100.1", clientIP(req))
}

func TestResetOnSuccess(t *testing.T) {
	respond := func(status int) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
	}

	tests := []struct {
		name       string
		status     int
		resetErr   error
		wantResets []string
	}{
		{name: "successful login clears window", status: http.StatusOK, wantResets: []string{"/api/v1/auth/login:203.0.113.9"}},
		{name: "reset failure is ignored", status: http.StatusOK, resetErr: errors.New("redis down"), wantResets: []string{"/api/v1/auth/login:203.0.113.9"}},
		{name: "bad credentials keep window", status: http.StatusUnauthorized},
		{name: "server error keeps window", status: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			limiter := &fakeLimiter{resetErr: tc.resetErr}
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
			req.RemoteAddr = "203.0.113.9:51000"
			rr := httptest.NewRecorder()

			ResetOnSuccess(limiter)(respond(tc.status)).ServeHTTP(rr, req)

			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.wantResets, limiter.resets)
		})
	}
}
