package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasklist-api/internal/api/shared"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/platform/metrics"
	"github.com/phrazzld/tasklist-api/internal/platform/redis"
)

// Limiter records a request against key and reports whether it is allowed.
// Reset drops everything recorded for key. *redis.Limiter satisfies it.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*redis.Result, error)
	Reset(ctx context.Context, key string) error
}

// RateLimit rejects requests from a client IP that exceed limit requests per
// window with 429. Limiter errors let the request through.
func RateLimit(limiter Limiter, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r)

			res, err := limiter.Allow(r.Context(), key, limit, window)
			if err != nil {
				logger.FromContext(r.Context()).Warn("rate limiter unavailable, allowing request",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				retryAfter := int(time.Until(res.ResetAt).Seconds() + 0.5)
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				metrics.IncrementRateLimited(r.URL.Path)
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Too many requests", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ResetOnSuccess clears the caller's window for the route once the handler
// answers 2xx. On the login route this leaves only failed attempts counted.
// It must run inside RateLimit so the request is recorded first.
func ResetOnSuccess(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if ww.Status() < 200 || ww.Status() > 299 {
				return
			}
			if err := limiter.Reset(r.Context(), rateLimitKey(r)); err != nil {
				logger.FromContext(r.Context()).Warn("failed to reset rate limit",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()))
			}
		})
	}
}

func rateLimitKey(r *http.Request) string {
	return r.URL.Path + ":" + clientIP(r)
}

// clientIP returns the host part of RemoteAddr. chi's RealIP middleware
// rewrites RemoteAddr from proxy headers before this runs.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
