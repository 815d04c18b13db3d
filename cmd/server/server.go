package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

const shutdownGrace = 10 * time.Second

func newHTTPServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}

// startHTTPServer serves router until ctx ends, SIGINT or SIGTERM arrives,
// or the listener fails. It then drains in-flight requests and runs the
// application closers.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	srv := newHTTPServer(app.config.Server.Port, router)
	log := app.logger.With(slog.String("addr", srv.Addr))

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		log.Info("http server listening")
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		listenErr <- err
	}()

	var runErr error
	select {
	case <-sigCtx.Done():
		log.Info("shutdown requested")
	case runErr = <-listenErr:
		if runErr != nil {
			log.Error("http server stopped", slog.String("error", runErr.Error()))
		}
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	shutdownErr := srv.Shutdown(drainCtx)
	app.cleanup()

	if shutdownErr != nil {
		log.Error("graceful shutdown failed", slog.String("error", shutdownErr.Error()))
		return fmt.Errorf("server shutdown failed: %w", shutdownErr)
	}
	log.Info("server stopped")
	return runErr
}
