package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/joshualeeee/GetItDone/config"
	"github.com/joshualeeee/GetItDone/logging"
)

// serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests for up to cfg.ShutdownTimeout.
func serve(ctx context.Context, cfg *config.Config, handler http.Handler, log *logging.SlogLogger) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(log.Slog().Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting server", "addr", cfg.Addr, "env", cfg.AppEnv, "allowed_origins", cfg.AllowedOrigins)
		if !cfg.IsProduction() {
			log.Warn(ctx, "not running in production; settings from .env are in effect")
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
