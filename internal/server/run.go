package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"news_podcast/internal/logger"
	"news_podcast/internal/middleware"
)

const shutdownTimeout = 5 * time.Second

// Run serves mux on addr behind the standard middleware chain until ctx is
// cancelled, then shuts down gracefully.
func Run(ctx context.Context, service, addr string, mux http.Handler) error {
	log := logger.Component(service)
	srv := &http.Server{
		Addr:              addr,
		Handler:           middleware.Chain(service, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
