package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"course-platform/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// APIServer serves route until ctx is cancelled, then drains in-flight
// requests for at most the configured shutdown timeout.
func APIServer(ctx context.Context, route *chi.Mux, config *utils.Config, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.App.Port),
		Handler:           route,
		ReadTimeout:       config.Server.ReadTimeout,
		ReadHeaderTimeout: config.Server.ReadTimeout,
		WriteTimeout:      config.Server.WriteTimeout,
		ErrorLog:          zap.NewStdLog(logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
