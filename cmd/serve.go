package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 30 * time.Second

// serve runs srv until SIGINT or SIGTERM, then drains in-flight requests.
// cleanup runs after the listener is closed.
func serve(srv *http.Server, logger *slog.Logger, cleanup func()) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- srv.ListenAndServe()
	}()

	logger.Info("Starting HTTP server", "address", srv.Addr)

	var err error
	select {
	case sig := <-sigChan:
		logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(ctx); shutdownErr != nil {
			logger.Error("Server shutdown error", "error", shutdownErr)
		}
	case err = <-serverErrChan:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}

	if cleanup != nil {
		cleanup()
	}

	logger.Info("Server stopped")
	return err
}
