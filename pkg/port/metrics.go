package port

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var metricsAddress = flag.String("metrics_address", ":9380",
	"The ip:port to serve prometheus metrics on; empty disables the metrics server.")

const metricsShutdownTimeout = 5 * time.Second

// newMetricsHandler returns the HTTP handler exposing the default prometheus registry on /metrics.
func newMetricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// RunMetricsServer serves prometheus metrics on --metrics_address until `ctx` is cancelled.
func RunMetricsServer(ctx context.Context) error {
	if *metricsAddress == "" {
		slog.Info("Metrics address not specified. Skipping metrics server.")
		return nil
	}

	server := &http.Server{Addr: *metricsAddress, Handler: newMetricsHandler(), ReadHeaderTimeout: time.Second}
	serverErrSignal := make(chan error, 1)
	go func() {
		slog.Info("Serving metrics.", "address", *metricsAddress)
		serverErrSignal <- server.ListenAndServe()
		close(serverErrSignal)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down metrics server: %w", err)
		}
	case err := <-serverErrSignal:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server stopped unexpectedly: %w", err)
		}
	}
	return nil
}
