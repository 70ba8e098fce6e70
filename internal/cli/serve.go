package cli

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/concierge/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/concierge/pkg/adapters/mcp"
)

// MCPPath is where the MCP transport is mounted when server.mcp is enabled.
const MCPPath = "/mcp"

// Handler builds the HTTP API for the app, exposing /metrics when metrics are enabled
// and the MCP transport on MCPPath when server.mcp is set.
func (a *App) Handler(logger *slog.Logger) http.Handler {
	opts := []httpAdapter.Option{httpAdapter.WithLogger(logger)}
	if a.Metrics != nil {
		opts = append(opts, httpAdapter.WithMetricsHandler(a.Metrics.Handler()))
	}
	if a.mcp {
		opts = append(opts, httpAdapter.WithMount(MCPPath, a.MCPServer(logger).Handler()))
	}
	return httpAdapter.NewHandler(a.Concierge, opts...)
}

// MCPServer exposes the app's Concierge as MCP tools.
func (a *App) MCPServer(logger *slog.Logger) *mcpAdapter.Server {
	return mcpAdapter.NewServer(a.Concierge, mcpAdapter.WithLogger(logger))
}

// Serve runs the HTTP API on l until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func Serve(ctx context.Context, l net.Listener, handler http.Handler, shutdownTimeout time.Duration, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", l.Addr().String())
		serverErrors <- srv.Serve(l)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		return nil
	}
}
