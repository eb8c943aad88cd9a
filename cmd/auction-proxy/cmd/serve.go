package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/auction-proxy/internal/alt"
	"github.com/donaldgifford/auction-proxy/internal/api/handlers"
	mw "github.com/donaldgifford/auction-proxy/internal/api/middleware"
	"github.com/donaldgifford/auction-proxy/internal/config"
	"github.com/donaldgifford/auction-proxy/internal/telemetry"
	"github.com/donaldgifford/auction-proxy/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), viper.GetString("config"))
		},
	}
}

func runServe(ctx context.Context, cfgPath string) error {
	// A .env file is optional; it only seeds variables referenced by the config.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("flushing traces", "error", err)
		}
	}()

	e := newServer(cfg, log)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server",
		"addr", addr,
		"endpoints", cfg.Upstream.Endpoints,
		"browser_headers", cfg.Upstream.BrowserHeadersEnabled(),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// newServer wires the upstream client, middleware and routes onto a new Echo
// instance.
func newServer(cfg *config.Config, log *slog.Logger) *echo.Echo {
	client := newAltClient(cfg, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(
		mw.RequestLog(log),
		mw.Recovery(log),
		mw.Metrics(),
		mw.Tracing(cfg.Tracing.ServiceName),
	)

	handlers.RegisterHealthRoutes(e, handlers.NewHealthHandler(client))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, handlers.APIConfig(Version))
	handlers.RegisterAuctionRoutes(api,
		handlers.NewAuctionsHandler(client, logger.Component(log, "api")))

	return e
}

func newAltClient(cfg *config.Config, log *slog.Logger) *alt.Client {
	opts := append(cfg.Upstream.ClientOptions(), alt.WithLogger(logger.Component(log, "alt")))
	return alt.NewClient(cfg.Upstream.Endpoints, opts...)
}
