package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickwarner/pubreport/internal/api"
	"github.com/patrickwarner/pubreport/internal/config"
	"github.com/patrickwarner/pubreport/internal/lens"
	"github.com/patrickwarner/pubreport/internal/observability"
	"github.com/patrickwarner/pubreport/internal/ratelimit"
	"github.com/patrickwarner/pubreport/internal/report"
	"github.com/patrickwarner/pubreport/internal/session"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := observability.InitLoggerWithService(cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
		}
	}()

	if err := run(logger, cfg); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracing(ctx, logger, cfg.ServiceName, cfg.TempoEndpoint, cfg.TracingSampleRate)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer shutdown()
	}

	sessions, err := session.InitRedisStore(cfg.RedisAddr, cfg.SessionCookie, []byte(cfg.SessionSecret), cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	defer sessions.Close()

	metricsRegistry := observability.NewPrometheusRegistry()

	lensClient := lens.NewClient(cfg.LensAPIURL, cfg.LensTimeout, logger.Named("lens"), metricsRegistry)

	limiter := ratelimit.NewViewerLimiter(ratelimit.Config{
		Capacity:       cfg.RateLimitCapacity,
		RefillInterval: cfg.RateLimitRefillInterval,
		Enabled:        cfg.RateLimitEnabled,
	}, metricsRegistry)

	reports := report.NewService(lensClient, report.DefaultCatalog(), report.ParseReasonPolicy(cfg.ReasonPolicy), limiter, logger, metricsRegistry)

	srvDeps, err := api.NewServer(logger, reports, sessions, metricsRegistry, cfg)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", otelhttp.NewHandler(srvDeps.Router(), "pubreport"))

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("report server running",
		zap.String("addr", addr),
		zap.String("lens_api", cfg.LensAPIURL),
		zap.String("reason_policy", string(reports.Policy())))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
