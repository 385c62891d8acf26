package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sportops/sportops/config"
	"github.com/sportops/sportops/fetch"
	"github.com/sportops/sportops/health"
	"github.com/sportops/sportops/observe"
	"github.com/sportops/sportops/quota"
	"github.com/sportops/sportops/resilience"
	"github.com/sportops/sportops/sports"
	"github.com/sportops/sportops/tools"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mediation service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if cfg.Upstream.APIKey == "" {
		return errors.New("upstream.api_key is required to serve")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs, err := observe.NewObserver(ctx, cfg.ObserveConfig())
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()
	logger := obs.Logger()

	client, err := sports.NewClient(cfg.ClientConfig())
	if err != nil {
		return err
	}
	limiter := quota.NewLimiter(cfg.LimiterConfig())

	store, closeStore, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	metrics, err := observe.NewMetrics(obs.Meter())
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		IsFailure: func(err error) bool {
			if err == nil {
				return false
			}
			// A quota rejection is the budget working, not upstream
			// sickness.
			_, isQuota := sports.IsQuota(err)
			return !isQuota
		},
	})

	var bulkhead *resilience.Bulkhead
	if cfg.Upstream.MaxConcurrent > 0 {
		bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: cfg.Upstream.MaxConcurrent,
			// Hold the slot request as long as admission would; the
			// budget, not the cap, should be what says no.
			MaxWait: cfg.Quota.MaxWait,
		})
	}

	orch, err := fetch.New(fetch.Config{
		Upstream:     client,
		Limiter:      limiter,
		Store:        store,
		TTL:          cfg.TTLPolicy(),
		DisableCache: !cfg.Cache.Enabled,
		Timeout:      cfg.Upstream.Timeout,
		Bulkhead:     bulkhead,
		Breaker:      breaker,
		Logger:       logger,
		Metrics:      metrics,
	})
	if err != nil {
		return err
	}

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return fmt.Errorf("init middleware: %w", err)
	}
	svc, err := tools.NewService(tools.Config{Fetcher: orch, Middleware: mw})
	if err != nil {
		return err
	}

	agg := health.NewAggregator()
	agg.Register("quota", health.NewQuotaChecker(health.QuotaCheckerConfig{Limiter: limiter}))
	agg.Register("cache", health.NewCacheChecker(store))
	// The upstream checker spends a real request per probe, so it only
	// backs the detailed endpoint, never the readiness loop.

	mux := http.NewServeMux()
	health.RegisterHandlers(mux, agg)
	mux.HandleFunc("/health/upstream", health.SingleCheckHandler(newUpstreamAggregator(client), "upstream"))
	mux.Handle("/metrics", promhttp.Handler())
	registerQueryHandlers(mux, svc)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(ctx, "server starting", observe.Field{Key: "addr", Value: cfg.Server.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info(shutdownCtx, "server stopping")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newUpstreamAggregator(client *sports.Client) *health.Aggregator {
	agg := health.NewAggregator()
	agg.Register("upstream", health.NewUpstreamChecker(client))
	return agg
}
