package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gridwatch-pr/luma-etl/internal/adapter/events"
	httpadapter "github.com/gridwatch-pr/luma-etl/internal/adapter/http"
	"github.com/gridwatch-pr/luma-etl/internal/config"
	"github.com/gridwatch-pr/luma-etl/internal/extract"
	"github.com/gridwatch-pr/luma-etl/internal/fetch"
	"github.com/gridwatch-pr/luma-etl/internal/observability"
	"github.com/gridwatch-pr/luma-etl/internal/scrape"
	"github.com/gridwatch-pr/luma-etl/internal/store"
)

func main() {
	root := &cobra.Command{
		Use:          "lumaetl",
		Short:        "Scrapes LUMA grid and outage pages into Supabase",
		SilenceUsage: true,
	}
	root.AddCommand(
		oneShotCmd("grid", "Scrape the system overview page once"),
		oneShotCmd("outages", "Scrape the notable outages page once"),
		oneShotCmd("status", "Scrape the regional status page once"),
		serveCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// services holds everything a command needs after wiring.
type services struct {
	cfg       *config.Config
	logger    *slog.Logger
	metrics   *observability.Metrics
	jobs      map[string]scrape.Job
	publisher *events.Publisher
}

func buildServices() (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	static := fetch.NewStatic(cfg.FetchTimeout, logger)
	outagesFetcher := fetch.NewRendered(extract.OutageRowSelector, cfg.RenderTimeout, cfg.RenderSettle, logger)
	statusFetcher := fetch.NewRendered(extract.StatusContainerSelector, cfg.RenderTimeout, cfg.RenderSettle, logger)

	client := store.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, cfg.StoreTimeout, logger)
	coordinator := store.NewCoordinator(cfg.OutagesTable, client, logger)

	var publisher *events.Publisher
	var sink scrape.Publisher
	if cfg.KafkaEnabled {
		publisher = events.NewPublisher(cfg, logger)
		sink = publisher
		logger.Info("outage event sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	snapshots := scrape.NewSnapshotWriter(cfg.SnapshotDir)

	jobs := map[string]scrape.Job{
		"grid":    scrape.NewGridJob(cfg.GridURL, cfg.GridTable, static, client, logger, metrics),
		"outages": scrape.NewOutagesJob(cfg.OutagesURL, outagesFetcher, coordinator, sink, logger, metrics),
		"status":  scrape.NewStatusJob(cfg.StatusURL, cfg.StatusTable, statusFetcher, client, snapshots, logger, metrics),
	}

	return &services{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		jobs:      jobs,
		publisher: publisher,
	}, nil
}

func (s *services) close() {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			s.logger.Error("event sink close error", "error", err)
		}
	}
}

// oneShotCmd runs a single named job and exits, for cron-style scheduling.
func oneShotCmd(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := buildServices()
			if err != nil {
				return err
			}
			defer svc.close()

			return svc.jobs[name].Run(ctx)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run all scrape jobs on an interval with an HTTP health endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildServices()
			if err != nil {
				return err
			}
			defer svc.close()

			runner := scrape.NewRunner(
				[]scrape.Job{svc.jobs["grid"], svc.jobs["outages"], svc.jobs["status"]},
				svc.cfg.ScrapeInterval,
				svc.logger,
				svc.metrics,
			)
			srv := httpadapter.NewServer(svc.cfg.HTTPAddr, runner, svc.logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					svc.logger.Error("http server error", "error", err)
				}
			}()

			if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				svc.logger.Error("runner error", "error", err)
			}

			svc.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), svc.cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				svc.logger.Error("http server shutdown error", "error", err)
			}

			svc.logger.Info("shutdown complete")
			return nil
		},
	}
}
