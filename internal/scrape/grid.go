package scrape

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gridwatch-pr/luma-etl/internal/extract"
	"github.com/gridwatch-pr/luma-etl/internal/observability"
)

// GridJob scrapes the system-overview dashboard and appends one
// GridSnapshot row per pass.
type GridJob struct {
	url     string
	table   string
	fetcher Fetcher
	store   Inserter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewGridJob creates the grid dashboard scrape job.
func NewGridJob(url, table string, fetcher Fetcher, store Inserter, logger *slog.Logger, metrics *observability.Metrics) *GridJob {
	return &GridJob{
		url:     url,
		table:   table,
		fetcher: fetcher,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

func (j *GridJob) Name() string { return "grid" }

// Run performs one fetch-extract-insert pass. Missing dashboard figures
// degrade to nulls inside the snapshot; fetch, malformed-number, and store
// failures abort the pass.
func (j *GridJob) Run(ctx context.Context) error {
	doc, err := j.fetcher.Fetch(ctx, j.url)
	if err != nil {
		return err
	}

	snap, err := extract.Grid(doc)
	if err != nil {
		return fmt.Errorf("extract grid snapshot: %w", err)
	}
	j.metrics.RowsExtracted.WithLabelValues(j.Name()).Inc()

	if err := j.store.Insert(ctx, j.table, snap); err != nil {
		j.metrics.StoreErrors.WithLabelValues("insert").Inc()
		return fmt.Errorf("insert grid snapshot: %w", err)
	}
	j.metrics.StoreInserts.Inc()

	j.logger.Info("grid snapshot stored",
		"current_demand", intOrNull(snap.CurrentDemand),
		"current_reserve", intOrNull(snap.CurrentReserve),
		"next_hour_forecast", intOrNull(snap.NextHourDemandForecast),
		"timestamp", snap.Timestamp,
	)
	return nil
}

// intOrNull renders a nullable figure for logging.
func intOrNull(v *int) any {
	if v == nil {
		return "null"
	}
	return *v
}
