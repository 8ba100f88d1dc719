package scrape

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gridwatch-pr/luma-etl/internal/extract"
	"github.com/gridwatch-pr/luma-etl/internal/observability"
)

// OutagesJob scrapes the notable-outages table and upserts entries keyed by
// their content-derived ids.
type OutagesJob struct {
	url       string
	fetcher   Fetcher
	upserter  Upserter
	publisher Publisher // nil disables the event sink
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewOutagesJob creates the notable-outages scrape job. Pass a nil
// publisher to disable event publishing.
func NewOutagesJob(url string, fetcher Fetcher, upserter Upserter, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *OutagesJob {
	return &OutagesJob{
		url:       url,
		fetcher:   fetcher,
		upserter:  upserter,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

func (j *OutagesJob) Name() string { return "outages" }

// Run performs one fetch-extract-upsert pass. A page with no outage table
// at all is a failure; per-item update rejections are reported and the pass
// still completes; the next run converges on whatever this one missed.
func (j *OutagesJob) Run(ctx context.Context) error {
	doc, err := j.fetcher.Fetch(ctx, j.url)
	if err != nil {
		return err
	}

	entries, err := extract.Outages(doc)
	if err != nil {
		return fmt.Errorf("extract outages: %w", err)
	}
	j.metrics.RowsExtracted.WithLabelValues(j.Name()).Add(float64(len(entries)))

	report, err := j.upserter.Upsert(ctx, entries)
	if err != nil {
		j.metrics.StoreErrors.WithLabelValues("insert").Inc()
		return fmt.Errorf("upsert outages: %w", err)
	}
	j.metrics.StoreInserts.Add(float64(report.Inserted))
	j.metrics.StoreUpdates.Add(float64(report.Updated))
	j.metrics.StoreErrors.WithLabelValues("update").Add(float64(len(report.Failures)))

	j.logger.Info("outage batch applied",
		"scraped", len(entries),
		"inserted", report.Inserted,
		"updated", report.Updated,
		"update_failures", len(report.Failures),
	)

	if j.publisher != nil && len(entries) > 0 {
		if err := j.publisher.PublishOutages(ctx, entries); err != nil {
			// The store is the system of record; a sink failure is not a
			// failed pass.
			j.logger.Warn("outage event publish failed", "error", err)
		} else {
			j.metrics.EventsPublished.Add(float64(len(entries)))
		}
	}

	return nil
}
