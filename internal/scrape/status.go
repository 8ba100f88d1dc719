package scrape

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gridwatch-pr/luma-etl/internal/domain"
	"github.com/gridwatch-pr/luma-etl/internal/extract"
	"github.com/gridwatch-pr/luma-etl/internal/observability"
)

// StatusJob scrapes the per-region outage-status table, writes the JSON
// side files, and appends a flattened row when the page's recency marker is
// newer than the last stored one.
type StatusJob struct {
	url       string
	table     string
	fetcher   Fetcher
	store     StatusStore
	snapshots *SnapshotWriter
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewStatusJob creates the outage-status scrape job.
func NewStatusJob(url, table string, fetcher Fetcher, store StatusStore, snapshots *SnapshotWriter, logger *slog.Logger, metrics *observability.Metrics) *StatusJob {
	return &StatusJob{
		url:       url,
		table:     table,
		fetcher:   fetcher,
		store:     store,
		snapshots: snapshots,
		logger:    logger,
		metrics:   metrics,
	}
}

func (j *StatusJob) Name() string { return "status" }

// Run performs one fetch-extract-store pass. The side files are written
// unconditionally; the store row only when the snapshot is newer. Staleness
// is decided fail-open, so an unreadable marker inserts rather than drops.
func (j *StatusJob) Run(ctx context.Context) error {
	doc, err := j.fetcher.Fetch(ctx, j.url)
	if err != nil {
		return err
	}

	snap, err := extract.Status(doc)
	if err != nil {
		return fmt.Errorf("extract outage status: %w", err)
	}
	j.metrics.RowsExtracted.WithLabelValues(j.Name()).Add(float64(len(snap.Regions)))

	path, err := j.snapshots.Write(snap)
	if err != nil {
		return fmt.Errorf("write snapshot files: %w", err)
	}
	j.logger.Info("status snapshot captured",
		"regions", len(snap.Regions),
		"last_update", snap.LastUpdate,
		"file", path,
	)

	stored, hasStored, err := j.store.LatestRecencyMarker(ctx, j.table)
	if err != nil {
		j.metrics.StoreErrors.WithLabelValues("select").Inc()
		return fmt.Errorf("fetch stored recency marker: %w", err)
	}

	if !domain.IsNewer(snap.LastUpdate, stored, hasStored) {
		j.metrics.SnapshotsSkippedStale.Inc()
		j.logger.Info("status snapshot not newer, skipping store",
			"scraped_marker", snap.LastUpdate,
			"stored_marker", stored,
		)
		return nil
	}

	if err := j.store.Insert(ctx, j.table, snap.FlattenRow()); err != nil {
		j.metrics.StoreErrors.WithLabelValues("insert").Inc()
		return fmt.Errorf("insert status snapshot: %w", err)
	}
	j.metrics.StoreInserts.Inc()
	j.logger.Info("status snapshot stored", "last_update", snap.LastUpdate)
	return nil
}
