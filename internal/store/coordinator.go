package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gridwatch-pr/luma-etl/internal/domain"
)

// Table is the subset of Client the coordinator needs, split out so tests
// can substitute a fake.
type Table interface {
	Insert(ctx context.Context, table string, rows any) error
	Update(ctx context.Context, table, id string, row any) error
	SelectIDs(ctx context.Context, table string) (map[string]struct{}, error)
}

// ItemFailure records one per-row update that the store rejected.
type ItemFailure struct {
	ID  string
	Err error
}

// UpsertReport summarizes one applied batch. Per-item update failures are
// collected here instead of aborting the batch: the source re-scrapes
// periodically, so a missed update converges on the next run.
type UpsertReport struct {
	Inserted int
	Updated  int
	Failures []ItemFailure
}

// Coordinator partitions outage batches into inserts and updates against
// the ids already present in the store, then applies both sets.
type Coordinator struct {
	table  string
	store  Table
	logger *slog.Logger
}

// NewCoordinator creates an upsert coordinator for the given table.
func NewCoordinator(table string, store Table, logger *slog.Logger) *Coordinator {
	return &Coordinator{table: table, store: store, logger: logger}
}

// Upsert applies a batch: entries with unknown ids are inserted in one
// batched write, entries with known ids are updated individually. The
// insert batch is all-or-nothing; update failures are per-item and reported
// in the result. Rows in the store but absent from the batch are untouched.
func (c *Coordinator) Upsert(ctx context.Context, entries []domain.OutageEntry) (UpsertReport, error) {
	var report UpsertReport
	if len(entries) == 0 {
		return report, nil
	}

	existing, err := c.store.SelectIDs(ctx, c.table)
	if err != nil {
		return report, fmt.Errorf("fetch existing ids: %w", err)
	}

	var inserts, updates []domain.OutageEntry
	for _, e := range entries {
		if _, known := existing[e.ID]; known {
			updates = append(updates, e)
		} else {
			inserts = append(inserts, e)
		}
	}

	if len(inserts) > 0 {
		if err := c.store.Insert(ctx, c.table, inserts); err != nil {
			return report, fmt.Errorf("insert batch: %w", err)
		}
		report.Inserted = len(inserts)
	}

	for _, e := range updates {
		if err := c.store.Update(ctx, c.table, e.ID, e); err != nil {
			c.logger.Warn("outage update failed", "id", e.ID, "error", err)
			report.Failures = append(report.Failures, ItemFailure{ID: e.ID, Err: err})
			continue
		}
		report.Updated++
	}

	return report, nil
}
