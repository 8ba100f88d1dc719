// Package scrape wires fetch → extract → normalize → store into one job per
// source page. A run is a single linear sequence: any unhandled failure
// abandons the rest of that run's writes, and the next trigger starts clean.
package scrape

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/gridwatch-pr/luma-etl/internal/domain"
	"github.com/gridwatch-pr/luma-etl/internal/store"
)

// Job is one complete scrape pass against one source page.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Fetcher retrieves a page and returns its parsed document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Inserter appends rows to a store table.
type Inserter interface {
	Insert(ctx context.Context, table string, rows any) error
}

// StatusStore is the store surface the status job needs: appending the
// flattened row and reading back the latest recency marker.
type StatusStore interface {
	Inserter
	LatestRecencyMarker(ctx context.Context, table string) (marker string, ok bool, err error)
}

// Upserter applies an outage batch as inserts and in-place updates.
type Upserter interface {
	Upsert(ctx context.Context, entries []domain.OutageEntry) (store.UpsertReport, error)
}

// Publisher forwards applied outage entries to the optional event sink.
type Publisher interface {
	PublishOutages(ctx context.Context, entries []domain.OutageEntry) error
}
