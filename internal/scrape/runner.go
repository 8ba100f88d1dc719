package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gridwatch-pr/luma-etl/internal/observability"
)

// Runner executes the configured jobs sequentially, one pass at a time.
// There is no parallelism within a pass and no overlap between passes; each
// run is a linear sequence of fetches and store calls executed to
// completion or abandonment.
type Runner struct {
	jobs     []Job
	interval time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool
}

// NewRunner creates a Runner over the given jobs.
func NewRunner(jobs []Job, interval time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		jobs:     jobs,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once at least one job has completed
// successfully since startup.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no scrape pass has completed yet")
	}
	return nil
}

// RunOnce executes every job in order. A failing job aborts only its own
// remaining writes; the other jobs still run. The joined error reports
// every failure from the pass.
func (r *Runner) RunOnce(ctx context.Context) error {
	var errs []error
	for _, job := range r.jobs {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if err := r.runJob(ctx, job); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Name(), err))
			continue
		}
		r.ready.Store(true)
	}
	return errors.Join(errs...)
}

// Run executes passes until the context is cancelled, waiting the
// configured interval between them.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("runner started", "jobs", len(r.jobs), "interval", r.interval)
	r.metrics.RunnerActive.Set(1)
	defer r.metrics.RunnerActive.Set(0)

	for {
		if err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
			r.logger.Error("scrape pass finished with errors", "error", err)
		}

		if !sleepWithContext(ctx, r.interval) {
			r.logger.Info("runner stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// runJob wraps one job with duration and outcome accounting.
func (r *Runner) runJob(ctx context.Context, job Job) error {
	start := time.Now()
	err := job.Run(ctx)
	r.metrics.ScrapeDuration.WithLabelValues(job.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		r.metrics.ScrapeRuns.WithLabelValues(job.Name(), "error").Inc()
		r.logger.Error("scrape failed", "source", job.Name(), "error", err)
		return err
	}
	r.metrics.ScrapeRuns.WithLabelValues(job.Name(), "success").Inc()
	return nil
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
