package scrape_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridwatch-pr/luma-etl/internal/observability"
	"github.com/gridwatch-pr/luma-etl/internal/scrape"
)

type fakeJob struct {
	name string
	err  error
	runs atomic.Int32
}

func (j *fakeJob) Name() string { return j.name }

func (j *fakeJob) Run(_ context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestRunnerRunOnce(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	ok := &fakeJob{name: "grid"}
	failing := &fakeJob{name: "outages", err: errors.New("status 403")}
	trailing := &fakeJob{name: "status"}

	r := scrape.NewRunner([]scrape.Job{ok, failing, trailing}, time.Minute, discardLogger(), metrics)

	err := r.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outages")

	// One job failing does not stop the others in the pass.
	assert.Equal(t, int32(1), ok.runs.Load())
	assert.Equal(t, int32(1), failing.runs.Load())
	assert.Equal(t, int32(1), trailing.runs.Load())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ScrapeRuns.WithLabelValues("grid", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ScrapeRuns.WithLabelValues("outages", "error")))
}

func TestRunnerReadiness(t *testing.T) {
	metrics := observability.NewMetricsForTesting()

	t.Run("not ready before any pass", func(t *testing.T) {
		r := scrape.NewRunner(nil, time.Minute, discardLogger(), metrics)
		assert.Error(t, r.CheckReadiness(context.Background()))
	})

	t.Run("ready after a successful job", func(t *testing.T) {
		r := scrape.NewRunner([]scrape.Job{&fakeJob{name: "grid"}}, time.Minute, discardLogger(), metrics)
		_ = r.RunOnce(context.Background())
		assert.NoError(t, r.CheckReadiness(context.Background()))
	})

	t.Run("not ready when every job fails", func(t *testing.T) {
		r := scrape.NewRunner([]scrape.Job{
			&fakeJob{name: "grid", err: errors.New("down")},
		}, time.Minute, discardLogger(), metrics)
		_ = r.RunOnce(context.Background())
		assert.Error(t, r.CheckReadiness(context.Background()))
	})
}

func TestRunnerStopsOnCancel(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	job := &fakeJob{name: "grid"}
	r := scrape.NewRunner([]scrape.Job{job}, time.Hour, discardLogger(), metrics)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// Let the first pass complete, then cancel during the interval wait.
	deadline := time.After(2 * time.Second)
	for job.runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("first pass never ran")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop on cancel")
	}
	assert.Equal(t, int32(1), job.runs.Load())
}
