package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridwatch-pr/luma-etl/internal/domain"
)

type fakeTable struct {
	ids       map[string]struct{}
	idsErr    error
	insertErr error
	updateErr map[string]error

	inserted []domain.OutageEntry
	updated  []string
}

func (f *fakeTable) Insert(_ context.Context, _ string, rows any) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, rows.([]domain.OutageEntry)...)
	return nil
}

func (f *fakeTable) Update(_ context.Context, _ string, id string, _ any) error {
	if err, ok := f.updateErr[id]; ok {
		return err
	}
	f.updated = append(f.updated, id)
	return nil
}

func (f *fakeTable) SelectIDs(_ context.Context, _ string) (map[string]struct{}, error) {
	return f.ids, f.idsErr
}

func entry(id string) domain.OutageEntry {
	return domain.OutageEntry{ID: id, Municipality: "San Juan", Sector: id}
}

func TestUpsertPartitioning(t *testing.T) {
	table := &fakeTable{ids: map[string]struct{}{"A": {}, "B": {}}}
	c := NewCoordinator("luma_outages", table, discardLogger())

	report, err := c.Upsert(context.Background(), []domain.OutageEntry{entry("A"), entry("C")})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, report.Updated)
	assert.Empty(t, report.Failures)

	require.Len(t, table.inserted, 1)
	assert.Equal(t, "C", table.inserted[0].ID)
	assert.Equal(t, []string{"A"}, table.updated)
	// B exists in the store but is not in the batch: untouched.
	assert.NotContains(t, table.updated, "B")
}

func TestUpsert_EmptyBatch(t *testing.T) {
	table := &fakeTable{ids: map[string]struct{}{"A": {}}}
	c := NewCoordinator("luma_outages", table, discardLogger())

	report, err := c.Upsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, report.Inserted)
	assert.Zero(t, report.Updated)
	assert.Empty(t, table.inserted)
}

func TestUpsert_IDFetchFailureAborts(t *testing.T) {
	table := &fakeTable{idsErr: errors.New("store down")}
	c := NewCoordinator("luma_outages", table, discardLogger())

	_, err := c.Upsert(context.Background(), []domain.OutageEntry{entry("A")})
	require.Error(t, err)
	assert.Empty(t, table.inserted)
	assert.Empty(t, table.updated)
}

func TestUpsert_InsertBatchFailureAborts(t *testing.T) {
	table := &fakeTable{
		ids:       map[string]struct{}{"A": {}},
		insertErr: errors.New("constraint violation"),
	}
	c := NewCoordinator("luma_outages", table, discardLogger())

	_, err := c.Upsert(context.Background(), []domain.OutageEntry{entry("A"), entry("C")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert batch")
	// The rejected insert batch aborts before any updates are attempted.
	assert.Empty(t, table.updated)
}

func TestUpsert_PerItemUpdateFailuresAreCollected(t *testing.T) {
	table := &fakeTable{
		ids:       map[string]struct{}{"A": {}, "B": {}, "D": {}},
		updateErr: map[string]error{"B": errors.New("row locked")},
	}
	c := NewCoordinator("luma_outages", table, discardLogger())

	report, err := c.Upsert(context.Background(), []domain.OutageEntry{entry("A"), entry("B"), entry("D")})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Updated)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "B", report.Failures[0].ID)
	assert.ErrorContains(t, report.Failures[0].Err, "row locked")
	assert.ElementsMatch(t, []string{"A", "D"}, table.updated)
}
