package pipeline

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"signalforge/internal/dataset"
	"signalforge/internal/feature"
	"signalforge/internal/outcome"
	"signalforge/internal/registry"
	"signalforge/internal/store/gormstore"
	"signalforge/internal/store/history"
	"signalforge/internal/trainer"
	"signalforge/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

// Exercises the whole chain on real storage: collect a snapshot, record its
// outcome, build, train on a single labeled row, publish and resolve.
func TestPipeline_SingleRowEndToEnd(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	store, err := gormstore.NewStore(filepath.Join(root, "signals.db"))
	require.NoError(t, err)
	defer store.Close()
	hist, err := history.NewStore(root)
	require.NoError(t, err)
	defer hist.Close()
	registryDir := filepath.Join(root, "registry")
	publisher, err := registry.NewPublisher(registryDir)
	require.NoError(t, err)

	collector := feature.NewCollector(store, nil)
	recorder := outcome.NewRecorder(store, 0.2)

	t0 := time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)
	featureID, err := collector.Collect(ctx, feature.SnapshotInput{
		Symbol:         "x.ax",
		ObservedAt:     t0,
		SentimentScore: floatPtr(0.6),
		Confidence:     floatPtr(0.8),
		NewsCount:      4,
	})
	require.NoError(t, err)

	err = recorder.Record(ctx, featureID, outcome.Input{
		Symbol:           "X.AX",
		SignalObservedAt: t0,
		SignalType:       types.SignalBuy,
		EntryPrice:       50.00,
		ExitPrice:        51.00,
		ExitObservedAt:   t0.Add(4 * time.Hour),
	})
	require.NoError(t, err)

	rows, err := store.LabeledRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "X.AX", rows[0].Snapshot.Symbol)
	assert.InDelta(t, 2.0, rows[0].Outcome.ReturnPct, 1e-9)
	assert.Equal(t, 1, rows[0].Outcome.Label)

	builder := dataset.NewBuilder(store, 10, 16)
	pipe := New(builder, trainer.New(trainer.Options{}), publisher, hist, 1)

	report, err := pipe.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTrained, report.Outcome)
	assert.NotEmpty(t, report.RunID)
	assert.NotEmpty(t, report.VersionID)
	// A single row cannot be split; training degrades, it does not fail.
	assert.Equal(t, types.ValidationResubstitution, report.Mode)
	assert.Equal(t, 1, report.SampleCount)

	resolver := registry.NewResolver(registryDir)
	defer resolver.Close()
	res := resolver.ResolveCurrent()
	require.Equal(t, registry.StateCurrent, res.State)
	assert.Equal(t, report.VersionID, res.Version.VersionID)
	assert.Equal(t, report.Family, res.Version.ModelFamily)

	records, err := hist.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, report.RunID, records[0].RunID)
	assert.Equal(t, report.VersionID, records[0].VersionID)
}

func TestPipeline_SkipsBelowFloor(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	store, err := gormstore.NewStore(filepath.Join(root, "signals.db"))
	require.NoError(t, err)
	defer store.Close()
	publisher, err := registry.NewPublisher(filepath.Join(root, "registry"))
	require.NoError(t, err)

	pipe := New(dataset.NewBuilder(store, 10, 16), trainer.New(trainer.Options{}), publisher, nil, 50)
	report, err := pipe.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, report.Outcome)
	assert.Equal(t, 0, report.SampleCount)
	assert.Empty(t, report.VersionID)

	// Nothing published on a skip.
	resolver := registry.NewResolver(filepath.Join(root, "registry"))
	defer resolver.Close()
	assert.Equal(t, registry.StateUnknown, resolver.ResolveCurrent().State)
}
