package outcome

import (
	"context"
	"testing"
	"time"

	"signalforge/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	snapshots map[int64]types.FeatureSnapshot
	outcomes  map[int64]types.Outcome
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		snapshots: make(map[int64]types.FeatureSnapshot),
		outcomes:  make(map[int64]types.Outcome),
	}
}

func (s *fakeStore) GetSnapshot(_ context.Context, id int64) (types.FeatureSnapshot, bool, error) {
	snap, ok := s.snapshots[id]
	return snap, ok, nil
}

func (s *fakeStore) HasOutcome(_ context.Context, featureID int64) (bool, error) {
	_, ok := s.outcomes[featureID]
	return ok, nil
}

func (s *fakeStore) InsertOutcome(_ context.Context, out types.Outcome) error {
	s.outcomes[out.FeatureID] = out
	return nil
}

func baseInput(observed time.Time) Input {
	return Input{
		Symbol:           "BTCUSDT",
		SignalObservedAt: observed,
		SignalType:       types.SignalBuy,
		EntryPrice:       100,
		ExitPrice:        105,
		ExitObservedAt:   observed.Add(4 * time.Hour),
	}
}

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()
	observed := time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)

	t.Run("profitable after fees", func(t *testing.T) {
		store := newFakeStore()
		store.snapshots[1] = types.FeatureSnapshot{ID: 1, Symbol: "BTCUSDT", ObservedAt: observed}
		rec := NewRecorder(store, 0.2)

		require.NoError(t, rec.Record(ctx, 1, baseInput(observed)))
		out := store.outcomes[1]
		assert.InDelta(t, 5.0, out.ReturnPct, 1e-9)
		assert.Equal(t, 1, out.Label)
	})

	t.Run("marginal gain eaten by fees", func(t *testing.T) {
		store := newFakeStore()
		store.snapshots[1] = types.FeatureSnapshot{ID: 1, ObservedAt: observed}
		rec := NewRecorder(store, 0.2)

		in := baseInput(observed)
		in.ExitPrice = 100.1
		require.NoError(t, rec.Record(ctx, 1, in))
		out := store.outcomes[1]
		assert.InDelta(t, 0.1, out.ReturnPct, 1e-9)
		assert.Equal(t, 0, out.Label)
	})

	t.Run("rejects non-positive prices", func(t *testing.T) {
		store := newFakeStore()
		store.snapshots[1] = types.FeatureSnapshot{ID: 1, ObservedAt: observed}
		rec := NewRecorder(store, 0.2)

		in := baseInput(observed)
		in.EntryPrice = 0
		err := rec.Record(ctx, 1, in)
		assert.True(t, types.IsValidation(err))

		in = baseInput(observed)
		in.ExitPrice = -3
		err = rec.Record(ctx, 1, in)
		assert.True(t, types.IsValidation(err))
		assert.Empty(t, store.outcomes)
	})

	t.Run("rejects exit not after signal", func(t *testing.T) {
		store := newFakeStore()
		store.snapshots[1] = types.FeatureSnapshot{ID: 1, ObservedAt: observed}
		rec := NewRecorder(store, 0.2)

		in := baseInput(observed)
		in.ExitObservedAt = in.SignalObservedAt
		err := rec.Record(ctx, 1, in)
		assert.True(t, types.IsValidation(err))
	})

	t.Run("rejects signal preceding snapshot", func(t *testing.T) {
		store := newFakeStore()
		store.snapshots[1] = types.FeatureSnapshot{ID: 1, ObservedAt: observed}
		rec := NewRecorder(store, 0.2)

		in := baseInput(observed.Add(-time.Minute))
		err := rec.Record(ctx, 1, in)
		assert.True(t, types.IsValidation(err))
	})

	t.Run("rejects duplicate outcome", func(t *testing.T) {
		store := newFakeStore()
		store.snapshots[1] = types.FeatureSnapshot{ID: 1, ObservedAt: observed}
		rec := NewRecorder(store, 0.2)

		require.NoError(t, rec.Record(ctx, 1, baseInput(observed)))
		err := rec.Record(ctx, 1, baseInput(observed))
		assert.True(t, types.IsValidation(err))
		assert.Len(t, store.outcomes, 1)
	})

	t.Run("rejects unknown feature id", func(t *testing.T) {
		store := newFakeStore()
		rec := NewRecorder(store, 0.2)
		err := rec.Record(ctx, 99, baseInput(observed))
		assert.True(t, types.IsValidation(err))
	})

	t.Run("rejects unknown signal type", func(t *testing.T) {
		store := newFakeStore()
		store.snapshots[1] = types.FeatureSnapshot{ID: 1, ObservedAt: observed}
		rec := NewRecorder(store, 0.2)

		in := baseInput(observed)
		in.SignalType = "LONG"
		err := rec.Record(ctx, 1, in)
		assert.True(t, types.IsValidation(err))
	})
}

func TestLabel(t *testing.T) {
	fee := decimal.NewFromFloat(0.2)

	ret, label := Label(decimal.NewFromInt(100), decimal.NewFromInt(105), fee)
	assert.InDelta(t, 5.0, ret, 1e-9)
	assert.Equal(t, 1, label)

	ret, label = Label(decimal.NewFromInt(100), decimal.NewFromFloat(100.1), fee)
	assert.InDelta(t, 0.1, ret, 1e-9)
	assert.Equal(t, 0, label)

	// Losses stay losses regardless of fee.
	ret, label = Label(decimal.NewFromInt(100), decimal.NewFromInt(90), fee)
	assert.InDelta(t, -10.0, ret, 1e-9)
	assert.Equal(t, 0, label)
}
