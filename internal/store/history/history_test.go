package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_InsertAndList(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := store.Insert(ctx, PerformanceRecord{
			RunID:          time.Duration(i).String(),
			VersionID:      "model_20250602_120000",
			ModelFamily:    "gradient_boost",
			ValidationMode: "forward_chaining",
			Score:          0.7 + float64(i)/100,
			SampleCount:    120,
			FeatureCount:   13,
			Thresholds:     []float64{0.5, 0.6, 0.7},
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	records, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Newest first.
	assert.Equal(t, 0.72, records[0].Score)
	assert.Equal(t, 0.71, records[1].Score)
	assert.Equal(t, []float64{0.5, 0.6, 0.7}, records[0].Thresholds)
	assert.Equal(t, base.Add(2*time.Minute).UnixMilli(), records[0].CreatedAt.UnixMilli())
}

func TestStore_Validation(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	t.Run("run id required", func(t *testing.T) {
		err := store.Insert(ctx, PerformanceRecord{})
		assert.Error(t, err)
	})

	t.Run("duplicate run id rejected", func(t *testing.T) {
		rec := PerformanceRecord{RunID: "run-1", ModelFamily: "mlp", ValidationMode: "resubstitution"}
		require.NoError(t, store.Insert(ctx, rec))
		assert.Error(t, store.Insert(ctx, rec))
	})

	t.Run("closed store errors", func(t *testing.T) {
		require.NoError(t, store.Close())
		assert.Error(t, store.Insert(ctx, PerformanceRecord{RunID: "run-2"}))
		_, err := store.ListRecent(ctx, 10)
		assert.Error(t, err)
	})
}
