package feature

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"signalforge/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotStore struct {
	nextID int64
	saved  []types.FeatureSnapshot
}

func (s *fakeSnapshotStore) InsertSnapshot(_ context.Context, snap types.FeatureSnapshot) (int64, error) {
	s.nextID++
	snap.ID = s.nextID
	s.saved = append(s.saved, snap)
	return s.nextID, nil
}

func floatPtr(v float64) *float64 { return &v }

func validInput() SnapshotInput {
	return SnapshotInput{
		Symbol:         "x.ax",
		ObservedAt:     time.Date(2025, 6, 2, 11, 30, 0, 0, time.UTC),
		SentimentScore: floatPtr(0.4),
		Confidence:     floatPtr(0.8),
		NewsCount:      7,
	}
}

func TestCollector_Collect(t *testing.T) {
	ctx := context.Background()

	t.Run("ids strictly increase", func(t *testing.T) {
		store := &fakeSnapshotStore{}
		c := NewCollector(store, nil)
		var last int64
		for i := 0; i < 5; i++ {
			id, err := c.Collect(ctx, validInput())
			require.NoError(t, err)
			assert.Greater(t, id, last)
			last = id
		}
	})

	t.Run("symbol normalized upper", func(t *testing.T) {
		store := &fakeSnapshotStore{}
		c := NewCollector(store, nil)
		_, err := c.Collect(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, "X.AX", store.saved[0].Symbol)
	})

	t.Run("missing required fields rejected", func(t *testing.T) {
		store := &fakeSnapshotStore{}
		c := NewCollector(store, nil)

		in := validInput()
		in.Symbol = "  "
		_, err := c.Collect(ctx, in)
		assert.True(t, types.IsValidation(err))

		in = validInput()
		in.SentimentScore = nil
		_, err = c.Collect(ctx, in)
		assert.True(t, types.IsValidation(err))

		in = validInput()
		in.Confidence = nil
		_, err = c.Collect(ctx, in)
		assert.True(t, types.IsValidation(err))

		in = validInput()
		in.ObservedAt = time.Time{}
		_, err = c.Collect(ctx, in)
		assert.True(t, types.IsValidation(err))

		assert.Empty(t, store.saved)
	})

	t.Run("ranges enforced", func(t *testing.T) {
		store := &fakeSnapshotStore{}
		c := NewCollector(store, nil)

		in := validInput()
		in.SentimentScore = floatPtr(1.5)
		_, err := c.Collect(ctx, in)
		assert.True(t, types.IsValidation(err))

		in = validInput()
		in.Confidence = floatPtr(-0.1)
		_, err = c.Collect(ctx, in)
		assert.True(t, types.IsValidation(err))

		in = validInput()
		in.NewsCount = -1
		_, err = c.Collect(ctx, in)
		assert.True(t, types.IsValidation(err))
	})
}

func writeSchemaFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aux_schemas.yaml")
	content := `aux_schemas:
  "1":
    type: object
    additionalProperties:
      type: number
  "2":
    type: object
    properties:
      short_interest:
        type: number
        minimum: 0
    additionalProperties:
      type: number
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSchemaRegistry(t *testing.T) {
	reg, err := NewSchemaRegistry(writeSchemaFile(t))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, reg.Versions())

	t.Run("valid payload passes", func(t *testing.T) {
		err := reg.Validate(2, map[string]float64{"short_interest": 3.5, "extra": 1})
		assert.NoError(t, err)
	})

	t.Run("constraint violation rejected", func(t *testing.T) {
		err := reg.Validate(2, map[string]float64{"short_interest": -1})
		assert.True(t, types.IsValidation(err))
	})

	t.Run("unknown version accepted", func(t *testing.T) {
		assert.NoError(t, reg.Validate(9, map[string]float64{"anything": 1}))
	})

	t.Run("collector rejects schema violation", func(t *testing.T) {
		store := &fakeSnapshotStore{}
		c := NewCollector(store, reg)
		in := validInput()
		in.SchemaVersion = 2
		in.Auxiliary = map[string]float64{"short_interest": -2}
		_, err := c.Collect(context.Background(), in)
		assert.True(t, types.IsValidation(err))
	})
}
