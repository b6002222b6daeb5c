package trainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardChainingFolds(t *testing.T) {
	t.Run("thirty rows five folds", func(t *testing.T) {
		folds := forwardChainingFolds(30, 5)
		require.Len(t, folds, 5)
		// Validation windows cover the last 25 rows in five blocks.
		assert.Equal(t, fold{TrainEnd: 5, ValStart: 5, ValEnd: 10}, folds[0])
		assert.Equal(t, fold{TrainEnd: 25, ValStart: 25, ValEnd: 30}, folds[4])
	})

	t.Run("validation always after training", func(t *testing.T) {
		for n := 2; n <= 60; n++ {
			for _, f := range forwardChainingFolds(n, 5) {
				assert.GreaterOrEqual(t, f.ValStart, f.TrainEnd)
				assert.Greater(t, f.ValEnd, f.ValStart)
				assert.GreaterOrEqual(t, f.TrainEnd, 1)
				assert.LessOrEqual(t, f.ValEnd, n)
			}
		}
	})

	t.Run("folds capped by n minus one", func(t *testing.T) {
		folds := forwardChainingFolds(4, 5)
		assert.LessOrEqual(t, len(folds), 3)
	})

	t.Run("later folds see more history", func(t *testing.T) {
		folds := forwardChainingFolds(40, 5)
		for i := 1; i < len(folds); i++ {
			assert.Greater(t, folds[i].TrainEnd, folds[i-1].TrainEnd)
		}
	})
}
