package trainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrecisionAt(t *testing.T) {
	probs := []float64{0.9, 0.8, 0.2, 0.7}
	truth := []int{1, 0, 0, 1}

	prec, ok := precisionAt(probs, truth, 0.5)
	assert.True(t, ok)
	assert.InDelta(t, 2.0/3.0, prec, 1e-9) // 0.9, 0.8, 0.7 predicted positive; two are true

	prec, ok = precisionAt(probs, truth, 0.85)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, prec, 1e-9)

	_, ok = precisionAt(probs, truth, 0.95)
	assert.False(t, ok, "no positive predictions")

	_, ok = precisionAt(probs, []int{1, 1, 1, 1}, 0.5)
	assert.False(t, ok, "single-class truth is degenerate")
}

func TestSweepThresholds(t *testing.T) {
	t.Run("picks best precision threshold", func(t *testing.T) {
		probs := []float64{0.9, 0.65, 0.35, 0.72}
		truth := []int{1, 0, 0, 1}
		score, threshold := sweepThresholds(probs, truth)
		assert.InDelta(t, 1.0, score, 1e-9)
		assert.Equal(t, 0.7, threshold)
	})

	t.Run("degenerate fold contributes neutral score", func(t *testing.T) {
		score, threshold := sweepThresholds([]float64{0.9, 0.8}, []int{1, 1})
		assert.Equal(t, neutralFoldScore, score)
		assert.Equal(t, 0.5, threshold)
	})

	t.Run("no positives above any threshold", func(t *testing.T) {
		score, _ := sweepThresholds([]float64{0.1, 0.05, 0.2}, []int{1, 0, 1})
		assert.Equal(t, neutralFoldScore, score)
	})
}
