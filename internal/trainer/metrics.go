package trainer

// thresholdGrid is the fixed sweep over the predicted positive-class
// probability. Per fold the best-precision threshold wins: a false BUY/SELL
// costs capital while a miss only costs opportunity, so precision outranks
// accuracy here.
var thresholdGrid = []float64{0.3, 0.4, 0.5, 0.6, 0.7}

// neutralFoldScore is contributed by degenerate folds where no threshold
// produces a scorable confusion; class imbalance is expected in small early
// datasets and is not an error.
const neutralFoldScore = 0.5

// precisionAt computes precision of probs thresholded at t against truth.
// ok is false when the fold is degenerate at this threshold: no positive
// predictions, or a single-class truth that makes precision meaningless.
func precisionAt(probs []float64, truth []int, t float64) (prec float64, ok bool) {
	if singleClass(truth) {
		return 0, false
	}
	var tp, fp int
	for i, p := range probs {
		if p < t {
			continue
		}
		if truth[i] == 1 {
			tp++
		} else {
			fp++
		}
	}
	if tp+fp == 0 {
		return 0, false
	}
	return float64(tp) / float64(tp+fp), true
}

// sweepThresholds returns the best-precision threshold for one fold, or the
// neutral default when every threshold is degenerate.
func sweepThresholds(probs []float64, truth []int) (score, threshold float64) {
	best, bestT, found := 0.0, 0.5, false
	for _, t := range thresholdGrid {
		prec, ok := precisionAt(probs, truth, t)
		if !ok {
			continue
		}
		if !found || prec > best {
			best, bestT, found = prec, t, true
		}
	}
	if !found {
		return neutralFoldScore, 0.5
	}
	return best, bestT
}

func singleClass(truth []int) bool {
	for i := 1; i < len(truth); i++ {
		if truth[i] != truth[0] {
			return false
		}
	}
	return true
}
