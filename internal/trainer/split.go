package trainer

// fold is one forward-chaining split: train on rows [0, TrainEnd), validate
// on [ValStart, ValEnd). The validation window always occurs strictly after
// the training window in time; a shuffled split would let future rows leak
// into earlier training and is never used here.
type fold struct {
	TrainEnd int
	ValStart int
	ValEnd   int
}

// forwardChainingFolds splits n time-ordered rows into at most k folds.
// The validation windows are the last k equal-size blocks; any remainder
// stays in the earliest training chunk.
func forwardChainingFolds(n, k int) []fold {
	if n < 2 {
		return nil
	}
	if k > n-1 {
		k = n - 1
	}
	if k < 1 {
		k = 1
	}
	valSize := n / (k + 1)
	if valSize < 1 {
		valSize = 1
	}
	folds := make([]fold, 0, k)
	for i := 0; i < k; i++ {
		valEnd := n - (k-1-i)*valSize
		valStart := valEnd - valSize
		if valStart < 1 {
			continue
		}
		folds = append(folds, fold{TrainEnd: valStart, ValStart: valStart, ValEnd: valEnd})
	}
	return folds
}
