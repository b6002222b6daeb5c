package trainer

import (
	"context"
	"fmt"
	"sync"

	"signalforge/internal/logger"
	"signalforge/internal/types"

	"golang.org/x/sync/errgroup"
)

// Options tune a trainer. Zero values fall back to spec defaults.
type Options struct {
	// SplitFloor is the row count under which validation degrades to a
	// full-fit scored on training predictions.
	SplitFloor int
	// FoldsCap bounds the forward-chaining fold count.
	FoldsCap int
	// ExtraBoost adds the optional deeper gradient-boosted family.
	ExtraBoost bool
	// Seed fixes all model-family randomness.
	Seed int64
}

// Trainer ranks candidate model families over a time-ordered dataset and
// refits the winner on the full set.
type Trainer struct {
	opts Options
}

func New(opts Options) *Trainer {
	if opts.SplitFloor <= 0 {
		opts.SplitFloor = 10
	}
	if opts.FoldsCap <= 0 {
		opts.FoldsCap = 5
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	return &Trainer{opts: opts}
}

// Result is a completed training run: the refitted winner plus how its
// score was obtained.
type Result struct {
	Family         string
	Score          float64
	ValidationMode string
	Folds          int
	BestThresholds []float64
	FeatureColumns []string
	Model          Model
	Scaler         *Scaler
}

// familyScore is the cross-validated outcome for one candidate family.
type familyScore struct {
	family     string
	score      float64
	thresholds []float64
}

// Train evaluates every candidate family and returns the refitted winner.
// Datasets under the split floor take the no-split path: each family is
// fitted once on the full set and scored on its own training predictions,
// which is reported as resubstitution so nobody mistakes it for held-out
// performance.
func (t *Trainer) Train(ctx context.Context, ds *types.Dataset) (*Result, error) {
	n := ds.Len()
	if n == 0 {
		return nil, fmt.Errorf("trainer: empty dataset")
	}
	candidates := candidateSet(t.opts.ExtraBoost)

	mode := types.ValidationForwardChaining
	folds := forwardChainingFolds(n, t.opts.FoldsCap)
	if n < t.opts.SplitFloor {
		mode = types.ValidationResubstitution
		folds = nil
		logger.Infof("training on %d rows: below split floor %d, using resubstitution scoring", n, t.opts.SplitFloor)
	} else {
		logger.Infof("training on %d rows: forward-chaining with %d folds", n, len(folds))
	}

	scores := make([]familyScore, len(candidates))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fs := t.evaluate(ds, cand, folds, mode)
			mu.Lock()
			scores[i] = fs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i].score > scores[best].score {
			best = i
		}
	}
	for _, fs := range scores {
		logger.Infof("family=%s mean_best_precision=%.4f", fs.family, fs.score)
	}

	winner := candidates[best]
	model := winner.build(t.opts.Seed)
	X, scaler := t.prepare(ds.Rows, winner.scaled)
	model.Fit(X, ds.Labels)
	logger.Infof("winner=%s score=%.4f mode=%s", winner.family, scores[best].score, mode)

	return &Result{
		Family:         winner.family,
		Score:          scores[best].score,
		ValidationMode: mode,
		Folds:          len(folds),
		BestThresholds: scores[best].thresholds,
		FeatureColumns: append([]string(nil), ds.Columns...),
		Model:          model,
		Scaler:         scaler,
	}, nil
}

// evaluate scores one family: per-fold best-precision averaged, or the
// resubstitution score when folds is nil.
func (t *Trainer) evaluate(ds *types.Dataset, cand candidate, folds []fold, mode string) familyScore {
	if mode == types.ValidationResubstitution {
		model := cand.build(t.opts.Seed)
		X, _ := t.prepare(ds.Rows, cand.scaled)
		model.Fit(X, ds.Labels)
		probs := predictAll(model, X)
		score, threshold := sweepThresholds(probs, ds.Labels)
		return familyScore{family: cand.family, score: score, thresholds: []float64{threshold}}
	}
	var sum float64
	thresholds := make([]float64, 0, len(folds))
	for _, f := range folds {
		trainX, scaler := t.prepare(ds.Rows[:f.TrainEnd], cand.scaled)
		model := cand.build(t.opts.Seed)
		model.Fit(trainX, ds.Labels[:f.TrainEnd])
		valX := ds.Rows[f.ValStart:f.ValEnd]
		if scaler != nil {
			valX = scaler.Transform(valX)
		}
		probs := predictAll(model, valX)
		score, threshold := sweepThresholds(probs, ds.Labels[f.ValStart:f.ValEnd])
		sum += score
		thresholds = append(thresholds, threshold)
	}
	return familyScore{family: cand.family, score: sum / float64(len(folds)), thresholds: thresholds}
}

// prepare standardizes rows for families that need it; tree families see
// raw features and get a nil scaler.
func (t *Trainer) prepare(rows [][]float64, scaled bool) ([][]float64, *Scaler) {
	if !scaled {
		return rows, nil
	}
	scaler := FitScaler(rows)
	return scaler.Transform(rows), scaler
}

func predictAll(model Model, X [][]float64) []float64 {
	probs := make([]float64, len(X))
	for i, row := range X {
		probs[i] = model.PredictProba(row)
	}
	return probs
}
