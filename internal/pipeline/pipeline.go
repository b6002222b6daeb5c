package pipeline

import (
	"context"
	"fmt"
	"time"

	"signalforge/internal/dataset"
	"signalforge/internal/logger"
	"signalforge/internal/registry"
	"signalforge/internal/store/history"
	"signalforge/internal/trainer"

	"github.com/google/uuid"
)

// Outcome classifies a pipeline run. Both values are legitimate results,
// not failures.
type Outcome int

const (
	OutcomeTrained Outcome = iota
	OutcomeSkipped
)

// Report summarizes one run.
type Report struct {
	Outcome     Outcome
	RunID       string
	VersionID   string
	Family      string
	Score       float64
	Mode        string
	SampleCount int
}

// HistoryStore records per-run model performance.
type HistoryStore interface {
	Insert(ctx context.Context, rec history.PerformanceRecord) error
}

// Pipeline chains dataset build, training and publication. It runs as a
// periodic single-instance batch job; there is no cancellation inside a run
// beyond context propagation, and retry is the scheduler's problem.
type Pipeline struct {
	builder    *dataset.Builder
	trainer    *trainer.Trainer
	publisher  *registry.Publisher
	history    HistoryStore
	minSamples int
}

func New(builder *dataset.Builder, tr *trainer.Trainer, publisher *registry.Publisher, hist HistoryStore, minSamples int) *Pipeline {
	if minSamples < 1 {
		minSamples = 1
	}
	return &Pipeline{builder: builder, trainer: tr, publisher: publisher, history: hist, minSamples: minSamples}
}

// RunOnce builds the dataset, trains and publishes. An under-floor dataset
// is an expected skip; storage, training and publish failures propagate.
func (p *Pipeline) RunOnce(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	build, err := p.builder.Build(ctx, p.minSamples)
	if err != nil {
		return nil, fmt.Errorf("dataset build: %w", err)
	}
	if build.Status == dataset.StatusInsufficient {
		logger.Infof("run %s skipped: %d joined rows, floor %d", runID, build.SampleCount, build.MinSamples)
		return &Report{Outcome: OutcomeSkipped, RunID: runID, SampleCount: build.SampleCount}, nil
	}

	res, err := p.trainer.Train(ctx, build.Dataset)
	if err != nil {
		return nil, fmt.Errorf("training: %w", err)
	}

	artifact, err := trainer.EncodeArtifact(res)
	if err != nil {
		return nil, fmt.Errorf("encoding artifact: %w", err)
	}
	versionID, err := p.publisher.Publish(ctx, artifact, registry.Metadata{
		ModelType:      res.Family,
		Performance:    res.Score,
		ValidationMode: res.ValidationMode,
		FeatureColumns: res.FeatureColumns,
		SampleCount:    build.SampleCount,
	})
	if err != nil {
		return nil, err
	}

	if p.history != nil {
		rec := history.PerformanceRecord{
			RunID:          runID,
			VersionID:      versionID,
			ModelFamily:    res.Family,
			ValidationMode: res.ValidationMode,
			Score:          res.Score,
			SampleCount:    build.SampleCount,
			FeatureCount:   len(res.FeatureColumns),
			Thresholds:     res.BestThresholds,
			CreatedAt:      time.Now(),
		}
		if err := p.history.Insert(ctx, rec); err != nil {
			// The model is already live; a failed audit row is logged, not fatal.
			logger.Errorf("run %s: recording performance failed: %v", runID, err)
		}
	}
	return &Report{
		Outcome:     OutcomeTrained,
		RunID:       runID,
		VersionID:   versionID,
		Family:      res.Family,
		Score:       res.Score,
		Mode:        res.ValidationMode,
		SampleCount: build.SampleCount,
	}, nil
}
