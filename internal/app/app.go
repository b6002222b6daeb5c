package app

import (
	"context"
	"fmt"
	"time"

	"signalforge/internal/config"
	"signalforge/internal/dataset"
	"signalforge/internal/feature"
	"signalforge/internal/logger"
	"signalforge/internal/outcome"
	"signalforge/internal/pipeline"
	"signalforge/internal/registry"
	"signalforge/internal/store/gormstore"
	"signalforge/internal/store/history"
	"signalforge/internal/trainer"
)

// App wires the stores, collectors and the training pipeline together and
// drives the periodic training schedule.
type App struct {
	cfg       *config.Config
	store     *gormstore.Store
	history   *history.Store
	Collector *feature.Collector
	Recorder  *outcome.Recorder
	Pipeline  *pipeline.Pipeline
	Resolver  *registry.Resolver
}

// NewApp builds the application from config.
func NewApp(cfg *config.Config) (*App, error) {
	store, err := gormstore.NewStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}
	hist, err := history.NewStore(cfg.Store.HistoryDir)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	var schemas *feature.SchemaRegistry
	if cfg.Store.AuxSchemaPath != "" {
		schemas, err = feature.NewSchemaRegistry(cfg.Store.AuxSchemaPath)
		if err != nil {
			store.Close()
			hist.Close()
			return nil, fmt.Errorf("loading aux schemas: %w", err)
		}
	}
	publisher, err := registry.NewPublisher(cfg.Registry.Dir)
	if err != nil {
		store.Close()
		hist.Close()
		return nil, fmt.Errorf("opening model registry: %w", err)
	}

	builder := dataset.NewBuilder(store, cfg.Training.MarketOpenHour, cfg.Training.MarketCloseHour)
	tr := trainer.New(trainer.Options{
		SplitFloor: cfg.Training.SplitFloor,
		FoldsCap:   cfg.Training.FoldsCap,
		ExtraBoost: cfg.Training.ExtraBoost,
		Seed:       cfg.Training.Seed,
	})
	return &App{
		cfg:       cfg,
		store:     store,
		history:   hist,
		Collector: feature.NewCollector(store, schemas),
		Recorder:  outcome.NewRecorder(store, cfg.Training.FeePct),
		Pipeline:  pipeline.New(builder, tr, publisher, hist, cfg.Training.MinSamples),
		Resolver:  registry.NewResolver(cfg.Registry.Dir),
	}, nil
}

// Run blocks, executing one training run per interval plus retention
// pruning, until the context is cancelled. A single immediate run happens
// at startup so a fresh deployment does not wait a full interval.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.cfg.Training.Interval)
	defer ticker.Stop()
	a.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.cycle(ctx)
		}
	}
}

func (a *App) cycle(ctx context.Context) {
	if days := a.cfg.Store.RetentionDays; days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		pruned, err := a.store.PruneUnlabeled(ctx, cutoff)
		if err != nil {
			logger.Errorf("retention prune failed: %v", err)
		} else if pruned > 0 {
			logger.Infof("pruned %d unlabeled snapshots older than %s", pruned, cutoff.Format(time.DateOnly))
		}
	}
	report, err := a.Pipeline.RunOnce(ctx)
	if err != nil {
		logger.Errorf("training run failed: %v", err)
		return
	}
	if report.Outcome == pipeline.OutcomeTrained {
		logger.Infof("training run %s published %s (%s, score=%.4f, mode=%s)",
			report.RunID, report.VersionID, report.Family, report.Score, report.Mode)
	}
}

// Close releases stores and watchers.
func (a *App) Close() error {
	if a.Resolver != nil {
		a.Resolver.Close()
	}
	if a.history != nil {
		a.history.Close()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
