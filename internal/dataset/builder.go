package dataset

import (
	"context"
	"sort"
	"time"

	"signalforge/internal/logger"
	"signalforge/internal/types"
)

// newsBucketEdges are the fixed edges for the news volume category.
var newsBucketEdges = []int{5, 10, 20}

// baseColumns are the engineered columns every dataset carries, in order.
// Auxiliary columns follow, sorted by key and prefixed "aux_".
var baseColumns = []string{
	"sentiment_score",
	"confidence",
	"news_count",
	"reddit_sentiment",
	"event_score",
	"technical_score",
	"sentiment_confidence_interaction",
	"news_volume_category",
	"hour",
	"day_of_week",
	"is_market_hours",
}

// Status says whether a build produced a trainable dataset.
type Status int

const (
	StatusReady Status = iota
	// StatusInsufficient is an expected, non-fatal skip: the joined row
	// count is below the training floor.
	StatusInsufficient
)

// Result is the outcome of one build. Dataset is nil when Status is
// StatusInsufficient.
type Result struct {
	Status      Status
	Dataset     *types.Dataset
	SampleCount int
	MinSamples  int
}

// JoinStore is the slice of storage the builder needs.
type JoinStore interface {
	LabeledRows(ctx context.Context) ([]types.LabeledRow, error)
}

// Builder turns the snapshot-outcome join into a training-ready matrix.
type Builder struct {
	store      JoinStore
	marketOpen int
	marketEnd  int
}

func NewBuilder(store JoinStore, marketOpenHour, marketCloseHour int) *Builder {
	return &Builder{store: store, marketOpen: marketOpenHour, marketEnd: marketCloseHour}
}

// Build joins snapshots to outcomes and engineers the derived columns.
// Feature engineering is a pure function of each joined row; auxiliary keys
// absent on a given row default to 0 so the schema can grow over time.
func (b *Builder) Build(ctx context.Context, minSamples int) (*Result, error) {
	rows, err := b.store.LabeledRows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) < minSamples {
		logger.Infof("dataset below training floor: joined=%d floor=%d", len(rows), minSamples)
		return &Result{Status: StatusInsufficient, SampleCount: len(rows), MinSamples: minSamples}, nil
	}
	auxKeys := collectAuxKeys(rows)
	columns := make([]string, 0, len(baseColumns)+len(auxKeys))
	columns = append(columns, baseColumns...)
	for _, k := range auxKeys {
		columns = append(columns, "aux_"+k)
	}
	ds := &types.Dataset{
		Columns:    columns,
		Rows:       make([][]float64, 0, len(rows)),
		Labels:     make([]int, 0, len(rows)),
		ObservedAt: make([]time.Time, 0, len(rows)),
	}
	for _, row := range rows {
		ds.Rows = append(ds.Rows, b.engineer(row.Snapshot, auxKeys))
		ds.Labels = append(ds.Labels, row.Outcome.Label)
		ds.ObservedAt = append(ds.ObservedAt, row.Snapshot.ObservedAt)
	}
	return &Result{Status: StatusReady, Dataset: ds, SampleCount: len(rows), MinSamples: minSamples}, nil
}

func (b *Builder) engineer(snap types.FeatureSnapshot, auxKeys []string) []float64 {
	vec := make([]float64, 0, len(baseColumns)+len(auxKeys))
	vec = append(vec,
		snap.SentimentScore,
		snap.Confidence,
		float64(snap.NewsCount),
		snap.RedditSentiment,
		snap.EventScore,
		snap.TechnicalScore,
		snap.SentimentScore*snap.Confidence,
		float64(newsVolumeCategory(snap.NewsCount)),
		float64(snap.ObservedAt.Hour()),
		float64(snap.ObservedAt.Weekday()),
		boolToFloat(b.isMarketHours(snap.ObservedAt)),
	)
	for _, k := range auxKeys {
		vec = append(vec, snap.Auxiliary[k]) // missing key -> 0
	}
	return vec
}

func (b *Builder) isMarketHours(t time.Time) bool {
	h := t.Hour()
	return h >= b.marketOpen && h < b.marketEnd
}

func newsVolumeCategory(count int) int {
	for i, edge := range newsBucketEdges {
		if count < edge {
			return i
		}
	}
	return len(newsBucketEdges)
}

func collectAuxKeys(rows []types.LabeledRow) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for k := range row.Snapshot.Auxiliary {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func boolToFloat(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
