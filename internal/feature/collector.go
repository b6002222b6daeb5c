package feature

import (
	"context"
	"strings"
	"time"

	"signalforge/internal/logger"
	"signalforge/internal/types"

	"github.com/go-playground/validator/v10"
)

// SnapshotInput is the mapping external signal producers hand the collector.
// Required floats are pointers so a missing field is distinguishable from a
// legitimate zero.
type SnapshotInput struct {
	Symbol          string             `validate:"required"`
	ObservedAt      time.Time          `validate:"required"`
	SentimentScore  *float64           `validate:"required"`
	Confidence      *float64           `validate:"required"`
	NewsCount       int                `validate:"gte=0"`
	RedditSentiment float64            `validate:"-"`
	EventScore      float64            `validate:"-"`
	TechnicalScore  float64            `validate:"-"`
	Auxiliary       map[string]float64 `validate:"-"`
	SchemaVersion   int                `validate:"gte=0"`
}

// SnapshotStore is the slice of storage the collector needs.
type SnapshotStore interface {
	InsertSnapshot(ctx context.Context, snap types.FeatureSnapshot) (int64, error)
}

// Collector validates and persists feature snapshots.
type Collector struct {
	store    SnapshotStore
	schemas  *SchemaRegistry
	validate *validator.Validate
}

// NewCollector builds a collector. schemas may be nil, in which case
// auxiliary payloads are accepted as-is.
func NewCollector(store SnapshotStore, schemas *SchemaRegistry) *Collector {
	return &Collector{
		store:    store,
		schemas:  schemas,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Collect validates the input and writes one snapshot row, returning the
// generated feature id. Validation failures never reach storage; storage
// failures propagate unmodified.
func (c *Collector) Collect(ctx context.Context, in SnapshotInput) (int64, error) {
	if err := c.check(in); err != nil {
		return 0, err
	}
	snap := types.FeatureSnapshot{
		Symbol:          strings.ToUpper(strings.TrimSpace(in.Symbol)),
		ObservedAt:      in.ObservedAt,
		SentimentScore:  *in.SentimentScore,
		Confidence:      *in.Confidence,
		NewsCount:       in.NewsCount,
		RedditSentiment: in.RedditSentiment,
		EventScore:      in.EventScore,
		TechnicalScore:  in.TechnicalScore,
		Auxiliary:       in.Auxiliary,
		SchemaVersion:   in.SchemaVersion,
	}
	id, err := c.store.InsertSnapshot(ctx, snap)
	if err != nil {
		return 0, err
	}
	logger.Debugf("collected snapshot id=%d symbol=%s aux_keys=%d", id, snap.Symbol, len(snap.Auxiliary))
	return id, nil
}

func (c *Collector) check(in SnapshotInput) error {
	if strings.TrimSpace(in.Symbol) == "" {
		return types.NewValidationError("symbol", "required")
	}
	if err := c.validate.Struct(in); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return types.NewValidationError(strings.ToLower(first.Field()), "failed %q constraint", first.Tag())
		}
		return types.NewValidationError("", "%v", err)
	}
	if in.ObservedAt.IsZero() {
		return types.NewValidationError("observed_at", "required")
	}
	if score := *in.SentimentScore; score < -1 || score > 1 {
		return types.NewValidationError("sentiment_score", "must be within [-1, 1], got %v", score)
	}
	if conf := *in.Confidence; conf < 0 || conf > 1 {
		return types.NewValidationError("confidence", "must be within [0, 1], got %v", conf)
	}
	if c.schemas != nil && len(in.Auxiliary) > 0 {
		if err := c.schemas.Validate(in.SchemaVersion, in.Auxiliary); err != nil {
			return err
		}
	}
	return nil
}
