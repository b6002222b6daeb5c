package outcome

import (
	"context"
	"strings"
	"time"

	"signalforge/internal/logger"
	"signalforge/internal/types"

	"github.com/shopspring/decimal"
)

// Input is what the trading collaborator reports once a position settles.
type Input struct {
	Symbol              string
	SignalObservedAt    time.Time
	SignalType          types.SignalType
	EntryPrice          float64
	ExitPrice           float64
	ExitObservedAt      time.Time
	MaxDrawdownEstimate float64
}

// Store is the slice of storage the recorder needs.
type Store interface {
	GetSnapshot(ctx context.Context, id int64) (types.FeatureSnapshot, bool, error)
	HasOutcome(ctx context.Context, featureID int64) (bool, error)
	InsertOutcome(ctx context.Context, out types.Outcome) error
}

// Recorder attaches realized outcomes to feature snapshots, computing the
// fee-adjusted profitability label.
type Recorder struct {
	store  Store
	feePct decimal.Decimal
}

// NewRecorder builds a recorder with the fixed round-trip fee in percent
// points (e.g. 0.2).
func NewRecorder(store Store, feePct float64) *Recorder {
	return &Recorder{store: store, feePct: decimal.NewFromFloat(feePct)}
}

// Record validates the outcome against its snapshot, derives return_pct and
// the label, and writes exactly one row. Prices must be strictly positive
// and the exit must postdate the signal, which in turn must not predate the
// snapshot; anything else would leak future information into a past feature.
func (r *Recorder) Record(ctx context.Context, featureID int64, in Input) error {
	if featureID <= 0 {
		return types.NewValidationError("feature_id", "must be positive, got %d", featureID)
	}
	if !in.SignalType.Valid() {
		return types.NewValidationError("signal_type", "unknown value %q", string(in.SignalType))
	}
	entry := decimal.NewFromFloat(in.EntryPrice)
	exit := decimal.NewFromFloat(in.ExitPrice)
	if entry.LessThanOrEqual(decimal.Zero) {
		return types.NewValidationError("entry_price", "must be strictly positive, got %v", in.EntryPrice)
	}
	if exit.LessThanOrEqual(decimal.Zero) {
		return types.NewValidationError("exit_price", "must be strictly positive, got %v", in.ExitPrice)
	}
	if in.SignalObservedAt.IsZero() || in.ExitObservedAt.IsZero() {
		return types.NewValidationError("exit_observed_at", "signal and exit timestamps are required")
	}
	if !in.ExitObservedAt.After(in.SignalObservedAt) {
		return types.NewValidationError("exit_observed_at", "must be after signal_observed_at")
	}
	snap, found, err := r.store.GetSnapshot(ctx, featureID)
	if err != nil {
		return err
	}
	if !found {
		return types.NewValidationError("feature_id", "no snapshot with id %d", featureID)
	}
	if in.SignalObservedAt.Before(snap.ObservedAt) {
		return types.NewValidationError("signal_observed_at", "precedes snapshot observation")
	}
	exists, err := r.store.HasOutcome(ctx, featureID)
	if err != nil {
		return err
	}
	if exists {
		return types.NewValidationError("feature_id", "snapshot %d already has an outcome", featureID)
	}

	returnPct, label := Label(entry, exit, r.feePct)
	out := types.Outcome{
		FeatureID:           featureID,
		Symbol:              strings.ToUpper(strings.TrimSpace(in.Symbol)),
		SignalObservedAt:    in.SignalObservedAt,
		SignalType:          in.SignalType,
		EntryPrice:          in.EntryPrice,
		ExitPrice:           in.ExitPrice,
		ExitObservedAt:      in.ExitObservedAt,
		ReturnPct:           returnPct,
		Label:               label,
		MaxDrawdownEstimate: in.MaxDrawdownEstimate,
	}
	if out.Symbol == "" {
		out.Symbol = snap.Symbol
	}
	if err := r.store.InsertOutcome(ctx, out); err != nil {
		return err
	}
	logger.Debugf("recorded outcome feature_id=%d return_pct=%.4f label=%d", featureID, returnPct, label)
	return nil
}

// Label derives the raw percentage return and the profitability label. The
// label is 1 only when the return survives the round-trip fee.
func Label(entry, exit, feePct decimal.Decimal) (returnPct float64, label int) {
	hundred := decimal.NewFromInt(100)
	ret := exit.Sub(entry).Div(entry).Mul(hundred)
	net := ret.Sub(feePct)
	returnPct, _ = ret.Float64()
	if net.GreaterThan(decimal.Zero) {
		label = 1
	}
	return returnPct, label
}
