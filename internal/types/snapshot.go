package types

import "time"

// FeatureSnapshot is one point-in-time capture of sentiment and technical
// signals for a symbol. Snapshots are immutable once collected; retention
// pruning is the only thing that removes them.
type FeatureSnapshot struct {
	ID              int64
	Symbol          string
	ObservedAt      time.Time
	SentimentScore  float64
	Confidence      float64
	NewsCount       int
	RedditSentiment float64
	EventScore      float64
	TechnicalScore  float64
	Auxiliary       map[string]float64
	SchemaVersion   int
}

// SignalType classifies the trade signal an outcome settles.
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
	SignalHold SignalType = "HOLD"
)

// Valid reports whether the signal type is one of the known values.
func (s SignalType) Valid() bool {
	switch s {
	case SignalBuy, SignalSell, SignalHold:
		return true
	}
	return false
}

// Outcome is the realized trading result linked back to exactly one snapshot.
// ReturnPct and Label are derived at record time and never recomputed.
type Outcome struct {
	FeatureID           int64
	Symbol              string
	SignalObservedAt    time.Time
	SignalType          SignalType
	EntryPrice          float64
	ExitPrice           float64
	ExitObservedAt      time.Time
	ReturnPct           float64
	Label               int
	MaxDrawdownEstimate float64
}

// LabeledRow is one row of the snapshot-outcome inner join.
type LabeledRow struct {
	Snapshot FeatureSnapshot
	Outcome  Outcome
}
