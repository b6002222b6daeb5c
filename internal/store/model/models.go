package model

import "gorm.io/datatypes"

// FeatureSnapshotModel maps the feature_snapshots relation. Rows are written
// once by the collector and never updated.
type FeatureSnapshotModel struct {
	ID              int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Symbol          string         `gorm:"column:symbol;index"`
	ObservedAtUnix  int64          `gorm:"column:observed_at;index"`
	SentimentScore  float64        `gorm:"column:sentiment_score"`
	Confidence      float64        `gorm:"column:confidence"`
	NewsCount       int            `gorm:"column:news_count"`
	RedditSentiment float64        `gorm:"column:reddit_sentiment"`
	EventScore      float64        `gorm:"column:event_score"`
	TechnicalScore  float64        `gorm:"column:technical_score"`
	Auxiliary       datatypes.JSON `gorm:"column:auxiliary_features"`
	SchemaVersion   int            `gorm:"column:schema_version"`
	CreatedAtUnix   int64          `gorm:"column:created_at"`
}

func (FeatureSnapshotModel) TableName() string { return "feature_snapshots" }

// SignalOutcomeModel maps the signal_outcomes relation. feature_id is indexed
// but deliberately not unique: at-most-one-outcome is enforced by the
// recorder and by inner-join semantics, and a duplicate insert surfaces as a
// caller bug rather than a silent constraint trip.
type SignalOutcomeModel struct {
	ID                   int64   `gorm:"column:id;primaryKey;autoIncrement"`
	FeatureID            int64   `gorm:"column:feature_id;index"`
	Symbol               string  `gorm:"column:symbol;index"`
	SignalType           string  `gorm:"column:signal_type"`
	SignalObservedAtUnix int64   `gorm:"column:signal_observed_at"`
	EntryPrice           float64 `gorm:"column:entry_price"`
	ExitPrice            float64 `gorm:"column:exit_price"`
	ExitObservedAtUnix   int64   `gorm:"column:exit_observed_at"`
	ReturnPct            float64 `gorm:"column:return_pct"`
	Label                int     `gorm:"column:label"`
	MaxDrawdownEstimate  float64 `gorm:"column:max_drawdown_estimate"`
	CreatedAtUnix        int64   `gorm:"column:created_at"`
}

func (SignalOutcomeModel) TableName() string { return "signal_outcomes" }
