package config

import "time"

// Config is the root configuration for the feature-outcome store and
// training pipeline.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Store    StoreConfig    `mapstructure:"store"`
	Training TrainingConfig `mapstructure:"training"`
	Registry RegistryConfig `mapstructure:"registry"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	LogPath  string `mapstructure:"log_path"`
}

type StoreConfig struct {
	// Path is the SQLite file holding feature_snapshots and signal_outcomes.
	Path string `mapstructure:"path"`
	// HistoryDir holds the model_performance run-history database.
	HistoryDir string `mapstructure:"history_dir"`
	// RetentionDays prunes unlabeled snapshots older than the window.
	// Zero disables pruning.
	RetentionDays int `mapstructure:"retention_days"`
	// AuxSchemaPath points at the YAML file of versioned auxiliary-feature
	// schemas. Empty disables schema validation.
	AuxSchemaPath string `mapstructure:"aux_schema_path"`
}

type TrainingConfig struct {
	// FeePct is the fixed round-trip cost subtracted from raw return before
	// labeling, in percent points.
	FeePct float64 `mapstructure:"fee_pct"`
	// MinSamples is the training floor; below it a run is an expected skip.
	MinSamples int `mapstructure:"min_samples"`
	// SplitFloor is the row count under which validation degrades to a
	// full-fit, resubstitution-scored run.
	SplitFloor int `mapstructure:"split_floor"`
	// FoldsCap bounds the number of forward-chaining folds.
	FoldsCap int `mapstructure:"folds_cap"`
	// Interval between scheduled training runs.
	Interval time.Duration `mapstructure:"interval"`
	// ExtraBoost enables the additional gradient-boosted candidate family.
	ExtraBoost bool `mapstructure:"extra_boost"`
	// MarketOpenHour/MarketCloseHour bound the is_market_hours feature
	// (local time, close exclusive).
	MarketOpenHour  int `mapstructure:"market_open_hour"`
	MarketCloseHour int `mapstructure:"market_close_hour"`
	// Seed fixes model-family randomness for reproducible runs.
	Seed int64 `mapstructure:"seed"`
}

type RegistryConfig struct {
	// Dir is where model artifacts, metadata sidecars and the current
	// pointer pair live.
	Dir string `mapstructure:"dir"`
}
