package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load reads the YAML config at path, applies defaults and validates.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a config with every default applied and no file read.
// Used by tests and one-shot commands that point everything at a work dir.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		)
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.App.Env) == "" {
		c.App.Env = "dev"
	}
	if strings.TrimSpace(c.App.LogLevel) == "" {
		c.App.LogLevel = "info"
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		c.Store.Path = "data/signals.db"
	}
	if strings.TrimSpace(c.Store.HistoryDir) == "" {
		c.Store.HistoryDir = "data/history"
	}
	if strings.TrimSpace(c.Registry.Dir) == "" {
		c.Registry.Dir = "data/models"
	}
	if c.Training.FeePct == 0 {
		c.Training.FeePct = 0.2
	}
	if c.Training.MinSamples <= 0 {
		c.Training.MinSamples = 50
	}
	if c.Training.SplitFloor <= 0 {
		c.Training.SplitFloor = 10
	}
	if c.Training.FoldsCap <= 0 {
		c.Training.FoldsCap = 5
	}
	if c.Training.Interval <= 0 {
		c.Training.Interval = 24 * time.Hour
	}
	if c.Training.MarketOpenHour == 0 && c.Training.MarketCloseHour == 0 {
		c.Training.MarketOpenHour = 10
		c.Training.MarketCloseHour = 16
	}
	if c.Training.Seed == 0 {
		c.Training.Seed = 42
	}
}
