package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  env: prod
  log_level: warn
store:
  path: /var/lib/signalforge/signals.db
  retention_days: 90
training:
  fee_pct: 0.25
  min_samples: 80
  interval: 6h
  extra_boost: true
  seed: 7
registry:
  dir: /var/lib/signalforge/models
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.App.Env)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "/var/lib/signalforge/signals.db", cfg.Store.Path)
	assert.Equal(t, 90, cfg.Store.RetentionDays)
	assert.Equal(t, 0.25, cfg.Training.FeePct)
	assert.Equal(t, 80, cfg.Training.MinSamples)
	assert.Equal(t, 6*time.Hour, cfg.Training.Interval)
	assert.True(t, cfg.Training.ExtraBoost)
	assert.Equal(t, int64(7), cfg.Training.Seed)
	assert.Equal(t, "/var/lib/signalforge/models", cfg.Registry.Dir)

	// Unset fields fall back to defaults.
	assert.Equal(t, 10, cfg.Training.SplitFloor)
	assert.Equal(t, 5, cfg.Training.FoldsCap)
	assert.Equal(t, 10, cfg.Training.MarketOpenHour)
	assert.Equal(t, 16, cfg.Training.MarketCloseHour)
	assert.Equal(t, "data/history", cfg.Store.HistoryDir)
}

func TestLoadErrors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("negative retention", func(t *testing.T) {
		_, err := Load(writeConfig(t, "store:\n  retention_days: -1\n"))
		assert.ErrorContains(t, err, "retention_days")
	})

	t.Run("inverted market hours", func(t *testing.T) {
		_, err := Load(writeConfig(t, "training:\n  market_open_hour: 18\n  market_close_hour: 9\n"))
		assert.ErrorContains(t, err, "market_close_hour")
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 0.2, cfg.Training.FeePct)
	assert.Equal(t, 50, cfg.Training.MinSamples)
	assert.Equal(t, 24*time.Hour, cfg.Training.Interval)
	assert.Equal(t, int64(42), cfg.Training.Seed)
	assert.Equal(t, "data/models", cfg.Registry.Dir)
	require.NoError(t, validate(cfg))
}
