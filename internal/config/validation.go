package config

import "fmt"

func validate(c *Config) error {
	if err := c.Store.validate(); err != nil {
		return err
	}
	if err := c.Training.validate(); err != nil {
		return err
	}
	return nil
}

func (s *StoreConfig) validate() error {
	if s.RetentionDays < 0 {
		return fmt.Errorf("store.retention_days must be >= 0")
	}
	return nil
}

func (t *TrainingConfig) validate() error {
	if t.FeePct < 0 {
		return fmt.Errorf("training.fee_pct must be >= 0")
	}
	if t.SplitFloor < 2 {
		return fmt.Errorf("training.split_floor must be >= 2")
	}
	if t.FoldsCap < 2 {
		return fmt.Errorf("training.folds_cap must be >= 2")
	}
	if t.MarketOpenHour < 0 || t.MarketOpenHour > 23 {
		return fmt.Errorf("training.market_open_hour out of range")
	}
	if t.MarketCloseHour < 1 || t.MarketCloseHour > 24 {
		return fmt.Errorf("training.market_close_hour out of range")
	}
	if t.MarketCloseHour <= t.MarketOpenHour {
		return fmt.Errorf("training.market_close_hour must be after market_open_hour")
	}
	return nil
}
