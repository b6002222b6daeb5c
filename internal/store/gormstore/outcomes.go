package gormstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"signalforge/internal/types"
)

// InsertOutcome appends one realized outcome row. The recorder is expected
// to have validated the row and checked for duplicates already.
func (s *Store) InsertOutcome(ctx context.Context, out types.Outcome) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("gorm store not initialized")
	}
	if out.FeatureID <= 0 {
		return fmt.Errorf("feature_id required")
	}
	model := newOutcomeModel(out)
	return s.db.WithContext(ctx).Create(&model).Error
}

// HasOutcome reports whether an outcome already exists for the feature id.
func (s *Store) HasOutcome(ctx context.Context, featureID int64) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("gorm store not initialized")
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&signalOutcomeModel{}).
		Where("feature_id = ?", featureID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// LabeledRows returns the inner join of snapshots and outcomes, ordered by
// snapshot observation time. The ordering is what forward-chaining
// validation depends on, so it never changes.
func (s *Store) LabeledRows(ctx context.Context) ([]types.LabeledRow, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("gorm store not initialized")
	}
	var snaps []featureSnapshotModel
	err := s.db.WithContext(ctx).
		Joins("JOIN signal_outcomes ON signal_outcomes.feature_id = feature_snapshots.id").
		Order("feature_snapshots.observed_at ASC, feature_snapshots.id ASC").
		Find(&snaps).Error
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(snaps))
	for _, m := range snaps {
		ids = append(ids, m.ID)
	}
	var outs []signalOutcomeModel
	if err := s.db.WithContext(ctx).Where("feature_id IN ?", ids).Find(&outs).Error; err != nil {
		return nil, err
	}
	byFeature := make(map[int64]signalOutcomeModel, len(outs))
	for _, o := range outs {
		// First outcome wins if a duplicate ever slipped in.
		if _, ok := byFeature[o.FeatureID]; !ok {
			byFeature[o.FeatureID] = o
		}
	}
	rows := make([]types.LabeledRow, 0, len(snaps))
	seen := make(map[int64]struct{}, len(snaps))
	for _, m := range snaps {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		o, ok := byFeature[m.ID]
		if !ok {
			continue
		}
		rows = append(rows, types.LabeledRow{
			Snapshot: snapshotModelToRecord(m),
			Outcome:  outcomeModelToRecord(o),
		})
	}
	return rows, nil
}

// --------------------------- Model Helpers ------------------------------

func newOutcomeModel(out types.Outcome) signalOutcomeModel {
	return signalOutcomeModel{
		FeatureID:            out.FeatureID,
		Symbol:               strings.ToUpper(strings.TrimSpace(out.Symbol)),
		SignalType:           string(out.SignalType),
		SignalObservedAtUnix: out.SignalObservedAt.UnixMilli(),
		EntryPrice:           out.EntryPrice,
		ExitPrice:            out.ExitPrice,
		ExitObservedAtUnix:   out.ExitObservedAt.UnixMilli(),
		ReturnPct:            out.ReturnPct,
		Label:                out.Label,
		MaxDrawdownEstimate:  out.MaxDrawdownEstimate,
		CreatedAtUnix:        time.Now().UnixMilli(),
	}
}

func outcomeModelToRecord(m signalOutcomeModel) types.Outcome {
	return types.Outcome{
		FeatureID:           m.FeatureID,
		Symbol:              m.Symbol,
		SignalObservedAt:    time.UnixMilli(m.SignalObservedAtUnix),
		SignalType:          types.SignalType(m.SignalType),
		EntryPrice:          m.EntryPrice,
		ExitPrice:           m.ExitPrice,
		ExitObservedAt:      time.UnixMilli(m.ExitObservedAtUnix),
		ReturnPct:           m.ReturnPct,
		Label:               m.Label,
		MaxDrawdownEstimate: m.MaxDrawdownEstimate,
	}
}
