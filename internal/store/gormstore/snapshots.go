package gormstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"signalforge/internal/types"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InsertSnapshot writes one feature snapshot and returns the generated id.
// Ids are assigned by SQLite's rowid and are strictly increasing.
func (s *Store) InsertSnapshot(ctx context.Context, snap types.FeatureSnapshot) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("gorm store not initialized")
	}
	model := newSnapshotModel(snap)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return 0, err
	}
	return model.ID, nil
}

// GetSnapshot loads one snapshot by id. The second return is false when the
// id does not exist.
func (s *Store) GetSnapshot(ctx context.Context, id int64) (types.FeatureSnapshot, bool, error) {
	if s == nil || s.db == nil {
		return types.FeatureSnapshot{}, false, fmt.Errorf("gorm store not initialized")
	}
	var model featureSnapshotModel
	if err := s.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return types.FeatureSnapshot{}, false, nil
		}
		return types.FeatureSnapshot{}, false, err
	}
	return snapshotModelToRecord(model), true, nil
}

// CountSnapshots returns the total number of stored snapshots.
func (s *Store) CountSnapshots(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("gorm store not initialized")
	}
	var total int64
	if err := s.db.WithContext(ctx).Model(&featureSnapshotModel{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// PruneUnlabeled deletes snapshots observed before the cutoff that never
// received an outcome. Labeled rows are retained regardless of age since
// they are the training set.
func (s *Store) PruneUnlabeled(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("gorm store not initialized")
	}
	res := s.db.WithContext(ctx).
		Where("observed_at < ?", before.UnixMilli()).
		Where("id NOT IN (?)", s.db.Model(&signalOutcomeModel{}).Select("feature_id")).
		Delete(&featureSnapshotModel{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// --------------------------- Model Helpers ------------------------------

func newSnapshotModel(snap types.FeatureSnapshot) featureSnapshotModel {
	now := time.Now()
	aux := snap.Auxiliary
	if aux == nil {
		aux = map[string]float64{}
	}
	auxBytes, _ := json.Marshal(aux)
	return featureSnapshotModel{
		Symbol:          strings.ToUpper(strings.TrimSpace(snap.Symbol)),
		ObservedAtUnix:  snap.ObservedAt.UnixMilli(),
		SentimentScore:  snap.SentimentScore,
		Confidence:      snap.Confidence,
		NewsCount:       snap.NewsCount,
		RedditSentiment: snap.RedditSentiment,
		EventScore:      snap.EventScore,
		TechnicalScore:  snap.TechnicalScore,
		Auxiliary:       datatypes.JSON(auxBytes),
		SchemaVersion:   snap.SchemaVersion,
		CreatedAtUnix:   now.UnixMilli(),
	}
}

func snapshotModelToRecord(m featureSnapshotModel) types.FeatureSnapshot {
	aux := map[string]float64{}
	if len(m.Auxiliary) > 0 {
		_ = json.Unmarshal(m.Auxiliary, &aux)
	}
	return types.FeatureSnapshot{
		ID:              m.ID,
		Symbol:          m.Symbol,
		ObservedAt:      time.UnixMilli(m.ObservedAtUnix),
		SentimentScore:  m.SentimentScore,
		Confidence:      m.Confidence,
		NewsCount:       m.NewsCount,
		RedditSentiment: m.RedditSentiment,
		EventScore:      m.EventScore,
		TechnicalScore:  m.TechnicalScore,
		Auxiliary:       aux,
		SchemaVersion:   m.SchemaVersion,
	}
}
