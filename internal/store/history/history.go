package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// PerformanceRecord is one row of the model_performance relation: the
// outcome of a single training run, kept for audit across model versions.
type PerformanceRecord struct {
	RunID          string
	VersionID      string
	ModelFamily    string
	ValidationMode string
	Score          float64
	SampleCount    int
	FeatureCount   int
	Thresholds     []float64
	CreatedAt      time.Time
}

// Store manages the model_performance table in its own SQLite file, away
// from the hot snapshot/outcome write path.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

func NewStore(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("history store root cannot be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(root, "performance.db")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS model_performance (
		run_id TEXT PRIMARY KEY,
		version_id TEXT NOT NULL,
		model_family TEXT NOT NULL,
		validation_mode TEXT NOT NULL,
		score REAL NOT NULL,
		sample_count INTEGER NOT NULL,
		feature_count INTEGER NOT NULL,
		thresholds_json TEXT,
		created_at INTEGER NOT NULL
	);`)
	return err
}

// Insert appends one training-run record.
func (s *Store) Insert(ctx context.Context, rec PerformanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return fmt.Errorf("history store closed")
	}
	if rec.RunID == "" {
		return fmt.Errorf("run_id required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	thresholds, _ := json.Marshal(rec.Thresholds)
	_, err := s.db.ExecContext(ctx, `INSERT INTO model_performance
		(run_id, version_id, model_family, validation_mode, score, sample_count, feature_count, thresholds_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.VersionID, rec.ModelFamily, rec.ValidationMode,
		rec.Score, rec.SampleCount, rec.FeatureCount, string(thresholds), rec.CreatedAt.UnixMilli())
	return err
}

// ListRecent returns the newest runs first, up to limit.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]PerformanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, fmt.Errorf("history store closed")
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT run_id, version_id, model_family, validation_mode,
		score, sample_count, feature_count, thresholds_json, created_at
		FROM model_performance ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PerformanceRecord
	for rows.Next() {
		var rec PerformanceRecord
		var thresholds sql.NullString
		var createdAt int64
		if err := rows.Scan(&rec.RunID, &rec.VersionID, &rec.ModelFamily, &rec.ValidationMode,
			&rec.Score, &rec.SampleCount, &rec.FeatureCount, &thresholds, &createdAt); err != nil {
			return nil, err
		}
		if thresholds.Valid && thresholds.String != "" {
			_ = json.Unmarshal([]byte(thresholds.String), &rec.Thresholds)
		}
		rec.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}
