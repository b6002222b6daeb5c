package types

import "time"

// Validation modes reported with a trained model's score.
const (
	ValidationForwardChaining = "forward_chaining"
	// ValidationResubstitution marks a score computed on the model's own
	// training predictions. It is an optimistic estimate used only when the
	// dataset is too small to split, and must never be presented as held-out
	// performance.
	ValidationResubstitution = "resubstitution"
)

// ModelVersion describes one published model. The registry's "current"
// pointer references exactly one of these; superseded versions stay on disk
// for audit and rollback.
type ModelVersion struct {
	VersionID       string
	ModelFamily     string
	FeatureColumns  []string
	ValidationScore float64
	ValidationMode  string
	CreatedAt       time.Time
	ArtifactPath    string
}

// CompatibleWith reports whether every column the model was trained on is
// still present in the given dataset columns. A model trained before a schema
// change may reference columns that no longer exist; serving code must check
// this before loading.
func (m ModelVersion) CompatibleWith(columns []string) bool {
	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[c] = struct{}{}
	}
	for _, c := range m.FeatureColumns {
		if _, ok := have[c]; !ok {
			return false
		}
	}
	return true
}

// Dataset is the training-ready matrix built from the snapshot-outcome join.
// Rows are ordered by snapshot observation time; the order is load-bearing
// for forward-chaining validation.
type Dataset struct {
	Columns    []string
	Rows       [][]float64
	Labels     []int
	ObservedAt []time.Time
}

// Len returns the number of joined rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}
