package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"signalforge/internal/logger"
	"signalforge/internal/types"
)

// Pointer pair and file layout inside the registry dir. One artifact file
// and one metadata sidecar per version id; superseded versions are retained
// for audit and rollback.
const (
	currentModelFile    = "current_model.json"
	currentMetadataFile = "current_metadata.json"
	versionIDFormat     = "model_20060102_150405"
)

// Metadata is the sidecar written next to every artifact.
type Metadata struct {
	Version        string   `json:"version"`
	ModelType      string   `json:"model_type"`
	TrainingDate   string   `json:"training_date"`
	Performance    float64  `json:"performance"`
	ValidationMode string   `json:"validation_mode"`
	FeatureColumns []string `json:"feature_columns"`
	ModelPath      string   `json:"model_path"`
	SampleCount    int      `json:"sample_count"`
}

// Publisher writes model artifacts under versioned names and atomically
// republishes the current pointer.
type Publisher struct {
	dir string
	now func() time.Time

	// writeFile is swappable so tests can fail a specific write stage.
	writeFile func(path string, data []byte) error
}

func NewPublisher(dir string) (*Publisher, error) {
	if dir == "" {
		return nil, fmt.Errorf("registry dir cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Publisher{
		dir: dir,
		now: time.Now,
		writeFile: func(path string, data []byte) error {
			return os.WriteFile(path, data, 0o644)
		},
	}, nil
}

// Publish writes the artifact and metadata sidecar under a fresh
// time-derived version id, then swaps the current pointer. The swap only
// happens after both writes succeed; a partial failure returns a
// PublishError and leaves the previous pointer authoritative. Overlapping
// publishers are last-writer-wins: the newer version simply becomes current.
func (p *Publisher) Publish(ctx context.Context, artifact []byte, meta Metadata) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	versionID := p.nextVersionID()
	artifactPath := filepath.Join(p.dir, versionID+".json")
	metadataPath := filepath.Join(p.dir, versionID+"_metadata.json")

	meta.Version = versionID
	meta.ModelPath = artifactPath
	if meta.TrainingDate == "" {
		meta.TrainingDate = p.now().Format(time.RFC3339)
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", &types.PublishError{Stage: "metadata", Err: err}
	}

	if err := p.writeFile(artifactPath, artifact); err != nil {
		return "", &types.PublishError{Stage: "artifact", Err: err}
	}
	if err := p.writeFile(metadataPath, metaBytes); err != nil {
		return "", &types.PublishError{Stage: "metadata", Err: err}
	}

	// Pointer swap via write-temp-then-rename; rename within one directory
	// is atomic on POSIX, so readers see either the old or the new pointer,
	// never a partial file. The metadata pointer is renamed last and is the
	// authoritative reference.
	if err := p.replace(filepath.Join(p.dir, currentModelFile), artifact); err != nil {
		return "", &types.PublishError{Stage: "pointer", Err: err}
	}
	if err := p.replace(filepath.Join(p.dir, currentMetadataFile), metaBytes); err != nil {
		return "", &types.PublishError{Stage: "pointer", Err: err}
	}
	logger.Infof("published %s family=%s score=%.4f", versionID, meta.ModelType, meta.Performance)
	return versionID, nil
}

func (p *Publisher) replace(target string, data []byte) error {
	tmp := target + ".tmp"
	if err := p.writeFile(tmp, data); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// nextVersionID derives a unique id from the clock, bumping a suffix when
// two publishes land in the same second.
func (p *Publisher) nextVersionID() string {
	base := p.now().Format(versionIDFormat)
	id := base
	for i := 2; ; i++ {
		if _, err := os.Stat(filepath.Join(p.dir, id+".json")); os.IsNotExist(err) {
			return id
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
}

// Dir returns the registry directory.
func (p *Publisher) Dir() string { return p.dir }
