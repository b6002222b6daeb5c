package registry

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"signalforge/internal/logger"
	"signalforge/internal/types"

	"github.com/fsnotify/fsnotify"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"
)

// State says whether a current model could be resolved.
type State int

const (
	StateCurrent State = iota
	// StateUnknown is the explicit sentinel for "no resolvable model":
	// missing registry, corrupt metadata, exhausted fallbacks. It is never
	// an error; serving code picks its own fallback behavior.
	StateUnknown
)

// Resolution is the result of resolving the current pointer.
type Resolution struct {
	State   State
	Version types.ModelVersion
	// Source names the metadata file that answered, for diagnostics.
	Source string
}

// Resolver discovers the current model version. Historical deployments left
// metadata in several formats and locations, so resolution falls through a
// fixed, ordered list before giving up. Results are cached and invalidated
// by watching the registry directory; serving code should compare
// version_id, not restart, to pick up a new model.
type Resolver struct {
	dir string
	sf  singleflight.Group

	mu      sync.RWMutex
	cached  *Resolution
	watcher *fsnotify.Watcher
}

func NewResolver(dir string) *Resolver {
	r := &Resolver{dir: dir}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warnf("registry watcher unavailable, resolving uncached: %v", err)
		return r
	}
	if err := watcher.Add(dir); err != nil {
		// Directory may not exist until the first publish; resolve uncached.
		watcher.Close()
		return r
	}
	r.watcher = watcher
	go r.watch()
	return r
}

func (r *Resolver) watch() {
	for {
		select {
		case _, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			r.invalidate()
		case _, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (r *Resolver) invalidate() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}

// Close stops the directory watcher.
func (r *Resolver) Close() error {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Close()
}

// ResolveCurrent returns the current model version or the Unknown sentinel.
// It never returns an error. Concurrent calls are collapsed into one read.
func (r *Resolver) ResolveCurrent() Resolution {
	if r.watcher != nil {
		r.mu.RLock()
		cached := r.cached
		r.mu.RUnlock()
		if cached != nil {
			return *cached
		}
	}
	v, _, _ := r.sf.Do("current", func() (any, error) {
		res := r.resolve()
		if r.watcher != nil {
			r.mu.Lock()
			r.cached = &res
			r.mu.Unlock()
		}
		return res, nil
	})
	return v.(Resolution)
}

// resolve walks the fallback chain: the current pointer first, then the
// legacy single-metadata location, then the newest versioned sidecar.
func (r *Resolver) resolve() Resolution {
	candidates := []string{
		filepath.Join(r.dir, currentMetadataFile),
		filepath.Join(r.dir, "model_metadata.json"),
	}
	candidates = append(candidates, r.versionedSidecars()...)
	for _, path := range candidates {
		if version, ok := parseMetadata(path); ok {
			return Resolution{State: StateCurrent, Version: version, Source: path}
		}
	}
	return Resolution{State: StateUnknown}
}

// versionedSidecars lists model_*_metadata.json newest first. Version ids
// are time-derived, so lexical order is chronological.
func (r *Resolver) versionedSidecars() []string {
	matches, err := filepath.Glob(filepath.Join(r.dir, "model_*_metadata.json"))
	if err != nil || len(matches) == 0 {
		return nil
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches
}

// parseMetadata reads one sidecar tolerantly: legacy files use different
// key names and may omit fields, so this never hard-fails on shape.
func parseMetadata(path string) (types.ModelVersion, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.ModelVersion{}, false
	}
	if !gjson.ValidBytes(raw) {
		logger.Warnf("registry metadata %s is not valid json, trying next fallback", path)
		return types.ModelVersion{}, false
	}
	doc := gjson.ParseBytes(raw)
	version := firstString(doc, "version", "version_id")
	if version == "" {
		return types.ModelVersion{}, false
	}
	mv := types.ModelVersion{
		VersionID:       version,
		ModelFamily:     firstString(doc, "model_type", "model_family", "family"),
		ValidationScore: firstFloat(doc, "performance", "validation_score", "score"),
		ValidationMode:  firstString(doc, "validation_mode"),
		ArtifactPath:    firstString(doc, "model_path", "artifact_path"),
	}
	if cols := doc.Get("feature_columns"); cols.IsArray() {
		for _, c := range cols.Array() {
			mv.FeatureColumns = append(mv.FeatureColumns, c.String())
		}
	}
	if date := firstString(doc, "training_date", "created_at"); date != "" {
		if t, err := time.Parse(time.RFC3339, date); err == nil {
			mv.CreatedAt = t
		}
	}
	return mv, true
}

func firstString(doc gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := doc.Get(k); v.Exists() {
			return v.String()
		}
	}
	return ""
}

func firstFloat(doc gjson.Result, keys ...string) float64 {
	for _, k := range keys {
		if v := doc.Get(k); v.Exists() {
			return v.Float()
		}
	}
	return 0
}
