package feature

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"signalforge/internal/logger"
	"signalforge/internal/types"

	"github.com/fsnotify/fsnotify"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/viper"
)

// SchemaRegistry maps auxiliary-feature schema versions to compiled JSON
// Schemas. The backing YAML file is hot-reloaded, so producers can grow the
// auxiliary schema without a restart.
type SchemaRegistry struct {
	path string
	v    *viper.Viper

	mu       sync.RWMutex
	snapshot registrySnapshot
}

type registrySnapshot struct {
	LoadedAt time.Time
	Schemas  map[int]*jsonschema.Schema
}

type registryFile struct {
	AuxSchemas map[string]map[string]any `mapstructure:"aux_schemas"`
}

// NewSchemaRegistry reads the schema file at path and watches it for updates.
func NewSchemaRegistry(path string) (*SchemaRegistry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("schema registry requires path")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read aux schema config failed: %w", err)
	}
	r := &SchemaRegistry{path: path, v: v}
	if err := r.reload(); err != nil {
		return nil, err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := r.reload(); err != nil {
			logger.Errorf("aux schema reload failed: %v", err)
		}
	})
	v.WatchConfig()
	return r, nil
}

func (r *SchemaRegistry) reload() error {
	var file registryFile
	if err := r.v.Unmarshal(&file); err != nil {
		return fmt.Errorf("parse aux schema config failed: %w", err)
	}
	schemas := make(map[int]*jsonschema.Schema, len(file.AuxSchemas))
	for verStr, raw := range file.AuxSchemas {
		version, err := strconv.Atoi(strings.TrimSpace(verStr))
		if err != nil {
			return fmt.Errorf("aux schema version %q is not an integer", verStr)
		}
		rawJSON, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("aux schema v%d is not serializable: %w", version, err)
		}
		compiled, err := jsonschema.CompileString(fmt.Sprintf("aux-v%d.json", version), string(rawJSON))
		if err != nil {
			return fmt.Errorf("aux schema v%d does not compile: %w", version, err)
		}
		schemas[version] = compiled
	}
	r.mu.Lock()
	r.snapshot = registrySnapshot{LoadedAt: time.Now(), Schemas: schemas}
	r.mu.Unlock()
	logger.Infof("aux schema registry loaded versions=%v", sortedVersions(schemas))
	return nil
}

// Versions lists the known schema versions in ascending order.
func (r *SchemaRegistry) Versions() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedVersions(r.snapshot.Schemas)
}

// Validate checks an auxiliary payload against the schema for its version.
// Unknown versions are accepted: the registry lags new producers during
// rollout, and the dataset builder zero-fills unknown keys anyway.
func (r *SchemaRegistry) Validate(version int, aux map[string]float64) error {
	r.mu.RLock()
	schema := r.snapshot.Schemas[version]
	r.mu.RUnlock()
	if schema == nil {
		return nil
	}
	doc := make(map[string]any, len(aux))
	for k, v := range aux {
		doc[k] = v
	}
	if err := schema.Validate(doc); err != nil {
		return types.NewValidationError("auxiliary_features", "schema v%d rejected payload: %v", version, err)
	}
	return nil
}

func sortedVersions(schemas map[int]*jsonschema.Schema) []int {
	out := make([]int, 0, len(schemas))
	for v := range schemas {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
