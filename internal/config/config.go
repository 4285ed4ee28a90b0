// Package config loads run configuration from YAML, TOML or CUE files.
//
// Every field has a default (Default). A file only needs the fields it
// changes; command-line flags are applied on top by the CLI.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/roach88/complexport/internal/export"
	"github.com/roach88/complexport/internal/flatten"
	"github.com/roach88/complexport/internal/store"
)

//go:embed schema.cue
var schemaCUE string

// Config is the full run configuration.
type Config struct {
	Database string        `yaml:"database" toml:"database" json:"database"`
	Export   ExportConfig  `yaml:"export" toml:"export" json:"export"`
	GAF      GAFConfig     `yaml:"gaf" toml:"gaf" json:"gaf"`
	Cluster  ClusterConfig `yaml:"cluster" toml:"cluster" json:"cluster"`
}

// ExportConfig configures the table export.
type ExportConfig struct {
	ChunkSize int `yaml:"chunk_size" toml:"chunk_size" json:"chunk_size"`
	// Complexes also writes the 18-column <prefix>_complexes.tsv.
	Complexes bool `yaml:"complexes" toml:"complexes" json:"complexes"`
	MaxDepth  int  `yaml:"max_depth" toml:"max_depth" json:"max_depth"`
	// Enrich fills missing UniProtKB identities from the store.
	Enrich bool `yaml:"enrich" toml:"enrich" json:"enrich"`
	// TaxID and Source restrict the exported complexes when set.
	TaxID  int    `yaml:"tax_id" toml:"tax_id" json:"tax_id"`
	Source string `yaml:"source" toml:"source" json:"source"`
}

// GAFConfig configures the GO annotation export.
type GAFConfig struct {
	Version   string `yaml:"version" toml:"version" json:"version"`
	ChunkSize int    `yaml:"chunk_size" toml:"chunk_size" json:"chunk_size"`
}

// ClusterConfig configures the binary-interaction filter.
type ClusterConfig struct {
	ExcludeSelf          bool     `yaml:"exclude_self" toml:"exclude_self" json:"exclude_self"`
	ExcludeSpokeExpanded bool     `yaml:"exclude_spoke_expanded" toml:"exclude_spoke_expanded" json:"exclude_spoke_expanded"`
	Taxa                 []int    `yaml:"taxa" toml:"taxa" json:"taxa"`
	Excluded             []string `yaml:"excluded" toml:"excluded" json:"excluded"`
	MinEvidence          int      `yaml:"min_evidence" toml:"min_evidence" json:"min_evidence"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database: "complexport.db",
		Export: ExportConfig{
			ChunkSize: export.DefaultChunkSize,
			MaxDepth:  flatten.DefaultMaxDepth,
		},
		GAF: GAFConfig{
			Version:   export.GAF22.String(),
			ChunkSize: export.DefaultChunkSize,
		},
		Cluster: ClusterConfig{
			MinEvidence: 1,
		},
	}
}

// Load reads path over the defaults. The format is chosen by extension:
// .yaml/.yml, .toml or .cue. Unknown fields are rejected in every format.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(data, cfg)
	case ".toml":
		err = decodeTOML(data, cfg)
	case ".cue":
		err = decodeCUE(path, data, cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q (want .yaml, .toml or .cue)", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse YAML: %w", err)
	}
	return nil
}

func decodeTOML(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse TOML: %w", err)
	}
	return nil
}

// decodeCUE validates the file against the embedded #Config schema, then
// overlays the resulting concrete value onto cfg.
func decodeCUE(path string, data []byte, cfg *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return fmt.Errorf("parse CUE: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validate CUE: %w", err)
	}

	raw, err := unified.MarshalJSON()
	if err != nil {
		return fmt.Errorf("export CUE: %w", err)
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("decode CUE: %w", err)
	}
	return nil
}

// Validate checks value ranges shared by every format.
func (c *Config) Validate() error {
	if c.Export.ChunkSize <= 0 {
		return fmt.Errorf("export.chunk_size must be positive, got %d", c.Export.ChunkSize)
	}
	if c.Export.MaxDepth < 0 {
		return fmt.Errorf("export.max_depth must not be negative, got %d", c.Export.MaxDepth)
	}
	if c.GAF.ChunkSize <= 0 {
		return fmt.Errorf("gaf.chunk_size must be positive, got %d", c.GAF.ChunkSize)
	}
	if _, err := export.ParseFormatVersion(c.GAF.Version); err != nil {
		return fmt.Errorf("gaf.version: %w", err)
	}
	if c.Cluster.MinEvidence < 1 {
		return fmt.Errorf("cluster.min_evidence must be at least 1, got %d", c.Cluster.MinEvidence)
	}
	for _, t := range c.Cluster.Taxa {
		if t <= 0 {
			return fmt.Errorf("cluster.taxa: invalid taxid %d", t)
		}
	}
	return nil
}

// Query builds the complex selection for the export filters.
func (e ExportConfig) Query() store.Query {
	var preds []store.Query
	if e.TaxID > 0 {
		preds = append(preds, store.Equals{Field: "tax_id", Value: e.TaxID})
	}
	if e.Source != "" {
		preds = append(preds, store.Equals{Field: "source_name", Value: e.Source})
	}
	if len(preds) == 0 {
		return store.All{}
	}
	return store.And{Predicates: preds}
}
