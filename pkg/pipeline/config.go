package pipeline

import (
	"os"

	"github.com/BurntSushi/toml"

	mgerrors "github.com/matzehuels/mindgrove/pkg/errors"
)

// FileConfig mirrors Options in a TOML config file. Pointer fields
// distinguish unset from zero so file values overlay the defaults.
type FileConfig struct {
	MaxNodes        *int     `toml:"max_nodes"`
	MaxDepth        *int     `toml:"max_depth"`
	ExcludeExamples *bool    `toml:"exclude_examples"`
	Dedup           *bool    `toml:"dedup"`
	Palette         []string `toml:"palette"`
	MultiPass       *bool    `toml:"multi_pass"`
	ChunkSize       *int     `toml:"chunk_size"`
	ChunkOverlap    *int     `toml:"chunk_overlap"`
	Concurrency     *int     `toml:"concurrency"`
	Model           string   `toml:"model"`
}

// Apply overlays the set fields onto opts.
func (c FileConfig) Apply(opts *Options) {
	if c.MaxNodes != nil {
		opts.MaxNodes = *c.MaxNodes
	}
	if c.MaxDepth != nil {
		opts.MaxDepth = *c.MaxDepth
	}
	if c.ExcludeExamples != nil {
		opts.ExcludeExamples = *c.ExcludeExamples
	}
	if c.Dedup != nil {
		opts.Dedup = *c.Dedup
	}
	if len(c.Palette) > 0 {
		opts.Palette = c.Palette
	}
	if c.MultiPass != nil {
		opts.MultiPass = *c.MultiPass
	}
	if c.ChunkSize != nil {
		opts.ChunkSize = *c.ChunkSize
	}
	if c.ChunkOverlap != nil {
		opts.ChunkOverlap = *c.ChunkOverlap
	}
	if c.Concurrency != nil {
		opts.Concurrency = *c.Concurrency
	}
	if c.Model != "" {
		opts.Model = c.Model
	}
}

// LoadConfig reads a TOML config file and overlays it on the defaults.
// The returned options are already validated.
func LoadConfig(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, mgerrors.Wrap(mgerrors.ErrCodeConfig, err, "read config %s", path)
	}

	var fc FileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return opts, mgerrors.Wrap(mgerrors.ErrCodeConfig, err, "parse config %s", path)
	}

	fc.Apply(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}
