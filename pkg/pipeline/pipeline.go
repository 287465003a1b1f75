// Package pipeline provides the core mind-map pipeline for Mindgrove.
//
// This package implements the complete chunk → generate → assemble →
// transform pipeline that can be used by CLI, API, and worker components.
// By centralizing this logic, we ensure consistent behavior across all
// entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Generate: Split content into chunks and produce raw node records per
//     chunk via a Generator
//  2. Assemble: Normalize each chunk's records into a tree and merge the
//     partial trees under a synthetic root
//  3. Transform: Prune, deduplicate, cap, balance, colorize, and locate the
//     merged tree, then emit the serialized artifact
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(generator, cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	result, err := runner.Execute(ctx, content, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	artifact, err := result.Model.Marshal()
//
// Re-run the structural stages over an existing artifact:
//
//	result, err := runner.Process(ctx, model, opts)
package pipeline

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindgrove/pkg/cache"
	mgerrors "github.com/matzehuels/mindgrove/pkg/errors"
	"github.com/matzehuels/mindgrove/pkg/generate"
	"github.com/matzehuels/mindgrove/pkg/tree/transform"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultMaxNodes is the maximum number of nodes kept in the final map.
	DefaultMaxNodes = 120

	// DefaultMaxDepth is the maximum tree depth. Depth counts edges from the
	// root, so 3 keeps root, main branches, and two sublevels.
	DefaultMaxDepth = 3

	// DefaultChunkSize is the chunk window size in runes for multi-pass
	// generation of long content.
	DefaultChunkSize = 1800

	// DefaultChunkOverlap is the overlap between consecutive chunks in runes.
	DefaultChunkOverlap = 250

	// DefaultConcurrency bounds how many chunks are generated at once.
	DefaultConcurrency = 4
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the mind-map pipeline.
// This struct supports JSON serialization for API requests.
//
// The zero value is not usable directly: boolean features default to on,
// so start from DefaultOptions and override fields as needed.
type Options struct {
	// Transform options
	MaxNodes        int      `json:"max_nodes,omitempty"`
	MaxDepth        int      `json:"max_depth,omitempty"` // transform.DepthUnlimited disables
	ExcludeExamples bool     `json:"exclude_examples"`
	Dedup           bool     `json:"dedup"`
	Palette         []string `json:"palette,omitempty"`

	// Generate options
	MultiPass    bool   `json:"multi_pass"`
	ChunkSize    int    `json:"chunk_size,omitempty"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty"`
	Concurrency  int    `json:"concurrency,omitempty"`
	Model        string `json:"model,omitempty"`
	Refresh      bool   `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// DefaultOptions returns Options with all defaults applied.
func DefaultOptions() Options {
	return Options{
		MaxNodes:        DefaultMaxNodes,
		MaxDepth:        DefaultMaxDepth,
		ExcludeExamples: true,
		Dedup:           true,
		Palette:         slices.Clone(transform.DefaultPalette),
		MultiPass:       true,
		ChunkSize:       DefaultChunkSize,
		ChunkOverlap:    DefaultChunkOverlap,
		Concurrency:     DefaultConcurrency,
		Model:           generate.DefaultModel,
	}
}

// ValidateAndSetDefaults checks option consistency and fills in defaults
// for fields whose zero value has no meaning of its own. MaxNodes and
// MaxDepth are taken literally, zero included. Boolean features are left
// as given.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	// MaxNodes and MaxDepth keep the value given: zero is a real limit
	// (root-only depth, empty cap), not an unset field. Their defaults
	// come from DefaultOptions alone.
	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.ChunkOverlap == 0 {
		o.ChunkOverlap = DefaultChunkOverlap
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Model == "" {
		o.Model = generate.DefaultModel
	}
	if o.Palette == nil {
		o.Palette = slices.Clone(transform.DefaultPalette)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if o.MaxNodes < 0 {
		return mgerrors.New(mgerrors.ErrCodeConfig, "max_nodes must not be negative")
	}
	if o.MaxDepth < transform.DepthUnlimited {
		return mgerrors.New(mgerrors.ErrCodeConfig, "max_depth must be -1 (unlimited) or non-negative")
	}
	if len(o.Palette) == 0 {
		return mgerrors.New(mgerrors.ErrCodeConfig, "palette must not be empty")
	}
	if o.ChunkSize < 0 || o.ChunkOverlap < 0 {
		return mgerrors.New(mgerrors.ErrCodeConfig, "chunk_size and chunk_overlap must not be negative")
	}
	if o.ChunkOverlap >= o.ChunkSize {
		return mgerrors.New(mgerrors.ErrCodeConfig, "chunk_overlap must be smaller than chunk_size")
	}

	o.validated = true
	return nil
}

// GenerationKeyOpts returns cache key options for per-chunk generation.
func (o *Options) GenerationKeyOpts(lang transform.Language) cache.GenerationKeyOpts {
	return cache.GenerationKeyOpts{
		Model:    o.Model,
		Language: string(lang),
	}
}

// ArtifactKeyOpts returns cache key options for the final artifact.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		MaxDepth:        o.MaxDepth,
		MaxNodes:        o.MaxNodes,
		ExcludeExamples: o.ExcludeExamples,
		Dedup:           o.Dedup,
		MultiPass:       o.MultiPass,
		ChunkSize:       o.ChunkSize,
		ChunkOverlap:    o.ChunkOverlap,
		Palette:         o.Palette,
	}
}
