package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindgrove/pkg/cache"
	"github.com/matzehuels/mindgrove/pkg/chunk"
	"github.com/matzehuels/mindgrove/pkg/generate"
	"github.com/matzehuels/mindgrove/pkg/observability"
	"github.com/matzehuels/mindgrove/pkg/tree"
	"github.com/matzehuels/mindgrove/pkg/tree/transform"
	"github.com/matzehuels/mindgrove/pkg/treemodel"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Generator generate.Generator
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
}

// NewRunner creates a runner with the given generator and cache.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(gen generate.Generator, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Generator: gen,
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Model is the finished artifact in node-data-array form.
	Model treemodel.TreeModel

	// Tree is the finalized tree behind the artifact.
	Tree *tree.Tree

	// Report counts the repairs applied during normalization.
	Report transform.Report

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ChunkCount    int
	RawRecords    int
	NodeCount     int
	RemovedCount  int
	GenerateTime  time.Duration
	TransformTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ArtifactHit    bool // Whether the finished artifact came from cache
	GenerationHits int  // How many chunks came from the generation cache
}

// Execute runs the complete chunk → generate → assemble → transform pipeline
// with caching and returns the finished artifact.
func (r *Runner) Execute(ctx context.Context, content string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	sanitized := chunk.Sanitize(content)
	lang := transform.DetectLanguage(sanitized)
	contentHash := cache.Hash([]byte(sanitized))
	artifactKey := r.Keyer.ArtifactKey(contentHash, opts.ArtifactKeyOpts())

	// Try the finished artifact first (unless refresh requested).
	if !opts.Refresh {
		if result, ok := r.cachedArtifact(ctx, artifactKey); ok {
			return result, nil
		}
	}

	// Stage 1: Generate
	chunks := []string{sanitized}
	if opts.MultiPass {
		chunks = chunk.Split(sanitized, chunk.Options{Size: opts.ChunkSize, Overlap: opts.ChunkOverlap})
	}

	genStart := time.Now()
	results := r.generateChunks(ctx, chunks, lang, opts)

	// Stage 2: Assemble
	var (
		parts    []*tree.Tree
		report   transform.Report
		raw      int
		cacheHit int
	)
	for i, res := range results {
		if res.hit {
			cacheHit++
		}
		if res.err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			opts.Logger.Warn("chunk generation failed, skipping",
				"chunk", i+1, "chunks", len(results), "error", res.err)
			continue
		}
		raw += len(res.records)

		part, rep, err := transform.Normalize(res.records)
		if err != nil {
			if len(results) == 1 {
				return nil, err
			}
			opts.Logger.Warn("chunk produced an invalid tree, skipping",
				"chunk", i+1, "chunks", len(results), "error", err)
			continue
		}
		report = report.Add(rep)
		if part.Len() > 0 {
			parts = append(parts, part)
		}
	}

	if len(parts) == 0 {
		opts.Logger.Warn("no usable generator output, building fallback map")
		part, rep, err := transform.Normalize(generate.Fallback(lang))
		if err != nil {
			return nil, err
		}
		report = report.Add(rep)
		parts = append(parts, part)
	}

	merged := transform.Merge(parts, transform.MergeOptions{
		Label: transform.MergedRootLabel(lang),
		Dedup: opts.Dedup,
	})
	if len(parts) > 1 {
		observability.Engine().OnMergeComplete(ctx, len(parts), merged.Len())
	}
	generateTime := time.Since(genStart)

	opts.Logger.Info("generated nodes",
		"chunks", len(chunks),
		"records", raw,
		"nodes", merged.Len(),
		"duration", generateTime)

	// Stage 3: Transform
	transformStart := time.Now()
	removed := r.transformTree(ctx, merged, lang, opts)
	transformTime := time.Since(transformStart)

	opts.Logger.Info("transformed tree",
		"nodes", merged.Len(),
		"removed", removed,
		"duration", transformTime)

	model := treemodel.FromTree(merged)
	if data, err := treemodel.Marshal(model); err == nil {
		if err := r.Cache.Set(ctx, artifactKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return &Result{
		Model:  model,
		Tree:   merged,
		Report: report,
		Stats: Stats{
			ChunkCount:    len(chunks),
			RawRecords:    raw,
			NodeCount:     merged.Len(),
			RemovedCount:  removed,
			GenerateTime:  generateTime,
			TransformTime: transformTime,
		},
		CacheInfo: CacheInfo{GenerationHits: cacheHit},
	}, nil
}

// Process re-runs the structural stages over an existing artifact.
// The artifact is normalized back into a tree, transformed with the given
// options, and re-serialized. Generation and the cache are not involved.
func (r *Runner) Process(ctx context.Context, model treemodel.TreeModel, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	t, report, err := transform.Normalize(model.Records())
	if err != nil {
		return nil, err
	}
	lang := transform.DetectTreeLanguage(t)

	transformStart := time.Now()
	removed := r.transformTree(ctx, t, lang, opts)
	transformTime := time.Since(transformStart)

	opts.Logger.Info("reprocessed artifact",
		"nodes", t.Len(),
		"removed", removed,
		"duration", transformTime)

	return &Result{
		Model:  treemodel.FromTree(t),
		Tree:   t,
		Report: report,
		Stats: Stats{
			NodeCount:     t.Len(),
			RemovedCount:  removed,
			TransformTime: transformTime,
		},
	}, nil
}

// cachedArtifact tries to serve a finished artifact from the cache.
func (r *Runner) cachedArtifact(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "artifact")
		return nil, false
	}
	model, err := treemodel.Read(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	t, report, err := transform.Normalize(model.Records())
	if err != nil {
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return &Result{
		Model:     model,
		Tree:      t,
		Report:    report,
		Stats:     Stats{NodeCount: t.Len()},
		CacheInfo: CacheInfo{ArtifactHit: true},
	}, true
}

// chunkResult holds the outcome of generating one chunk.
type chunkResult struct {
	records []tree.Record
	hit     bool
	err     error
}

// generateChunks produces raw records for every chunk concurrently.
// Results are indexed by chunk so assembly order matches chunk order.
func (r *Runner) generateChunks(ctx context.Context, chunks []string, lang transform.Language, opts Options) []chunkResult {
	results := make([]chunkResult, len(chunks))
	sem := make(chan struct{}, opts.Concurrency)
	var wg sync.WaitGroup

	for i, c := range chunks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = r.generateOne(ctx, i, len(chunks), c, lang, opts)
		}()
	}
	wg.Wait()

	return results
}

// generateOne produces raw records for a single chunk with caching.
func (r *Runner) generateOne(ctx context.Context, index, total int, content string, lang transform.Language, opts Options) chunkResult {
	key := r.Keyer.GenerationKey(cache.Hash([]byte(content)), opts.GenerationKeyOpts(lang))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var records []tree.Record
			if err := json.Unmarshal(data, &records); err == nil {
				observability.Cache().OnCacheHit(ctx, "generation")
				return chunkResult{records: records, hit: true}
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "generation")

	observability.Engine().OnGenerateStart(ctx, index, total)
	start := time.Now()
	records, err := r.Generator.Generate(ctx, content)
	observability.Engine().OnGenerateComplete(ctx, index, len(records), time.Since(start), err)
	if err != nil {
		return chunkResult{err: err}
	}

	if data, err := json.Marshal(records); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLGeneration); err == nil {
			observability.Cache().OnCacheSet(ctx, "generation", len(data))
		}
	}

	return chunkResult{records: records}
}

// transformTree applies the structural stages in their fixed order.
// Returns the number of nodes removed.
func (r *Runner) transformTree(ctx context.Context, t *tree.Tree, lang transform.Language, opts Options) int {
	before := t.Len()
	observability.Engine().OnTransformStart(ctx, before)
	start := time.Now()

	transform.PruneDepth(t, opts.MaxDepth)
	if opts.ExcludeExamples {
		transform.PruneExamples(t, lang)
	}
	if opts.Dedup {
		transform.Dedup(t)
	}
	transform.Cap(t, opts.MaxNodes)
	transform.Balance(t)
	transform.Colorize(t, opts.Palette)
	transform.Locate(t)

	removed := before - t.Len()
	observability.Engine().OnTransformComplete(ctx, t.Len(), removed, time.Since(start))
	return removed
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
