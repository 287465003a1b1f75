// Package pkg provides the core libraries for Mindgrove mind-map generation.
//
// # Overview
//
// Mindgrove turns long-form educational content into clean, balanced
// mind-map trees ready for client-side rendering. The pkg directory is
// organized into four main areas:
//
//  1. [tree] - The rooted tree arena and its structural invariants
//  2. [tree/transform] - Normalization, merging, pruning, dedup, capping,
//     balancing, coloring
//  3. [generate] - The model-backed generator seam (OpenAI)
//  4. [pipeline] - Orchestration (generate → assemble → transform)
//
// # Architecture
//
// The typical data flow through Mindgrove:
//
//	Content (text, any length)
//	         ↓
//	    [chunk] package (sanitize + split into overlapping windows)
//	         ↓
//	    [generate] package (propose raw node lists per chunk)
//	         ↓
//	    [tree/transform] package (normalize, merge, prune, dedup, cap,
//	                              balance, colorize, locate)
//	         ↓
//	    [treemodel] artifact (JSON, ready for rendering)
//
// # Quick Start
//
// Run the full pipeline over a piece of content:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/mindgrove/pkg/generate"
//	    "github.com/matzehuels/mindgrove/pkg/pipeline"
//	)
//
//	gen, _ := generate.NewOpenAIClient(apiKey, "", nil)
//	runner := pipeline.NewRunner(gen, nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), content, pipeline.DefaultOptions())
//	// result.Model is the artifact, result.Stats the run summary.
//
// Re-process an existing artifact without generating:
//
//	model, _ := treemodel.ReadFile("map.json")
//	result, _ := runner.Process(ctx, model, opts)
//
// # Main Packages
//
// [tree] - Arena-backed rooted tree with iterative subtree removal,
// weight computation, and structural validation.
//
// [tree/transform] - Every structural pass the pipeline runs, each a
// small deterministic function over a tree.
//
// [chunk] - Overlapping character windows with sentence-boundary cuts
// for multi-pass generation over long content.
//
// [generate] - The generator seam: the OpenAI client, tolerant response
// decoding, prompt templates per language, and the degenerate fallback map.
//
// [treemodel] - The JSON artifact format and its loose decoding of raw
// generator output.
//
// [pipeline] - The runner orchestrating chunking, concurrent generation,
// caching, merging, and the transform sequence.
//
// [cache] - Byte caches (file, Redis, null) keyed by content hash plus
// the options that shaped the result.
//
// [store] - Persistence for finished mind maps (memory, MongoDB).
//
// [render] - DOT conversion and Graphviz SVG/PNG rendering of artifacts.
//
// [errors] - Structured error codes shared across the engine.
//
// [observability] - Hook points for instrumenting pipeline stages.
package pkg
