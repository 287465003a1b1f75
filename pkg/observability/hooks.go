// Package observability provides hooks for metrics, tracing, and logging.
//
// Hooks let the engine emit events about chunk generation, tree
// transformation, and cache operations without a hard dependency on any
// observability backend. Main registers implementations at startup;
// libraries call the accessors, which default to no-ops.
//
// # Usage
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries emit events:
//
//	observability.Engine().OnGenerateStart(ctx, chunkIndex, chunkCount)
//	// ... call the generator ...
//	observability.Engine().OnGenerateComplete(ctx, chunkIndex, recordCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the mind-map engine.
type EngineHooks interface {
	// Generation events, one pair per chunk.
	OnGenerateStart(ctx context.Context, chunkIndex, chunkCount int)
	OnGenerateComplete(ctx context.Context, chunkIndex, recordCount int, duration time.Duration, err error)

	// Merge events, emitted only for multi-chunk requests.
	OnMergeComplete(ctx context.Context, chunkCount, nodeCount int)

	// Transform events, one pair per full pipeline pass.
	OnTransformStart(ctx context.Context, nodeCount int)
	OnTransformComplete(ctx context.Context, nodeCount, removedCount int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnGenerateStart(context.Context, int, int) {}
func (NoopEngineHooks) OnGenerateComplete(context.Context, int, int, time.Duration, error) {
}
func (NoopEngineHooks) OnMergeComplete(context.Context, int, int)                      {}
func (NoopEngineHooks) OnTransformStart(context.Context, int)                          {}
func (NoopEngineHooks) OnTransformComplete(context.Context, int, int, time.Duration)   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// Call once at application startup before running the pipeline.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// Call once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	cacheHooks = NoopCacheHooks{}
}
