// Package cache provides the byte cache used to avoid re-generating mind
// maps for content the engine has already seen.
//
// Three implementations cover the deployment spectrum: FileCache for the
// CLI, RedisCache for the server, and NullCache to disable caching. Keys
// are derived from content hashes plus the options that shaped the result,
// so changing any pipeline option naturally misses the cache.
package cache

import (
	"context"
	"time"
)

// TTLs per cached item class. Generation results are the expensive part;
// finished artifacts are cheap to rebuild from a cached generation, so
// they expire sooner.
const (
	TTLGeneration = 7 * 24 * time.Hour
	TTLArtifact   = 24 * time.Hour
)

// Cache is a byte store with per-entry TTL.
type Cache interface {
	// Get returns the data and true on a hit. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer derives cache keys for the engine's cacheable stages.
type Keyer interface {
	// GenerationKey keys a generator's raw node list for one chunk.
	GenerationKey(chunkHash string, opts GenerationKeyOpts) string

	// ArtifactKey keys a finished artifact for a whole content request.
	ArtifactKey(contentHash string, opts ArtifactKeyOpts) string
}

// GenerationKeyOpts are the options that shape a generator response.
type GenerationKeyOpts struct {
	Model    string
	Language string
}

// ArtifactKeyOpts are the pipeline options that shape a final artifact.
type ArtifactKeyOpts struct {
	MaxDepth        int
	MaxNodes        int
	ExcludeExamples bool
	Dedup           bool
	MultiPass       bool
	ChunkSize       int
	ChunkOverlap    int
	Palette         []string
}

// DefaultKeyer hashes option structs into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// GenerationKey implements Keyer.
func (DefaultKeyer) GenerationKey(chunkHash string, opts GenerationKeyOpts) string {
	return hashKey("gen", chunkHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(contentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", contentHash, opts)
}

// ScopedKeyer prefixes another keyer's keys, isolating tenants that share
// one cache backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps a keyer with a prefix. A nil inner keyer defaults
// to the standard one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GenerationKey implements Keyer.
func (k *ScopedKeyer) GenerationKey(chunkHash string, opts GenerationKeyOpts) string {
	return k.prefix + k.inner.GenerationKey(chunkHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(contentHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(contentHash, opts)
}
