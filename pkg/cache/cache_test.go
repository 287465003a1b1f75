package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("Get(missing) = ok=%v err=%v, want miss", ok, err)
	}

	if err := c.Set(ctx, "k", []byte("payload"), 0); err != nil {
		t.Fatal(err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get() = ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(data, []byte("payload")) {
		t.Errorf("data = %q", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("entry should be gone after delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key = %v, want nil", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	// Overwrite the entry file with garbage.
	fc := c.(*FileCache)
	if err := os.WriteFile(fc.path("k"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("corrupt entry: ok=%v err=%v, want silent miss", ok, err)
	}
}

func TestFileCachePathLayout(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	fc := c.(*FileCache)

	path := fc.path("some-key")
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		t.Fatal(err)
	}
	if len(filepath.Dir(rel)) != 2 {
		t.Errorf("path %q should shard into a two-character directory", rel)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("null cache should never hit")
	}
}

func TestKeyerDistinguishesOptions(t *testing.T) {
	k := NewDefaultKeyer()
	base := ArtifactKeyOpts{MaxNodes: 120, MaxDepth: 3, Dedup: true}

	same := k.ArtifactKey("hash", base)
	if again := k.ArtifactKey("hash", base); again != same {
		t.Error("identical inputs should key identically")
	}

	changed := base
	changed.MaxNodes = 60
	if k.ArtifactKey("hash", changed) == same {
		t.Error("changed options should change the key")
	}
	if k.ArtifactKey("other", base) == same {
		t.Error("changed content hash should change the key")
	}
}

func TestKeyerNamespaces(t *testing.T) {
	k := NewDefaultKeyer()
	gen := k.GenerationKey("h", GenerationKeyOpts{Model: "m"})
	art := k.ArtifactKey("h", ArtifactKeyOpts{})
	if gen == art {
		t.Error("generation and artifact keys must not collide")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant1:")

	got := scoped.ArtifactKey("h", ArtifactKeyOpts{})
	want := "tenant1:" + inner.ArtifactKey("h", ArtifactKeyOpts{})
	if got != want {
		t.Errorf("scoped key = %q, want %q", got, want)
	}
}
