package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/mindgrove/pkg/cache"
	mgerrors "github.com/matzehuels/mindgrove/pkg/errors"
	"github.com/matzehuels/mindgrove/pkg/generate"
	"github.com/matzehuels/mindgrove/pkg/tree"
	"github.com/matzehuels/mindgrove/pkg/tree/transform"
	"github.com/matzehuels/mindgrove/pkg/treemodel"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.MaxNodes != 120 {
		t.Errorf("MaxNodes = %d, want 120", opts.MaxNodes)
	}
	if opts.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", opts.MaxDepth)
	}
	if !opts.ExcludeExamples || !opts.Dedup || !opts.MultiPass {
		t.Error("boolean features should default to on")
	}
	if opts.ChunkSize != 1800 || opts.ChunkOverlap != 250 {
		t.Errorf("chunk geometry = %d/%d, want 1800/250", opts.ChunkSize, opts.ChunkOverlap)
	}
	if len(opts.Palette) == 0 || opts.Palette[0] != "gold" {
		t.Errorf("Palette = %v, want gold first", opts.Palette)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults", func(o *Options) {}, false},
		{"unlimited depth", func(o *Options) { o.MaxDepth = transform.DepthUnlimited }, false},
		{"negative max nodes", func(o *Options) { o.MaxNodes = -1 }, true},
		{"depth below unlimited", func(o *Options) { o.MaxDepth = -2 }, true},
		{"empty palette", func(o *Options) { o.Palette = []string{} }, true},
		{"overlap equals chunk size", func(o *Options) { o.ChunkOverlap = o.ChunkSize }, true},
		{"negative chunk size", func(o *Options) { o.ChunkSize = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !mgerrors.Is(err, mgerrors.ErrCodeConfig) {
				t.Errorf("error code = %q, want %q", mgerrors.GetCode(err), mgerrors.ErrCodeConfig)
			}
		})
	}
}

func TestValidateFillsZeroValues(t *testing.T) {
	var opts Options
	opts.ExcludeExamples = true
	opts.Dedup = true

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.ChunkSize != DefaultChunkSize || opts.ChunkOverlap != DefaultChunkOverlap {
		t.Errorf("chunk geometry = %d/%d, want defaults", opts.ChunkSize, opts.ChunkOverlap)
	}
	if opts.Model != generate.DefaultModel {
		t.Errorf("Model = %q, want %q", opts.Model, generate.DefaultModel)
	}
	if opts.Logger == nil {
		t.Error("Logger should be defaulted")
	}
}

func TestValidateKeepsZeroLimits(t *testing.T) {
	// Zero is a real limit (root-only depth, empty cap), not an unset
	// field, so validation must not overwrite it with the defaults.
	opts := DefaultOptions()
	opts.MaxDepth = 0
	opts.MaxNodes = 0

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.MaxDepth != 0 {
		t.Errorf("MaxDepth = %d after validation, want 0", opts.MaxDepth)
	}
	if opts.MaxNodes != 0 {
		t.Errorf("MaxNodes = %d after validation, want 0", opts.MaxNodes)
	}
}

// staticGenerator returns the same record list for every chunk and counts
// invocations.
func staticGenerator(calls *atomic.Int64, records []tree.Record) generate.Generator {
	return generate.Func(func(ctx context.Context, content string) ([]tree.Record, error) {
		calls.Add(1)
		return records, nil
	})
}

func sampleRecords() []tree.Record {
	return []tree.Record{
		{Key: 1, Text: "Photosynthesis", Loc: tree.DefaultRootLoc},
		{Key: 2, Parent: 1, HasParent: true, Text: "Light reactions"},
		{Key: 3, Parent: 1, HasParent: true, Text: "Calvin cycle"},
		{Key: 4, Parent: 2, HasParent: true, Text: "Photolysis"},
	}
}

func TestRunnerExecuteSingleChunk(t *testing.T) {
	var calls atomic.Int64
	r := NewRunner(staticGenerator(&calls, sampleRecords()), nil, nil, nil)

	opts := DefaultOptions()
	opts.MultiPass = false

	result, err := r.Execute(context.Background(), "The process plants use to convert light into energy.", opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("generator calls = %d, want 1", calls.Load())
	}
	if result.Stats.NodeCount != 4 {
		t.Errorf("NodeCount = %d, want 4", result.Stats.NodeCount)
	}
	if result.Stats.ChunkCount != 1 {
		t.Errorf("ChunkCount = %d, want 1", result.Stats.ChunkCount)
	}
	if result.CacheInfo.ArtifactHit {
		t.Error("first run should not hit the artifact cache")
	}

	root, ok := result.Tree.Root()
	if !ok {
		t.Fatal("result tree has no root")
	}
	if root.Text != "Photosynthesis" {
		t.Errorf("root text = %q, want Photosynthesis", root.Text)
	}
	if root.Brush != "gold" {
		t.Errorf("root brush = %q, want gold", root.Brush)
	}
	if root.Loc != tree.DefaultRootLoc {
		t.Errorf("root loc = %q, want %q", root.Loc, tree.DefaultRootLoc)
	}
	if result.Model.Class != treemodel.ModelClass {
		t.Errorf("model class = %q, want %q", result.Model.Class, treemodel.ModelClass)
	}
}

func TestRunnerExecuteMultiPass(t *testing.T) {
	var calls atomic.Int64
	gen := generate.Func(func(ctx context.Context, content string) ([]tree.Record, error) {
		n := calls.Add(1)
		return []tree.Record{
			{Key: 1, Text: strings.Repeat("Part ", int(n)) + "overview"},
			{Key: 2, Parent: 1, HasParent: true, Text: "Detail"},
		}, nil
	})
	r := NewRunner(gen, nil, nil, nil)

	opts := DefaultOptions()
	opts.ChunkSize = 40
	opts.ChunkOverlap = 5

	content := strings.Repeat("Plants convert light into chemical energy. ", 5)
	result, err := r.Execute(context.Background(), content, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if calls.Load() < 2 {
		t.Fatalf("generator calls = %d, want multiple chunks", calls.Load())
	}
	if result.Stats.ChunkCount != int(calls.Load()) {
		t.Errorf("ChunkCount = %d, want %d", result.Stats.ChunkCount, calls.Load())
	}

	root, ok := result.Tree.Root()
	if !ok {
		t.Fatal("result tree has no root")
	}
	if root.Text != transform.MergedRootLabelEnglish {
		t.Errorf("root text = %q, want %q", root.Text, transform.MergedRootLabelEnglish)
	}
}

func TestRunnerExecuteFallback(t *testing.T) {
	gen := generate.Func(func(ctx context.Context, content string) ([]tree.Record, error) {
		return nil, errors.New("model unavailable")
	})
	r := NewRunner(gen, nil, nil, nil)

	opts := DefaultOptions()
	opts.MultiPass = false

	result, err := r.Execute(context.Background(), "Some teaching material.", opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Stats.NodeCount != 2 {
		t.Errorf("NodeCount = %d, want 2 fallback nodes", result.Stats.NodeCount)
	}
	root, ok := result.Tree.Root()
	if !ok {
		t.Fatal("fallback tree has no root")
	}
	if root.Text != "Educational Content" {
		t.Errorf("root text = %q, want fallback label", root.Text)
	}
}

func TestRunnerExecuteCancelled(t *testing.T) {
	gen := generate.Func(func(ctx context.Context, content string) ([]tree.Record, error) {
		return nil, ctx.Err()
	})
	r := NewRunner(gen, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := DefaultOptions()
	opts.MultiPass = false

	if _, err := r.Execute(ctx, "content", opts); !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestRunnerExecuteArtifactCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}

	var calls atomic.Int64
	r := NewRunner(staticGenerator(&calls, sampleRecords()), fc, nil, nil)
	defer r.Close()

	opts := DefaultOptions()
	opts.MultiPass = false
	content := "The process plants use to convert light into energy."

	first, err := r.Execute(context.Background(), content, opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	second, err := r.Execute(context.Background(), content, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}

	if calls.Load() != 1 {
		t.Errorf("generator calls = %d, want 1 (second run cached)", calls.Load())
	}
	if !second.CacheInfo.ArtifactHit {
		t.Error("second run should hit the artifact cache")
	}
	if second.Stats.NodeCount != first.Stats.NodeCount {
		t.Errorf("cached NodeCount = %d, want %d", second.Stats.NodeCount, first.Stats.NodeCount)
	}

	// Refresh bypasses the cache and regenerates.
	opts.Refresh = true
	third, err := r.Execute(context.Background(), content, opts)
	if err != nil {
		t.Fatalf("refresh Execute() error = %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("generator calls = %d after refresh, want 2", calls.Load())
	}
	if third.CacheInfo.ArtifactHit {
		t.Error("refresh run should not hit the artifact cache")
	}
}

func TestRunnerExecuteOptionsChangeMissesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}

	var calls atomic.Int64
	r := NewRunner(staticGenerator(&calls, sampleRecords()), fc, nil, nil)
	defer r.Close()

	opts := DefaultOptions()
	opts.MultiPass = false
	content := "The process plants use to convert light into energy."

	if _, err := r.Execute(context.Background(), content, opts); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	opts = DefaultOptions()
	opts.MultiPass = false
	opts.MaxDepth = 1
	result, err := r.Execute(context.Background(), content, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.CacheInfo.ArtifactHit {
		t.Error("changed options should miss the artifact cache")
	}
	if result.Stats.NodeCount != 3 {
		t.Errorf("NodeCount = %d with depth 1, want 3", result.Stats.NodeCount)
	}
}

func TestRunnerProcess(t *testing.T) {
	var records []tree.Record
	records = append(records, tree.Record{Key: 1, Text: "Root"})
	for i := 2; i <= 10; i++ {
		records = append(records, tree.Record{Key: i, Parent: 1, HasParent: true, Text: "Branch " + string(rune('A'+i))})
	}
	src, _, err := transform.Normalize(records)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	model := treemodel.FromTree(src)

	r := NewRunner(nil, nil, nil, nil)
	opts := DefaultOptions()
	opts.MaxNodes = 3

	result, err := r.Process(context.Background(), model, opts)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if result.Stats.NodeCount != 3 {
		t.Errorf("NodeCount = %d, want 3", result.Stats.NodeCount)
	}
	if result.Stats.RemovedCount != 7 {
		t.Errorf("RemovedCount = %d, want 7", result.Stats.RemovedCount)
	}
}

func TestRunnerProcessZeroLimits(t *testing.T) {
	src, _, err := transform.Normalize(sampleRecords())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	model := treemodel.FromTree(src)
	r := NewRunner(nil, nil, nil, nil)

	t.Run("depth zero keeps the root only", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MaxDepth = 0

		result, err := r.Process(context.Background(), model, opts)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if result.Stats.NodeCount != 1 {
			t.Errorf("NodeCount = %d, want 1", result.Stats.NodeCount)
		}
		root, ok := result.Tree.Root()
		if !ok {
			t.Fatal("result tree has no root")
		}
		if root.Text != "Photosynthesis" {
			t.Errorf("root text = %q, want Photosynthesis", root.Text)
		}
	})

	t.Run("cap zero empties the tree", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MaxNodes = 0

		result, err := r.Process(context.Background(), model, opts)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if result.Stats.NodeCount != 0 {
			t.Errorf("NodeCount = %d, want 0", result.Stats.NodeCount)
		}
		if result.Stats.RemovedCount != 4 {
			t.Errorf("RemovedCount = %d, want 4", result.Stats.RemovedCount)
		}
		if len(result.Model.NodeDataArray) != 0 {
			t.Errorf("artifact holds %d nodes, want 0", len(result.Model.NodeDataArray))
		}
	})
}

func TestRunnerProcessIdempotent(t *testing.T) {
	var calls atomic.Int64
	r := NewRunner(staticGenerator(&calls, sampleRecords()), nil, nil, nil)

	opts := DefaultOptions()
	opts.MultiPass = false

	first, err := r.Execute(context.Background(), "Photosynthesis overview.", opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	second, err := r.Process(context.Background(), first.Model, opts)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	a, err := treemodel.Marshal(first.Model)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	b, err := treemodel.Marshal(second.Model)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("reprocessing changed the artifact:\n%s\nvs\n%s", a, b)
	}
	if second.Stats.RemovedCount != 0 {
		t.Errorf("RemovedCount = %d on reprocess, want 0", second.Stats.RemovedCount)
	}
}

func TestRunnerProcessRejectsTwoRoots(t *testing.T) {
	model := treemodel.TreeModel{
		Class: treemodel.ModelClass,
		NodeDataArray: []treemodel.NodeData{
			{Key: 1, Text: "First"},
			{Key: 2, Text: "Second"},
		},
	}

	r := NewRunner(nil, nil, nil, nil)
	_, err := r.Process(context.Background(), model, DefaultOptions())
	if !mgerrors.Is(err, mgerrors.ErrCodeIntegrity) {
		t.Errorf("Process() error = %v, want integrity error", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mindgrove.toml")
	content := `
max_nodes = 50
max_depth = 2
dedup = false
model = "gpt-4o"
palette = ["tomato", "teal"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	opts, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if opts.MaxNodes != 50 || opts.MaxDepth != 2 {
		t.Errorf("limits = %d/%d, want 50/2", opts.MaxNodes, opts.MaxDepth)
	}
	if opts.Dedup {
		t.Error("Dedup should be disabled by the file")
	}
	if !opts.ExcludeExamples {
		t.Error("ExcludeExamples should keep its default")
	}
	if opts.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", opts.Model)
	}
	if len(opts.Palette) != 2 || opts.Palette[0] != "tomato" {
		t.Errorf("Palette = %v, want [tomato teal]", opts.Palette)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if !mgerrors.Is(err, mgerrors.ErrCodeConfig) {
			t.Errorf("error = %v, want config error", err)
		}
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("max_nodes = ["), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		_, err := LoadConfig(path)
		if !mgerrors.Is(err, mgerrors.ErrCodeConfig) {
			t.Errorf("error = %v, want config error", err)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invalid.toml")
		if err := os.WriteFile(path, []byte("max_nodes = -3"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		_, err := LoadConfig(path)
		if !mgerrors.Is(err, mgerrors.ErrCodeConfig) {
			t.Errorf("error = %v, want config error", err)
		}
	})
}
