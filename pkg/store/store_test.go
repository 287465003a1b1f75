package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/mindgrove/pkg/treemodel"
)

func sampleModel() treemodel.TreeModel {
	parent := 1
	return treemodel.TreeModel{
		Class: treemodel.ModelClass,
		NodeDataArray: []treemodel.NodeData{
			{Key: 1, Text: "Root", Brush: "gold", Loc: "0 0"},
			{Key: 2, Parent: &parent, Text: "Branch", Brush: "turquoise", Dir: "right"},
		},
	}
}

func TestNewMindMap(t *testing.T) {
	m := NewMindMap("Photosynthesis", sampleModel(), "en")

	if m.ID == "" {
		t.Error("ID should be generated")
	}
	if m.NodeCount != 2 {
		t.Errorf("NodeCount = %d, want 2", m.NodeCount)
	}
	if m.CreatedAt.IsZero() || m.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}

	other := NewMindMap("Photosynthesis", sampleModel(), "en")
	if other.ID == m.ID {
		t.Error("IDs should be unique per document")
	}
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	m := NewMindMap("Photosynthesis", sampleModel(), "en")
	if err := s.Save(ctx, m); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Get(ctx, m.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Photosynthesis" {
		t.Errorf("Title = %q, want Photosynthesis", got.Title)
	}
	if got.Model.NodeCount() != 2 {
		t.Errorf("stored model NodeCount = %d, want 2", got.Model.NodeCount())
	}

	if err := s.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}

	// Deleting a missing ID is not an error.
	if err := s.Delete(ctx, "absent"); err != nil {
		t.Errorf("Delete(absent) error = %v", err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := NewMindMap("first", sampleModel(), "en")
	second := NewMindMap("second", sampleModel(), "en")
	third := NewMindMap("third", sampleModel(), "ar")

	for _, m := range []MindMap{first, second, third} {
		if err := s.Save(ctx, m); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	maps, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(maps) != 3 {
		t.Fatalf("List() returned %d maps, want 3", len(maps))
	}
	if maps[0].Title != "third" {
		t.Errorf("newest first: got %q, want third", maps[0].Title)
	}

	limited, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("List(2) returned %d maps, want 2", len(limited))
	}
}
