// Package store provides persistence for finished mind maps.
//
// This package defines the Store interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for the server
//
// # Usage
//
// Create a store and save an artifact:
//
//	st, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "mindgrove")
//	if err != nil {
//	    return err
//	}
//	defer st.Close(ctx)
//
//	doc := store.NewMindMap("Photosynthesis", result.Model, "en")
//	if err := st.Save(ctx, doc); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/mindgrove/pkg/treemodel"
)

// ErrNotFound is returned when a mind map does not exist.
var ErrNotFound = errors.New("not found")

// DefaultListLimit caps List results when no limit is given.
const DefaultListLimit = 50

// MindMap is a stored artifact with its metadata.
type MindMap struct {
	ID        string              `bson:"_id" json:"id"`
	Title     string              `bson:"title" json:"title"`
	Language  string              `bson:"language" json:"language"`
	NodeCount int                 `bson:"node_count" json:"node_count"`
	Model     treemodel.TreeModel `bson:"model" json:"model"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}

// NewMindMap builds a document for a finished artifact with a fresh ID.
func NewMindMap(title string, model treemodel.TreeModel, language string) MindMap {
	now := time.Now().UTC()
	return MindMap{
		ID:        uuid.NewString(),
		Title:     title,
		Language:  language,
		NodeCount: model.NodeCount(),
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store is the interface for mind-map storage backends.
type Store interface {
	// Save stores a mind map, replacing any document with the same ID.
	Save(ctx context.Context, m MindMap) error

	// Get retrieves a mind map by ID.
	// Returns ErrNotFound if no document exists.
	Get(ctx context.Context, id string) (MindMap, error)

	// List returns the most recently updated mind maps, newest first.
	// A non-positive limit uses DefaultListLimit.
	List(ctx context.Context, limit int) ([]MindMap, error)

	// Delete removes a mind map. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
