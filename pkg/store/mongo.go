package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoCollection     = "mindmaps"
	mongoConnectTimeout = 10 * time.Second
)

// MongoStore persists mind maps in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
	}, nil
}

// Save upserts the document keyed by its ID.
func (s *MongoStore) Save(ctx context.Context, m MindMap) error {
	m.UpdatedAt = time.Now().UTC()
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": m.ID},
		m,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save mind map %s: %w", m.ID, err)
	}
	return nil
}

// Get retrieves a mind map by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (MindMap, error) {
	var m MindMap
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return MindMap{}, ErrNotFound
	}
	if err != nil {
		return MindMap{}, fmt.Errorf("get mind map %s: %w", id, err)
	}
	return m, nil
}

// List returns the most recently updated mind maps, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]MindMap, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("list mind maps: %w", err)
	}
	defer cur.Close(ctx)

	var maps []MindMap
	if err := cur.All(ctx, &maps); err != nil {
		return nil, fmt.Errorf("decode mind maps: %w", err)
	}
	return maps, nil
}

// Delete removes a mind map by ID.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete mind map %s: %w", id, err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
