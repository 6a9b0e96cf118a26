package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type entry struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Mongo keeps one document per key in the "kv" collection.
type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{coll: db.Collection("kv")}
}

func (m *Mongo) Get(ctx context.Context, key string) ([]byte, error) {
	var e entry
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find key %s: %w", key, err)
	}
	return []byte(e.Value), nil
}

func (m *Mongo) Set(ctx context.Context, key string, value []byte) error {
	e := entry{Key: key, Value: string(value), UpdatedAt: time.Now()}

	opts := options.Replace().SetUpsert(true)
	if _, err := m.coll.ReplaceOne(ctx, bson.M{"_id": key}, e, opts); err != nil {
		return fmt.Errorf("upsert key %s: %w", key, err)
	}
	return nil
}
