// schema/schema.go

// Package schema exposes collection and index DDL entry points over a
// connection's database handle.
package schema

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Builder performs schema operations against one database. It holds a
// non-owning reference to the connection's database handle and must not be
// used after the connection is disconnected.
type Builder struct {
	db *mongo.Database
}

// New returns a Builder bound to db.
func New(db *mongo.Database) *Builder {
	return &Builder{db: db}
}

// HasCollection reports whether the named collection exists.
func (b *Builder) HasCollection(ctx context.Context, name string) (bool, error) {
	names, err := b.db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// CreateCollection creates the named collection explicitly. Mongo creates
// collections implicitly on first write, so this is only needed when the
// collection must exist up front (e.g. before defining indexes in a
// migration).
func (b *Builder) CreateCollection(ctx context.Context, name string) error {
	return b.db.CreateCollection(ctx, name)
}

// DropCollection removes the named collection and all of its documents.
// Dropping a collection that does not exist is not an error.
func (b *Builder) DropCollection(ctx context.Context, name string) error {
	return b.db.Collection(name).Drop(ctx)
}

// Drop is an alias for DropCollection, present for relational-API
// compatibility.
func (b *Builder) Drop(ctx context.Context, name string) error {
	return b.DropCollection(ctx, name)
}

// Index creates an index on the named collection with the given key document
// (e.g. bson.D{{Key: "email", Value: 1}}). When name is non-empty it is used
// as the index name; otherwise the driver derives one. Returns the name of
// the created index.
func (b *Builder) Index(ctx context.Context, collection string, keys bson.D, name string) (string, error) {
	model := mongo.IndexModel{Keys: keys}
	if name != "" {
		model.Options = options.Index().SetName(name)
	}
	return b.db.Collection(collection).Indexes().CreateOne(ctx, model)
}

// UniqueIndex creates a unique index on the named collection.
func (b *Builder) UniqueIndex(ctx context.Context, collection string, keys bson.D, name string) (string, error) {
	opts := options.Index().SetUnique(true)
	if name != "" {
		opts.SetName(name)
	}
	return b.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
}

// DropIndex removes the named index from the collection.
func (b *Builder) DropIndex(ctx context.Context, collection, name string) error {
	_, err := b.db.Collection(collection).Indexes().DropOne(ctx, name)
	return err
}
