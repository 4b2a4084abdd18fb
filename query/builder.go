// query/builder.go

// Package query provides a small fluent builder over a MongoDB collection.
// It accumulates filter, sort, and paging state and hands off to the driver
// for execution; it does no query planning and never materializes result
// sets itself.
package query

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Builder accumulates a query against one collection. Builders hold a
// non-owning reference to the connection's database handle and must not be
// used after the connection is disconnected. A Builder is not safe for
// concurrent use; build and execute it from one goroutine.
type Builder struct {
	db   *mongo.Database
	coll string

	filter bson.D
	sort   bson.D
	limit  int64
	skip   int64
}

// New returns a Builder bound to db. Call From before executing.
func New(db *mongo.Database) *Builder {
	return &Builder{db: db}
}

// From scopes the builder to the named collection.
func (b *Builder) From(name string) *Builder {
	b.coll = name
	return b
}

// Where adds an equality condition. Conditions combine conjunctively.
func (b *Builder) Where(field string, value any) *Builder {
	b.filter = append(b.filter, bson.E{Key: field, Value: value})
	return b
}

// WhereOp adds a condition using a driver comparison operator such as "$gt"
// or "$ne".
func (b *Builder) WhereOp(field, op string, value any) *Builder {
	b.filter = append(b.filter, bson.E{Key: field, Value: bson.D{{Key: op, Value: value}}})
	return b
}

// WhereIn adds a set-membership condition on field.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	return b.WhereOp(field, "$in", values)
}

// OrderBy appends a sort key. Pass ascending=false for descending order.
func (b *Builder) OrderBy(field string, ascending bool) *Builder {
	dir := 1
	if !ascending {
		dir = -1
	}
	b.sort = append(b.sort, bson.E{Key: field, Value: dir})
	return b
}

// Limit caps the number of documents returned. Zero means no cap.
func (b *Builder) Limit(n int64) *Builder {
	b.limit = n
	return b
}

// Offset skips the first n matching documents.
func (b *Builder) Offset(n int64) *Builder {
	b.skip = n
	return b
}

// Collection returns the raw driver collection handle this builder targets.
func (b *Builder) Collection() *mongo.Collection {
	return b.db.Collection(b.coll)
}

// Filter returns the accumulated filter document. An empty builder matches
// everything.
func (b *Builder) Filter() bson.D {
	if b.filter == nil {
		return bson.D{}
	}
	return b.filter
}

func (b *Builder) findOptions() *options.FindOptions {
	opts := options.Find()
	if len(b.sort) > 0 {
		opts.SetSort(b.sort)
	}
	if b.limit > 0 {
		opts.SetLimit(b.limit)
	}
	if b.skip > 0 {
		opts.SetSkip(b.skip)
	}
	return opts
}

// Get executes the query and returns the driver cursor. The caller owns the
// cursor and must close it.
func (b *Builder) Get(ctx context.Context) (*mongo.Cursor, error) {
	return b.Collection().Find(ctx, b.Filter(), b.findOptions())
}

// First decodes the first matching document into dest. Sort and offset are
// honored; mongo.ErrNoDocuments propagates unchanged when nothing matches.
func (b *Builder) First(ctx context.Context, dest any) error {
	opts := options.FindOne()
	if len(b.sort) > 0 {
		opts.SetSort(b.sort)
	}
	if b.skip > 0 {
		opts.SetSkip(b.skip)
	}
	return b.Collection().FindOne(ctx, b.Filter(), opts).Decode(dest)
}

// Count returns the number of matching documents.
func (b *Builder) Count(ctx context.Context) (int64, error) {
	return b.Collection().CountDocuments(ctx, b.Filter())
}

// Insert writes one or more documents to the scoped collection.
func (b *Builder) Insert(ctx context.Context, docs ...any) error {
	_, err := b.Collection().InsertMany(ctx, docs)
	return err
}

// Update applies update (e.g. a "$set" document) to every matching document
// and reports how many were modified.
func (b *Builder) Update(ctx context.Context, update any) (int64, error) {
	res, err := b.Collection().UpdateMany(ctx, b.Filter(), update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes every matching document and reports how many went away.
func (b *Builder) Delete(ctx context.Context) (int64, error) {
	res, err := b.Collection().DeleteMany(ctx, b.Filter())
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
