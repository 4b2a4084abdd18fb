package schema

import "context"

// The collection-level operations need a live deployment to exercise, but
// the shape of the surface can be pinned at compile time: Drop must be the
// collection-scoped alias for DropCollection (taking a collection name),
// not a database-level drop.
type collectionDropper interface {
	Drop(ctx context.Context, name string) error
	DropCollection(ctx context.Context, name string) error
}

var _ collectionDropper = (*Builder)(nil)
