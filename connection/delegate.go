// connection/delegate.go
package connection

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// The methods in this file stand in for the dynamic "forward anything to the
// database handle" fallback of looser adapters. Each one is a thin,
// state-checked pass-through to the owned *mongo.Database; results and
// failures come back unchanged with no added context. Callers needing an
// operation not listed here should use Database or Client and accept the
// coupling to the driver API that comes with it.

// RunCommand executes a database command on the selected database.
func (c *Conn) RunCommand(ctx context.Context, cmd interface{}) (*mongo.SingleResult, error) {
	db, err := c.handle()
	if err != nil {
		return nil, err
	}
	return db.RunCommand(ctx, cmd), nil
}

// Aggregate runs an aggregation pipeline at database scope.
func (c *Conn) Aggregate(ctx context.Context, pipeline interface{}) (*mongo.Cursor, error) {
	db, err := c.handle()
	if err != nil {
		return nil, err
	}
	return db.Aggregate(ctx, pipeline)
}

// ListCollectionNames lists the collections in the selected database that
// match filter.
func (c *Conn) ListCollectionNames(ctx context.Context, filter interface{}) ([]string, error) {
	db, err := c.handle()
	if err != nil {
		return nil, err
	}
	return db.ListCollectionNames(ctx, filter)
}

// Drop drops the selected database. The Conn itself stays connected; only
// the data goes away.
func (c *Conn) Drop(ctx context.Context) error {
	db, err := c.handle()
	if err != nil {
		return err
	}
	return db.Drop(ctx)
}
