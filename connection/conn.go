// connection/conn.go

// Package connection adapts MongoDB to a relational-style connection
// abstraction: it resolves configuration into a connection string, opens the
// client eagerly with merged option precedence, and exposes collection,
// query-builder, and schema-builder entry points over the selected database.
package connection

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/dalemusser/mongoconn/config"
	"github.com/dalemusser/mongoconn/metrics"
	"github.com/dalemusser/mongoconn/query"
	"github.com/dalemusser/mongoconn/schema"
)

// DriverName is the capability tag upstream dispatch logic keys on.
const DriverName = "mongodb"

type connState int

const (
	stateDisconnected connState = iota
	stateConnecting
	stateConnected
)

func (s connState) String() string {
	switch s {
	case stateConnecting:
		return "connecting"
	case stateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Conn owns exactly one driver client and one selected database handle for
// its lifetime. It is created connected by Connect and stays usable until
// Disconnect; after that every operation returns ErrNotConnected. A Conn is
// not reusable after Disconnect.
//
// The client and database handles are safe for concurrent use per the
// driver's own contract; Conn adds no synchronization around them beyond
// its own lifecycle state.
type Conn struct {
	mu    sync.RWMutex
	state connState

	client *mongo.Client
	db     *mongo.Database

	// connectTime is recorded once at construction and read-only afterward.
	// Informational only; never consulted for retry decisions.
	connectTime time.Duration

	logger        *zap.Logger
	recordMetrics bool
}

// Option customizes a Conn before it connects.
type Option func(*Conn)

// WithLogger attaches a logger used for connect/disconnect diagnostics.
// Error paths are never logged here; failures propagate to the caller.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Conn) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records connect latency and open-connection counts into the
// collectors registered by the metrics package.
func WithMetrics() Option {
	return func(c *Conn) { c.recordMetrics = true }
}

// Connect validates cfg, resolves the DSN, merges options (safety defaults <
// user options < credentials) and opens the connection eagerly: the client
// is constructed and pinged before Connect returns, so an unreachable host
// or bad credentials fail here, not on first query. The elapsed wall-clock
// connect time is recorded on the returned Conn.
//
// A failed connect returns no Conn at all; there is no partially-initialized
// handle. Driver errors are propagated unchanged, and nothing here retries.
func Connect(ctx context.Context, cfg *config.ConnectionConfig, opts ...Option) (*Conn, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dbName := databaseName(cfg)
	if dbName == "" {
		return nil, &config.ValidationError{Field: "database", Reason: "database name is required"}
	}

	c := &Conn{
		state:  stateConnecting,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	dsn := ResolveDSN(cfg)
	uriOpts, cred := splitCredentials(mergeOptions(cfg))
	uri := buildURI(dsn, uriOpts)

	clientOpts := mongooptions.Client().ApplyURI(uri)
	if cred != nil {
		clientOpts.SetAuth(*cred)
	}

	start := time.Now()
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	c.connectTime = time.Since(start)

	c.client = client
	c.db = client.Database(dbName)
	c.state = stateConnected

	if c.recordMetrics {
		metrics.ObserveConnect(c.connectTime)
		metrics.ConnOpened()
	}
	c.logger.Info("connected",
		zap.String("driver", DriverName),
		zap.String("database", c.db.Name()),
		zap.Duration("elapsed", c.connectTime),
	)

	return c, nil
}

// databaseName prefers the explicit config field and falls back to the
// database embedded in a pre-built connection string.
func databaseName(cfg *config.ConnectionConfig) string {
	if cfg.Database != "" {
		return cfg.Database
	}
	return DatabaseFromURI(cfg.ConnectionString)
}

// Disconnect closes the owned client. The Conn is unusable afterward: every
// subsequent operation, including a second Disconnect, returns
// ErrNotConnected.
func (c *Conn) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != stateConnected {
		c.mu.Unlock()
		return ErrNotConnected
	}
	c.state = stateDisconnected
	client := c.client
	c.client = nil
	c.db = nil
	c.mu.Unlock()

	if c.recordMetrics {
		metrics.ConnClosed()
	}
	c.logger.Info("disconnected", zap.String("driver", DriverName))

	return client.Disconnect(ctx)
}

// handle returns the selected database, or ErrNotConnected.
func (c *Conn) handle() (*mongo.Database, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != stateConnected {
		return nil, ErrNotConnected
	}
	return c.db, nil
}

// DriverName reports the static capability tag for this adapter. It does not
// depend on configuration or lifecycle state.
func (c *Conn) DriverName() string { return DriverName }

// ConnectTime reports the wall-clock duration the connect took. Diagnostic
// only; the value is not adjusted for clock skew.
func (c *Conn) ConnectTime() time.Duration { return c.connectTime }

// Collection returns a fluent query builder scoped to the named collection.
func (c *Conn) Collection(name string) (*query.Builder, error) {
	db, err := c.handle()
	if err != nil {
		return nil, err
	}
	return query.New(db).From(name), nil
}

// Table is an alias for Collection, present for relational-API compatibility.
func (c *Conn) Table(name string) (*query.Builder, error) {
	return c.Collection(name)
}

// MongoCollection returns the driver's collection handle for name, without
// the query-builder wrapper.
func (c *Conn) MongoCollection(name string) (*mongo.Collection, error) {
	db, err := c.handle()
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Schema returns a schema builder bound to this connection.
func (c *Conn) Schema() (*schema.Builder, error) {
	db, err := c.handle()
	if err != nil {
		return nil, err
	}
	return schema.New(db), nil
}

// Database is the raw escape hatch to the owned database handle, for callers
// needing driver capabilities this adapter does not model.
func (c *Conn) Database() (*mongo.Database, error) {
	return c.handle()
}

// Client is the raw escape hatch to the owned driver client.
func (c *Conn) Client() (*mongo.Client, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != stateConnected {
		return nil, ErrNotConnected
	}
	return c.client, nil
}

// Ping round-trips to the server using the connection's read preference.
func (c *Conn) Ping(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != stateConnected {
		return ErrNotConnected
	}
	return c.client.Ping(ctx, nil)
}
