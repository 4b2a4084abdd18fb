// health/health.go

// Package health provides a ping-based health probe for a connection,
// shaped to fit a map[string]Check health-handler registry.
package health

import "context"

// Pinger is the slice of the connection surface a health probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check is a single health probe. It returns nil if the dependency is
// healthy, or a non-nil error describing the problem.
type Check func(ctx context.Context) error

// NewCheck returns a Check that pings p. A disconnected or unreachable
// deployment reports as unhealthy with the underlying error.
func NewCheck(p Pinger) Check {
	return func(ctx context.Context) error {
		return p.Ping(ctx)
	}
}
