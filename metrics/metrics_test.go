package metrics

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRegisterIsIdempotent(t *testing.T) {
	logger := zap.NewNop()

	// Double registration must be tolerated, not fatal.
	Register(logger)
	Register(logger)

	// Observations against registered collectors must not panic.
	ObserveConnect(42 * time.Millisecond)
	ConnOpened()
	ConnClosed()
}
