// cmd/mongoping/main.go

// mongoping loads a connection config, opens the connection, reports the
// elapsed connect time and a server round-trip, and disconnects. It exits
// non-zero on any failure, which makes it usable as a deployment smoke test.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/mongoconn/config"
	"github.com/dalemusser/mongoconn/connection"
	"github.com/dalemusser/mongoconn/logging"
	"github.com/dalemusser/mongoconn/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	boot := logging.BootstrapLogger()

	cfg, err := config.Load(boot)
	if err != nil {
		boot.Error("invalid configuration", zap.Error(err))
		return 1
	}

	level := os.Getenv("MONGOCONN_LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	logger := logging.MustBuildLogger(level, os.Getenv("MONGOCONN_ENV"))
	defer func() { _ = logger.Sync() }()

	logger.Debug("resolved configuration", zap.String("config", cfg.Dump()))
	metrics.Register(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := connection.Connect(ctx, cfg,
		connection.WithLogger(logger),
		connection.WithMetrics(),
	)
	if err != nil {
		logger.Error("connect failed", zap.Error(err))
		return 1
	}

	pingStart := time.Now()
	if err := conn.Ping(ctx); err != nil {
		logger.Error("ping failed", zap.Error(err))
		_ = conn.Disconnect(ctx)
		return 1
	}
	rtt := time.Since(pingStart)

	fmt.Printf("driver:       %s\n", conn.DriverName())
	fmt.Printf("connect time: %s\n", conn.ConnectTime())
	fmt.Printf("ping rtt:     %s\n", rtt)

	if err := conn.Disconnect(ctx); err != nil {
		logger.Error("disconnect failed", zap.Error(err))
		return 1
	}
	return 0
}
