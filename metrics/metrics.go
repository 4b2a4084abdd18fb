// metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// connectDuration is a histogram of connection-establishment durations in
// seconds, from client construction through the verification ping.
var connectDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name: "mongoconn_connect_duration_seconds",
		Help: "Duration of MongoDB connection establishment.",
		// buckets in seconds
		Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1.5, 5},
	},
)

// openConnections counts adapter connections currently open.
var openConnections = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "mongoconn_open_connections",
		Help: "Number of open MongoDB adapter connections.",
	},
)

// Register registers the connection collectors with the default registry.
// It is safe (and intended) to call this once at startup.
//
// This function will panic if registration fails for reasons other than the
// collector already being registered, so configuration errors are caught
// early rather than silently ignored.
func Register(logger *zap.Logger) {
	mustRegister(logger, "connect duration histogram", connectDuration)
	mustRegister(logger, "open connections gauge", openConnections)
}

// mustRegister attempts to register a Prometheus collector. If registration
// fails for a reason other than AlreadyRegisteredError, it logs a fatal error
// (which calls os.Exit) or panics if no logger is provided.
func mustRegister(logger *zap.Logger, name string, c prometheus.Collector) {
	if err := prometheus.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			// Already registered is fine - this can happen in tests or if
			// Register is called multiple times.
			return
		}
		if logger != nil {
			logger.Fatal("failed to register "+name, zap.Error(err))
		} else {
			panic("metrics: failed to register " + name + ": " + err.Error())
		}
	}
}

// ObserveConnect records one connection-establishment duration.
func ObserveConnect(d time.Duration) {
	connectDuration.Observe(d.Seconds())
}

// ConnOpened increments the open-connections gauge.
func ConnOpened() { openConnections.Inc() }

// ConnClosed decrements the open-connections gauge.
func ConnClosed() { openConnections.Dec() }
