package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resyncFetchStaleTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockstats7000",
		Subsystem: "resync",
		Name:      "fetch_stale_total",
		Help:      "Count of attempts to fetch stale block heights.",
	}, []string{"network", "status"})

	resyncFetchStaleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockstats7000",
		Subsystem: "resync",
		Name:      "fetch_stale_duration_seconds",
		Help:      "Duration of fetching stale block heights.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	resyncProcessBatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockstats7000",
		Subsystem: "resync",
		Name:      "process_batch_total",
		Help:      "Count of processed resync batches.",
	}, []string{"network", "status"})

	resyncProcessBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockstats7000",
		Subsystem: "resync",
		Name:      "process_batch_duration_seconds",
		Help:      "Duration of processing a batch of stale heights.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	resyncProcessBatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockstats7000",
		Subsystem: "resync",
		Name:      "process_batch_size",
		Help:      "Number of heights processed per resync batch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	}, []string{"network"})

	resyncProcessHeightDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockstats7000",
		Subsystem: "resync",
		Name:      "process_height_duration_seconds",
		Help:      "Duration of recomputing a single height.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	resyncSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockstats7000",
		Subsystem: "resync",
		Name:      "skipped_total",
		Help:      "Count of stale heights skipped, by reason.",
	}, []string{"network", "reason"})
)

// Resync tracks metrics for the versioned resync sweep.
type Resync struct {
	network model.Network
}

// NewResync constructs a Resync metrics collector.
func NewResync(network model.Network) *Resync {
	if network == "" {
		network = "unknown"
	}
	return &Resync{network: network}
}

// ObserveFetchStale records a stale-height query outcome and duration.
func (m Resync) ObserveFetchStale(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	resyncFetchStaleTotal.WithLabelValues(string(m.network), status).Inc()
	resyncFetchStaleDuration.WithLabelValues(string(m.network), status).
		Observe(time.Since(started).Seconds())
}

// ObserveProcessBatch records processing of one batch of stale heights.
func (m Resync) ObserveProcessBatch(err error, heights int, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	resyncProcessBatchTotal.WithLabelValues(string(m.network), status).Inc()
	resyncProcessBatchDuration.WithLabelValues(string(m.network), status).
		Observe(time.Since(started).Seconds())
	resyncProcessBatchSize.WithLabelValues(string(m.network)).Observe(float64(heights))
}

// ObserveProcessHeight records recomputation of a single height.
func (m Resync) ObserveProcessHeight(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	resyncProcessHeightDuration.WithLabelValues(string(m.network), status).
		Observe(time.Since(started).Seconds())
}

// ObserveSkipped counts a height left stale for the given reason.
func (m Resync) ObserveSkipped(reason string) {
	resyncSkippedTotal.WithLabelValues(string(m.network), reason).Inc()
}
