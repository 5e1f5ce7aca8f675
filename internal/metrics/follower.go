package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	followerProcessBlockTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockstats7000",
		Subsystem: "follower",
		Name:      "process_block_total",
		Help:      "Count of blocks processed by the chain follower.",
	}, []string{"network", "status"})

	followerProcessBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockstats7000",
		Subsystem: "follower",
		Name:      "process_block_duration_seconds",
		Help:      "Duration of fetching, computing and writing one block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	followerReorgTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockstats7000",
		Subsystem: "follower",
		Name:      "reorg_total",
		Help:      "Count of chain reorganizations rolled back.",
	}, []string{"network"})

	followerReorgDepth = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockstats7000",
		Subsystem: "follower",
		Name:      "reorg_depth",
		Help:      "Number of heights rolled back per reorganization.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8), // 1..128
	}, []string{"network"})

	followerChainHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockstats7000",
		Subsystem: "follower",
		Name:      "chain_height",
		Help:      "Best height reported by the node.",
	}, []string{"network"})

	followerProcessedHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockstats7000",
		Subsystem: "follower",
		Name:      "processed_height",
		Help:      "Highest contiguously processed height.",
	}, []string{"network"})
)

// Follower tracks metrics for the chain follower pipeline.
type Follower struct {
	network model.Network
}

// NewFollower constructs a Follower metrics collector.
func NewFollower(network model.Network) *Follower {
	if network == "" {
		network = "unknown"
	}
	return &Follower{network: network}
}

// ObserveProcessBlock records one processed block outcome and duration.
func (m Follower) ObserveProcessBlock(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	followerProcessBlockTotal.WithLabelValues(string(m.network), status).Inc()
	followerProcessBlockDuration.WithLabelValues(string(m.network), status).
		Observe(time.Since(started).Seconds())
}

// ObserveReorg records a rollback of the given depth.
func (m Follower) ObserveReorg(depth uint64) {
	followerReorgTotal.WithLabelValues(string(m.network)).Inc()
	followerReorgDepth.WithLabelValues(string(m.network)).Observe(float64(depth))
}

// SetChainHeight publishes the node's best height.
func (m Follower) SetChainHeight(height uint64) {
	followerChainHeight.WithLabelValues(string(m.network)).Set(float64(height))
}

// SetProcessedHeight publishes the highest contiguously processed height.
func (m Follower) SetProcessedHeight(height uint64) {
	followerProcessedHeight.WithLabelValues(string(m.network)).Set(float64(height))
}
