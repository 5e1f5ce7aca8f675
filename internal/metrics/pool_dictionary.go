package metrics

import (
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	poolDictionaryReloadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockstats7000",
		Subsystem: "pool_dictionary",
		Name:      "reload_total",
		Help:      "Count of pool dictionary reload attempts.",
	}, []string{"network", "status"})

	poolDictionaryPools = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockstats7000",
		Subsystem: "pool_dictionary",
		Name:      "pools",
		Help:      "Number of pools in the active dictionary.",
	}, []string{"network"})
)

// PoolDictionary tracks metrics for the mining pool dictionary.
type PoolDictionary struct {
	network model.Network
}

// NewPoolDictionary constructs a PoolDictionary metrics collector.
func NewPoolDictionary(network model.Network) *PoolDictionary {
	if network == "" {
		network = "unknown"
	}
	return &PoolDictionary{network: network}
}

// ObserveReload records a dictionary reload attempt and the resulting size.
func (m PoolDictionary) ObserveReload(err error, pools int) {
	status := "success"
	if err != nil {
		status = "error"
	}
	poolDictionaryReloadTotal.WithLabelValues(string(m.network), status).Inc()
	if err == nil {
		poolDictionaryPools.WithLabelValues(string(m.network)).Set(float64(pools))
	}
}
