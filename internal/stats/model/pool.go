package model

// Pool describes a mining pool from the attribution dictionary.
// ID 0 is reserved for the unknown pool.
type Pool struct {
	ID        uint32
	Name      string
	Tags      []string
	Addresses []string
}

// Feature names a per-block observable whose adoption is tracked per pool.
type Feature string

const (
	FeatureP2ACreate           Feature = "p2a_create"
	FeatureP2ASpend            Feature = "p2a_spend"
	FeatureBIP54Coinbase       Feature = "bip54_coinbase"
	FeatureEphemeralDustCreate Feature = "ephemeral_dust_create"
	FeatureEphemeralDustSpend  Feature = "ephemeral_dust_spend"
	FeatureTaprootKeyPath      Feature = "taproot_keypath"
	FeatureTaprootScriptPath   Feature = "taproot_scriptpath"
	FeatureTxV3                Feature = "tx_v3"
)

// Features lists every tracked feature in stable storage order.
var Features = []Feature{
	FeatureP2ACreate,
	FeatureP2ASpend,
	FeatureBIP54Coinbase,
	FeatureEphemeralDustCreate,
	FeatureEphemeralDustSpend,
	FeatureTaprootKeyPath,
	FeatureTaprootScriptPath,
	FeatureTxV3,
}

// PoolFeature is one per-height occurrence row: the attributed pool showed
// the feature this many times in the block at Height.
type PoolFeature struct {
	Height      uint64
	Date        string
	PoolID      uint32
	PoolName    string
	Feature     Feature
	Occurrences uint32
}

// PoolFeatureFirstSeen is the read-side aggregate: when a pool first mined
// a block showing the feature, and how often it has since.
type PoolFeatureFirstSeen struct {
	PoolID      uint32
	PoolName    string
	Feature     Feature
	FirstHeight uint64
	FirstDate   string
	Occurrences uint64
}

// MetricPoint is one day of an exported metric series.
type MetricPoint struct {
	Date  string
	Value uint64
}
