package pools

import "github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"

// FeatureRows derives the feature occurrence rows for one block attributed
// to a pool. Features the block does not show are omitted; a block showing
// no tracked feature yields no rows. First-seen heights and cumulative
// totals are aggregates over these rows, so rewriting a height stays
// idempotent.
func FeatureRows(stats model.BlockStats, pool model.Pool) []model.PoolFeature {
	counts := [...]struct {
		feature model.Feature
		count   uint32
	}{
		{model.FeatureP2ACreate, stats.OutputsP2A},
		{model.FeatureP2ASpend, stats.InputsP2A},
		{model.FeatureBIP54Coinbase, boolCount(stats.CoinbaseBIP54)},
		{model.FeatureEphemeralDustCreate, stats.DustCreated},
		{model.FeatureEphemeralDustSpend, stats.DustSpent},
		{model.FeatureTaprootKeyPath, stats.InputsP2TRKeyPath},
		{model.FeatureTaprootScriptPath, stats.InputsP2TRScriptPath},
		{model.FeatureTxV3, stats.TxVersion3},
	}

	rows := make([]model.PoolFeature, 0, len(counts))
	for _, c := range counts {
		if c.count == 0 {
			continue
		}
		rows = append(rows, model.PoolFeature{
			Height:      stats.Height,
			Date:        stats.Date,
			PoolID:      pool.ID,
			PoolName:    pool.Name,
			Feature:     c.feature,
			Occurrences: c.count,
		})
	}
	return rows
}

func boolCount(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
