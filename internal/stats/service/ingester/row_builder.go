package ingester

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/compute"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/pools"
)

// rowBuilder turns one fetched block into its statistics row and the
// feature rows of the attributed pool. Both ingestion paths share it so
// live follows and version sweeps produce identical rows.
type rowBuilder struct {
	resolver   *prevoutResolver
	attributor Attributor
}

func (b *rowBuilder) Build(ctx context.Context, block model.Block) (model.BlockStats, []model.PoolFeature, error) {
	if len(block.Txs) == 0 {
		return model.BlockStats{}, nil, fmt.Errorf("block %d carries no transactions", block.Height)
	}

	prevouts, err := b.resolver.Resolve(ctx, block)
	if err != nil {
		return model.BlockStats{}, nil, fmt.Errorf("resolve prevouts: %w", err)
	}

	stats, err := compute.BlockStats(block, prevouts)
	if err != nil {
		return model.BlockStats{}, nil, fmt.Errorf("compute stats: %w", err)
	}

	pool, ok := b.attributor.Attribute(block.Txs[0])
	if !ok {
		return stats, nil, nil
	}
	return stats, pools.FeatureRows(stats, pool), nil
}
