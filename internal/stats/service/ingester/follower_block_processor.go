package ingester

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"go.uber.org/zap"
)

// followerBlockProcessor writes one block: outputs first, then feature
// rows, then the block_stats row whose presence publishes the height.
type followerBlockProcessor struct {
	repo    ClickhouseRepository
	claims  Claims
	outputs OutputWriter
	rows    *rowBuilder
	logger  *zap.Logger
}

func (p *followerBlockProcessor) Process(ctx context.Context, block model.Block) error {
	if err := p.claims.Claim(ctx, block.Height); err != nil {
		return fmt.Errorf("claim height %d: %w", block.Height, err)
	}
	defer p.claims.Release(block.Height)

	stats, features, err := p.rows.Build(ctx, block)
	if err != nil {
		return err
	}

	for _, tx := range block.Txs {
		for index, out := range tx.Outputs {
			output := model.PrevOutput{
				TxID:     tx.TxID,
				Index:    uint32(index),
				Value:    out.Value,
				PkScript: out.PkScript,
				Height:   block.Height,
			}
			if err := p.outputs.Write(ctx, output); err != nil {
				return fmt.Errorf("queue output %s:%d: %w", tx.TxID, index, err)
			}
		}
	}

	// Later blocks resolve prevouts against the store, so every output
	// must land before the stats row publishes the height.
	if err := p.outputs.Flush(ctx); err != nil {
		return fmt.Errorf("flush outputs: %w", err)
	}

	if len(features) > 0 {
		if err := p.repo.InsertPoolFeatures(ctx, features); err != nil {
			return fmt.Errorf("insert pool features: %w", err)
		}
	}

	if err := p.repo.InsertBlockStats(ctx, []model.BlockStats{stats}); err != nil {
		return fmt.Errorf("insert block stats: %w", err)
	}

	p.logger.Debug("block ingested",
		zap.Uint64("height", block.Height),
		zap.String("hash", block.Hash),
		zap.Uint32("transactions", stats.Transactions),
	)
	return nil
}
