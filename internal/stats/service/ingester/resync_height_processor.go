package ingester

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/goodnatureofminers/blockstats7000-backend/pkg/workerpool"
	"go.uber.org/zap"
)

// errHeightMoved means the chain no longer carries the block a recompute
// was based on. The write is discarded; the follower owns reorg handling.
var errHeightMoved = errors.New("chain moved during recompute")

const (
	skipReasonClaimed = "claimed"
	skipReasonMoved   = "chain_moved"
	skipReasonError   = "error"
)

// resyncHeightProcessor recomputes stale heights on a worker pool. A
// height that cannot be recomputed is logged and left stale for the next
// sweep; only cancellation stops the batch.
type resyncHeightProcessor struct {
	workerCount int
	repo        ClickhouseRepository
	chain       ChainSource
	claims      Claims
	rows        *rowBuilder
	metrics     ResyncMetrics
	logger      *zap.Logger
}

func (p *resyncHeightProcessor) Process(ctx context.Context, heights []uint64) error {
	return workerpool.Process(ctx, p.workerCount, heights, p.processHeight, nil)
}

func (p *resyncHeightProcessor) processHeight(ctx context.Context, height uint64) error {
	if !p.claims.TryClaim(height) {
		p.metrics.ObserveSkipped(skipReasonClaimed)
		return nil
	}
	defer p.claims.Release(height)

	started := time.Now()
	err := p.recompute(ctx, height)
	p.metrics.ObserveProcessHeight(err, started)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	reason := skipReasonError
	if errors.Is(err, errHeightMoved) {
		reason = skipReasonMoved
	}
	p.logger.Warn("stale height left for the next sweep",
		zap.Uint64("height", height),
		zap.String("reason", reason),
		zap.Error(err),
	)
	p.metrics.ObserveSkipped(reason)
	return nil
}

// recompute rebuilds one height's rows from the node's current block and
// writes them through the same contract as live ingestion. Before the
// write it verifies the block still links to the stored parent and still
// is the node's block at that height; either check failing discards the
// work so a reorg in flight never leaves a mixed-branch store.
func (p *resyncHeightProcessor) recompute(ctx context.Context, height uint64) error {
	block, err := p.chain.BlockAt(ctx, height)
	if err != nil {
		return fmt.Errorf("fetch block %d: %w", height, err)
	}

	stats, features, err := p.rows.Build(ctx, block)
	if err != nil {
		return err
	}

	if height > 0 {
		parent, err := p.repo.BlockStats(ctx, height-1)
		if err != nil {
			return fmt.Errorf("stored parent of %d: %w", height, err)
		}
		if parent.Hash != block.PrevHash {
			return fmt.Errorf("block %d parent %s is not the stored %s: %w", height, block.PrevHash, parent.Hash, errHeightMoved)
		}
	}

	nodeHash, err := p.chain.HashAt(ctx, height)
	if err != nil {
		return fmt.Errorf("node hash at %d: %w", height, err)
	}
	if nodeHash != block.Hash {
		return fmt.Errorf("height %d now carries %s, recomputed %s: %w", height, nodeHash, block.Hash, errHeightMoved)
	}

	if err := p.repo.DeletePoolFeatures(ctx, height); err != nil {
		return fmt.Errorf("delete pool features at %d: %w", height, err)
	}
	if len(features) > 0 {
		if err := p.repo.InsertPoolFeatures(ctx, features); err != nil {
			return fmt.Errorf("insert pool features at %d: %w", height, err)
		}
	}
	if err := p.repo.InsertBlockStats(ctx, []model.BlockStats{stats}); err != nil {
		return fmt.Errorf("insert block stats at %d: %w", height, err)
	}
	return nil
}
