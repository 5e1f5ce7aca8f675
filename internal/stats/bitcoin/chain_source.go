package bitcoin

import (
	"context"
	"fmt"
	"math"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/goodnatureofminers/blockstats7000-backend/pkg/safe"
)

// ChainSource reads blocks from an already synced Bitcoin node. Heights and
// hashes always describe the node's current active chain, so the answers may
// shift between calls during a reorg; writers validate hashes at write time.
type ChainSource struct {
	rpc NodeRPC
}

// NewChainSource creates a ChainSource on top of an instrumented RPC client.
func NewChainSource(rpc NodeRPC) *ChainSource {
	return &ChainSource{rpc: rpc}
}

// BestHeight returns the node's current tip height.
func (s *ChainSource) BestHeight(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count, err := s.rpc.GetBlockCount()
	if err != nil {
		return 0, fmt.Errorf("get block count: %w", err)
	}
	height, err := safe.Uint64(count)
	if err != nil {
		return 0, fmt.Errorf("block count overflow: %w", err)
	}
	return height, nil
}

// HashAt returns the active-chain block hash at the given height.
func (s *ChainSource) HashAt(ctx context.Context, height uint64) (string, error) {
	if height > math.MaxInt64 {
		return "", fmt.Errorf("block height %d exceeds rpc limit", height)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	hash, err := s.rpc.GetBlockHash(int64(height))
	if err != nil {
		return "", fmt.Errorf("get block hash at height %d: %w", height, err)
	}
	return hash.String(), nil
}

// BlockAt fetches and decodes the active-chain block at the given height.
func (s *ChainSource) BlockAt(ctx context.Context, height uint64) (model.Block, error) {
	if height > math.MaxInt64 {
		return model.Block{}, fmt.Errorf("block height %d exceeds rpc limit", height)
	}
	if err := ctx.Err(); err != nil {
		return model.Block{}, err
	}
	hash, err := s.rpc.GetBlockHash(int64(height))
	if err != nil {
		return model.Block{}, fmt.Errorf("get block hash at height %d: %w", height, err)
	}
	src, err := s.rpc.GetBlock(hash)
	if err != nil {
		return model.Block{}, fmt.Errorf("get block %s: %w", hash, err)
	}
	return BuildBlock(src, height)
}
