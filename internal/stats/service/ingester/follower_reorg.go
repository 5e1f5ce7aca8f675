package ingester

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// rollback walks down from the stored tip comparing node hashes against
// stored hashes until they agree, removes everything above that fork
// point and returns the fork height with its hash. Walking past the
// configured depth, or reaching a genesis the node does not recognize,
// is ErrConsistency: the store no longer describes the node's chain.
func (s *FollowerService) rollback(ctx context.Context, tip uint64) (uint64, string, error) {
	for depth := uint64(0); depth <= s.reorgMaxDepth && depth <= tip; depth++ {
		height := tip - depth

		stored, err := s.repo.BlockStats(ctx, height)
		if err != nil {
			return 0, "", fmt.Errorf("stored block %d: %w", height, err)
		}
		nodeHash, err := s.chain.HashAt(ctx, height)
		if err != nil {
			return 0, "", fmt.Errorf("node hash at %d: %w", height, err)
		}

		if nodeHash != stored.Hash {
			if height == 0 {
				return 0, "", fmt.Errorf("stored genesis %s, node has %s: %w", stored.Hash, nodeHash, ErrConsistency)
			}
			continue
		}

		if depth > 0 {
			if err := s.removeAbove(ctx, height, tip); err != nil {
				return 0, "", err
			}
			s.metrics.ObserveReorg(depth)
			s.logger.Warn("rolled back chain reorganization",
				zap.Uint64("fork_height", height),
				zap.Uint64("depth", depth),
			)
		}
		return height, stored.Hash, nil
	}

	return 0, "", fmt.Errorf("no common ancestor within %d blocks below height %d: %w", s.reorgMaxDepth, tip, ErrConsistency)
}

func (s *FollowerService) removeAbove(ctx context.Context, fork, tip uint64) error {
	if err := s.repo.DeleteBlockRange(ctx, fork+1, tip); err != nil {
		return fmt.Errorf("delete block range %d-%d: %w", fork+1, tip, err)
	}
	if err := s.repo.DeleteOutputsRange(ctx, fork+1, tip); err != nil {
		return fmt.Errorf("delete outputs range %d-%d: %w", fork+1, tip, err)
	}
	for height := fork + 1; height <= tip; height++ {
		if err := s.repo.DeletePoolFeatures(ctx, height); err != nil {
			return fmt.Errorf("delete pool features at %d: %w", height, err)
		}
	}
	return nil
}
