package ingester

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/clock"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/repository/clickhouse"
	"go.uber.org/zap"
)

// ErrConsistency marks disagreements between the store and the chain that
// the follower must not write over, like a height gap or a reorganization
// deeper than the rollback bound. Run exits on it instead of retrying.
var ErrConsistency = errors.New("store inconsistent with chain")

// FollowerService ingests new blocks in strict height order. It is the
// only writer of previously unseen heights; background sweeps only
// rewrite heights it has already published.
type FollowerService struct {
	logger                *zap.Logger
	metrics               FollowerMetrics
	sleep                 func(context.Context, time.Duration) error
	caughtUpSleepDuration time.Duration
	errorSleepDuration    time.Duration
	reorgMaxDepth         uint64
	chain                 ChainSource
	repo                  ClickhouseRepository
	outputs               OutputWriter
	blockProcessor        BlockProcessor
	blockSignal           <-chan struct{}

	next       uint64
	prevHash   string
	tipAdvance atomic.Int64
}

// NewFollowerService builds a FollowerService. blockSignal may be nil;
// when set, a fire wakes the follower out of its caught-up sleep.
// reorgMaxDepth zero selects the default rollback bound.
func NewFollowerService(
	repo ClickhouseRepository,
	chain ChainSource,
	attributor Attributor,
	claims Claims,
	metrics FollowerMetrics,
	network model.Network,
	logger *zap.Logger,
	blockSignal <-chan struct{},
	reorgMaxDepth uint64,
) (*FollowerService, error) {
	logger = logger.With(zap.String("network", string(network)))
	if metrics == nil {
		return nil, errors.New("follower metrics is required")
	}
	if reorgMaxDepth == 0 {
		reorgMaxDepth = defaultReorgMaxDepth
	}

	outputs := newOutputWriter(repo, logger)

	return &FollowerService{
		logger:                logger,
		metrics:               metrics,
		sleep:                 clock.SleepWithContext,
		caughtUpSleepDuration: caughtUpSleepDuration,
		errorSleepDuration:    errorSleepDuration,
		reorgMaxDepth:         reorgMaxDepth,
		chain:                 chain,
		repo:                  repo,
		outputs:               outputs,
		blockSignal:           blockSignal,
		blockProcessor: &followerBlockProcessor{
			repo:    repo,
			claims:  claims,
			outputs: outputs,
			rows: &rowBuilder{
				resolver:   &prevoutResolver{repo: repo},
				attributor: attributor,
			},
			logger: logger.Named("blockProcessor"),
		},
	}, nil
}

// LastTipAdvance reports when the follower last published a block. The
// resync sweep sizes its batches around it: small while ingestion is
// hot, large once the follower idles.
func (s *FollowerService) LastTipAdvance() time.Time {
	nanos := s.tipAdvance.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}

// Run follows the chain until the context is canceled. It returns early
// only on ErrConsistency; everything else is logged and retried.
func (s *FollowerService) Run(ctx context.Context) error {
	next, prevHash, err := s.startHeight(ctx)
	if err != nil {
		return err
	}
	s.next, s.prevHash = next, prevHash
	s.logger.Info("following chain", zap.Uint64("start_height", next))

	s.outputs.Start(ctx)
	defer s.outputs.Stop()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.run(ctx); err != nil {
			if errors.Is(err, ErrConsistency) {
				return err
			}
			s.logger.Warn("run iteration failed, backing off", zap.Error(err), zap.Duration("sleep", s.errorSleepDuration))
			if sleepErr := s.sleep(ctx, s.errorSleepDuration); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

// startHeight resolves the height to resume from and the stored hash the
// next block must link to. Stored heights that are non-empty but not
// contiguous from zero mean earlier writes were lost; resuming would
// bake the gap in, so the follower refuses to start.
func (s *FollowerService) startHeight(ctx context.Context) (uint64, string, error) {
	contiguous, err := s.repo.MaxContiguousBlockHeight(ctx)
	if errors.Is(err, clickhouse.ErrNotFound) {
		max, maxErr := s.repo.MaxBlockHeight(ctx)
		if maxErr != nil {
			return 0, "", fmt.Errorf("max stored height: %w", maxErr)
		}
		if max > 0 {
			return 0, "", fmt.Errorf("stored heights start above zero, max %d: %w", max, ErrConsistency)
		}
		return 0, "", nil
	}
	if err != nil {
		return 0, "", fmt.Errorf("max contiguous height: %w", err)
	}

	max, err := s.repo.MaxBlockHeight(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("max stored height: %w", err)
	}
	if max != contiguous {
		return 0, "", fmt.Errorf("stored heights have a gap: contiguous %d, max %d: %w", contiguous, max, ErrConsistency)
	}

	stored, err := s.repo.BlockStats(ctx, contiguous)
	if err != nil {
		return 0, "", fmt.Errorf("stored block %d: %w", contiguous, err)
	}
	return contiguous + 1, stored.Hash, nil
}

func (s *FollowerService) run(ctx context.Context) error {
	best, err := s.chain.BestHeight(ctx)
	if err != nil {
		return fmt.Errorf("node best height: %w", err)
	}
	s.metrics.SetChainHeight(best)

	if s.next > best {
		return s.wait(ctx, s.caughtUpSleepDuration)
	}

	for s.next <= best {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// step ingests exactly one height, or rolls back on a broken parent link.
func (s *FollowerService) step(ctx context.Context) error {
	next := s.next

	block, err := s.chain.BlockAt(ctx, next)
	if err != nil {
		return fmt.Errorf("fetch block %d: %w", next, err)
	}

	if next > 0 && block.PrevHash != s.prevHash {
		s.logger.Info("block does not link to stored parent",
			zap.Uint64("height", next),
			zap.String("prev_hash", block.PrevHash),
			zap.String("stored_hash", s.prevHash),
		)
		fork, forkHash, err := s.rollback(ctx, next-1)
		if err != nil {
			return err
		}
		s.next, s.prevHash = fork+1, forkHash
		return nil
	}

	started := time.Now()
	err = s.blockProcessor.Process(ctx, block)
	s.metrics.ObserveProcessBlock(err, started)
	if err != nil {
		return fmt.Errorf("process block %d: %w", next, err)
	}

	s.next, s.prevHash = next+1, block.Hash
	s.tipAdvance.Store(time.Now().UnixNano())
	s.metrics.SetProcessedHeight(next)
	return nil
}

func (s *FollowerService) wait(ctx context.Context, d time.Duration) error {
	if s.blockSignal == nil {
		return s.sleep(ctx, d)
	}
	return clock.SleepUntilSignal(ctx, s.blockSignal, d)
}
