package ingester

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/clock"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"go.uber.org/zap"
)

// ResyncService sweeps stored rows whose stats version predates the
// current build and recomputes them without blocking live ingestion.
// Once every row carries the current version the sweeps find nothing
// and the service idles.
type ResyncService struct {
	logger                 *zap.Logger
	metrics                ResyncMetrics
	sleep                  func(context.Context, time.Duration) error
	postBatchSleepDuration time.Duration
	idleSleepDuration      time.Duration
	heightFetcher          HeightFetcher
	heightProcessor        HeightProcessor
}

// NewResyncService builds a ResyncService. tip is the live follower's
// activity feed; workerCount zero selects the default pool size.
func NewResyncService(
	repo ClickhouseRepository,
	chain ChainSource,
	attributor Attributor,
	claims Claims,
	tip TipActivity,
	metrics ResyncMetrics,
	network model.Network,
	logger *zap.Logger,
	workerCount int,
) (*ResyncService, error) {
	logger = logger.With(zap.String("network", string(network)))
	if metrics == nil {
		return nil, errors.New("resync metrics is required")
	}
	if tip == nil {
		return nil, errors.New("tip activity is required")
	}
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}

	return &ResyncService{
		logger:                 logger,
		metrics:                metrics,
		sleep:                  clock.SleepWithContext,
		postBatchSleepDuration: postBatchSleepDuration,
		idleSleepDuration:      idleSleepDuration,
		heightFetcher: &resyncHeightFetcher{
			repo:        repo,
			tip:         tip,
			activeLimit: resyncActiveBatchLimit,
			idleLimit:   resyncIdleBatchLimit,
			window:      tipActivityWindow,
		},
		heightProcessor: &resyncHeightProcessor{
			workerCount: workerCount,
			repo:        repo,
			chain:       chain,
			claims:      claims,
			rows: &rowBuilder{
				resolver:   &prevoutResolver{repo: repo},
				attributor: attributor,
			},
			metrics: metrics,
			logger:  logger.Named("heightProcessor"),
		},
	}, nil
}

// Run sweeps until the context is canceled.
func (s *ResyncService) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.run(ctx); err != nil {
			s.logger.Warn("run iteration failed, backing off", zap.Error(err), zap.Duration("sleep", s.postBatchSleepDuration))
			if sleepErr := s.sleep(ctx, s.postBatchSleepDuration); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

func (s *ResyncService) run(ctx context.Context) error {
	started := time.Now()
	heights, err := s.heightFetcher.Fetch(ctx)
	s.metrics.ObserveFetchStale(err, started)
	if err != nil {
		s.logger.Error("fetch stale heights failed", zap.Error(err))
		return err
	}

	if len(heights) == 0 {
		s.logger.Debug("no stale heights; sweep converged", zap.Duration("sleep", s.idleSleepDuration))
		return s.sleep(ctx, s.idleSleepDuration)
	}

	s.logger.Info("recomputing stale heights",
		zap.Int("height_count", len(heights)),
		zap.Uint32("stats_version", model.StatsVersion),
	)
	started = time.Now()
	if err := s.heightProcessor.Process(ctx, heights); err != nil {
		s.metrics.ObserveProcessBatch(err, len(heights), started)
		return err
	}
	s.metrics.ObserveProcessBatch(nil, len(heights), started)

	return s.sleep(ctx, s.postBatchSleepDuration)
}
