package ingester

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

// resyncHeightFetcher reads the next ascending batch of heights whose
// stored rows predate the current stats version. The batch size adapts
// to live ingestion: small while the follower advanced the tip recently,
// large once it idles.
type resyncHeightFetcher struct {
	repo        ClickhouseRepository
	tip         TipActivity
	activeLimit uint64
	idleLimit   uint64
	window      time.Duration
}

func (f *resyncHeightFetcher) Fetch(ctx context.Context) ([]uint64, error) {
	return f.repo.StaleBlockHeights(ctx, model.StatsVersion, f.limit())
}

func (f *resyncHeightFetcher) limit() uint64 {
	if time.Since(f.tip.LastTipAdvance()) < f.window {
		return f.activeLimit
	}
	return f.idleLimit
}
