package ingester

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// ChainSource reads heights, hashes and fully decoded blocks from the node.
	ChainSource interface {
		BestHeight(ctx context.Context) (uint64, error)
		HashAt(ctx context.Context, height uint64) (string, error)
		BlockAt(ctx context.Context, height uint64) (model.Block, error)
	}

	// ClickhouseRepository is the store surface ingestion reads and writes.
	ClickhouseRepository interface {
		MaxBlockHeight(ctx context.Context) (uint64, error)
		MaxContiguousBlockHeight(ctx context.Context) (uint64, error)
		BlockStats(ctx context.Context, height uint64) (model.BlockStats, error)
		StaleBlockHeights(ctx context.Context, wantVersion uint32, limit uint64) ([]uint64, error)
		InsertBlockStats(ctx context.Context, rows []model.BlockStats) error
		InsertPoolFeatures(ctx context.Context, rows []model.PoolFeature) error
		InsertTransactionOutputs(ctx context.Context, outputs []model.PrevOutput) error
		TransactionOutputsByTxIDs(ctx context.Context, txids []string) (map[model.Outpoint]model.PrevOutput, error)
		DeleteBlockRange(ctx context.Context, from, to uint64) error
		DeleteOutputsRange(ctx context.Context, from, to uint64) error
		DeletePoolFeatures(ctx context.Context, height uint64) error
	}

	// Attributor names the mining pool behind a coinbase transaction.
	Attributor interface {
		Attribute(coinbase model.Transaction) (model.Pool, bool)
	}

	// Claims hands out exclusive per-height write access. The follower
	// blocks on Claim; sweeps use TryClaim and skip contended heights.
	Claims interface {
		Claim(ctx context.Context, height uint64) error
		TryClaim(height uint64) bool
		Release(height uint64)
	}

	// OutputWriter batches transaction output writes. Flush is the barrier
	// callers take before writing rows that depend on the outputs.
	OutputWriter interface {
		Start(ctx context.Context)
		Stop()
		Write(ctx context.Context, output model.PrevOutput) error
		Flush(ctx context.Context) error
	}

	// BlockProcessor ingests one fetched block.
	BlockProcessor interface {
		Process(ctx context.Context, block model.Block) error
	}

	// HeightFetcher picks the next batch of heights for a sweep.
	HeightFetcher interface {
		Fetch(ctx context.Context) ([]uint64, error)
	}

	// HeightProcessor reprocesses a batch of heights.
	HeightProcessor interface {
		Process(ctx context.Context, heights []uint64) error
	}

	// TipActivity exposes when live ingestion last advanced the stored tip.
	TipActivity interface {
		LastTipAdvance() time.Time
	}

	FollowerMetrics interface {
		ObserveProcessBlock(err error, started time.Time)
		ObserveReorg(depth uint64)
		SetChainHeight(height uint64)
		SetProcessedHeight(height uint64)
	}

	ResyncMetrics interface {
		ObserveFetchStale(err error, started time.Time)
		ObserveProcessBatch(err error, heights int, started time.Time)
		ObserveProcessHeight(err error, started time.Time)
		ObserveSkipped(reason string)
	}
)
