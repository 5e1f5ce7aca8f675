package ingester

import (
	"context"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/goodnatureofminers/blockstats7000-backend/pkg/batcher"
	"go.uber.org/zap"
)

// outputWriter queues transaction outputs behind a batcher so per-block
// writes amortize into larger inserts.
type outputWriter struct {
	b *batcher.Batcher[model.PrevOutput]
}

func newOutputWriter(repo ClickhouseRepository, logger *zap.Logger) *outputWriter {
	return &outputWriter{
		b: batcher.New[model.PrevOutput](
			logger.Named("outputWriter"),
			repo.InsertTransactionOutputs,
			outputFlushSize,
			outputFlushInterval,
			outputFlushRPS,
		),
	}
}

func (w *outputWriter) Start(ctx context.Context) {
	w.b.Start(ctx)
}

func (w *outputWriter) Stop() {
	w.b.Stop()
}

func (w *outputWriter) Write(ctx context.Context, output model.PrevOutput) error {
	return w.b.Add(ctx, output)
}

func (w *outputWriter) Flush(ctx context.Context) error {
	return w.b.Flush(ctx)
}
