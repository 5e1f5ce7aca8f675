package clickhouse

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

// InsertTransactionOutputs stores created outputs in the prevout lookup
// table so later blocks can resolve spends of them.
func (r *Repository) InsertTransactionOutputs(ctx context.Context, outputs []model.PrevOutput) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_transaction_outputs", r.network, err, start)
	}()

	if len(outputs) == 0 {
		return nil
	}

	const query = `
INSERT INTO transaction_outputs_lookup (
	txid,
	output_index,
	value,
	script_hex,
	height,
	updated_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare transaction outputs batch: %w", err)
	}

	now := time.Now().UTC()
	for _, output := range outputs {
		if err = batch.Append(
			output.TxID,
			output.Index,
			output.Value,
			hex.EncodeToString(output.PkScript),
			output.Height,
			now,
		); err != nil {
			return fmt.Errorf("append transaction output: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert transaction outputs: %w", err)
	}
	return nil
}
