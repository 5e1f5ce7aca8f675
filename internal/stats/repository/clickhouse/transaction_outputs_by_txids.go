package clickhouse

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

// TransactionOutputsByTxIDs resolves every stored output of the given
// transactions, keyed by outpoint. Missing outpoints are simply absent from
// the map; the caller decides whether that is fatal.
func (r *Repository) TransactionOutputsByTxIDs(ctx context.Context, txids []string) (map[model.Outpoint]model.PrevOutput, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("transaction_outputs_by_txids", r.network, err, start)
	}()

	result := make(map[model.Outpoint]model.PrevOutput, len(txids))
	if len(txids) == 0 {
		return result, nil
	}

	const query = `
SELECT
	txid,
	output_index,
	anyLast(value) AS value,
	anyLast(script_hex) AS script_hex,
	anyLast(height) AS height
FROM transaction_outputs_lookup
WHERE txid IN ?
GROUP BY
	txid,
	output_index
SETTINGS max_threads = 1`

	rows, err := r.conn.Query(ctx, query, txids)
	if err != nil {
		return nil, fmt.Errorf("query transaction outputs by txids: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	for rows.Next() {
		var (
			output    model.PrevOutput
			scriptHex string
		)
		if err = rows.Scan(
			&output.TxID,
			&output.Index,
			&output.Value,
			&scriptHex,
			&output.Height,
		); err != nil {
			return nil, fmt.Errorf("scan transaction output: %w", err)
		}

		output.PkScript, err = hex.DecodeString(scriptHex)
		if err != nil {
			return nil, fmt.Errorf("decode output script: %w", err)
		}

		result[output.Outpoint()] = output
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction outputs: %w", err)
	}

	return result, nil
}
