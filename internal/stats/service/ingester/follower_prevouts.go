package ingester

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

// prevoutResolver assembles the prevout map a block's statistics need.
// Outputs created inside the block pre-seed the map at the block's own
// height, so same-block spends age as zero; the rest is batch-fetched
// from the store in one query.
type prevoutResolver struct {
	repo ClickhouseRepository
}

func (r *prevoutResolver) Resolve(ctx context.Context, block model.Block) (map[model.Outpoint]model.PrevOutput, error) {
	prevouts := make(map[model.Outpoint]model.PrevOutput)
	for _, tx := range block.Txs {
		for index, out := range tx.Outputs {
			output := model.PrevOutput{
				TxID:     tx.TxID,
				Index:    uint32(index),
				Value:    out.Value,
				PkScript: out.PkScript,
				Height:   block.Height,
			}
			prevouts[output.Outpoint()] = output
		}
	}

	var txids []string
	seen := make(map[string]struct{})
	for _, tx := range block.Txs {
		for _, in := range tx.Inputs {
			if in.Coinbase {
				continue
			}
			if _, ok := prevouts[model.Outpoint{TxID: in.PrevTxID, Index: in.PrevIndex}]; ok {
				continue
			}
			if _, ok := seen[in.PrevTxID]; ok {
				continue
			}
			seen[in.PrevTxID] = struct{}{}
			txids = append(txids, in.PrevTxID)
		}
	}
	if len(txids) == 0 {
		return prevouts, nil
	}

	stored, err := r.repo.TransactionOutputsByTxIDs(ctx, txids)
	if err != nil {
		return nil, fmt.Errorf("outputs of %d transactions: %w", len(txids), err)
	}

	// Outputs seeded from the block itself win: for the handful of
	// historic duplicate txids the stored row carries the older height.
	for outpoint, output := range stored {
		if _, ok := prevouts[outpoint]; !ok {
			prevouts[outpoint] = output
		}
	}
	return prevouts, nil
}
