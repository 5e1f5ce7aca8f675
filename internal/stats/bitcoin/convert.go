package bitcoin

import (
	"fmt"
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/goodnatureofminers/blockstats7000-backend/pkg/safe"
)

// witnessScaleFactor relates stripped size and total size to weight.
const witnessScaleFactor = 4

// BuildBlock maps a decoded wire block at the given height into the domain model.
func BuildBlock(src *wire.MsgBlock, height uint64) (model.Block, error) {
	block := model.Block{
		Height:    height,
		Hash:      src.BlockHash().String(),
		PrevHash:  src.Header.PrevBlock.String(),
		Timestamp: src.Header.Timestamp.UTC(),
		Txs:       make([]model.Transaction, 0, len(src.Transactions)),
	}

	for _, msgTx := range src.Transactions {
		tx, err := convertTransaction(msgTx)
		if err != nil {
			return model.Block{}, fmt.Errorf("block %d tx %s: %w", height, msgTx.TxHash(), err)
		}
		block.Txs = append(block.Txs, tx)
	}

	return block, nil
}

func convertTransaction(src *wire.MsgTx) (model.Transaction, error) {
	total := src.SerializeSize()
	stripped := src.SerializeSizeStripped()

	size, err := safe.Uint32(total)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("size overflow: %w", err)
	}
	weight := stripped*(witnessScaleFactor-1) + total
	vsize, err := safe.Uint32((weight + witnessScaleFactor - 1) / witnessScaleFactor)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("vsize overflow: %w", err)
	}

	tx := model.Transaction{
		TxID:     src.TxHash().String(),
		Version:  src.Version,
		LockTime: src.LockTime,
		Size:     size,
		VSize:    vsize,
		Inputs:   make([]model.TxInput, 0, len(src.TxIn)),
		Outputs:  make([]model.TxOutput, 0, len(src.TxOut)),
	}

	for _, in := range src.TxIn {
		tx.Inputs = append(tx.Inputs, model.TxInput{
			PrevTxID:  in.PreviousOutPoint.Hash.String(),
			PrevIndex: in.PreviousOutPoint.Index,
			ScriptSig: in.SignatureScript,
			Witness:   in.Witness,
			Sequence:  in.Sequence,
			Coinbase:  isCoinbaseInput(in),
		})
	}

	for _, out := range src.TxOut {
		value, err := safe.Uint64(out.Value)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("output value overflow: %w", err)
		}
		tx.Outputs = append(tx.Outputs, model.TxOutput{
			Value:    value,
			PkScript: out.PkScript,
		})
	}

	return tx, nil
}

func isCoinbaseInput(in *wire.TxIn) bool {
	return in.PreviousOutPoint.Index == math.MaxUint32 &&
		in.PreviousOutPoint.Hash == (chainhash.Hash{})
}
