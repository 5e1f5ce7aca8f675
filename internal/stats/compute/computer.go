// Package compute derives the per-block statistics row from a decoded
// block and its resolved previous outputs. It performs no I/O: given the
// same block and prevout map it always produces the identical row, which
// is what makes versioned recomputation safe.
package compute

import (
	"fmt"
	"math"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/bitcoin"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

// Ephemeral dust qualifiers: a version 3 transaction stages dust when it
// pays no fee and stays under the package relay size; a sweep pays a fee
// and stays under the child size limit.
const (
	stageMaxVSize = 10000
	sweepMaxVSize = 1000
)

// BlockStats computes the statistics row for one block. prevouts must
// resolve every non-coinbase input, including outputs created earlier in
// the same block (at the block's own height, so they age as zero). An
// unresolved input fails the whole height; callers leave the height
// untouched and retry once the lookup can serve it.
func BlockStats(block model.Block, prevouts map[model.Outpoint]model.PrevOutput) (model.BlockStats, error) {
	stats := model.BlockStats{
		Height: block.Height,
		Hash:   block.Hash,
		Date:   block.Date(),
		Empty:  len(block.Txs) == 1,
	}

	staged := make(map[model.Outpoint]struct{})

	for txIndex, tx := range block.Txs {
		stats.Transactions++
		countTxVersion(&stats, tx.Version)

		if txIndex == 0 {
			tallyCoinbase(&stats, tx, block.Height)
		}

		var inValue, outValue uint64

		for _, in := range tx.Inputs {
			stats.Inputs++
			if in.Coinbase {
				stats.InputsCoinbase++
				continue
			}

			prev, ok := prevouts[model.Outpoint{TxID: in.PrevTxID, Index: in.PrevIndex}]
			if !ok {
				return model.BlockStats{}, fmt.Errorf("unresolved prevout %s:%d spent by %s", in.PrevTxID, in.PrevIndex, tx.TxID)
			}
			if prev.Height > block.Height {
				return model.BlockStats{}, fmt.Errorf("prevout %s:%d created at %d, above block %d", in.PrevTxID, in.PrevIndex, prev.Height, block.Height)
			}
			inValue += prev.Value

			class := bitcoin.ClassifyInput(prev.PkScript, in.Witness, in.ScriptSig)
			stats.AddInputClass(class)
			stats.AddSpendAge(block.Height - prev.Height)

			for _, sig := range bitcoin.ExtractSignatures(class, in.ScriptSig, in.Witness) {
				tallySignature(&stats, sig)
			}

			if class == model.ClassP2A && prev.Value < bitcoin.DustThreshold(prev.PkScript) {
				stats.P2ADustSpent++
			}
		}

		for _, out := range tx.Outputs {
			stats.Outputs++
			outValue += out.Value

			class := bitcoin.ClassifyOutput(out.PkScript)
			stats.AddOutputClass(class)

			switch class {
			case model.ClassOPReturn:
				stats.OPReturnBytes += bitcoin.OpReturnPayloadSize(out.PkScript)
			case model.ClassP2A:
				if out.Value < bitcoin.DustThreshold(out.PkScript) {
					stats.P2ADustCreated++
				}
			}
		}

		if txIndex > 0 {
			fee := int64(inValue) - int64(outValue)
			sweepStagedDust(&stats, tx, staged, fee)
			stageEphemeralDust(&stats, tx, staged, fee)
		}
	}

	return stats, nil
}

// sweepStagedDust removes every staged outpoint the transaction spends.
// The transaction counts as a sweep only when it also matches the sweep
// qualifiers, but a spent outpoint leaves the staged set either way.
func sweepStagedDust(stats *model.BlockStats, tx model.Transaction, staged map[model.Outpoint]struct{}, fee int64) {
	qualifies := tx.Version == 3 && fee != 0 && tx.VSize <= sweepMaxVSize
	swept := false

	for _, in := range tx.Inputs {
		if in.Coinbase {
			continue
		}
		outpoint := model.Outpoint{TxID: in.PrevTxID, Index: in.PrevIndex}
		if _, ok := staged[outpoint]; !ok {
			continue
		}
		delete(staged, outpoint)
		if qualifies {
			swept = true
		}
	}

	if swept {
		stats.DustSpent++
	}
}

// stageEphemeralDust records the transaction's dust output for same-block
// sweep detection. Transactions with more than one dust output were likely
// submitted out of band and are not staged.
func stageEphemeralDust(stats *model.BlockStats, tx model.Transaction, staged map[model.Outpoint]struct{}, fee int64) {
	if tx.Version != 3 || fee != 0 || tx.VSize > stageMaxVSize {
		return
	}

	dust := make([]model.Outpoint, 0, 1)
	for i, out := range tx.Outputs {
		if out.Value < bitcoin.DustThreshold(out.PkScript) {
			dust = append(dust, model.Outpoint{TxID: tx.TxID, Index: uint32(i)})
		}
	}

	if len(dust) == 1 {
		staged[dust[0]] = struct{}{}
		stats.DustCreated++
	}
}

func tallyCoinbase(stats *model.BlockStats, tx model.Transaction, height uint64) {
	stats.CoinbaseLockTime = tx.LockTime
	if len(tx.Inputs) > 0 {
		stats.CoinbaseSequence = tx.Inputs[0].Sequence
	}

	// BIP-54: locktime set to height minus one and a sequence that does
	// not disable absolute locktime.
	sequenceEnablesLockTime := false
	for _, in := range tx.Inputs {
		if in.Sequence != math.MaxUint32 {
			sequenceEnablesLockTime = true
			break
		}
	}
	stats.CoinbaseBIP54 = height > 0 && uint64(tx.LockTime) == height-1 && sequenceEnablesLockTime

	for _, out := range tx.Outputs {
		if bitcoin.IsWitnessCommitment(out.PkScript) {
			stats.CoinbaseWitnessCommitment = true
			break
		}
	}
}

func tallySignature(stats *model.BlockStats, sig model.SignatureRecord) {
	switch sig.Algorithm {
	case model.SigAlgECDSA:
		stats.SigsECDSA++
		stats.SigsECDSABytes += uint64(sig.Length)
		stats.AddECDSALen(sig.Length)
	case model.SigAlgSchnorr:
		stats.SigsSchnorr++
		stats.SigsSchnorrBytes += uint64(sig.Length)
	default:
		stats.SigsUnclassified++
	}
}

func countTxVersion(stats *model.BlockStats, version int32) {
	switch version {
	case 1:
		stats.TxVersion1++
	case 2:
		stats.TxVersion2++
	case 3:
		stats.TxVersion3++
	default:
		stats.TxVersionOther++
	}
}
