package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

// BlockStats returns the latest stored statistics row for a height, or
// ErrNotFound when the height has never been written.
func (r *Repository) BlockStats(ctx context.Context, height uint64) (model.BlockStats, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("block_stats", r.network, err, start)
	}()

	const query = `
SELECT
	height,
	hash,
	date,
	stats_version,
	transactions,
	inputs,
	outputs,
	empty,
	outputs_p2pk,
	outputs_p2pkh,
	outputs_p2wpkh,
	outputs_p2sh,
	outputs_p2wsh,
	outputs_p2tr,
	outputs_p2ms,
	outputs_p2a,
	outputs_op_return,
	outputs_unknown,
	inputs_coinbase,
	inputs_p2pk,
	inputs_p2pkh,
	inputs_p2wpkh,
	inputs_p2sh,
	inputs_p2wsh,
	inputs_p2tr_keypath,
	inputs_p2tr_scriptpath,
	inputs_p2ms,
	inputs_p2a,
	inputs_unknown,
	op_return_bytes,
	sigs_ecdsa,
	sigs_ecdsa_bytes,
	sigs_schnorr,
	sigs_schnorr_bytes,
	sigs_unclassified,
	sigs_ecdsa_len_lt70,
	sigs_ecdsa_len_70,
	sigs_ecdsa_len_71,
	sigs_ecdsa_len_72,
	sigs_ecdsa_len_73,
	sigs_ecdsa_len_74,
	sigs_ecdsa_len_gte75,
	inputs_spend_age_0,
	inputs_spend_age_1,
	inputs_spend_age_6,
	inputs_spend_age_144,
	inputs_spend_age_2016,
	coinbase_locktime,
	coinbase_sequence,
	coinbase_bip54,
	coinbase_witness_commitment,
	dust_created,
	dust_spent,
	p2a_dust_created,
	p2a_dust_spent,
	tx_version_1,
	tx_version_2,
	tx_version_3,
	tx_version_other
FROM block_stats
WHERE height = ?
ORDER BY updated_at DESC
LIMIT 1`

	rows, err := r.conn.Query(ctx, query, height)
	if err != nil {
		return model.BlockStats{}, fmt.Errorf("query block stats: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		err = fmt.Errorf("block stats at height %d: %w", height, ErrNotFound)
		return model.BlockStats{}, err
	}

	var (
		stats model.BlockStats
		date  time.Time
	)
	if err = rows.Scan(
		&stats.Height,
		&stats.Hash,
		&date,
		&stats.StatsVersion,
		&stats.Transactions,
		&stats.Inputs,
		&stats.Outputs,
		&stats.Empty,
		&stats.OutputsP2PK,
		&stats.OutputsP2PKH,
		&stats.OutputsP2WPKH,
		&stats.OutputsP2SH,
		&stats.OutputsP2WSH,
		&stats.OutputsP2TR,
		&stats.OutputsP2MS,
		&stats.OutputsP2A,
		&stats.OutputsOPReturn,
		&stats.OutputsUnknown,
		&stats.InputsCoinbase,
		&stats.InputsP2PK,
		&stats.InputsP2PKH,
		&stats.InputsP2WPKH,
		&stats.InputsP2SH,
		&stats.InputsP2WSH,
		&stats.InputsP2TRKeyPath,
		&stats.InputsP2TRScriptPath,
		&stats.InputsP2MS,
		&stats.InputsP2A,
		&stats.InputsUnknown,
		&stats.OPReturnBytes,
		&stats.SigsECDSA,
		&stats.SigsECDSABytes,
		&stats.SigsSchnorr,
		&stats.SigsSchnorrBytes,
		&stats.SigsUnclassified,
		&stats.SigsECDSALenLt70,
		&stats.SigsECDSALen70,
		&stats.SigsECDSALen71,
		&stats.SigsECDSALen72,
		&stats.SigsECDSALen73,
		&stats.SigsECDSALen74,
		&stats.SigsECDSALenGte75,
		&stats.InputsSpendAge0,
		&stats.InputsSpendAge1,
		&stats.InputsSpendAge6,
		&stats.InputsSpendAge144,
		&stats.InputsSpendAge2016,
		&stats.CoinbaseLockTime,
		&stats.CoinbaseSequence,
		&stats.CoinbaseBIP54,
		&stats.CoinbaseWitnessCommitment,
		&stats.DustCreated,
		&stats.DustSpent,
		&stats.P2ADustCreated,
		&stats.P2ADustSpent,
		&stats.TxVersion1,
		&stats.TxVersion2,
		&stats.TxVersion3,
		&stats.TxVersionOther,
	); err != nil {
		return model.BlockStats{}, fmt.Errorf("scan block stats: %w", err)
	}

	stats.Date = date.Format(time.DateOnly)
	return stats, nil
}
