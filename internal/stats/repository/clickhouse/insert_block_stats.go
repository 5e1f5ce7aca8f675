package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"go.uber.org/zap"
)

// InsertBlockStats stores one wide statistics row per height. The current
// stats version and the write time are stamped here, not by the computer.
// A height whose stored version is newer than the running binary's is
// dropped with a warning: a stale deployment must never replace rows
// produced by a newer one.
func (r *Repository) InsertBlockStats(ctx context.Context, rows []model.BlockStats) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_block_stats", r.network, err, start)
	}()

	if len(rows) == 0 {
		return nil
	}

	heights := make([]uint64, 0, len(rows))
	for _, row := range rows {
		heights = append(heights, row.Height)
	}

	stored, err := r.storedStatsVersions(ctx, heights)
	if err != nil {
		return err
	}

	keep := rows[:0]
	for _, row := range rows {
		if version, ok := stored[row.Height]; ok && version > model.StatsVersion {
			r.logger.Warn("dropping block stats write older than stored version",
				zap.Uint64("height", row.Height),
				zap.Uint32("stored_version", version),
				zap.Uint32("write_version", model.StatsVersion),
			)
			continue
		}
		keep = append(keep, row)
	}
	if len(keep) == 0 {
		return nil
	}

	const query = `
INSERT INTO block_stats (
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
	tx_version_other,
	updated_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare block stats batch: %w", err)
	}

	now := time.Now().UTC()
	for _, row := range keep {
		var date time.Time
		date, err = time.Parse(time.DateOnly, row.Date)
		if err != nil {
			return fmt.Errorf("parse block date %q: %w", row.Date, err)
		}

		if err = batch.Append(
			row.Height,
			row.Hash,
			date,
			model.StatsVersion,
			row.Transactions,
			row.Inputs,
			row.Outputs,
			row.Empty,
			row.OutputsP2PK,
			row.OutputsP2PKH,
			row.OutputsP2WPKH,
			row.OutputsP2SH,
			row.OutputsP2WSH,
			row.OutputsP2TR,
			row.OutputsP2MS,
			row.OutputsP2A,
			row.OutputsOPReturn,
			row.OutputsUnknown,
			row.InputsCoinbase,
			row.InputsP2PK,
			row.InputsP2PKH,
			row.InputsP2WPKH,
			row.InputsP2SH,
			row.InputsP2WSH,
			row.InputsP2TRKeyPath,
			row.InputsP2TRScriptPath,
			row.InputsP2MS,
			row.InputsP2A,
			row.InputsUnknown,
			row.OPReturnBytes,
			row.SigsECDSA,
			row.SigsECDSABytes,
			row.SigsSchnorr,
			row.SigsSchnorrBytes,
			row.SigsUnclassified,
			row.SigsECDSALenLt70,
			row.SigsECDSALen70,
			row.SigsECDSALen71,
			row.SigsECDSALen72,
			row.SigsECDSALen73,
			row.SigsECDSALen74,
			row.SigsECDSALenGte75,
			row.InputsSpendAge0,
			row.InputsSpendAge1,
			row.InputsSpendAge6,
			row.InputsSpendAge144,
			row.InputsSpendAge2016,
			row.CoinbaseLockTime,
			row.CoinbaseSequence,
			row.CoinbaseBIP54,
			row.CoinbaseWitnessCommitment,
			row.DustCreated,
			row.DustSpent,
			row.P2ADustCreated,
			row.P2ADustSpent,
			row.TxVersion1,
			row.TxVersion2,
			row.TxVersion3,
			row.TxVersionOther,
			now,
		); err != nil {
			return fmt.Errorf("append block stats: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert block stats: %w", err)
	}
	return nil
}

func (r *Repository) storedStatsVersions(ctx context.Context, heights []uint64) (_ map[uint64]uint32, err error) {
	const query = `
SELECT
	height,
	argMax(stats_version, updated_at) AS stats_version
FROM block_stats
WHERE height IN ?
GROUP BY height`

	rows, err := r.conn.Query(ctx, query, heights)
	if err != nil {
		return nil, fmt.Errorf("query stored stats versions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	versions := make(map[uint64]uint32, len(heights))
	for rows.Next() {
		var (
			height  uint64
			version uint32
		)
		if err = rows.Scan(&height, &version); err != nil {
			return nil, fmt.Errorf("scan stored stats version: %w", err)
		}
		versions[height] = version
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stored stats versions: %w", err)
	}

	return versions, nil
}
