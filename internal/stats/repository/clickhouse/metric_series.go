package clickhouse

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

// metricColumns whitelists the block_stats columns that can be exported as
// daily series. Only whitelisted names ever reach the query text; boolean
// columns sum to a per-day block count.
var metricColumns = map[string]struct{}{
	"transactions": {},
	"inputs":       {},
	"outputs":      {},
	"empty":        {},

	"outputs_p2pk":      {},
	"outputs_p2pkh":     {},
	"outputs_p2wpkh":    {},
	"outputs_p2sh":      {},
	"outputs_p2wsh":     {},
	"outputs_p2tr":      {},
	"outputs_p2ms":      {},
	"outputs_p2a":       {},
	"outputs_op_return": {},
	"outputs_unknown":   {},

	"inputs_coinbase":        {},
	"inputs_p2pk":            {},
	"inputs_p2pkh":           {},
	"inputs_p2wpkh":          {},
	"inputs_p2sh":            {},
	"inputs_p2wsh":           {},
	"inputs_p2tr_keypath":    {},
	"inputs_p2tr_scriptpath": {},
	"inputs_p2ms":            {},
	"inputs_p2a":             {},
	"inputs_unknown":         {},

	"op_return_bytes": {},

	"sigs_ecdsa":         {},
	"sigs_ecdsa_bytes":   {},
	"sigs_schnorr":       {},
	"sigs_schnorr_bytes": {},
	"sigs_unclassified":  {},

	"sigs_ecdsa_len_lt70":  {},
	"sigs_ecdsa_len_70":    {},
	"sigs_ecdsa_len_71":    {},
	"sigs_ecdsa_len_72":    {},
	"sigs_ecdsa_len_73":    {},
	"sigs_ecdsa_len_74":    {},
	"sigs_ecdsa_len_gte75": {},

	"inputs_spend_age_0":    {},
	"inputs_spend_age_1":    {},
	"inputs_spend_age_6":    {},
	"inputs_spend_age_144":  {},
	"inputs_spend_age_2016": {},

	"coinbase_bip54":              {},
	"coinbase_witness_commitment": {},

	"dust_created":     {},
	"dust_spent":       {},
	"p2a_dust_created": {},
	"p2a_dust_spent":   {},

	"tx_version_1":     {},
	"tx_version_2":     {},
	"tx_version_3":     {},
	"tx_version_other": {},
}

// MetricColumns returns the exportable column names, sorted.
func MetricColumns() []string {
	names := make([]string, 0, len(metricColumns))
	for name := range metricColumns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MetricSeries returns the daily sums of one whitelisted column over the
// latest row per height, ascending by date.
func (r *Repository) MetricSeries(ctx context.Context, column string) ([]model.MetricPoint, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("metric_series", r.network, err, start)
	}()

	if _, ok := metricColumns[column]; !ok {
		err = fmt.Errorf("metric column %q: %w", column, ErrNotFound)
		return nil, err
	}

	query := fmt.Sprintf(`
WITH latest AS (
    SELECT
        height,
        argMax(date, updated_at) AS date,
        argMax(%s, updated_at) AS value
    FROM block_stats
    GROUP BY height
)
SELECT
    date,
    sum(value) AS value
FROM latest
GROUP BY date
ORDER BY date ASC`, column)

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query metric series: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var points []model.MetricPoint
	for rows.Next() {
		var (
			date  time.Time
			value uint64
		)
		if err = rows.Scan(&date, &value); err != nil {
			return nil, fmt.Errorf("scan metric point: %w", err)
		}
		points = append(points, model.MetricPoint{
			Date:  date.Format(time.DateOnly),
			Value: value,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metric series: %w", err)
	}

	return points, nil
}
