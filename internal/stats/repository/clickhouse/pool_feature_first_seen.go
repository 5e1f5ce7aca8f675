package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

// PoolFeatureFirstSeen aggregates, per pool and feature, the first block
// height and date the feature was observed and the cumulative occurrence
// count. First-seen is derived at read time over the latest row per
// (feature, pool, height), so rewritten heights never skew it.
func (r *Repository) PoolFeatureFirstSeen(ctx context.Context) ([]model.PoolFeatureFirstSeen, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("pool_feature_first_seen", r.network, err, start)
	}()

	const query = `
WITH latest AS (
    SELECT
        feature,
        pool_id,
        height,
        argMax(pool_name, updated_at) AS pool_name,
        argMax(date, updated_at) AS date,
        argMax(occurrences, updated_at) AS occurrences
    FROM pool_feature_stats
    GROUP BY feature, pool_id, height
)
SELECT
    pool_id,
    anyLast(pool_name) AS pool_name,
    feature,
    min(height) AS first_height,
    argMin(date, height) AS first_date,
    sum(occurrences) AS occurrences
FROM latest
GROUP BY feature, pool_id
ORDER BY feature ASC, first_height ASC, pool_id ASC`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query pool feature first seen: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var result []model.PoolFeatureFirstSeen
	for rows.Next() {
		var (
			row       model.PoolFeatureFirstSeen
			feature   string
			firstDate time.Time
		)
		if err = rows.Scan(
			&row.PoolID,
			&row.PoolName,
			&feature,
			&row.FirstHeight,
			&firstDate,
			&row.Occurrences,
		); err != nil {
			return nil, fmt.Errorf("scan pool feature first seen: %w", err)
		}

		row.Feature = model.Feature(feature)
		row.FirstDate = firstDate.Format(time.DateOnly)
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pool feature first seen: %w", err)
	}

	return result, nil
}
