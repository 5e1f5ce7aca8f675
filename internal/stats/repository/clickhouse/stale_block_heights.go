package clickhouse

import (
	"context"
	"fmt"
	"time"
)

// StaleBlockHeights returns up to limit heights, ascending, whose latest
// stored row carries a stats version below wantVersion. Each call re-reads
// current state, so a sweep interrupted at any point can simply start over.
func (r *Repository) StaleBlockHeights(ctx context.Context, wantVersion uint32, limit uint64) ([]uint64, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("stale_block_heights", r.network, err, start)
	}()

	if limit == 0 {
		return nil, nil
	}

	const query = `
SELECT height
FROM (
    SELECT
        height,
        argMax(stats_version, updated_at) AS stats_version
    FROM block_stats
    GROUP BY height
)
WHERE stats_version < ?
ORDER BY height ASC
LIMIT ?`

	rows, err := r.conn.Query(ctx, query, wantVersion, limit)
	if err != nil {
		return nil, fmt.Errorf("query stale block heights: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var heights []uint64
	for rows.Next() {
		var height uint64
		if err = rows.Scan(&height); err != nil {
			return nil, fmt.Errorf("scan stale block height: %w", err)
		}
		heights = append(heights, height)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stale block heights: %w", err)
	}

	return heights, nil
}
