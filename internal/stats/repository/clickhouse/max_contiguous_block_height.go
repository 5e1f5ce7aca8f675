package clickhouse

import (
	"context"
	"fmt"
	"time"
)

// MaxContiguousBlockHeight returns the greatest height H such that every
// height in [0, H] has a stored row. Returns ErrNotFound for an empty store
// or when the chain of rows does not start at height 0.
func (r *Repository) MaxContiguousBlockHeight(ctx context.Context) (uint64, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("max_contiguous_block_height", r.network, err, start)
	}()

	const query = `WITH data AS (
    SELECT
        height,
        row_number() OVER (ORDER BY height) - 1 AS rn
    FROM block_stats
    GROUP BY height
)
SELECT max(height) AS max_contiguous_height
FROM data
WHERE rn = height
HAVING count() > 0
LIMIT 1`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("query max contiguous block height: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var height uint64
	if !rows.Next() {
		err = fmt.Errorf("max contiguous block height: %w", ErrNotFound)
		return 0, err
	}

	if err = rows.Scan(&height); err != nil {
		return 0, fmt.Errorf("scan max contiguous block height: %w", err)
	}

	return height, nil
}
