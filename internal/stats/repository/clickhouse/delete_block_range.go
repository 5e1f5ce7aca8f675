package clickhouse

import (
	"context"
	"fmt"
	"time"
)

// DeleteBlockRange removes block statistics rows with from <= height <= to.
// Used for reorg rollback; the range is expected to be short.
func (r *Repository) DeleteBlockRange(ctx context.Context, from, to uint64) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("delete_block_range", r.network, err, start)
	}()

	const query = `
DELETE FROM block_stats
WHERE height >= ? AND height <= ?`

	if err = r.conn.Exec(ctx, query, from, to); err != nil {
		return fmt.Errorf("delete block range: %w", err)
	}
	return nil
}
