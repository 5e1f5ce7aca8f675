package clickhouse

import (
	"context"
	"fmt"
	"time"
)

// DeletePoolFeatures removes every feature occurrence row recorded for a
// height. Rewriting a height deletes first so the read-time aggregates
// never double count.
func (r *Repository) DeletePoolFeatures(ctx context.Context, height uint64) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("delete_pool_features", r.network, err, start)
	}()

	const query = `
DELETE FROM pool_feature_stats
WHERE height = ?`

	if err = r.conn.Exec(ctx, query, height); err != nil {
		return fmt.Errorf("delete pool features: %w", err)
	}
	return nil
}
