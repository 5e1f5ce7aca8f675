package clickhouse

import (
	"context"
	"fmt"
	"time"
)

// DeleteOutputsRange removes output lookup rows created in blocks with
// from <= height <= to, so a rolled-back branch cannot resolve prevouts.
func (r *Repository) DeleteOutputsRange(ctx context.Context, from, to uint64) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("delete_outputs_range", r.network, err, start)
	}()

	const query = `
DELETE FROM transaction_outputs_lookup
WHERE height >= ? AND height <= ?`

	if err = r.conn.Exec(ctx, query, from, to); err != nil {
		return fmt.Errorf("delete outputs range: %w", err)
	}
	return nil
}
