package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

// InsertPoolFeatures stores per-block feature occurrence rows.
func (r *Repository) InsertPoolFeatures(ctx context.Context, rows []model.PoolFeature) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_pool_features", r.network, err, start)
	}()

	if len(rows) == 0 {
		return nil
	}

	const query = `
INSERT INTO pool_feature_stats (
	feature,
	pool_id,
	pool_name,
	height,
	date,
	occurrences,
	updated_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare pool features batch: %w", err)
	}

	now := time.Now().UTC()
	for _, row := range rows {
		var date time.Time
		date, err = time.Parse(time.DateOnly, row.Date)
		if err != nil {
			return fmt.Errorf("parse feature date %q: %w", row.Date, err)
		}

		if err = batch.Append(
			string(row.Feature),
			row.PoolID,
			row.PoolName,
			row.Height,
			date,
			row.Occurrences,
			now,
		); err != nil {
			return fmt.Errorf("append pool feature: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert pool features: %w", err)
	}
	return nil
}
