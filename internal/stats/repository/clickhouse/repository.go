package clickhouse

import (
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"go.uber.org/zap"
)

// ErrNotFound reports that a query matched no rows.
var ErrNotFound = errors.New("not found")

type (
	Metrics interface {
		Observe(operation string, network model.Network, err error, started time.Time)
	}
)

type Repository struct {
	conn    clickhouse.Conn
	logger  *zap.Logger
	metrics Metrics
	network model.Network
}

func NewRepository(dsn string, network model.Network, logger *zap.Logger, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	return &Repository{conn: conn, logger: logger, metrics: metrics, network: network}, nil
}
