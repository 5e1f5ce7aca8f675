// Package transport exposes gRPC/HTTP handlers.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/repository/clickhouse"
	"go.uber.org/zap"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// StatsReader is the repository surface the read API serves from.
type StatsReader interface {
	MetricSeries(ctx context.Context, column string) ([]model.MetricPoint, error)
	PoolFeatureFirstSeen(ctx context.Context) ([]model.PoolFeatureFirstSeen, error)
	MaxBlockHeight(ctx context.Context) (uint64, error)
	MaxContiguousBlockHeight(ctx context.Context) (uint64, error)
}

// StatsHandler serves the read-only statistics API.
type StatsHandler struct {
	logger *zap.Logger
	repo   StatsReader
}

// NewStatsHandler returns a StatsHandler instance.
func NewStatsHandler(repo StatsReader, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{logger: logger, repo: repo}
}

// Register mounts the read API on mux.
func (h *StatsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/metrics", h.metricNames)
	mux.HandleFunc("GET /v1/metrics/{name}", h.metricSeries)
	mux.HandleFunc("GET /v1/pools/features", h.poolFeatures)
	mux.HandleFunc("GET /v1/status", h.status)
}

type metricNamesResponse struct {
	Metrics []string `json:"metrics"`
}

type metricPoint struct {
	Date  string `json:"date"`
	Value uint64 `json:"value"`
}

type metricSeriesResponse struct {
	Metric string        `json:"metric"`
	Points []metricPoint `json:"points"`
}

type poolFeatureRow struct {
	Feature     string `json:"feature"`
	PoolID      uint32 `json:"pool_id"`
	PoolName    string `json:"pool_name"`
	FirstHeight uint64 `json:"first_height"`
	FirstDate   string `json:"first_date"`
	Occurrences uint64 `json:"occurrences"`
}

type poolFeaturesResponse struct {
	Features []poolFeatureRow `json:"features"`
}

type statusResponse struct {
	MaxContiguousHeight uint64 `json:"max_contiguous_height"`
	MaxHeight           uint64 `json:"max_height"`
	StatsVersion        uint32 `json:"stats_version"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *StatsHandler) metricNames(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, metricNamesResponse{Metrics: clickhouse.MetricColumns()})
}

func (h *StatsHandler) metricSeries(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	points, err := h.repo.MetricSeries(r.Context(), name)
	if errors.Is(err, clickhouse.ErrNotFound) {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown metric"})
		return
	}
	if err != nil {
		h.internalError(w, "metric series", err)
		return
	}

	resp := metricSeriesResponse{Metric: name, Points: make([]metricPoint, 0, len(points))}
	for _, p := range points {
		resp.Points = append(resp.Points, metricPoint{Date: p.Date, Value: p.Value})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *StatsHandler) poolFeatures(w http.ResponseWriter, r *http.Request) {
	rows, err := h.repo.PoolFeatureFirstSeen(r.Context())
	if err != nil {
		h.internalError(w, "pool features", err)
		return
	}

	resp := poolFeaturesResponse{Features: make([]poolFeatureRow, 0, len(rows))}
	for _, row := range rows {
		resp.Features = append(resp.Features, poolFeatureRow{
			Feature:     string(row.Feature),
			PoolID:      row.PoolID,
			PoolName:    row.PoolName,
			FirstHeight: row.FirstHeight,
			FirstDate:   row.FirstDate,
			Occurrences: row.Occurrences,
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *StatsHandler) status(w http.ResponseWriter, r *http.Request) {
	contiguous, err := h.repo.MaxContiguousBlockHeight(r.Context())
	if err != nil && !errors.Is(err, clickhouse.ErrNotFound) {
		h.internalError(w, "max contiguous height", err)
		return
	}

	max, err := h.repo.MaxBlockHeight(r.Context())
	if err != nil {
		h.internalError(w, "max height", err)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{
		MaxContiguousHeight: contiguous,
		MaxHeight:           max,
		StatsVersion:        model.StatsVersion,
	})
}

func (h *StatsHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encode response failed", zap.Error(err))
	}
}

func (h *StatsHandler) internalError(w http.ResponseWriter, operation string, err error) {
	h.logger.Error("read API query failed", zap.String("operation", operation), zap.Error(err))
	h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
