// Code generated by MockGen. DO NOT EDIT.
// Source: stats_handler.go

// Package transport is a generated GoMock package.
package transport

import (
	context "context"
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"
	model "github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
)

// MockStatsReader is a mock of StatsReader interface.
type MockStatsReader struct {
	ctrl     *gomock.Controller
	recorder *MockStatsReaderMockRecorder
}

// MockStatsReaderMockRecorder is the mock recorder for MockStatsReader.
type MockStatsReaderMockRecorder struct {
	mock *MockStatsReader
}

// NewMockStatsReader creates a new mock instance.
func NewMockStatsReader(ctrl *gomock.Controller) *MockStatsReader {
	mock := &MockStatsReader{ctrl: ctrl}
	mock.recorder = &MockStatsReaderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStatsReader) EXPECT() *MockStatsReaderMockRecorder {
	return m.recorder
}

// MaxBlockHeight mocks base method.
func (m *MockStatsReader) MaxBlockHeight(ctx context.Context) (uint64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MaxBlockHeight", ctx)
	ret0, _ := ret[0].(uint64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// MaxBlockHeight indicates an expected call of MaxBlockHeight.
func (mr *MockStatsReaderMockRecorder) MaxBlockHeight(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MaxBlockHeight", reflect.TypeOf((*MockStatsReader)(nil).MaxBlockHeight), ctx)
}

// MaxContiguousBlockHeight mocks base method.
func (m *MockStatsReader) MaxContiguousBlockHeight(ctx context.Context) (uint64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MaxContiguousBlockHeight", ctx)
	ret0, _ := ret[0].(uint64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// MaxContiguousBlockHeight indicates an expected call of MaxContiguousBlockHeight.
func (mr *MockStatsReaderMockRecorder) MaxContiguousBlockHeight(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MaxContiguousBlockHeight", reflect.TypeOf((*MockStatsReader)(nil).MaxContiguousBlockHeight), ctx)
}

// MetricSeries mocks base method.
func (m *MockStatsReader) MetricSeries(ctx context.Context, column string) ([]model.MetricPoint, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MetricSeries", ctx, column)
	ret0, _ := ret[0].([]model.MetricPoint)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// MetricSeries indicates an expected call of MetricSeries.
func (mr *MockStatsReaderMockRecorder) MetricSeries(ctx, column interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MetricSeries", reflect.TypeOf((*MockStatsReader)(nil).MetricSeries), ctx, column)
}

// PoolFeatureFirstSeen mocks base method.
func (m *MockStatsReader) PoolFeatureFirstSeen(ctx context.Context) ([]model.PoolFeatureFirstSeen, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PoolFeatureFirstSeen", ctx)
	ret0, _ := ret[0].([]model.PoolFeatureFirstSeen)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// PoolFeatureFirstSeen indicates an expected call of PoolFeatureFirstSeen.
func (mr *MockStatsReaderMockRecorder) PoolFeatureFirstSeen(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PoolFeatureFirstSeen", reflect.TypeOf((*MockStatsReader)(nil).PoolFeatureFirstSeen), ctx)
}
