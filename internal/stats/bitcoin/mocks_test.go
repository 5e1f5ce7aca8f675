// Code generated by MockGen. DO NOT EDIT.
// Source: types.go

// Package bitcoin is a generated GoMock package.
package bitcoin

import (
	reflect "reflect"
	time "time"

	chainhash "github.com/btcsuite/btcd/chaincfg/chainhash"
	wire "github.com/btcsuite/btcd/wire"
	gomock "github.com/golang/mock/gomock"
)

// MockNodeRPC is a mock of NodeRPC interface.
type MockNodeRPC struct {
	ctrl     *gomock.Controller
	recorder *MockNodeRPCMockRecorder
}

// MockNodeRPCMockRecorder is the mock recorder for MockNodeRPC.
type MockNodeRPCMockRecorder struct {
	mock *MockNodeRPC
}

// NewMockNodeRPC creates a new mock instance.
func NewMockNodeRPC(ctrl *gomock.Controller) *MockNodeRPC {
	mock := &MockNodeRPC{ctrl: ctrl}
	mock.recorder = &MockNodeRPCMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockNodeRPC) EXPECT() *MockNodeRPCMockRecorder {
	return m.recorder
}

// GetBlock mocks base method.
func (m *MockNodeRPC) GetBlock(blockHash *chainhash.Hash) (*wire.MsgBlock, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetBlock", blockHash)
	ret0, _ := ret[0].(*wire.MsgBlock)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetBlock indicates an expected call of GetBlock.
func (mr *MockNodeRPCMockRecorder) GetBlock(blockHash interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBlock", reflect.TypeOf((*MockNodeRPC)(nil).GetBlock), blockHash)
}

// GetBlockCount mocks base method.
func (m *MockNodeRPC) GetBlockCount() (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetBlockCount")
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetBlockCount indicates an expected call of GetBlockCount.
func (mr *MockNodeRPCMockRecorder) GetBlockCount() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBlockCount", reflect.TypeOf((*MockNodeRPC)(nil).GetBlockCount))
}

// GetBlockHash mocks base method.
func (m *MockNodeRPC) GetBlockHash(blockHeight int64) (*chainhash.Hash, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetBlockHash", blockHeight)
	ret0, _ := ret[0].(*chainhash.Hash)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetBlockHash indicates an expected call of GetBlockHash.
func (mr *MockNodeRPCMockRecorder) GetBlockHash(blockHeight interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBlockHash", reflect.TypeOf((*MockNodeRPC)(nil).GetBlockHash), blockHeight)
}

// MockRPCMetrics is a mock of RPCMetrics interface.
type MockRPCMetrics struct {
	ctrl     *gomock.Controller
	recorder *MockRPCMetricsMockRecorder
}

// MockRPCMetricsMockRecorder is the mock recorder for MockRPCMetrics.
type MockRPCMetricsMockRecorder struct {
	mock *MockRPCMetrics
}

// NewMockRPCMetrics creates a new mock instance.
func NewMockRPCMetrics(ctrl *gomock.Controller) *MockRPCMetrics {
	mock := &MockRPCMetrics{ctrl: ctrl}
	mock.recorder = &MockRPCMetricsMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRPCMetrics) EXPECT() *MockRPCMetricsMockRecorder {
	return m.recorder
}

// Observe mocks base method.
func (m *MockRPCMetrics) Observe(operation string, err error, started time.Time) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Observe", operation, err, started)
}

// Observe indicates an expected call of Observe.
func (mr *MockRPCMetricsMockRecorder) Observe(operation, err, started interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Observe", reflect.TypeOf((*MockRPCMetrics)(nil).Observe), operation, err, started)
}
