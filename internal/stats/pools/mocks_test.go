// Code generated by MockGen. DO NOT EDIT.
// Source: types.go

// Package pools is a generated GoMock package.
package pools

import (
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"
)

// MockMetrics is a mock of Metrics interface.
type MockMetrics struct {
	ctrl     *gomock.Controller
	recorder *MockMetricsMockRecorder
}

// MockMetricsMockRecorder is the mock recorder for MockMetrics.
type MockMetricsMockRecorder struct {
	mock *MockMetrics
}

// NewMockMetrics creates a new mock instance.
func NewMockMetrics(ctrl *gomock.Controller) *MockMetrics {
	mock := &MockMetrics{ctrl: ctrl}
	mock.recorder = &MockMetricsMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockMetrics) EXPECT() *MockMetricsMockRecorder {
	return m.recorder
}

// ObserveReload mocks base method.
func (m *MockMetrics) ObserveReload(err error, pools int) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "ObserveReload", err, pools)
}

// ObserveReload indicates an expected call of ObserveReload.
func (mr *MockMetricsMockRecorder) ObserveReload(err, pools interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ObserveReload", reflect.TypeOf((*MockMetrics)(nil).ObserveReload), err, pools)
}
