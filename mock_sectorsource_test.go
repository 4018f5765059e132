// Hand-written gomock mock of the sectorSource interface in device.go,
// laid out the way mockgen output is.

package fat16

import (
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"
)

// MockSectorSource is a mock of sectorSource interface.
type MockSectorSource struct {
	ctrl     *gomock.Controller
	recorder *MockSectorSourceMockRecorder
}

// MockSectorSourceMockRecorder is the mock recorder for MockSectorSource.
type MockSectorSourceMockRecorder struct {
	mock *MockSectorSource
}

// NewMockSectorSource creates a new mock instance.
func NewMockSectorSource(ctrl *gomock.Controller) *MockSectorSource {
	mock := &MockSectorSource{ctrl: ctrl}
	mock.recorder = &MockSectorSourceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSectorSource) EXPECT() *MockSectorSourceMockRecorder {
	return m.recorder
}

// Read mocks base method.
func (m *MockSectorSource) Read(p []byte) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Read", p)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Read indicates an expected call of Read.
func (mr *MockSectorSourceMockRecorder) Read(p interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Read", reflect.TypeOf((*MockSectorSource)(nil).Read), p)
}

// Seek mocks base method.
func (m *MockSectorSource) Seek(offset int64, whence int) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Seek", offset, whence)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Seek indicates an expected call of Seek.
func (mr *MockSectorSourceMockRecorder) Seek(offset, whence interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Seek", reflect.TypeOf((*MockSectorSource)(nil).Seek), offset, whence)
}
