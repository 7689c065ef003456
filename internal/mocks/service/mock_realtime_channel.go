package service

import (
	"context"

	"tiffin/internal/domain/entity"
	"tiffin/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockRealtimeChannel is a testify mock of service.RealtimeChannel.
type MockRealtimeChannel struct {
	mock.Mock
}

// MockRealtimeChannel_Expecter builds expectations one method at a time.
type MockRealtimeChannel_Expecter struct {
	mock *mock.Mock
}

func (_m *MockRealtimeChannel) EXPECT() *MockRealtimeChannel_Expecter {
	return &MockRealtimeChannel_Expecter{mock: &_m.Mock}
}

var _ service.RealtimeChannel = (*MockRealtimeChannel)(nil)

func (_m *MockRealtimeChannel) Open(ctx context.Context, credential entity.Credential) error {
	ret := _m.Called(ctx, credential)

	return ret.Error(0)
}

func (_e *MockRealtimeChannel_Expecter) Open(ctx any, credential any) *mock.Call {
	return _e.mock.On("Open", ctx, credential)
}

func (_m *MockRealtimeChannel) Close() error {
	ret := _m.Called()

	return ret.Error(0)
}

func (_e *MockRealtimeChannel_Expecter) Close() *mock.Call {
	return _e.mock.On("Close")
}

func (_m *MockRealtimeChannel) State() service.ChannelState {
	ret := _m.Called()

	r0, _ := ret.Get(0).(service.ChannelState)

	return r0
}

func (_e *MockRealtimeChannel_Expecter) State() *mock.Call {
	return _e.mock.On("State")
}

func (_m *MockRealtimeChannel) Subscribe(kind entity.EventKind, handler service.EventHandler) {
	_m.Called(kind, handler)
}

func (_e *MockRealtimeChannel_Expecter) Subscribe(kind any, handler any) *mock.Call {
	return _e.mock.On("Subscribe", kind, handler)
}

func (_m *MockRealtimeChannel) OnStateChange(listener func(service.ChannelState)) {
	_m.Called(listener)
}

func (_e *MockRealtimeChannel_Expecter) OnStateChange(listener any) *mock.Call {
	return _e.mock.On("OnStateChange", listener)
}

// NewMockRealtimeChannel creates a mock that asserts its expectations when the test ends.
func NewMockRealtimeChannel(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRealtimeChannel {
	m := &MockRealtimeChannel{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
