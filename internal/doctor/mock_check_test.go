package doctor

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCheck is a testify mock of Check in the mockery expecter style.
type MockCheck struct {
	mock.Mock
}

// NewMockCheck creates a MockCheck whose expectations are asserted at
// cleanup.
func NewMockCheck(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCheck {
	m := &MockCheck{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type MockCheck_Expecter struct {
	mock *mock.Mock
}

func (_m *MockCheck) EXPECT() *MockCheck_Expecter {
	return &MockCheck_Expecter{mock: &_m.Mock}
}

func (_m *MockCheck) Name() string {
	return _m.Called().String(0)
}

func (_m *MockCheck) Category() string {
	return _m.Called().String(0)
}

func (_m *MockCheck) Run(ctx context.Context) *CheckResult {
	ret := _m.Called(ctx)
	r, _ := ret.Get(0).(*CheckResult)
	return r
}

type MockCheck_String_Call struct {
	*mock.Call
}

func (_c *MockCheck_String_Call) Return(s string) *MockCheck_String_Call {
	_c.Call.Return(s)
	return _c
}

func (_e *MockCheck_Expecter) Name() *MockCheck_String_Call {
	return &MockCheck_String_Call{Call: _e.mock.On("Name")}
}

func (_e *MockCheck_Expecter) Category() *MockCheck_String_Call {
	return &MockCheck_String_Call{Call: _e.mock.On("Category")}
}

type MockCheck_Run_Call struct {
	*mock.Call
}

func (_c *MockCheck_Run_Call) Return(r *CheckResult) *MockCheck_Run_Call {
	_c.Call.Return(r)
	return _c
}

func (_e *MockCheck_Expecter) Run(ctx any) *MockCheck_Run_Call {
	return &MockCheck_Run_Call{Call: _e.mock.On("Run", ctx)}
}
