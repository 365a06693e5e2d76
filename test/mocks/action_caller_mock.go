package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/academy-portal/portal-client/internal/core/domain"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/ports"
)

// ActionCall records one invocation of MockActionCaller.Call.
type ActionCall struct {
	Action string
	Params map[string]any
}

// MockActionCaller returns scripted responses per logical action.
type MockActionCaller struct {
	mu sync.Mutex

	Responses map[string]domain.Response
	// Default is returned for actions without a scripted response.
	Default domain.Response
	Calls   []ActionCall
}

var _ ports.ActionCaller = (*MockActionCaller)(nil)

func NewMockActionCaller() *MockActionCaller {
	return &MockActionCaller{
		Responses: make(map[string]domain.Response),
		Default:   domain.Success(nil),
	}
}

// On scripts the response for an action.
func (m *MockActionCaller) On(action string, resp domain.Response) *MockActionCaller {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[action] = resp
	return m
}

func (m *MockActionCaller) Call(ctx context.Context, action string, params map[string]any) domain.Response {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, ActionCall{Action: action, Params: params})
	if resp, ok := m.Responses[action]; ok {
		return resp
	}
	return m.Default
}

// LastCall returns the most recent call, or false when there was none.
func (m *MockActionCaller) LastCall() (ActionCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Calls) == 0 {
		return ActionCall{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}

func (m *MockActionCaller) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
