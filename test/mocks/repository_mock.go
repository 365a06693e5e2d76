// Package mocks provides mock implementations of port interfaces for testing.
package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/academy-portal/portal-client/internal/core/ports"
)

// MockSessionRepository implements ports.SessionRepository in memory with
// call tracking and per-operation error injection.
type MockSessionRepository struct {
	mu     sync.RWMutex
	values map[string]string

	// Call tracking for verification
	GetCalls    []string
	SetCalls    []string
	DeleteCalls []string

	// Error injection for testing error scenarios
	GetError    error
	SetError    error
	DeleteError error
	// DeleteErrors fails deletion of specific keys only.
	DeleteErrors map[string]error
}

var _ ports.SessionRepository = (*MockSessionRepository)(nil)

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		values:       make(map[string]string),
		DeleteErrors: make(map[string]error),
	}
}

// Seed stores a raw value for test setup.
func (m *MockSessionRepository) Seed(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Value returns the raw stored value for assertions.
func (m *MockSessionRepository) Value(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MockSessionRepository) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, key)
	if m.GetError != nil {
		return "", m.GetError
	}
	v, ok := m.values[key]
	if !ok {
		return "", ports.ErrSessionValueNotFound
	}
	return v, nil
}

func (m *MockSessionRepository) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, key)
	if m.SetError != nil {
		return m.SetError
	}
	m.values[key] = value
	return nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, key)
	if err := m.DeleteErrors[key]; err != nil {
		return err
	}
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.values, key)
	return nil
}

// Reset clears stored values, call tracking and injected errors.
func (m *MockSessionRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values = make(map[string]string)
	m.DeleteErrors = make(map[string]error)
	m.GetCalls = nil
	m.SetCalls = nil
	m.DeleteCalls = nil
	m.GetError = nil
	m.SetError = nil
	m.DeleteError = nil
}
