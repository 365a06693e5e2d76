package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/academy-portal/portal-client/internal/core/domain"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/ports"
)

// MockSessionEventPublisher captures session events instead of sending them
// to RabbitMQ.
type MockSessionEventPublisher struct {
	mu sync.RWMutex

	PublishedEvents  []domain.SessionEvent
	PublishError     error
	PublishCallCount int
}

var _ ports.SessionEventPublisher = (*MockSessionEventPublisher)(nil)

func NewMockSessionEventPublisher() *MockSessionEventPublisher {
	return &MockSessionEventPublisher{
		PublishedEvents: make([]domain.SessionEvent, 0),
	}
}

func (m *MockSessionEventPublisher) PublishSessionEvent(ctx context.Context, evt domain.SessionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of the captured events.
func (m *MockSessionEventPublisher) GetPublishedEvents() []domain.SessionEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]domain.SessionEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

func (m *MockSessionEventPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}

func (m *MockSessionEventPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishedEvents = make([]domain.SessionEvent, 0)
	m.PublishError = nil
	m.PublishCallCount = 0
}
