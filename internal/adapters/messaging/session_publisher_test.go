package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AchilleasB/academy-portal/portal-client/internal/core/domain"
)

type fakeChannel struct {
	mu         sync.Mutex
	published  []amqp.Publishing
	routingKey string
	err        error
	closed     bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.routingKey = key
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublishSessionEvent(t *testing.T) {
	ch := &fakeChannel{}
	broker := NewRabbitMQBrokerWithChannel(ch, "portal-sessions")

	evt := domain.SessionEvent{
		Type:       domain.SessionStarted,
		TabID:      "tab-1",
		UserID:     "7",
		Role:       "aluno",
		OccurredAt: time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
	}
	if err := broker.PublishSessionEvent(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ch.published) != 1 {
		t.Fatalf("expected 1 publishing, got %d", len(ch.published))
	}
	msg := ch.published[0]
	if ch.routingKey != "portal-sessions" {
		t.Errorf("expected routing key 'portal-sessions', got %q", ch.routingKey)
	}
	if msg.ContentType != "application/json" || msg.DeliveryMode != amqp.Persistent {
		t.Errorf("unexpected publishing properties: %+v", msg)
	}
	if msg.Type != "session.started" {
		t.Errorf("expected type 'session.started', got %q", msg.Type)
	}

	var decoded domain.SessionEvent
	if err := json.Unmarshal(msg.Body, &decoded); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if decoded.UserID != "7" || decoded.TabID != "tab-1" {
		t.Errorf("unexpected body: %+v", decoded)
	}
}

func TestPublishSessionEvent_ExpiredContext(t *testing.T) {
	ch := &fakeChannel{}
	broker := NewRabbitMQBrokerWithChannel(ch, "q")

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	if err := broker.PublishSessionEvent(ctx, domain.SessionEvent{Type: domain.SessionEnded}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
	if len(ch.published) != 0 {
		t.Error("expected nothing published with expired context")
	}
}

func TestPublishSessionEvent_ChannelError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	broker := NewRabbitMQBrokerWithChannel(ch, "q")

	if err := broker.PublishSessionEvent(context.Background(), domain.SessionEvent{Type: domain.SessionEnded}); err == nil {
		t.Error("expected publish error")
	}
}

func TestClose_ClosesChannel(t *testing.T) {
	ch := &fakeChannel{}
	broker := NewRabbitMQBrokerWithChannel(ch, "q")

	if err := broker.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ch.closed {
		t.Error("expected channel closed")
	}
}
