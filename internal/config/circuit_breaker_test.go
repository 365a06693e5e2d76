package config

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sony/gobreaker"
)

func TestNewCircuitBreaker_TripsAfterThreeFailures(t *testing.T) {
	cb := NewCircuitBreaker(BreakerPortalAPI)
	boom := errors.New("connection refused")

	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, boom })
	}

	if cb.State() != gobreaker.StateOpen {
		t.Errorf("expected open breaker, got %s", cb.State())
	}
}

func TestNewCircuitBreaker_CallerCancellationIsNotAFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"canceled", context.Canceled},
		{"wrapped_canceled", fmt.Errorf("Post \"http://portal\": %w", context.Canceled)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := NewCircuitBreaker(BreakerPortalAPI)

			for i := 0; i < 5; i++ {
				_, err := cb.Execute(func() (interface{}, error) { return nil, tt.err })
				if !errors.Is(err, context.Canceled) {
					t.Fatalf("expected the cancellation to be returned, got %v", err)
				}
			}

			if cb.State() != gobreaker.StateClosed {
				t.Errorf("expected closed breaker, got %s", cb.State())
			}
			if cb.Counts().ConsecutiveFailures != 0 {
				t.Errorf("expected no failures counted, got %d", cb.Counts().ConsecutiveFailures)
			}
		})
	}
}

func TestNewCircuitBreaker_DeadlineStillCounts(t *testing.T) {
	cb := NewCircuitBreaker(BreakerPortalAPI)

	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, context.DeadlineExceeded })
	}

	if cb.State() != gobreaker.StateOpen {
		t.Errorf("expected deadline errors to open the breaker, got %s", cb.State())
	}
}
