package config

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sony/gobreaker"
)

const (
	BreakerPortalAPI     = "Portal-API"
	BreakerRedisSession  = "Redis-Session"
	BreakerPostgresStore = "PostgreSQL-Session"
	BreakerPublisher     = "RabbitMQ-Publisher"
)

// NewCircuitBreaker creates a circuit breaker with standard settings.
// The name parameter uniquely identifies the circuit breaker instance.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	var timeout time.Duration

	// Open-state duration before a half-open probe
	switch name {
	case BreakerRedisSession:
		timeout = time.Second * 5
	case BreakerPostgresStore:
		timeout = time.Second * 10
	case BreakerPortalAPI:
		timeout = time.Second * 20
	default:
		timeout = time.Second * 30
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Second * 10,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Open circuit after 3 consecutive failures
			return counts.ConsecutiveFailures >= 3
		},
		// A caller abandoning its own request says nothing about the
		// dependency.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[CRITICAL] Circuit Breaker %s: %s -> %s", name, from, to)
		},
	})
}
