package ports

import (
	"context"
	"errors"
)

// ErrSessionValueNotFound is returned by a SessionRepository when the key
// holds no value.
var ErrSessionValueNotFound = errors.New("session value not found")

// SessionRepository is tab-scoped key/value storage for session records.
type SessionRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// HealthChecker is implemented by dependencies that can report readiness.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
