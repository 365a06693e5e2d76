package repository

import (
	"context"
	"sync"

	"github.com/AchilleasB/academy-portal/portal-client/internal/core/ports"
)

// MemoryRepository keeps session values for the life of the process, the
// same lifetime a browser tab gives sessionStorage.
type MemoryRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ ports.SessionRepository = (*MemoryRepository)(nil)
var _ ports.HealthChecker = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: make(map[string]string)}
}

func (r *MemoryRepository) Get(ctx context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.values[key]
	if !ok {
		return "", ports.ErrSessionValueNotFound
	}
	return value, nil
}

func (r *MemoryRepository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}
