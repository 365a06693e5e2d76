package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/academy-portal/portal-client/internal/config"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/ports"
)

// RedisCommands is the subset of *redis.Client the repository uses.
type RedisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisRepository stores session values under a per-tab namespace so several
// shells can share one Redis without seeing each other's sessions.
type RedisRepository struct {
	client RedisCommands
	tabID  string
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker
}

var _ ports.SessionRepository = (*RedisRepository)(nil)
var _ ports.HealthChecker = (*RedisRepository)(nil)

func NewRedisRepository(client RedisCommands, tabID string, ttl time.Duration) *RedisRepository {
	return &RedisRepository{
		client: client,
		tabID:  tabID,
		ttl:    ttl,
		cb:     config.NewCircuitBreaker(config.BreakerRedisSession),
	}
}

func (r *RedisRepository) key(key string) string {
	return fmt.Sprintf("portal:tab:%s:%s", r.tabID, key)
}

func (r *RedisRepository) Get(ctx context.Context, key string) (string, error) {
	value, err := r.cb.Execute(func() (interface{}, error) {
		v, err := r.client.Get(ctx, r.key(key)).Result()
		if errors.Is(err, redis.Nil) {
			// A missing key is not a dependency failure.
			return "", nil
		}
		return v, err
	})
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	s, _ := value.(string)
	if s == "" {
		return "", ports.ErrSessionValueNotFound
	}
	return s, nil
}

func (r *RedisRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.client.Set(ctx, r.key(key), value, r.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.client.Del(ctx, r.key(key)).Err()
	})
	if err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.client.Ping(ctx).Err()
}
