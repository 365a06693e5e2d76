package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/academy-portal/portal-client/internal/config"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/ports"
)

const sessionValuesTable = "portal_session_values"

// SQLRepository stores session values in PostgreSQL, one row per tab and key.
// Rows older than the TTL read as absent.
type SQLRepository struct {
	db    *sql.DB
	tabID string
	ttl   time.Duration
	cb    *gobreaker.CircuitBreaker
}

var _ ports.SessionRepository = (*SQLRepository)(nil)
var _ ports.HealthChecker = (*SQLRepository)(nil)

func NewSQLRepository(db *sql.DB, tabID string, ttl time.Duration) *SQLRepository {
	return &SQLRepository{
		db:    db,
		tabID: tabID,
		ttl:   ttl,
		cb:    config.NewCircuitBreaker(config.BreakerPostgresStore),
	}
}

// EnsureSchema creates the session table if it does not exist.
func (r *SQLRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+pq.QuoteIdentifier(sessionValuesTable)+` (
			tab_id     VARCHAR(36)  NOT NULL,
			key        VARCHAR(128) NOT NULL,
			value      TEXT         NOT NULL,
			updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			PRIMARY KEY (tab_id, key)
		)`)
	return err
}

func (r *SQLRepository) Get(ctx context.Context, key string) (string, error) {
	value, err := r.cb.Execute(func() (interface{}, error) {
		var value string
		var updatedAt time.Time
		err := r.db.QueryRowContext(ctx,
			"SELECT value, updated_at FROM "+pq.QuoteIdentifier(sessionValuesTable)+" WHERE tab_id = $1 AND key = $2",
			r.tabID, key,
		).Scan(&value, &updatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		if err != nil {
			return nil, err
		}
		if r.ttl > 0 && time.Since(updatedAt) > r.ttl {
			return "", nil
		}
		return value, nil
	})
	if err != nil {
		return "", fmt.Errorf("postgres get %s: %w", key, err)
	}
	s, _ := value.(string)
	if s == "" {
		return "", ports.ErrSessionValueNotFound
	}
	return s, nil
}

func (r *SQLRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO `+pq.QuoteIdentifier(sessionValuesTable)+` (tab_id, key, value, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (tab_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
			r.tabID, key, value,
		)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, key string) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		_, err := r.db.ExecContext(ctx,
			"DELETE FROM "+pq.QuoteIdentifier(sessionValuesTable)+" WHERE tab_id = $1 AND key = $2",
			r.tabID, key,
		)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("postgres delete %s: %w", key, err)
	}
	return nil
}

// Purge drops every row of this tab, and rows of any tab that outlived the
// TTL.
func (r *SQLRepository) Purge(ctx context.Context) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		if _, err := r.db.ExecContext(ctx,
			"DELETE FROM "+pq.QuoteIdentifier(sessionValuesTable)+" WHERE tab_id = $1",
			r.tabID,
		); err != nil {
			return nil, err
		}
		if r.ttl <= 0 {
			return nil, nil
		}
		_, err := r.db.ExecContext(ctx,
			"DELETE FROM "+pq.QuoteIdentifier(sessionValuesTable)+" WHERE updated_at < $1",
			time.Now().Add(-r.ttl),
		)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("postgres purge: %w", err)
	}
	return nil
}

func (r *SQLRepository) Ping(ctx context.Context) error {
	if r.db == nil {
		return errors.New("database connection is not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}
