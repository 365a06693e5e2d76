package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/AchilleasB/academy-portal/portal-client/internal/core/ports"
)

func TestMemoryRepository_RoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "academy_user"); !errors.Is(err, ports.ErrSessionValueNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := repo.Set(ctx, "academy_user", `{"id":"7"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Set(ctx, "academy_user", `{"id":"8"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, "academy_user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"id":"8"}` {
		t.Errorf("expected overwritten value, got %q", got)
	}

	if err := repo.Delete(ctx, "academy_user"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, "academy_user"); err != nil {
		t.Errorf("expected idempotent delete, got %v", err)
	}
	if _, err := repo.Get(ctx, "academy_user"); !errors.Is(err, ports.ErrSessionValueNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestMemoryRepository_ConcurrentAccess(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = repo.Set(ctx, "k", "v")
		}()
		go func() {
			defer wg.Done()
			_, _ = repo.Get(ctx, "k")
		}()
	}
	wg.Wait()

	if err := repo.Ping(ctx); err != nil {
		t.Errorf("expected memory ping to succeed, got %v", err)
	}
}
