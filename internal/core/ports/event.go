package ports

import (
	"context"

	"github.com/AchilleasB/academy-portal/portal-client/internal/core/domain"
)

type SessionEventPublisher interface {
	PublishSessionEvent(ctx context.Context, evt domain.SessionEvent) error
}
