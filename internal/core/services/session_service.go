package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/AchilleasB/academy-portal/portal-client/internal/config"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/domain"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/ports"
)

const eventPublishTimeout = 5 * time.Second

// SessionService owns the single session record of one tab.
type SessionService struct {
	repo      ports.SessionRepository
	keys      config.StorageKeys
	fields    domain.SessionFields
	navigator ports.Navigator
	publisher ports.SessionEventPublisher
	tabID     string
	now       func() time.Time
}

// NewSessionService wires session storage. navigator and publisher may be nil.
func NewSessionService(
	repo ports.SessionRepository,
	vocab config.Vocabulary,
	navigator ports.Navigator,
	publisher ports.SessionEventPublisher,
	tabID string,
) *SessionService {
	if navigator == nil {
		navigator = ports.NavigatorFunc(func(string) {})
	}
	return &SessionService{
		repo:      repo,
		keys:      vocab.Storage,
		fields:    vocab.Session,
		navigator: navigator,
		publisher: publisher,
		tabID:     tabID,
		now:       time.Now,
	}
}

// Save normalizes a backend user payload and replaces the stored session.
func (s *SessionService) Save(ctx context.Context, payload map[string]any) (domain.Session, error) {
	session := domain.NormalizeSession(payload, s.fields, s.now())

	data, err := json.Marshal(session)
	if err != nil {
		return domain.Session{}, fmt.Errorf("encode session: %w", err)
	}
	if err := s.repo.Set(ctx, s.keys.Session, string(data)); err != nil {
		return domain.Session{}, fmt.Errorf("store session: %w", err)
	}

	log.Printf("session: saved for user %s (role %s)", session.UserID, session.Role)
	s.publish(ctx, domain.SessionStarted, session)
	return session, nil
}

// Load returns the stored session. A missing, unreadable or corrupt value is
// reported as no session.
func (s *SessionService) Load(ctx context.Context) (domain.Session, bool) {
	raw, err := s.repo.Get(ctx, s.keys.Session)
	if err != nil {
		if !errors.Is(err, ports.ErrSessionValueNotFound) {
			log.Printf("session: load failed, treating as signed out: %v", err)
		}
		return domain.Session{}, false
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		log.Printf("session: stored value is not a session, treating as signed out: %v", err)
		return domain.Session{}, false
	}
	if session.AdminToken != "" && !session.IsAdmin() {
		session.AdminToken = ""
	}
	return session, true
}

// Clear removes the session and the legacy role and admin token keys. Each
// key is deleted independently; failures are logged and do not stop the
// remaining deletions.
func (s *SessionService) Clear(ctx context.Context) {
	previous, hadSession := s.Load(ctx)

	for _, key := range s.keys.All() {
		if err := s.repo.Delete(ctx, key); err != nil && !errors.Is(err, ports.ErrSessionValueNotFound) {
			log.Printf("session: failed to delete %s: %v", key, err)
		}
	}

	if hadSession {
		log.Printf("session: cleared for user %s", previous.UserID)
		s.publish(ctx, domain.SessionEnded, previous)
	}
}

// RequireSession returns the current session or redirects to fallback.
func (s *SessionService) RequireSession(ctx context.Context, fallback string) (domain.Session, bool) {
	session, ok := s.Load(ctx)
	if !ok {
		s.navigator.Redirect(fallback)
		return domain.Session{}, false
	}
	return session, true
}

// RequireAdminSession returns the current session when it has the admin role,
// otherwise redirects to fallback.
func (s *SessionService) RequireAdminSession(ctx context.Context, fallback string) (domain.Session, bool) {
	session, ok := s.Load(ctx)
	if !ok || !session.IsAdmin() {
		s.navigator.Redirect(fallback)
		return domain.Session{}, false
	}
	return session, true
}

// AdminToken returns the admin token of the current session, if any.
func (s *SessionService) AdminToken(ctx context.Context) (string, bool) {
	session, ok := s.Load(ctx)
	if !ok || !session.IsAdmin() || session.AdminToken == "" {
		return "", false
	}
	return session.AdminToken, true
}

func (s *SessionService) publish(ctx context.Context, kind domain.SessionEventType, session domain.Session) {
	if s.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	evt := domain.SessionEvent{
		Type:       kind,
		TabID:      s.tabID,
		UserID:     session.UserID,
		Role:       session.Role,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishSessionEvent(ctx, evt); err != nil {
		log.Printf("session: failed to publish %s event: %v", kind, err)
	}
}
