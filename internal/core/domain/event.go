package domain

import "time"

type SessionEventType string

const (
	SessionStarted SessionEventType = "session.started"
	SessionEnded   SessionEventType = "session.ended"
)

type SessionEvent struct {
	Type       SessionEventType `json:"type"`
	TabID      string           `json:"tab_id"`
	UserID     string           `json:"user_id"`
	Role       Role             `json:"role"`
	OccurredAt time.Time        `json:"occurred_at"`
}
