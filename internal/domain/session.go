package domain

import (
	"context"
	"time"
)

var (
	ErrSessionNotFound = &kindError{msg: "session not found", kind: ErrNotFound}
	ErrSessionExpired  = &kindError{msg: "session expired", kind: ErrNotFound}
)

// Flash kinds
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash holds one-shot messages keyed by kind.
type Flash map[string][]string

// Empty reports whether no message of any kind is pending.
func (f Flash) Empty() bool {
	for _, msgs := range f {
		if len(msgs) > 0 {
			return false
		}
	}
	return true
}

// Session is the server-side record behind the session cookie.
// An empty UserID means the visitor is anonymous.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserID    string    `json:"user_id,omitempty"`
	CSRFToken string    `json:"csrf_token"`
	Flash     Flash     `json:"flash,omitempty"`
	ReturnTo  string    `json:"return_to,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) IsAuthenticated() bool {
	return s.UserID != ""
}

func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
