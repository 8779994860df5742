package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"staysync/internal/domain"
)

const keyPrefix = "staysync:session:"

// SessionRepository implements domain.SessionRepository on Redis.
// Expiry is delegated to key TTLs.
type SessionRepository struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewSessionRepository(client redis.Cmdable) *SessionRepository {
	return &SessionRepository{client: client, now: time.Now}
}

func sessionKey(token string) string {
	return keyPrefix + token
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.CreatedAt = r.now().UTC()

	ttl, payload, err := r.encode(session)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return nil
	}

	if err := r.client.Set(ctx, sessionKey(session.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	payload, err := r.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by token: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if session.IsExpired(r.now()) {
		return nil, domain.ErrSessionExpired
	}
	return &session, nil
}

// Update overwrites an existing session only; a missing key is reported as not found.
func (r *SessionRepository) Update(ctx context.Context, session *domain.Session) error {
	ttl, payload, err := r.encode(session)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return r.Delete(ctx, session.Token)
	}

	ok, err := r.client.SetXX(ctx, sessionKey(session.Token), payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if !ok {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis evicts sessions when their TTL lapses.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func (r *SessionRepository) encode(session *domain.Session) (time.Duration, []byte, error) {
	payload, err := json.Marshal(session)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode session: %w", err)
	}
	return session.ExpiresAt.Sub(r.now()), payload, nil
}
