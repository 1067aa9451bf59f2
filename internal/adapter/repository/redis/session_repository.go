package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/V4T54L/leatherstore/internal/domain"
)

// SessionRepository implements domain.SessionRepository with one expiring key per session.
type SessionRepository struct {
	client redis.Cmdable
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionRepository(client redis.Cmdable, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl, now: time.Now}
}

func (r *SessionRepository) Create(ctx context.Context, userID int64) (*domain.Session, error) {
	now := r.now().UTC()
	s := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}
	if err := setJSON(ctx, r.client, sessionKeyPrefix+s.ID, s, r.ttl); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	var s domain.Session
	found, err := getJSON(ctx, r.client, sessionKeyPrefix+id, &s)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

// Delete removes the session and the cart stored under it.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+id, cartKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to DEL session: %w", err)
	}
	return nil
}
