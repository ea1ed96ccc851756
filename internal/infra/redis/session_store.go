package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"trivia-client/internal/domain"
)

const (
	fieldToken  = "token"
	fieldRole   = "userRole"
	fieldUserID = "userId"
)

// SessionStore keeps the login state in a Redis hash so several front ends
// (CLI, websocket server) can share one login. Fields mirror the keys the
// mobile client stored: token, userRole, userId.
type SessionStore struct {
	client  *redis.Client
	profile string
	ttl     time.Duration
}

func NewSessionStore(client *redis.Client, profile string, ttl time.Duration) *SessionStore {
	if profile == "" {
		profile = "default"
	}
	return &SessionStore{client: client, profile: profile, ttl: ttl}
}

func (s *SessionStore) Get(ctx context.Context) (domain.Session, bool, error) {
	fields, err := s.client.HGetAll(ctx, s.key()).Result()
	if err != nil {
		return domain.Session{}, false, err
	}
	token := fields[fieldToken]
	if token == "" {
		return domain.Session{}, false, nil
	}
	return domain.Session{
		Token:  token,
		Role:   fields[fieldRole],
		UserID: fields[fieldUserID],
	}, true, nil
}

func (s *SessionStore) Set(ctx context.Context, session domain.Session) error {
	key := s.key()
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		fieldToken, session.Token,
		fieldRole, session.Role,
		fieldUserID, session.UserID,
	)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key()).Err()
}

func (s *SessionStore) key() string {
	return "trivia:session:" + s.profile
}
