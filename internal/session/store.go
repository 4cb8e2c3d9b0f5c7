package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

// Store keeps one redis key per live session. A signed cookie is only
// accepted while its session id still resolves here, which is what makes
// logout an actual revocation rather than a client-side forget.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func key(sessionID string) string {
	return "session:" + sessionID
}

func (s *Store) Create(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key(sessionID), userID, ttl).Err()
}

// Get returns the user id a session belongs to, or ErrNotFound when the
// session was revoked or expired.
func (s *Store) Get(ctx context.Context, sessionID string) (string, error) {
	val, err := s.rdb.Get(ctx, key(sessionID)).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}

		return "", err
	}

	return val, nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, key(sessionID)).Err()
}
