package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	sessionTTL       = 24 * time.Hour
)

// Principal is the authenticated caller stored in a session.
type Principal struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// Store manages sessions in Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a new session store.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = sessionTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// TTL is also used as the cookie max-age.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create stores a new session for p and returns its ID.
func (s *Store) Create(ctx context.Context, p Principal) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+id, b, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Get returns the principal for a session ID; ok is false when the session is unknown or expired.
func (s *Store) Get(ctx context.Context, id string) (Principal, bool, error) {
	b, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Principal{}, false, nil
	}
	if err != nil {
		return Principal{}, false, err
	}
	var p Principal
	if err := json.Unmarshal(b, &p); err != nil || p.UserID == 0 {
		return Principal{}, false, nil
	}
	return p, true, nil
}

// Delete removes a session by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
