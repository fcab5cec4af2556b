package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps an anonymous visitor's cart in Redis under their guest
// session ID. Resetting removes the key entirely; the TTL slides forward on
// every write.
type SessionStore struct {
	rdb       *redis.Client
	sessionID string
	ttl       time.Duration
}

// NewSessionStore creates a session-backed cart store for the given guest session.
func NewSessionStore(rdb *redis.Client, sessionID string, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, sessionID: sessionID, ttl: ttl}
}

func (s *SessionStore) key() string {
	return fmt.Sprintf("cart:session:%s", s.sessionID)
}

// Retrieve implements Store. A missing key is an empty cart.
func (s *SessionStore) Retrieve(ctx context.Context) (Items, error) {
	raw, err := s.rdb.Get(ctx, s.key()).Result()
	if errors.Is(err, redis.Nil) {
		return Items{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items Items
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Persist implements Store, writing the whole cart back in one shot.
func (s *SessionStore) Persist(ctx context.Context, items Items) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(), raw, s.ttl).Err()
}

// Reset implements Store by deleting the session's cart key.
func (s *SessionStore) Reset(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key()).Err()
}

// Kind implements Store.
func (s *SessionStore) Kind() string {
	return "session"
}
