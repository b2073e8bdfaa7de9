package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
	"github.com/rossimission/storefront-backend/pkg/redis"
)

// DefaultSessionTTL is how long an idle cart survives when the config
// does not say otherwise. Every write refreshes the clock, so active
// shoppers never lose their cart mid-session.
const DefaultSessionTTL = 4 * time.Hour

// SessionStore persists cart snapshots keyed by session id.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type cartKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

type redisStore struct {
	client cartKV
	ttl    time.Duration
}

// NewRedisStore builds a SessionStore backed by the shared Redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration) (SessionStore, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "redis client required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

// Load fetches the cart snapshot for the session. A missing or corrupt
// snapshot yields an empty cart; a shopper with a stale session simply
// starts over.
func (s *redisStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return NewCart(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return NewCart(), nil
	}
	if cart.Lines == nil {
		cart.Lines = []Line{}
	}
	return &cart, nil
}

// Save writes the snapshot and refreshes the session TTL.
func (s *redisStore) Save(ctx context.Context, sessionID string, cart *Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.client.Set(ctx, s.client.CartKey(sessionID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

// Delete removes the snapshot entirely.
func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}
