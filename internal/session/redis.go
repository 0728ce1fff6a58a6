package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// RedisStore keeps sessions in Redis so multiple API instances can share
// conversation state. Key expiry replaces the background sweep: the TTL is
// refreshed on every Put, so idle sessions age out on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore creates a Redis-backed session store with the given idle TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		tracer: otel.Tracer("brightbroom.internal.session"),
	}
}

var _ Store = (*RedisStore)(nil)

func sessionKey(key string) string {
	return fmt.Sprintf("session:%s", key)
}

// Get loads the session for key, or (nil, nil) when absent or expired.
func (r *RedisStore) Get(ctx context.Context, key string) (*Session, error) {
	ctx, span := r.tracer.Start(ctx, "session.get")
	defer span.End()

	data, err := r.client.Get(ctx, sessionKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to load %s: %w", key, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to decode %s: %w", key, err)
	}
	return &s, nil
}

// Put stores the session and refreshes its idle TTL.
func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	ctx, span := r.tracer.Start(ctx, "session.put")
	defer span.End()

	data, err := json.Marshal(s)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal %s: %w", s.Key, err)
	}
	if err := r.client.Set(ctx, sessionKey(s.Key), data, r.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist %s: %w", s.Key, err)
	}
	return nil
}

// Delete removes the session for key; deleting an absent key is not an error.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	ctx, span := r.tracer.Start(ctx, "session.delete")
	defer span.End()

	if err := r.client.Del(ctx, sessionKey(key)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to delete %s: %w", key, err)
	}
	return nil
}
