package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"invite-redirector/internal/domain"
)

// redisKV is the subset of the go-redis client the store needs.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps the record as a JSON blob under a single key.
type RedisStore struct {
	rdb redisKV
	key string
}

// NewRedisStore creates a store over a redis client.
func NewRedisStore(rdb redisKV, key string) *RedisStore {
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Name() string {
	return "redis"
}

func (s *RedisStore) Read(ctx context.Context) (*domain.InvitationRecord, error) {
	b, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, &NotFoundError{Backend: s.Name(), Key: s.key}
	}
	if err != nil {
		return nil, &TransportError{Backend: s.Name(), Op: "read", Err: err}
	}

	var rec domain.InvitationRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, &TransportError{Backend: s.Name(), Op: "decode", Err: err}
	}
	return &rec, nil
}

// Write stores the record without expiry; expiry is derived from CreatedAt.
func (s *RedisStore) Write(ctx context.Context, rec *domain.InvitationRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return &TransportError{Backend: s.Name(), Op: "encode", Err: err}
	}
	if err := s.rdb.Set(ctx, s.key, b, 0).Err(); err != nil {
		return &TransportError{Backend: s.Name(), Op: "write", Err: err}
	}
	return nil
}
