package webx403

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisReplayStore is a [ReplayStore] backed by Redis, for deployments
// where multiple server instances must share one replay set. SET NX with
// a TTL gives the atomic check-and-set; Redis key expiry handles eviction,
// so EvictExpired is a no-op.
//
// Backend failures surface as [ErrReplayStoreUnavailable]; the caller
// decides whether to fail closed.
type RedisReplayStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisReplayStore creates a Redis-backed replay store. Keys are
// namespaced under prefix; an empty prefix uses the default from
// [DefaultConfig].
func NewRedisReplayStore(client redis.UniversalClient, prefix string) *RedisReplayStore {
	if prefix == "" {
		prefix = DefaultConfig().Replay.RedisPrefix
	}
	return &RedisReplayStore{
		redis:  client,
		prefix: prefix,
	}
}

func (s *RedisReplayStore) key(publicKey, nonce []byte) string {
	return s.prefix + ":" + replayKey(publicKey, nonce)
}

// MarkIfAbsent records the pair via SET NX and reports whether this call
// inserted it. The TTL is clamped to at least one second so a pair marked
// at the very edge of its window is still retained.
func (s *RedisReplayStore) MarkIfAbsent(ctx context.Context, publicKey, nonce []byte, expiresAt time.Time) (bool, error) {
	ttl := time.Until(expiresAt)
	if ttl < time.Second {
		ttl = time.Second
	}

	first, err := s.redis.SetNX(ctx, s.key(publicKey, nonce), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrReplayStoreUnavailable, err)
	}
	return first, nil
}

// Seen reports whether the pair is currently retained.
func (s *RedisReplayStore) Seen(ctx context.Context, publicKey, nonce []byte) (bool, error) {
	n, err := s.redis.Exists(ctx, s.key(publicKey, nonce)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrReplayStoreUnavailable, err)
	}
	return n > 0, nil
}

// EvictExpired is a no-op: Redis expires keys by TTL.
func (s *RedisReplayStore) EvictExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}
