package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tbourn/mood-rx-backend/internal/domain"
)

const (
	redisKeyPrefix = "moodrx:ratelimit:"
	fieldWindow    = "window_start"
	fieldCount     = "count"
	// Stale windows are never read back, so rows only need to outlive the
	// longest possible calendar day across timezones.
	defaultRedisTTL = 48 * time.Hour
)

// RedisStore keeps each counter in a hash with an expiry.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisStore connects to the server described by a redis:// URL.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisStore{Client: redis.NewClient(opt), TTL: defaultRedisTTL}, nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

// Close releases the client.
func (s *RedisStore) Close() error {
	return s.Client.Close()
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (domain.RateLimitCounter, bool, error) {
	vals, err := s.Client.HGetAll(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return domain.RateLimitCounter{}, false, err
	}
	if len(vals) == 0 {
		return domain.RateLimitCounter{}, false, nil
	}
	n, err := strconv.Atoi(vals[fieldCount])
	if err != nil {
		return domain.RateLimitCounter{}, false, err
	}
	return domain.RateLimitCounter{Key: key, WindowStart: vals[fieldWindow], Count: n}, true, nil
}

// Upsert implements Store.
func (s *RedisStore) Upsert(ctx context.Context, c domain.RateLimitCounter) error {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}
	k := redisKeyPrefix + c.Key
	_, err := s.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, k, fieldWindow, c.WindowStart, fieldCount, c.Count)
		p.Expire(ctx, k, ttl)
		return nil
	})
	return err
}
