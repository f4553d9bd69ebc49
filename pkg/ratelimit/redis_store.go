package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// recordScript prunes, counts and conditionally admits an event in one
// atomic round trip. Scores are unix milliseconds. The key expires two
// windows after the last admitted event so abandoned keys clean themselves
// up server-side.
var recordScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window_start = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local expiry = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

local count = redis.call('ZCARD', key)
local oldest = 0
local range = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if range[2] then
    oldest = tonumber(range[2])
end

if count < limit then
    redis.call('ZADD', key, now, now)
    redis.call('EXPIRE', key, expiry)
    if oldest == 0 then
        oldest = now
    end
    return {1, count + 1, oldest}
end

return {0, count, oldest}
`)

// RedisStore implements Store on a Redis sorted set per key, making the
// sliding window shared across processes. Required for multi-instance
// deployments where the in-memory store cannot uphold the window invariant.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed sliding window store.
func NewRedisStore(client redis.UniversalClient) (*RedisStore, error) {
	if client == nil {
		return nil, ErrStoreRequired
	}
	return &RedisStore{client: client}, nil
}

// Record implements Store.
func (s *RedisStore) Record(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, int, time.Time, error) {
	windowStart := now.Add(-window).UnixMilli()
	expiry := int64((2 * window).Seconds())
	if expiry < 1 {
		expiry = 1
	}

	vals, err := recordScript.Run(ctx, s.client,
		[]string{redisKeyPrefix + key},
		now.UnixMilli(), windowStart, limit, expiry,
	).Int64Slice()
	if err != nil {
		return false, 0, time.Time{}, errors.Join(ErrStoreFailed, err)
	}
	if len(vals) != 3 {
		return false, 0, time.Time{}, fmt.Errorf("%w: unexpected script reply of length %d", ErrStoreFailed, len(vals))
	}

	allowed := vals[0] == 1
	count := int(vals[1])

	var oldest time.Time
	if vals[2] > 0 {
		oldest = time.UnixMilli(vals[2])
	}

	return allowed, count, oldest, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}
