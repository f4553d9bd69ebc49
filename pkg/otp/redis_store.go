package otp

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	recordKeyPrefix = "otp:record:"
	latestKeyPrefix = "otp:latest:"

	// retention keeps expired records readable for attempt accounting
	// before Redis drops them server-side.
	retention = time.Hour
)

// RedisStore persists records as Redis hashes with a per-identifier index,
// sharing OTP state across processes. Expiry is enforced twice: the
// application checks ExpiresAt, and Redis drops the keys one retention
// period later.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed record store.
func NewRedisStore(client redis.UniversalClient) (*RedisStore, error) {
	if client == nil {
		return nil, ErrStoreRequired
	}
	return &RedisStore{client: client}, nil
}

// Create implements Store.
func (s *RedisStore) Create(ctx context.Context, record Record) error {
	ttl := time.Until(record.ExpiresAt) + retention
	if ttl <= 0 {
		ttl = retention
	}

	fields := map[string]any{
		"id":          record.ID,
		"identifier":  record.Identifier,
		"channel":     record.Channel,
		"hashed_code": record.HashedCode,
		"attempts":    record.Attempts,
		"created_at":  record.CreatedAt.Format(time.RFC3339Nano),
		"expires_at":  record.ExpiresAt.Format(time.RFC3339Nano),
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, recordKeyPrefix+record.ID)
	pipe.HSet(ctx, recordKeyPrefix+record.ID, fields)
	pipe.Expire(ctx, recordKeyPrefix+record.ID, ttl)
	pipe.Set(ctx, latestKeyPrefix+record.Identifier, record.ID, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

// LatestUnverified implements Store.
func (s *RedisStore) LatestUnverified(ctx context.Context, identifier string) (*Record, error) {
	id, err := s.client.Get(ctx, latestKeyPrefix+identifier).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrStoreFailed, err)
	}

	data, err := s.client.HGetAll(ctx, recordKeyPrefix+id).Result()
	if err != nil {
		return nil, errors.Join(ErrStoreFailed, err)
	}
	if len(data) == 0 || data["verified_at"] != "" {
		return nil, ErrNotFound
	}

	record, err := recordFromMap(data)
	if err != nil {
		return nil, errors.Join(ErrStoreFailed, err)
	}
	return record, nil
}

// IncrementAttempts implements Store.
func (s *RedisStore) IncrementAttempts(ctx context.Context, id string) (int, error) {
	exists, err := s.client.Exists(ctx, recordKeyPrefix+id).Result()
	if err != nil {
		return 0, errors.Join(ErrStoreFailed, err)
	}
	if exists == 0 {
		return 0, ErrNotFound
	}

	attempts, err := s.client.HIncrBy(ctx, recordKeyPrefix+id, "attempts", 1).Result()
	if err != nil {
		return 0, errors.Join(ErrStoreFailed, err)
	}
	return int(attempts), nil
}

// MarkVerified implements Store.
func (s *RedisStore) MarkVerified(ctx context.Context, id string, at time.Time) error {
	// HSetNX keeps the first stamp; marking twice is not an error.
	if err := s.client.HSetNX(ctx, recordKeyPrefix+id, "verified_at", at.Format(time.RFC3339Nano)).Err(); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

// DeleteExpiredBefore implements Store. Redis enforces retention through
// key TTLs, so there is nothing to sweep application-side.
func (s *RedisStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}

func recordFromMap(data map[string]string) (*Record, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, data["created_at"])
	if err != nil {
		return nil, err
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, data["expires_at"])
	if err != nil {
		return nil, err
	}
	attempts, err := strconv.Atoi(data["attempts"])
	if err != nil {
		return nil, err
	}

	record := &Record{
		ID:         data["id"],
		Identifier: data["identifier"],
		Channel:    data["channel"],
		HashedCode: data["hashed_code"],
		CreatedAt:  createdAt,
		ExpiresAt:  expiresAt,
		Attempts:   attempts,
	}

	if v := data["verified_at"]; v != "" {
		verifiedAt, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, err
		}
		record.VerifiedAt = &verifiedAt
	}

	return record, nil
}
