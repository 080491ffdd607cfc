package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"
	"strconv"
	"time" // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// All helpers treat a nil client as a disabled cache: reads miss, writes are dropped.

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// CacheGeneration returns the current value of a generation counter, 0 when unset.
func CacheGeneration(ctx context.Context, rdb *redis.Client, key string) (int64, error) {
	if rdb == nil {
		return 0, nil
	}
	val, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// BumpCacheGeneration increments a generation counter so keys built from the
// previous value are never read again.
func BumpCacheGeneration(ctx context.Context, rdb *redis.Client, key string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Incr(ctx, key).Err()
}

const revokedPrefix = "session:revoked:"

// RevokeSession marks a session id as logged out until it would have expired anyway.
func RevokeSession(ctx context.Context, rdb *redis.Client, sessionID string, expiresAt time.Time) error {
	if rdb == nil || sessionID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return rdb.Set(ctx, revokedPrefix+sessionID, "1", ttl).Err()
}

// IsSessionRevoked reports whether a session id was logged out.
func IsSessionRevoked(ctx context.Context, rdb *redis.Client, sessionID string) (bool, error) {
	if rdb == nil || sessionID == "" {
		return false, nil
	}
	n, err := rdb.Exists(ctx, revokedPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
