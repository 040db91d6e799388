package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"strconv"       // Key building
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// CacheTTL is how long read-through cache entries live
const CacheTTL = 60 * time.Second

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes a key from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err() // Delete key from Redis
}

// DeleteCachePrefix deletes every key starting with prefix
func DeleteCachePrefix(ctx context.Context, rdb *redis.Client, prefix string) error {
	iter := rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

// WalletCacheKey is the cache key of a user's wallet
func WalletCacheKey(userID uint) string {
	return "wallet:user:" + strconv.FormatUint(uint64(userID), 10)
}

// TxHistoryCachePrefix prefixes every cached history page of a user
func TxHistoryCachePrefix(userID uint) string {
	return "txhistory:user:" + strconv.FormatUint(uint64(userID), 10)
}

// InvalidateWallets drops cached wallets and history pages of the given users.
// Errors are ignored; entries expire after CacheTTL anyway.
func InvalidateWallets(ctx context.Context, rdb *redis.Client, userIDs ...uint) {
	if rdb == nil {
		return
	}
	for _, id := range userIDs {
		_ = DeleteCache(ctx, rdb, WalletCacheKey(id))
		_ = DeleteCachePrefix(ctx, rdb, TxHistoryCachePrefix(id)+":")
	}
	_ = DeleteCachePrefix(ctx, rdb, "admin:")
}
