// Package cache wraps an optional Redis client. When Redis is not
// reachable the service runs without caching rather than failing.
package cache

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init connects to Redis using REDIS_SERVICE_HOST / REDIS_SERVICE_PORT.
// On failure the client stays nil and every cache call becomes a no-op.
func Init() {
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	c := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		log.Printf("[Cache] Redis unavailable, running without cache: %v", err)
		return
	}

	client = c
	log.Printf("[Cache] Connected to Redis at %s:%s", host, port)
}

// Get returns the cached value for key, or "" if absent or cache is off.
func Get(ctx context.Context, key string) string {
	if client == nil {
		return ""
	}
	val, err := client.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// Set stores value under key with a TTL. Errors are logged, not returned;
// the cache is best-effort.
func Set(ctx context.Context, key, value string, ttl time.Duration) {
	if client == nil {
		return
	}
	if err := client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("[Cache] set %s failed: %v", key, err)
	}
}

// Invalidate removes keys matching the pattern. Used after writes that
// change a party's ledger position.
func Invalidate(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("[Cache] invalidate %s failed: %v", pattern, err)
	}
}
