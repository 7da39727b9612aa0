package database

import (
	"context"
	"log"
	"time"

	"lms/config"

	"github.com/redis/go-redis/v9"
)

// connectRedis returns nil when no address is configured or the server is unreachable,
// in which case callers skip caching.
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[CACHE] Redis unavailable at %s, catalog cache disabled: %v", cfg.RedisAddr, err)
		_ = rdb.Close()
		return nil
	}

	log.Printf("[CACHE] Connected to Redis at %s", cfg.RedisAddr)
	return rdb
}
