package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"lms/database"

	"github.com/bytedance/sonic"
)

const (
	catalogKeyPrefix = "courses:list:"
	catalogTTL       = 10 * time.Minute
)

// CatalogKey builds the cache key for a published-catalog query
func CatalogKey(search, category string, page, limit int) string {
	return fmt.Sprintf("%s%s:%s:%d:%d", catalogKeyPrefix, search, category, page, limit)
}

// CatalogCacheGet fills dest from Redis; false on miss or when caching is off
func CatalogCacheGet(key string, dest interface{}) bool {
	rdb := database.Database.Cache
	if rdb == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	val, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return sonic.Unmarshal(val, dest) == nil
}

func CatalogCacheSet(key string, value interface{}) {
	rdb := database.Database.Cache
	if rdb == nil {
		return
	}
	data, err := sonic.Marshal(value)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rdb.Set(ctx, key, data, catalogTTL).Err(); err != nil {
		log.Printf("[CACHE] Failed to store %s: %v", key, err)
	}
}

// InvalidateCatalog drops every cached catalog page after a course write
func InvalidateCatalog() {
	rdb := database.Database.Cache
	if rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	iter := rdb.Scan(ctx, 0, catalogKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("[CACHE] Failed to scan catalog keys: %v", err)
		return
	}
	if len(keys) > 0 {
		if err := rdb.Del(ctx, keys...).Err(); err != nil {
			log.Printf("[CACHE] Failed to invalidate catalog: %v", err)
		}
	}
}
