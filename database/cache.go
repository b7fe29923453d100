package database

import (
	"context"
	"log"

	config "github.com/tutormatch/api/configs"
	"github.com/redis/go-redis/v9"
)

// Cache is nil when REDIS_URL is not configured; callers fall back to
// recomputing from Postgres.
var Cache *redis.Client

func ConnectCache() {
	redisURL := config.Config("REDIS_URL")
	if redisURL == "" {
		log.Println("⚠️ REDIS_URL not set, availability caching disabled")
		return
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("🔥 Invalid REDIS_URL, availability caching disabled: %v", err)
		return
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("🔥 Failed to reach Redis, availability caching disabled: %v", err)
		return
	}

	Cache = client
	log.Println("✅ Redis cache connected successfully")
}
