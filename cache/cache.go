package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/consultbridge/consult-booking/config"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

// KeyPrefix namespaces every response-cache key.
const KeyPrefix = "cache:"

func Init(cfg config.Config) {
	Client = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(Ctx, 2*time.Second)
	defer cancel()
	if _, err := Client.Ping(ctx).Result(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	log.Println("Connected to Redis")
}

// Key builds a response-cache key from a request path (query string included).
func Key(path string) string {
	return KeyPrefix + path
}

func Get(ctx context.Context, key string) (string, bool) {
	if Client == nil {
		return "", false
	}
	val, err := Client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache get %s: %v", key, err)
		}
		return "", false
	}
	return val, true
}

func Set(ctx context.Context, key, value string, ttl time.Duration) {
	if Client == nil {
		return
	}
	if err := Client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}

// Invalidate deletes every key matching pattern. Runs synchronously so
// catalog writes never return before stale entries are gone.
func Invalidate(ctx context.Context, pattern string) {
	if Client == nil {
		return
	}
	iter := Client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("cache scan %s: %v", pattern, err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := Client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache del %s: %v", pattern, err)
	}
}
