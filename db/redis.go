package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"kellyServer/config"
)

var (
	// RedisClient is the global Redis client instance
	RedisClient *redis.Client
)

// InitRedis initializes the Redis client connection
func InitRedis(cfg *config.Config) error {
	log.Info("🔌 Connecting to Redis...")

	if cfg.RedisURL == "" {
		return errors.New("REDIS_URL not set")
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:         cfg.RedisURL,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := RedisClient.Ping(ctx).Err(); err != nil {
		RedisClient.Close()
		RedisClient = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Infof("✅ Redis connected successfully - URL: %s", cfg.RedisURL)
	return nil
}

// CloseRedis closes the Redis connection
func CloseRedis() error {
	if RedisClient != nil {
		log.Info("🔌 Closing Redis connection...")
		err := RedisClient.Close()
		RedisClient = nil
		return err
	}
	return nil
}

/* =========================
   ADVISORY CACHE
   Redis Key: advisory:{p}:{odds} -> analysis text
========================= */

// GetAdvisory returns the cached analysis under key, if present
func GetAdvisory(ctx context.Context, key string) (string, bool, error) {
	if RedisClient == nil {
		return "", false, nil
	}

	text, err := RedisClient.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get advisory: %w", err)
	}
	return text, true, nil
}

// StoreAdvisory caches an analysis with the given TTL
func StoreAdvisory(ctx context.Context, key, text string, ttl time.Duration) error {
	if RedisClient == nil {
		return nil
	}

	if err := RedisClient.Set(ctx, key, text, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store advisory: %w", err)
	}

	log.WithField("key", key).Debug("✅ Cached advisory")
	return nil
}

// AdvisoryCache adapts the Redis helpers to advisory.Cache
type AdvisoryCache struct {
	TTL time.Duration
}

func (c AdvisoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	return GetAdvisory(ctx, key)
}

func (c AdvisoryCache) Set(ctx context.Context, key, value string) error {
	return StoreAdvisory(ctx, key, value, c.TTL)
}

/* =========================
   HEALTH CHECK
========================= */

// HealthCheck performs a Redis health check
func HealthCheck(ctx context.Context) error {
	if RedisClient == nil {
		return errors.New("redis client not initialized")
	}
	return RedisClient.Ping(ctx).Err()
}
