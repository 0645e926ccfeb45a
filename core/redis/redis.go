package redis

import (
	"context"
	"fmt"
	"time"

	redis "github.com/go-redis/redis/v8"
	"github.com/tokenscope/memebot/config"
)

const Nil = redis.Nil

// NewClient connects and pings the redis described by cfg.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	options := &redis.Options{
		Addr:         cfg.Host,
		Password:     cfg.Password,
		DB:           int(cfg.DB),
		MinIdleConns: int(cfg.MinIdleConns),
		PoolSize:     100,
	}

	client := redis.NewClient(options)

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("connect redis failed, %v", err)
	}

	return client, nil
}

func Set(ctx context.Context, client *redis.Client, key, value string, expiration time.Duration) error {
	err := client.Set(ctx, key, value, expiration).Err()
	if err != nil {
		return fmt.Errorf("failed to set %s: %v", key, err)
	}
	return nil
}

func Get(ctx context.Context, client *redis.Client, key string) (string, error) {
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", redis.Nil
	} else if err != nil {
		return "", fmt.Errorf("failed to get %s: %v", key, err)
	}

	return val, nil
}

func Exists(ctx context.Context, client *redis.Client, key string) (bool, error) {
	val, err := client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %v", key, err)
	}

	return val > 0, nil
}
