package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yourusername/jeopardy-api/internal/config"
)

const redisPingTimeout = 5 * time.Second

// RedisOptions строит опции универсального клиента из конфигурации.
// Поддерживает режимы single, sentinel, cluster.
func RedisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, error) {
	addresses := cfg.Addrs
	if len(addresses) == 0 {
		if cfg.Addr == "" {
			return nil, fmt.Errorf("redis configuration error: Addrs or Addr must be provided")
		}
		addresses = []string{cfg.Addr}
	}

	options := &redis.UniversalOptions{
		Addrs:    addresses,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.MaxRetries != 0 {
		options.MaxRetries = cfg.MaxRetries
	}
	if cfg.MinRetryBackoff != 0 {
		options.MinRetryBackoff = time.Duration(cfg.MinRetryBackoff) * time.Millisecond
	}
	if cfg.MaxRetryBackoff != 0 {
		options.MaxRetryBackoff = time.Duration(cfg.MaxRetryBackoff) * time.Millisecond
	}

	switch cfg.Mode {
	case "", "single":
		if len(addresses) > 1 {
			// Иначе NewUniversalClient создаст клиент кластера
			options.Addrs = addresses[:1]
		}
	case "sentinel":
		if cfg.MasterName == "" {
			return nil, fmt.Errorf("redis sentinel mode requires MasterName")
		}
		options.MasterName = cfg.MasterName
	case "cluster":
		// NewUniversalClient выбирает кластер по количеству адресов
	default:
		return nil, fmt.Errorf("unsupported redis mode: %s", cfg.Mode)
	}
	return options, nil
}

// NewUniversalRedisClient создает клиент Redis и проверяет подключение
func NewUniversalRedisClient(cfg config.RedisConfig) (redis.UniversalClient, error) {
	options, err := RedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewUniversalClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (mode: %s, addrs: %v): %w", cfg.Mode, options.Addrs, err)
	}
	return client, nil
}
