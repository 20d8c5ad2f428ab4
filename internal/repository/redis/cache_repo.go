package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/yourusername/jeopardy-api/internal/pkg/errors"
)

// defaultOpTimeout ограничивает одну операцию с Redis
const defaultOpTimeout = 2 * time.Second

// CacheRepo реализует repository.CacheRepository поверх Redis
type CacheRepo struct {
	client    redis.UniversalClient
	prefix    string
	opTimeout time.Duration
}

// NewCacheRepo создает репозиторий кеша. Все ключи получают общий префикс.
func NewCacheRepo(client redis.UniversalClient, prefix string) (*CacheRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil for CacheRepo")
	}
	return &CacheRepo{client: client, prefix: prefix, opTimeout: defaultOpTimeout}, nil
}

func (r *CacheRepo) key(key string) string {
	return r.prefix + key
}

func (r *CacheRepo) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.opTimeout)
}

// SetJSON сериализует value и сохраняет с TTL
func (r *CacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value %s: %w", key, err)
	}
	ctx, cancel := r.opContext()
	defer cancel()
	return r.client.Set(ctx, r.key(key), data, expiration).Err()
}

// GetJSON читает значение в dest; промах кеша дает apperrors.ErrNotFound
func (r *CacheRepo) GetJSON(key string, dest interface{}) error {
	ctx, cancel := r.opContext()
	defer cancel()

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetNX ставит ключ только если его еще нет
func (r *CacheRepo) SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	ctx, cancel := r.opContext()
	defer cancel()
	return r.client.SetNX(ctx, r.key(key), value, expiration).Result()
}
