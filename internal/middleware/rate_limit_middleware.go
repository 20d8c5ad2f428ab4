package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// RateLimitConfig содержит настройки rate limiting
type RateLimitConfig struct {
	// MaxRequests — максимальное количество запросов за Window
	MaxRequests int
	// Window — временное окно для подсчёта запросов
	Window time.Duration
	// KeyPrefix — префикс для ключей в Redis
	KeyPrefix string
}

// CommandRateLimitConfig возвращает лимит для команд ведущего.
// Значения <= 0 заменяются на 120 запросов в минуту.
func CommandRateLimitConfig(requests int, window time.Duration) RateLimitConfig {
	if requests <= 0 {
		requests = 120
	}
	if window <= 0 {
		window = time.Minute
	}
	return RateLimitConfig{
		MaxRequests: requests,
		Window:      window,
		KeyPrefix:   "rl:game",
	}
}

// UploadRateLimitConfig — отдельный лимит на загрузку книг с вопросами
func UploadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 10,
		Window:      time.Minute,
		KeyPrefix:   "rl:upload",
	}
}

// RateLimiter ограничивает частоту запросов счётчиками в Redis (fixed window)
type RateLimiter struct {
	redisClient redis.UniversalClient
}

// NewRateLimiter создает новый RateLimiter
func NewRateLimiter(redisClient redis.UniversalClient) *RateLimiter {
	return &RateLimiter{redisClient: redisClient}
}

// Limit ограничивает запросы по паре IP + маршрут
func (rl *RateLimiter) Limit(cfg RateLimitConfig) gin.HandlerFunc {
	return rl.middleware(cfg, func(c *gin.Context) string {
		path := c.FullPath() // Шаблон маршрута, например "/api/games/:id/select"
		if path == "" {
			path = c.Request.URL.Path
		}
		return fmt.Sprintf("%s:%s:%s", cfg.KeyPrefix, c.ClientIP(), path)
	})
}

// LimitByIP ограничивает запросы по IP для всей группы маршрутов
func (rl *RateLimiter) LimitByIP(cfg RateLimitConfig) gin.HandlerFunc {
	return rl.middleware(cfg, func(c *gin.Context) string {
		return fmt.Sprintf("%s:%s", cfg.KeyPrefix, c.ClientIP())
	})
}

func (rl *RateLimiter) middleware(cfg RateLimitConfig, keyFn func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, retryAfter, err := rl.hit(ctx, key, cfg.Window)
		if err != nil {
			// При ошибке Redis пропускаем запрос (fail-open)
			log.Printf("[RateLimiter] Ошибка Redis для ключа %s: %v. Запрос пропущен.", key, err)
			c.Next()
			return
		}

		remaining := cfg.MaxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(retryAfter))

		if int(count) > cfg.MaxRequests {
			log.Printf("[RateLimiter] Превышен лимит для %s: %d/%d", key, count, cfg.MaxRequests)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests. Please try again later.",
				"error_type":  "rate_limited",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}

// hit увеличивает счётчик окна и возвращает его значение и секунды до сброса.
// Ключ без TTL (первый запрос или сбой Expire ранее) получает TTL окна.
func (rl *RateLimiter) hit(ctx context.Context, key string, window time.Duration) (int64, int, error) {
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	if _, err := rl.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	}); err != nil {
		return 0, 0, err
	}

	retryAfter := int(ttl.Val().Seconds())
	if ttl.Val() < 0 {
		if err := rl.redisClient.Expire(ctx, key, window).Err(); err != nil {
			log.Printf("[RateLimiter] Не удалось задать TTL для %s: %v", key, err)
		}
		retryAfter = int(window.Seconds())
	}
	return incr.Val(), retryAfter, nil
}
