package repository

import (
	"time"
)

// CacheRepository хранит производные данные игр: публичные снимки и маркеры архивации.
// Отсутствующий ключ в GetJSON возвращает apperrors.ErrNotFound.
type CacheRepository interface {
	SetJSON(key string, value interface{}, expiration time.Duration) error
	GetJSON(key string, dest interface{}) error
	// SetNX возвращает false, если ключ уже существовал
	SetNX(key string, value interface{}, expiration time.Duration) (bool, error)
}
