package repository

import "github.com/yourusername/jeopardy-api/internal/domain/entity"

// GameResultRepository определяет методы для работы с архивом завершённых игр
type GameResultRepository interface {
	// Create сохраняет итог игры. Повторное сохранение той же сессии даёт ErrConflict
	Create(result *entity.GameResult) error

	// GetByID возвращает итог игры по ID
	GetByID(id uint) (*entity.GameResult, error)

	// GetBySessionID возвращает итог игры по идентификатору сессии
	GetBySessionID(sessionID string) (*entity.GameResult, error)

	// List возвращает последние итоги игр и их общее количество
	List(limit, offset int) ([]entity.GameResult, int64, error)
}
