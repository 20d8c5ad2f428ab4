package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/jeopardy-api/internal/domain/entity"
	apperrors "github.com/yourusername/jeopardy-api/internal/pkg/errors"
)

// GameResultRepo реализует repository.GameResultRepository
type GameResultRepo struct {
	db *gorm.DB
}

// NewGameResultRepo создает новый репозиторий итогов игр
func NewGameResultRepo(db *gorm.DB) *GameResultRepo {
	return &GameResultRepo{db: db}
}

// Create сохраняет итог игры
func (r *GameResultRepo) Create(result *entity.GameResult) error {
	if err := r.db.Create(result).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: game %s is already archived", apperrors.ErrConflict, result.SessionID)
		}
		return fmt.Errorf("save game result %s: %w", result.SessionID, err)
	}
	return nil
}

// GetByID возвращает итог игры по ID
func (r *GameResultRepo) GetByID(id uint) (*entity.GameResult, error) {
	var result entity.GameResult
	if err := r.db.First(&result, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// GetBySessionID возвращает итог игры по идентификатору сессии
func (r *GameResultRepo) GetBySessionID(sessionID string) (*entity.GameResult, error) {
	var result entity.GameResult
	if err := r.db.Where("session_id = ?", sessionID).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// List возвращает итоги игр от новых к старым с пагинацией
func (r *GameResultRepo) List(limit, offset int) ([]entity.GameResult, int64, error) {
	var (
		results []entity.GameResult
		total   int64
	)

	if err := r.db.Model(&entity.GameResult{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("finished_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
