package service

import (
	"fmt"
	"io"
	"log"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/jeopardy-api/internal/domain/entity"
	"github.com/yourusername/jeopardy-api/internal/domain/repository"
)

const (
	defaultResultsLimit = 20
	maxResultsLimit     = 100
	standingsSheet      = "Standings"
)

// ResultService предоставляет методы для работы с архивом завершенных игр
type ResultService struct {
	resultRepo repository.GameResultRepository
}

// NewResultService создает новый сервис результатов
func NewResultService(resultRepo repository.GameResultRepository) *ResultService {
	return &ResultService{resultRepo: resultRepo}
}

// NormalizePage приводит limit к диапазону 1..100 (0: значение по умолчанию), offset к >= 0
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultResultsLimit
	}
	if limit > maxResultsLimit {
		limit = maxResultsLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// List возвращает страницу последних итогов, новые первыми
func (s *ResultService) List(limit, offset int) ([]entity.GameResult, int64, error) {
	limit, offset = NormalizePage(limit, offset)
	return s.resultRepo.List(limit, offset)
}

// Get возвращает итог игры по ID
func (s *ResultService) Get(id uint) (*entity.GameResult, error) {
	return s.resultRepo.GetByID(id)
}

// GetBySession возвращает итог игры по идентификатору сессии
func (s *ResultService) GetBySession(sessionID string) (*entity.GameResult, error) {
	return s.resultRepo.GetBySessionID(sessionID)
}

// ExportStandings записывает таблицу позиций игры в xlsx через StreamWriter
func (s *ResultService) ExportStandings(id uint, w io.Writer) (*entity.GameResult, error) {
	result, err := s.resultRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := WriteStandingsXLSX(w, result); err != nil {
		return nil, err
	}
	return result, nil
}

// WriteStandingsXLSX формирует книгу с итогами одной игры
func WriteStandingsXLSX(w io.Writer, result *entity.GameResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", standingsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(standingsSheet)
	if err != nil {
		log.Printf("[ResultService] Ошибка создания StreamWriter: %v", err)
		return fmt.Errorf("create stream writer: %w", err)
	}

	if err := sw.SetRow("A1", []interface{}{sanitizeForExcel(result.Title), result.FinishedAt.Format("2006-01-02 15:04")}); err != nil {
		return fmt.Errorf("write title: %w", err)
	}
	if err := sw.SetRow("A3", []interface{}{"Rank", "Team", "Score", "Winner"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, st := range result.Standings {
		winner := "No"
		if st.IsWinner {
			winner = "Yes"
		}
		cell := fmt.Sprintf("A%d", i+4)
		row := []interface{}{st.Rank, sanitizeForExcel(st.Name), st.Score, winner}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+4, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
