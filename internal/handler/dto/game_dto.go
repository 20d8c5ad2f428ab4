package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yourusername/jeopardy-api/internal/domain/entity"
)

// TeamRequest описывает команду в запросе
type TeamRequest struct {
	Name  string `json:"name" binding:"required,max=50"`
	Color string `json:"color" binding:"omitempty,max=32"`
}

// CreateGameRequest — запрос на открытие игры. Пустой список команд означает состав по умолчанию.
type CreateGameRequest struct {
	Title string        `json:"title" binding:"omitempty,max=100"`
	Teams []TeamRequest `json:"teams" binding:"omitempty,dive"`
}

// SelectQuestionRequest — выбор клетки доски
type SelectQuestionRequest struct {
	Category string `json:"category" binding:"required"`
	Value    int    `json:"value" binding:"required,gt=0"`
}

// WagerRequest — ставка Daily Double
type WagerRequest struct {
	Amount RawAmount `json:"amount" binding:"required"`
}

// OutcomeRequest — результат ответа. Команда задается индексом или именем.
type OutcomeRequest struct {
	TeamIndex *int   `json:"team_index"`
	TeamName  string `json:"team_name"`
	Correct   *bool  `json:"correct" binding:"required"`
}

// FinalWagerRequest — финальная ставка одной команды
type FinalWagerRequest struct {
	TeamIndex *int      `json:"team_index" binding:"required"`
	Amount    RawAmount `json:"amount" binding:"required"`
}

// FinalOutcomesRequest — результаты финала. Ключи: индексы команд ("0", "1") или их имена.
type FinalOutcomesRequest struct {
	Outcomes map[string]bool `json:"outcomes" binding:"required"`
}

// RedefineTeamsRequest — новый состав команд
type RedefineTeamsRequest struct {
	Teams []TeamRequest `json:"teams" binding:"required,min=1,dive"`
}

// DailyDoublesRequest — случайная расстановка Daily Double в раунде
type DailyDoublesRequest struct {
	Round entity.RoundName `json:"round" binding:"required"`
	Count *int             `json:"count" binding:"required,min=0"`
}

// ToTeams переводит команды запроса в сущности
func ToTeams(teams []TeamRequest) []entity.Team {
	if len(teams) == 0 {
		return nil
	}
	result := make([]entity.Team, len(teams))
	for i, t := range teams {
		result[i] = entity.Team{Name: strings.TrimSpace(t.Name), Color: strings.TrimSpace(t.Color)}
	}
	return result
}

// RawAmount принимает ставку как JSON-строку или число и хранит ее исходный текст.
// Разбор и проверка суммы выполняются игрой.
type RawAmount string

// UnmarshalJSON реализует json.Unmarshaler
func (a *RawAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = RawAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or a number")
	}
	*a = RawAmount(n.String())
	return nil
}

// String возвращает исходный текст ставки
func (a RawAmount) String() string {
	return string(a)
}
