package gamemanager

import (
	"time"

	"github.com/yourusername/jeopardy-api/internal/domain/entity"
)

// Constants for default values
const (
	DefaultJeopardyWagerFloor       = 1000
	DefaultDoubleJeopardyWagerFloor = 2000
	DefaultQuestionTimer            = 30 * time.Second
	DefaultFinalTimer               = 60 * time.Second
	DefaultCountdownTick            = time.Second
)

// Config содержит неизменяемые настройки одной игры.
// Передаётся в NewGame по значению, поэтому игры в тестах не влияют друг на друга.
type Config struct {
	// Лестницы стоимостей обычных раундов
	JeopardyValues       []int
	DoubleJeopardyValues []int

	// Нижняя граница максимальной ставки Daily Double для каждого раунда
	JeopardyWagerFloor       int
	DoubleJeopardyWagerFloor int

	// Сколько Daily Double назначать случайно, если банк вопросов их не задал
	JeopardyDailyDoubles       int
	DoubleJeopardyDailyDoubles int

	// Рекомендательные таймеры: на истечение никакие переходы не завязаны
	QuestionTimer time.Duration
	FinalTimer    time.Duration
	CountdownTick time.Duration

	// Состав команд новой игры
	DefaultTeams []entity.Team
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		JeopardyValues:             []int{200, 400, 600, 800, 1000},
		DoubleJeopardyValues:       []int{400, 800, 1200, 1600, 2000},
		JeopardyWagerFloor:         DefaultJeopardyWagerFloor,
		DoubleJeopardyWagerFloor:   DefaultDoubleJeopardyWagerFloor,
		JeopardyDailyDoubles:       1,
		DoubleJeopardyDailyDoubles: 2,
		QuestionTimer:              DefaultQuestionTimer,
		FinalTimer:                 DefaultFinalTimer,
		CountdownTick:              DefaultCountdownTick,
		DefaultTeams: []entity.Team{
			{Name: "Team 1", Color: "#3498db"},
			{Name: "Team 2", Color: "#e74c3c"},
			{Name: "Team 3", Color: "#2ecc71"},
		},
	}
}

// clone делает глубокую копию срезов, чтобы вызывающий код не мог изменить настройки игры
func (c Config) clone() Config {
	out := c
	out.JeopardyValues = append([]int(nil), c.JeopardyValues...)
	out.DoubleJeopardyValues = append([]int(nil), c.DoubleJeopardyValues...)
	out.DefaultTeams = append([]entity.Team(nil), c.DefaultTeams...)
	return out
}

// Ladder возвращает лестницу стоимостей раунда. Для финала: nil.
func (c Config) Ladder(round entity.RoundName) []int {
	switch round {
	case entity.RoundJeopardy:
		return c.JeopardyValues
	case entity.RoundDoubleJeopardy:
		return c.DoubleJeopardyValues
	default:
		return nil
	}
}

// WagerFloor возвращает нижнюю границу максимальной ставки Daily Double
func (c Config) WagerFloor(round entity.RoundName) int {
	switch round {
	case entity.RoundJeopardy:
		return c.JeopardyWagerFloor
	case entity.RoundDoubleJeopardy:
		return c.DoubleJeopardyWagerFloor
	default:
		return 0
	}
}

// DailyDoubleCount возвращает число случайных Daily Double для раунда
func (c Config) DailyDoubleCount(round entity.RoundName) int {
	switch round {
	case entity.RoundJeopardy:
		return c.JeopardyDailyDoubles
	case entity.RoundDoubleJeopardy:
		return c.DoubleJeopardyDailyDoubles
	default:
		return 0
	}
}

// TimerFor возвращает длительность рекомендательного таймера для раунда
func (c Config) TimerFor(round entity.RoundName) time.Duration {
	if round.IsFinal() {
		return c.FinalTimer
	}
	return c.QuestionTimer
}

// GameState — укрупнённое состояние игры
type GameState string

// Состояния игры
const (
	StateAwaitingBoard   GameState = "awaiting_board"
	StateRoundInProgress GameState = "round_in_progress"
	StateGameOver        GameState = "game_over"
)

// SelectResult описывает выбранную клетку
type SelectResult struct {
	Question    entity.Question
	DailyDouble bool
	MaxWager    int // Только для Daily Double
	TeamIndex   int // Команда, выбравшая вопрос
}

// OutcomeResult описывает применённый результат ответа
type OutcomeResult struct {
	Question         entity.Question
	TeamIndex        int
	Team             entity.Team
	Delta            int // Изменение счёта со знаком
	DailyDouble      bool
	RoundComplete    bool
	CurrentTeamIndex int
}

// FinalOutcome — результат одной команды в Final Jeopardy
type FinalOutcome struct {
	TeamIndex int
	Team      entity.Team
	Wager     int
	Correct   bool
	Delta     int
}
