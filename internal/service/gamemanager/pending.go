package gamemanager

import (
	"github.com/yourusername/jeopardy-api/internal/domain/entity"
)

// PendingKind — вид ожидаемого следующего шага
type PendingKind string

// Виды ожидаемых шагов
const (
	PendingNone             PendingKind = "none"
	PendingDailyDoubleWager PendingKind = "daily_double_wager"
	PendingOutcome          PendingKind = "outcome"
	PendingFinalWagers      PendingKind = "final_wagers"
	PendingFinalOutcomes    PendingKind = "final_outcomes"
)

// pendingAction — закрытый набор вариантов; каждый вариант несёт только свои данные
type pendingAction interface {
	kind() PendingKind
}

type noPending struct{}

// awaitingDailyDoubleWager — выбран Daily Double, нужна ставка выбравшей команды
type awaitingDailyDoubleWager struct {
	question  *entity.Question
	teamIndex int
}

// awaitingOutcome — вопрос открыт, нужен результат ответа
type awaitingOutcome struct {
	question    *entity.Question
	wager       int // Стоимость клетки или ставка Daily Double
	dailyDouble bool
	teamIndex   int // Для Daily Double: единственная команда, которая может отвечать
}

// awaitingFinalWagers — сбор независимых ставок всех команд перед финальным вопросом
type awaitingFinalWagers struct {
	wagers map[int]int
}

// awaitingFinalOutcomes — финальный вопрос открыт, ставки зафиксированы
type awaitingFinalOutcomes struct {
	question *entity.Question
	wagers   map[int]int
}

func (noPending) kind() PendingKind                { return PendingNone }
func (awaitingDailyDoubleWager) kind() PendingKind { return PendingDailyDoubleWager }
func (awaitingOutcome) kind() PendingKind          { return PendingOutcome }
func (awaitingFinalWagers) kind() PendingKind      { return PendingFinalWagers }
func (awaitingFinalOutcomes) kind() PendingKind    { return PendingFinalOutcomes }
