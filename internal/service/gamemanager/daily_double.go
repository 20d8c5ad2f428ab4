package gamemanager

import (
	"math/rand"
	"time"

	"github.com/yourusername/jeopardy-api/internal/domain/entity"
)

// DailyDoubleAssigner случайно расставляет Daily Double по клеткам раунда.
// Источник случайности внедряется снаружи, чтобы в тестах выбор был воспроизводимым.
type DailyDoubleAssigner struct {
	rng *rand.Rand
}

// NewDailyDoubleAssigner создает распределитель. При rng == nil используется источник от текущего времени.
func NewDailyDoubleAssigner(rng *rand.Rand) *DailyDoubleAssigner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &DailyDoubleAssigner{rng: rng}
}

// Assign помечает до n несыгранных клеток раунда, которые ещё не являются Daily Double.
// Выбор равномерный и без повторов; n ограничивается размером пула.
// Возвращает помеченные клетки в порядке выбора.
func (a *DailyDoubleAssigner) Assign(round *entity.Round, n int) []entity.Slot {
	if round == nil || n <= 0 {
		return nil
	}

	available := make([]*entity.Question, 0, round.QuestionCount())
	for _, slot := range round.Slots() {
		q, _ := round.GetQuestion(slot.Category, slot.Value)
		if !q.IsDailyDouble && !q.Played {
			available = append(available, q)
		}
	}

	if n > len(available) {
		n = len(available)
	}

	chosen := make([]entity.Slot, 0, n)
	for i := 0; i < n; i++ {
		idx := a.rng.Intn(len(available))
		q := available[idx]
		available = append(available[:idx], available[idx+1:]...)

		q.IsDailyDouble = true
		chosen = append(chosen, entity.Slot{Category: q.Category, Value: q.Value})
	}
	return chosen
}
