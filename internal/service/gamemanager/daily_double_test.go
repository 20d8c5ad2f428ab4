package gamemanager

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/jeopardy-api/internal/domain/entity"
)

func twoSlotRound() *entity.Round {
	r := entity.NewRound(entity.RoundJeopardy)
	r.AddQuestion(entity.NewQuestion("Science", 200, "q1", "a1", false))
	r.AddQuestion(entity.NewQuestion("Science", 400, "q2", "a2", false))
	return r
}

func TestDailyDoubleAssigner_AllSlots(t *testing.T) {
	r := twoSlotRound()
	a := NewDailyDoubleAssigner(rand.New(rand.NewSource(3)))

	slots := a.Assign(r, 2)

	assert.Len(t, slots, 2)
	for _, slot := range r.Slots() {
		q, _ := r.GetQuestion(slot.Category, slot.Value)
		assert.True(t, q.IsDailyDouble)
	}
}

func TestDailyDoubleAssigner_ClampsToPool(t *testing.T) {
	r := twoSlotRound()
	q, _ := r.GetQuestion("Science", 200)
	q.MarkPlayed()
	a := NewDailyDoubleAssigner(rand.New(rand.NewSource(3)))

	slots := a.Assign(r, 5)

	assert.Equal(t, []entity.Slot{{Category: "Science", Value: 400}}, slots, "Сыгранные клетки в выбор не попадают")
	assert.False(t, q.IsDailyDouble)
}

func TestDailyDoubleAssigner_Reproducible(t *testing.T) {
	build := func() *entity.Round {
		r := entity.NewRound(entity.RoundJeopardy)
		for _, c := range []string{"A", "B", "C"} {
			for _, v := range []int{200, 400, 600, 800, 1000} {
				r.AddQuestion(entity.NewQuestion(c, v, "q", "a", false))
			}
		}
		return r
	}

	first := NewDailyDoubleAssigner(rand.New(rand.NewSource(99))).Assign(build(), 3)
	second := NewDailyDoubleAssigner(rand.New(rand.NewSource(99))).Assign(build(), 3)

	assert.Equal(t, first, second, "Одинаковое зерно даёт одинаковый выбор")
	assert.Len(t, first, 3)
}

func TestDailyDoubleAssigner_ZeroOrNil(t *testing.T) {
	a := NewDailyDoubleAssigner(nil)

	assert.Nil(t, a.Assign(nil, 1))
	assert.Nil(t, a.Assign(twoSlotRound(), 0))
}
