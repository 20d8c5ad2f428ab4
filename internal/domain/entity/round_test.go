package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound_AddCategory_NoDuplicates(t *testing.T) {
	// Arrange
	r := NewRound(RoundJeopardy)

	// Act
	r.AddCategory("Science")
	r.AddCategory("History")
	r.AddCategory("Science")

	// Assert
	assert.Equal(t, []string{"Science", "History"}, r.Categories, "Порядок вставки сохраняется, дубликаты игнорируются")
	assert.Len(t, r.Questions, 2)
}

func TestRound_AddQuestion_AutoAddsCategoryAndOverwrites(t *testing.T) {
	// Arrange
	r := NewRound(RoundJeopardy)
	first := NewQuestion("Geography", 200, "Capital of France", "Paris", false)
	second := NewQuestion("Geography", 200, "Capital of Italy", "Rome", false)

	// Act
	r.AddQuestion(first)
	r.AddQuestion(second)

	// Assert
	require.Equal(t, []string{"Geography"}, r.Categories)
	got, ok := r.GetQuestion("Geography", 200)
	require.True(t, ok)
	assert.Same(t, second, got, "Клетка должна быть перезаписана")
	assert.Equal(t, 1, r.QuestionCount())
}

func TestRound_GetQuestion_NotFound(t *testing.T) {
	r := NewRound(RoundJeopardy)
	r.AddQuestion(NewQuestion("Music", 200, "q", "a", false))

	_, ok := r.GetQuestion("Music", 400)
	assert.False(t, ok, "Несуществующая стоимость")

	_, ok = r.GetQuestion("Sports", 200)
	assert.False(t, ok, "Несуществующая категория")
}

func TestRound_IsComplete(t *testing.T) {
	t.Run("пустой раунд не завершён", func(t *testing.T) {
		r := NewRound(RoundJeopardy)
		assert.False(t, r.IsComplete())
		assert.False(t, r.Completed)
	})

	t.Run("категории без вопросов не завершены", func(t *testing.T) {
		r := NewRound(RoundJeopardy)
		r.AddCategory("Science")
		r.AddCategory("History")
		assert.False(t, r.IsComplete())
	})

	t.Run("частично сыгранный раунд", func(t *testing.T) {
		r := NewRound(RoundJeopardy)
		q1 := NewQuestion("Science", 200, "q1", "a1", false)
		q2 := NewQuestion("Science", 400, "q2", "a2", false)
		r.AddQuestion(q1)
		r.AddQuestion(q2)
		q1.MarkPlayed()
		assert.False(t, r.IsComplete())
	})

	t.Run("все вопросы сыграны", func(t *testing.T) {
		r := NewRound(RoundJeopardy)
		q1 := NewQuestion("Science", 200, "q1", "a1", false)
		q2 := NewQuestion("History", 200, "q2", "a2", false)
		r.AddQuestion(q1)
		r.AddQuestion(q2)
		q1.MarkPlayed()
		q2.MarkPlayed()
		assert.True(t, r.IsComplete())
		assert.True(t, r.Completed, "Флаг кешируется при проверке")
	})
}

func TestRound_Slots_DeterministicOrder(t *testing.T) {
	// Arrange
	r := NewRound(RoundJeopardy)
	r.AddCategory("B")
	r.AddCategory("A")
	for _, v := range []int{600, 200, 400} {
		r.AddQuestion(NewQuestion("A", v, "q", "a", false))
		r.AddQuestion(NewQuestion("B", v, "q", "a", false))
	}

	// Act
	slots := r.Slots()

	// Assert: сначала колонка B (добавлена первой), стоимости по возрастанию
	expected := []Slot{
		{"B", 200}, {"B", 400}, {"B", 600},
		{"A", 200}, {"A", 400}, {"A", 600},
	}
	assert.Equal(t, expected, slots)
}

func TestFinalRound_SetFinalQuestion(t *testing.T) {
	// Arrange
	r := NewFinalRound()
	_, ok := r.FinalQuestion()
	require.False(t, ok)

	// Act
	r.SetFinalQuestion("Literature", "Author of Hamlet", "Shakespeare")
	r.SetFinalQuestion("Space", "Closest star", "The Sun")

	// Assert: замена целиком
	assert.Equal(t, []string{"Space"}, r.Categories)
	q, ok := r.FinalQuestion()
	require.True(t, ok)
	assert.Equal(t, FinalQuestionValue, q.Value)
	assert.Equal(t, "The Sun", q.Answer)
	assert.Equal(t, 1, r.QuestionCount())

	assert.False(t, r.IsComplete())
	q.MarkPlayed()
	assert.True(t, r.IsComplete())
}

func TestRoundName_Order(t *testing.T) {
	next, ok := RoundJeopardy.Next()
	require.True(t, ok)
	assert.Equal(t, RoundDoubleJeopardy, next)

	next, ok = RoundDoubleJeopardy.Next()
	require.True(t, ok)
	assert.Equal(t, RoundFinal, next)

	_, ok = RoundFinal.Next()
	assert.False(t, ok, "После финала раундов нет")

	assert.Equal(t, -1, RoundName("Bonus").Index())
	assert.True(t, RoundFinal.IsFinal())
	assert.False(t, RoundJeopardy.IsFinal())
}

func TestParseRoundName(t *testing.T) {
	testCases := []struct {
		input    string
		expected RoundName
		ok       bool
	}{
		{"Jeopardy", RoundJeopardy, true},
		{"  double jeopardy ", RoundDoubleJeopardy, true},
		{"Final Jeopardy", RoundFinal, true},
		{"RegularRound2", RoundDoubleJeopardy, true},
		{"Triple Jeopardy", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			name, ok := ParseRoundName(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, name)
		})
	}
}

func TestRoundName_UnmarshalJSON(t *testing.T) {
	var ref DailyDoubleRef
	require.NoError(t, json.Unmarshal([]byte(`{"round":"RegularRound1","category":"Science","value":200}`), &ref))
	assert.Equal(t, RoundJeopardy, ref.Round)

	var names []RoundName
	require.NoError(t, json.Unmarshal([]byte(`["regular-2", "FINAL", " Bonus "]`), &names))
	assert.Equal(t, []RoundName{RoundDoubleJeopardy, RoundFinal, "Bonus"}, names, "Неизвестное имя сохраняется для отчёта загрузчика")

	var name RoundName
	assert.Error(t, json.Unmarshal([]byte(`1`), &name))

	out, err := json.Marshal(RoundDoubleJeopardy)
	require.NoError(t, err)
	assert.JSONEq(t, `"Double Jeopardy"`, string(out))
}
