package entity

import "fmt"

// FinalQuestionValue — стоимость единственного вопроса Final Jeopardy.
// Ставки в финале вычисляются отдельно, поэтому клетка всегда стоит 0.
const FinalQuestionValue = 0

// Question представляет одну клетку доски: вопрос категории за определённую стоимость
type Question struct {
	Category      string `json:"category"`
	Value         int    `json:"value"`
	Text          string `json:"text"`
	Answer        string `json:"answer"`
	IsDailyDouble bool   `json:"is_daily_double"`
	Played        bool   `json:"played"`
}

// NewQuestion создает вопрос, который ещё не был сыгран.
// Входные данные не проверяются: за корректность отвечает загрузчик доски.
func NewQuestion(category string, value int, text, answer string, isDailyDouble bool) *Question {
	return &Question{
		Category:      category,
		Value:         value,
		Text:          text,
		Answer:        answer,
		IsDailyDouble: isDailyDouble,
	}
}

// MarkPlayed помечает вопрос сыгранным. Повторный вызов ничего не меняет.
func (q *Question) MarkPlayed() {
	q.Played = true
}

// String возвращает человекочитаемое описание клетки
func (q *Question) String() string {
	return fmt.Sprintf("%s for %d: %s", q.Category, q.Value, q.Text)
}
