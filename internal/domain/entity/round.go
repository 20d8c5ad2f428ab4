package entity

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// RoundName идентифицирует раунд игры
type RoundName string

// Раунды игры в фиксированном порядке прохождения
const (
	RoundJeopardy       RoundName = "Jeopardy"
	RoundDoubleJeopardy RoundName = "Double Jeopardy"
	RoundFinal          RoundName = "Final Jeopardy"
)

var roundOrder = [...]RoundName{RoundJeopardy, RoundDoubleJeopardy, RoundFinal}

// RoundOrder возвращает копию последовательности раундов
func RoundOrder() []RoundName {
	order := make([]RoundName, len(roundOrder))
	copy(order, roundOrder[:])
	return order
}

// Index возвращает позицию раунда в последовательности или -1 для неизвестного имени
func (n RoundName) Index() int {
	for i, name := range roundOrder {
		if name == n {
			return i
		}
	}
	return -1
}

// Valid проверяет, что имя входит в фиксированную последовательность
func (n RoundName) Valid() bool {
	return n.Index() >= 0
}

// IsFinal проверяет, является ли раунд финальным
func (n RoundName) IsFinal() bool {
	return n == RoundFinal
}

// Next возвращает следующий раунд. Для финала второй результат false.
func (n RoundName) Next() (RoundName, bool) {
	idx := n.Index()
	if idx < 0 || idx >= len(roundOrder)-1 {
		return "", false
	}
	return roundOrder[idx+1], true
}

// roundAliases — альтернативные написания, которые встречаются в листах вопросов и JSON
var roundAliases = map[string]RoundName{
	"jeopardy":              RoundJeopardy,
	"jeopardy round":        RoundJeopardy,
	"regular-1":             RoundJeopardy,
	"regularround1":         RoundJeopardy,
	"double jeopardy":       RoundDoubleJeopardy,
	"double jeopardy round": RoundDoubleJeopardy,
	"regular-2":             RoundDoubleJeopardy,
	"regularround2":         RoundDoubleJeopardy,
	"final jeopardy":        RoundFinal,
	"final":                 RoundFinal,
}

// ParseRoundName разбирает имя раунда без учёта регистра и пробелов по краям
func ParseRoundName(s string) (RoundName, bool) {
	name, ok := roundAliases[strings.ToLower(strings.TrimSpace(s))]
	return name, ok
}

// NormalizeRoundName приводит известное написание к каноническому имени.
// Неизвестное имя возвращается без изменений, кроме пробелов по краям.
func NormalizeRoundName(s string) RoundName {
	if name, ok := ParseRoundName(s); ok {
		return name
	}
	return RoundName(strings.TrimSpace(s))
}

// UnmarshalJSON принимает любое написание из roundAliases
func (n *RoundName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("round name must be a string: %w", err)
	}
	*n = NormalizeRoundName(s)
	return nil
}

// Slot адресует клетку внутри раунда
type Slot struct {
	Category string `json:"category"`
	Value    int    `json:"value"`
}

// Round представляет раунд: упорядоченные категории и вопросы по стоимости
type Round struct {
	Name       RoundName
	Categories []string                     // Порядок задаёт колонки доски
	Questions  map[string]map[int]*Question // category -> value -> Question
	Completed  bool                         // Кешируется при вызове IsComplete
}

// NewRound создает пустой раунд
func NewRound(name RoundName) *Round {
	return &Round{
		Name:      name,
		Questions: make(map[string]map[int]*Question),
	}
}

// NewFinalRound создает пустой финальный раунд
func NewFinalRound() *Round {
	return NewRound(RoundFinal)
}

// AddCategory добавляет категорию в конец, если её ещё нет
func (r *Round) AddCategory(name string) {
	if _, ok := r.Questions[name]; ok {
		return
	}
	r.Categories = append(r.Categories, name)
	r.Questions[name] = make(map[int]*Question)
}

// AddQuestion вставляет вопрос в клетку (category, value), при необходимости создавая категорию.
// Существующая клетка перезаписывается.
func (r *Round) AddQuestion(q *Question) {
	r.AddCategory(q.Category)
	r.Questions[q.Category][q.Value] = q
}

// GetQuestion возвращает вопрос клетки; второй результат false, если клетки нет
func (r *Round) GetQuestion(category string, value int) (*Question, bool) {
	byValue, ok := r.Questions[category]
	if !ok {
		return nil, false
	}
	q, ok := byValue[value]
	return q, ok
}

// QuestionCount возвращает число заполненных клеток
func (r *Round) QuestionCount() int {
	count := 0
	for _, byValue := range r.Questions {
		count += len(byValue)
	}
	return count
}

// IsComplete возвращает true, если в раунде есть хотя бы один вопрос и все вопросы сыграны.
// Пустой раунд завершённым не считается.
func (r *Round) IsComplete() bool {
	if len(r.Categories) == 0 || r.QuestionCount() == 0 {
		r.Completed = false
		return false
	}
	for _, byValue := range r.Questions {
		for _, q := range byValue {
			if !q.Played {
				r.Completed = false
				return false
			}
		}
	}
	r.Completed = true
	return true
}

// Values возвращает стоимости категории по возрастанию
func (r *Round) Values(category string) []int {
	byValue := r.Questions[category]
	values := make([]int, 0, len(byValue))
	for v := range byValue {
		values = append(values, v)
	}
	sort.Ints(values)
	return values
}

// Slots перечисляет клетки в порядке колонок доски, внутри колонки: по возрастанию стоимости.
// Порядок детерминирован, что важно для воспроизводимого выбора Daily Double.
func (r *Round) Slots() []Slot {
	slots := make([]Slot, 0, r.QuestionCount())
	for _, category := range r.Categories {
		for _, v := range r.Values(category) {
			slots = append(slots, Slot{Category: category, Value: v})
		}
	}
	return slots
}

// SetFinalQuestion целиком заменяет категорию и вопрос финального раунда
func (r *Round) SetFinalQuestion(category, text, answer string) {
	r.Categories = []string{category}
	r.Questions = map[string]map[int]*Question{
		category: {FinalQuestionValue: NewQuestion(category, FinalQuestionValue, text, answer, false)},
	}
	r.Completed = false
}

// FinalQuestion возвращает вопрос финального раунда, если он задан
func (r *Round) FinalQuestion() (*Question, bool) {
	if len(r.Categories) == 0 {
		return nil, false
	}
	return r.GetQuestion(r.Categories[0], FinalQuestionValue)
}
