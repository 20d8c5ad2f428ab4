package entity

// Team представляет команду игроков
type Team struct {
	Name  string `json:"name"`
	Score int    `json:"score"` // Может уходить в минус
	Color string `json:"color"` // Косметический тег для интерфейса
}

// ApplyOutcome начисляет очки за правильный ответ или списывает за неправильный
func (t *Team) ApplyOutcome(amount int, correct bool) {
	if correct {
		t.Score += amount
	} else {
		t.Score -= amount
	}
}
