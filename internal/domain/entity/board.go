package entity

// ClueData — данные одной клетки в том виде, в каком их отдаёт загрузчик
type ClueData struct {
	Text          string `json:"text"`
	Answer        string `json:"answer"`
	IsDailyDouble bool   `json:"is_daily_double"`
}

// RoundData — данные обычного раунда от загрузчика
type RoundData struct {
	Categories []string                     `json:"categories"`
	Questions  map[string]map[int]*ClueData `json:"questions"`
}

// FinalData — данные финального раунда
type FinalData struct {
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// BoardRounds группирует данные всех трёх раундов
type BoardRounds struct {
	Jeopardy       RoundData `json:"jeopardy"`
	DoubleJeopardy RoundData `json:"double_jeopardy"`
	Final          FinalData `json:"final"`
}

// DailyDoubleRef адресует клетку, явно помеченную как Daily Double в банке вопросов
type DailyDoubleRef struct {
	Round    RoundName `json:"round"`
	Category string    `json:"category"`
	Value    int       `json:"value"`
}

// BoardData — полностью сформированная доска, которую загрузчик передаёт игре
type BoardData struct {
	Rounds       BoardRounds      `json:"rounds"`
	DailyDoubles []DailyDoubleRef `json:"daily_doubles"`
}

// RegularRound возвращает данные обычного раунда по имени
func (b *BoardData) RegularRound(name RoundName) (*RoundData, bool) {
	switch name {
	case RoundJeopardy:
		return &b.Rounds.Jeopardy, true
	case RoundDoubleJeopardy:
		return &b.Rounds.DoubleJeopardy, true
	default:
		return nil, false
	}
}
