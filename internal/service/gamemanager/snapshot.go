package gamemanager

import (
	"sort"

	"github.com/yourusername/jeopardy-api/internal/domain/entity"
)

// BoardCell — клетка доски в снимке
type BoardCell struct {
	Value       int  `json:"value"`
	Played      bool `json:"played"`
	DailyDouble bool `json:"daily_double,omitempty"`
}

// BoardColumn — колонка доски (категория) в снимке
type BoardColumn struct {
	Category string      `json:"category"`
	Cells    []BoardCell `json:"cells"`
}

// ActiveClue описывает открытый или ожидающий ставки вопрос
type ActiveClue struct {
	Round       entity.RoundName `json:"round"`
	Category    string           `json:"category"`
	Value       int              `json:"value"`
	Text        string           `json:"text,omitempty"`   // Пусто, пока не принята ставка
	Answer      string           `json:"answer,omitempty"` // Только для ведущего
	DailyDouble bool             `json:"daily_double"`
	Wager       int              `json:"wager,omitempty"`
	TeamIndex   int              `json:"team_index"`
}

// PendingView — ожидаемый шаг в снимке
type PendingView struct {
	Kind        PendingKind `json:"kind"`
	MaxWager    int         `json:"max_wager,omitempty"`
	FinalWagers map[int]int `json:"final_wagers,omitempty"` // Суммы видит только ведущий
	Wagered     []int       `json:"wagered,omitempty"`      // Индексы команд, сделавших ставку
}

// Snapshot — копия состояния игры для слоя представления.
// Не содержит ссылок на внутренние структуры Game.
type Snapshot struct {
	State            GameState        `json:"state"`
	Round            entity.RoundName `json:"round"`
	RoundComplete    bool             `json:"round_complete"`
	CurrentTeamIndex int              `json:"current_team_index"`
	Teams            []entity.Team    `json:"teams"`
	Board            []BoardColumn    `json:"board"`
	FinalCategory    string           `json:"final_category,omitempty"`
	Pending          PendingView      `json:"pending"`
	ActiveClue       *ActiveClue      `json:"active_clue,omitempty"`
	Winners          []entity.Team    `json:"winners,omitempty"`
	HostView         bool             `json:"host_view"`
}

// Snapshot строит снимок состояния. В режиме ведущего (host) видны ответ
// открытого вопроса, расположение Daily Double и суммы финальных ставок.
func (g *Game) Snapshot(host bool) Snapshot {
	s := Snapshot{
		State:            g.State(),
		Round:            g.currentRound,
		CurrentTeamIndex: g.currentTeam,
		Teams:            g.Teams(),
		Pending:          PendingView{Kind: g.pending.kind()},
		HostView:         host,
	}

	round := g.rounds[g.currentRound]
	s.RoundComplete = round.IsComplete()

	if g.currentRound.IsFinal() {
		if q, ok := round.FinalQuestion(); ok {
			s.FinalCategory = q.Category
		}
	} else {
		s.Board = make([]BoardColumn, 0, len(round.Categories))
		for _, category := range round.Categories {
			col := BoardColumn{Category: category}
			for _, v := range round.Values(category) {
				q, _ := round.GetQuestion(category, v)
				col.Cells = append(col.Cells, BoardCell{
					Value:       v,
					Played:      q.Played,
					DailyDouble: q.IsDailyDouble && (host || q.Played),
				})
			}
			s.Board = append(s.Board, col)
		}
	}

	switch p := g.pending.(type) {
	case awaitingDailyDoubleWager:
		s.Pending.MaxWager = g.dailyDoubleMaxWager(p.teamIndex)
		s.ActiveClue = g.clueView(p.question, true, 0, p.teamIndex, false, host)
	case awaitingOutcome:
		s.ActiveClue = g.clueView(p.question, p.dailyDouble, p.wager, p.teamIndex, true, host)
	case awaitingFinalWagers:
		s.Pending.Wagered, s.Pending.FinalWagers = wagerView(p.wagers, host)
	case awaitingFinalOutcomes:
		s.Pending.Wagered, s.Pending.FinalWagers = wagerView(p.wagers, host)
		s.ActiveClue = g.clueView(p.question, false, 0, -1, true, host)
	}

	if g.gameOver {
		s.Winners = g.Winners()
	}
	return s
}

func (g *Game) clueView(q *entity.Question, dailyDouble bool, wager, teamIndex int, revealed, host bool) *ActiveClue {
	clue := &ActiveClue{
		Round:       g.currentRound,
		Category:    q.Category,
		Value:       q.Value,
		DailyDouble: dailyDouble,
		Wager:       wager,
		TeamIndex:   teamIndex,
	}
	if revealed {
		clue.Text = q.Text
		if host {
			clue.Answer = q.Answer
		}
	}
	return clue
}

func wagerView(wagers map[int]int, host bool) ([]int, map[int]int) {
	wagered := make([]int, 0, len(wagers))
	for idx := range wagers {
		wagered = append(wagered, idx)
	}
	sort.Ints(wagered)
	if !host {
		return wagered, nil
	}
	amounts := make(map[int]int, len(wagers))
	for idx, amount := range wagers {
		amounts[idx] = amount
	}
	return wagered, amounts
}
