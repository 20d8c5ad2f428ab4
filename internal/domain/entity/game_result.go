package entity

import (
	"sort"
	"time"
)

// GameResult представляет архивную запись о завершённой игре.
// Незавершённые игры не сохраняются.
type GameResult struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	SessionID   string      `gorm:"size:36;not null;uniqueIndex" json:"session_id"`
	Title       string      `gorm:"size:100;not null;default:''" json:"title"`
	TeamCount   int         `gorm:"not null;default:0" json:"team_count"`
	TopScore    int         `gorm:"not null;default:0" json:"top_score"`
	WinnerNames StringArray `gorm:"type:jsonb;not null" json:"winner_names"`
	Standings   Standings   `gorm:"type:jsonb;not null" json:"standings"`
	FinishedAt  time.Time   `gorm:"not null;index" json:"finished_at"`
	CreatedAt   time.Time   `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (GameResult) TableName() string {
	return "game_results"
}

// IsTie проверяет, разделили ли победу несколько команд
func (r *GameResult) IsTie() bool {
	return len(r.WinnerNames) > 1
}

// NewStandings строит таблицу позиций по командам. Команды с равным счётом делят место,
// порядок внутри места совпадает с исходным порядком команд.
func NewStandings(teams []Team) Standings {
	standings := make(Standings, len(teams))
	for i, t := range teams {
		standings[i] = TeamStanding{Name: t.Name, Color: t.Color, Score: t.Score}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})

	for i := range standings {
		if i > 0 && standings[i].Score == standings[i-1].Score {
			standings[i].Rank = standings[i-1].Rank
		} else {
			standings[i].Rank = i + 1
		}
		standings[i].IsWinner = standings[i].Rank == 1
	}
	return standings
}
