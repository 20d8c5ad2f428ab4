package dto

import (
	"time"

	"github.com/yourusername/jeopardy-api/internal/domain/entity"
)

// GameResultResponse представляет архивный итог игры
type GameResultResponse struct {
	ID          uint                  `json:"id"`
	SessionID   string                `json:"session_id"`
	Title       string                `json:"title"`
	TeamCount   int                   `json:"team_count"`
	TopScore    int                   `json:"top_score"`
	WinnerNames []string              `json:"winner_names"`
	IsTie       bool                  `json:"is_tie"`
	Standings   []entity.TeamStanding `json:"standings,omitempty"`
	FinishedAt  time.Time             `json:"finished_at"`
}

// PaginatedGameResultsResponse — страница архивных итогов
type PaginatedGameResultsResponse struct {
	Results []GameResultResponse `json:"results"`
	Total   int64                `json:"total"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
}

// NewGameResultResponse создает DTO итога. Таблица позиций включается по запросу.
func NewGameResultResponse(result *entity.GameResult, withStandings bool) GameResultResponse {
	resp := GameResultResponse{
		ID:          result.ID,
		SessionID:   result.SessionID,
		Title:       result.Title,
		TeamCount:   result.TeamCount,
		TopScore:    result.TopScore,
		WinnerNames: []string(result.WinnerNames),
		IsTie:       result.IsTie(),
		FinishedAt:  result.FinishedAt,
	}
	if resp.WinnerNames == nil {
		resp.WinnerNames = []string{}
	}
	if withStandings {
		resp.Standings = result.Standings
	}
	return resp
}

// NewPaginatedGameResultsResponse создает DTO страницы итогов
func NewPaginatedGameResultsResponse(results []entity.GameResult, total int64, limit, offset int) PaginatedGameResultsResponse {
	items := make([]GameResultResponse, 0, len(results))
	for i := range results {
		items = append(items, NewGameResultResponse(&results[i], false))
	}
	return PaginatedGameResultsResponse{
		Results: items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
}
