package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/jeopardy-api/internal/handler/dto"
	"github.com/yourusername/jeopardy-api/internal/handler/helper"
	"github.com/yourusername/jeopardy-api/internal/middleware"
	"github.com/yourusername/jeopardy-api/internal/service"
)

// HostKeyHeader — заголовок с ключом ведущего
const HostKeyHeader = "X-Host-Key"

// GameHandler обрабатывает команды ведущего и запросы состояния игры
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler создает новый обработчик игр
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// hostKey достает ключ ведущего из заголовка или параметра host_key
func hostKey(c *gin.Context) string {
	if key := c.GetHeader(HostKeyHeader); key != "" {
		return key
	}
	return c.Query("host_key")
}

func gameID(c *gin.Context) string {
	return c.MustGet(middleware.GameIDKey).(string)
}

// respondWithSnapshot дополняет ответ команды актуальным снимком игры
func (h *GameHandler) respondWithSnapshot(c *gin.Context, status int, body gin.H) {
	snapshot, err := h.gameService.GetSnapshot(gameID(c), hostKey(c))
	if err != nil {
		handleGameError(c, err)
		return
	}
	body["snapshot"] = snapshot
	c.JSON(status, body)
}

// CreateGame открывает новую игру
// POST /api/games
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req dto.CreateGameRequest
	// Пустое тело допустимо: игра с названием и составом по умолчанию
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindingError(c, err)
		return
	}

	info, err := h.gameService.CreateGame(req.Title, dto.ToTeams(req.Teams))
	if err != nil {
		handleGameError(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// GetGame возвращает снимок игры. С ключом ведущего снимок содержит ответы.
// GET /api/games/:id
func (h *GameHandler) GetGame(c *gin.Context) {
	snapshot, err := h.gameService.GetSnapshot(gameID(c), hostKey(c))
	if err != nil {
		handleGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// CloseGame закрывает игру
// DELETE /api/games/:id
func (h *GameHandler) CloseGame(c *gin.Context) {
	if err := h.gameService.CloseGame(gameID(c)); err != nil {
		handleGameError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AssignDailyDoubles заново расставляет Daily Double в раунде
// POST /api/games/:id/daily-doubles
func (h *GameHandler) AssignDailyDoubles(c *gin.Context) {
	var req dto.DailyDoublesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	slots, err := h.gameService.AssignDailyDoubles(gameID(c), req.Round, *req.Count)
	if err != nil {
		handleGameError(c, err)
		return
	}
	// Расположение Daily Double видит только ведущий
	if !h.gameService.IsHost(gameID(c), hostKey(c)) {
		c.JSON(http.StatusOK, gin.H{"round": req.Round, "count": len(slots)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"round": req.Round, "count": len(slots), "slots": slots})
}

// SelectQuestion открывает клетку доски
// POST /api/games/:id/select
func (h *GameHandler) SelectQuestion(c *gin.Context) {
	var req dto.SelectQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	if _, err := h.gameService.SelectQuestion(gameID(c), req.Category, req.Value); err != nil {
		handleGameError(c, err)
		return
	}
	h.respondWithSnapshot(c, http.StatusOK, gin.H{})
}

// SubmitWager принимает ставку Daily Double
// POST /api/games/:id/wager
func (h *GameHandler) SubmitWager(c *gin.Context) {
	var req dto.WagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	wager, err := h.gameService.SubmitWager(gameID(c), req.Amount.String())
	if err != nil {
		handleGameError(c, err)
		return
	}
	h.respondWithSnapshot(c, http.StatusOK, gin.H{"wager": wager})
}

// RecordOutcome применяет результат ответа
// POST /api/games/:id/outcome
func (h *GameHandler) RecordOutcome(c *gin.Context) {
	var req dto.OutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	result, err := h.gameService.RecordOutcome(gameID(c), service.OutcomeCommand{
		TeamIndex: req.TeamIndex,
		TeamName:  req.TeamName,
		Correct:   *req.Correct,
	})
	if err != nil {
		handleGameError(c, err)
		return
	}
	h.respondWithSnapshot(c, http.StatusOK, gin.H{
		"team_index":     result.TeamIndex,
		"delta":          result.Delta,
		"score":          result.Team.Score,
		"round_complete": result.RoundComplete,
	})
}

// AdvanceRound переходит к следующему раунду
// POST /api/games/:id/advance
func (h *GameHandler) AdvanceRound(c *gin.Context) {
	round, gameOver, err := h.gameService.AdvanceRound(gameID(c))
	if err != nil {
		handleGameError(c, err)
		return
	}
	h.respondWithSnapshot(c, http.StatusOK, gin.H{"round": round, "game_over": gameOver})
}

// SubmitFinalWager принимает финальную ставку команды
// POST /api/games/:id/final/wagers
func (h *GameHandler) SubmitFinalWager(c *gin.Context) {
	var req dto.FinalWagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	missing, err := h.gameService.SubmitFinalWager(gameID(c), *req.TeamIndex, req.Amount.String())
	if err != nil {
		handleGameError(c, err)
		return
	}
	if missing == nil {
		missing = []int{}
	}
	c.JSON(http.StatusOK, gin.H{"missing": missing})
}

// RevealFinal открывает финальный вопрос
// POST /api/games/:id/final/reveal
func (h *GameHandler) RevealFinal(c *gin.Context) {
	if _, err := h.gameService.RevealFinal(gameID(c)); err != nil {
		handleGameError(c, err)
		return
	}
	h.respondWithSnapshot(c, http.StatusOK, gin.H{})
}

// RecordFinalOutcomes применяет результаты финала
// POST /api/games/:id/final/outcomes
func (h *GameHandler) RecordFinalOutcomes(c *gin.Context) {
	var req dto.FinalOutcomesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	byIndex, byName := helper.SplitOutcomeKeys(req.Outcomes)
	outcomes, err := h.gameService.RecordFinalOutcomes(gameID(c), byIndex, byName)
	if err != nil {
		handleGameError(c, err)
		return
	}
	h.respondWithSnapshot(c, http.StatusOK, gin.H{"outcomes": outcomes})
}

// ResetGame начинает игру заново
// POST /api/games/:id/reset
func (h *GameHandler) ResetGame(c *gin.Context) {
	if err := h.gameService.ResetGame(gameID(c)); err != nil {
		handleGameError(c, err)
		return
	}
	h.respondWithSnapshot(c, http.StatusOK, gin.H{})
}

// RedefineTeams заменяет состав команд
// PUT /api/games/:id/teams
func (h *GameHandler) RedefineTeams(c *gin.Context) {
	var req dto.RedefineTeamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	teams, err := h.gameService.RedefineTeams(gameID(c), dto.ToTeams(req.Teams))
	if err != nil {
		handleGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// AddTeam добавляет команду
// POST /api/games/:id/teams
func (h *GameHandler) AddTeam(c *gin.Context) {
	var req dto.TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	teams, err := h.gameService.AddTeam(gameID(c), req.Name, req.Color)
	if err != nil {
		handleGameError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"teams": teams})
}

// GetWinners возвращает команды-лидеры
// GET /api/games/:id/winners
func (h *GameHandler) GetWinners(c *gin.Context) {
	winners, err := h.gameService.Winners(gameID(c))
	if err != nil {
		handleGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"winners": winners})
}
