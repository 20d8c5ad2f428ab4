package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/jeopardy-api/internal/middleware"
)

// Routes объединяет обработчики HTTP API
type Routes struct {
	Game   *GameHandler
	Board  *BoardHandler
	Result *ResultHandler
	WS     *WSHandler

	// CommandMiddleware применяется к командам, меняющим состояние игры (rate limit)
	CommandMiddleware []gin.HandlerFunc
	// UploadMiddleware применяется к загрузке книг с вопросами
	UploadMiddleware []gin.HandlerFunc
}

// Register регистрирует маршруты API на router
func (r Routes) Register(router *gin.Engine) {
	api := router.Group("/api")

	games := api.Group("/games")
	{
		create := games.Group("", r.CommandMiddleware...)
		create.POST("", r.Game.CreateGame)

		game := games.Group("/:id", middleware.ExtractGameID("id"))
		{
			game.GET("", r.Game.GetGame)
			game.GET("/winners", r.Game.GetWinners)

			commands := game.Group("", r.CommandMiddleware...)
			commands.DELETE("", r.Game.CloseGame)
			commands.POST("/daily-doubles", r.Game.AssignDailyDoubles)
			commands.POST("/select", r.Game.SelectQuestion)
			commands.POST("/wager", r.Game.SubmitWager)
			commands.POST("/outcome", r.Game.RecordOutcome)
			commands.POST("/advance", r.Game.AdvanceRound)
			commands.POST("/final/wagers", r.Game.SubmitFinalWager)
			commands.POST("/final/reveal", r.Game.RevealFinal)
			commands.POST("/final/outcomes", r.Game.RecordFinalOutcomes)
			commands.POST("/reset", r.Game.ResetGame)
			commands.PUT("/teams", r.Game.RedefineTeams)
			commands.POST("/teams", r.Game.AddTeam)

			if r.Board != nil {
				uploads := game.Group("", r.UploadMiddleware...)
				uploads.POST("/board", r.Board.UploadWorkbook)
				uploads.POST("/board/json", r.Board.LoadJSON)
			}
		}
	}

	if r.Board != nil {
		api.GET("/board/template", r.Board.DownloadTemplate)
	}

	if r.Result != nil {
		results := api.Group("/results")
		results.GET("", r.Result.ListResults)
		result := results.Group("/:id", middleware.ExtractUintParam("id", ResultIDKey))
		result.GET("", r.Result.GetResult)
		result.GET("/export", r.Result.ExportResult)
	}

	if r.WS != nil {
		router.GET("/ws", r.WS.HandleConnection)
	}
}
