package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/jeopardy-api/internal/handler/dto"
	"github.com/yourusername/jeopardy-api/internal/service"
)

// ResultIDKey — ключ контекста с ID архивного итога
const ResultIDKey = "resultID"

// ResultHandler отдает архив завершенных игр
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler создает новый обработчик архива
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// ListResults возвращает последние завершенные игры
// GET /api/results?limit=20&offset=0
func (h *ResultHandler) ListResults(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, offset = service.NormalizePage(limit, offset)

	results, total, err := h.resultService.List(limit, offset)
	if err != nil {
		handleGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedGameResultsResponse(results, total, limit, offset))
}

// GetResult возвращает итог игры с таблицей позиций
// GET /api/results/:id
func (h *ResultHandler) GetResult(c *gin.Context) {
	result, err := h.resultService.Get(c.MustGet(ResultIDKey).(uint))
	if err != nil {
		handleGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGameResultResponse(result, true))
}

// ExportResult отдает таблицу позиций игры в xlsx
// GET /api/results/:id/export
func (h *ResultHandler) ExportResult(c *gin.Context) {
	var buf bytes.Buffer
	result, err := h.resultService.ExportStandings(c.MustGet(ResultIDKey).(uint), &buf)
	if err != nil {
		handleGameError(c, err)
		return
	}

	filename := fmt.Sprintf("standings_%d_%s.xlsx", result.ID, result.FinishedAt.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
