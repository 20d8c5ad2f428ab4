package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/jeopardy-api/internal/domain/entity"
	"github.com/yourusername/jeopardy-api/internal/questionbank"
	"github.com/yourusername/jeopardy-api/internal/service"
)

const (
	xlsxContentType      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	boardFormField       = "file"
	defaultMaxUploadSize = 10 << 20
)

// BoardHandler загружает доски вопросов в игры и отдает шаблон книги
type BoardHandler struct {
	gameService   *service.GameService
	ladders       questionbank.Ladders
	maxUploadSize int64
}

// NewBoardHandler создает обработчик досок. maxUploadMB <= 0 означает 10 МБ.
func NewBoardHandler(gameService *service.GameService, ladders questionbank.Ladders, maxUploadMB int) *BoardHandler {
	size := int64(defaultMaxUploadSize)
	if maxUploadMB > 0 {
		size = int64(maxUploadMB) << 20
	}
	return &BoardHandler{
		gameService:   gameService,
		ladders:       ladders,
		maxUploadSize: size,
	}
}

// UploadWorkbook принимает книгу xlsx в поле формы "file" и загружает из нее доску
// POST /api/games/:id/board
func (h *BoardHandler) UploadWorkbook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	fileHeader, err := c.FormFile(boardFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds %d bytes", h.maxUploadSize)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .xlsx workbooks are supported"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("[BoardHandler] Не удалось открыть загруженный файл %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	defer file.Close()

	data, err := questionbank.Parse(file, h.ladders)
	if err != nil {
		handleGameError(c, err)
		return
	}
	h.load(c, data, "xlsx")
}

// LoadJSON загружает доску, переданную в теле запроса
// POST /api/games/:id/board/json
func (h *BoardHandler) LoadJSON(c *gin.Context) {
	var data entity.BoardData
	if err := c.ShouldBindJSON(&data); err != nil {
		bindingError(c, err)
		return
	}
	h.load(c, &data, "json")
}

func (h *BoardHandler) load(c *gin.Context, data *entity.BoardData, source string) {
	id := gameID(c)
	report, err := h.gameService.LoadBoard(id, data, source)
	if err != nil {
		handleGameError(c, err)
		return
	}

	key := hostKey(c)
	if !h.gameService.IsHost(id, key) {
		public := *report
		public.DailyDoubles = nil
		report = &public
	}
	snapshot, err := h.gameService.GetSnapshot(id, key)
	if err != nil {
		handleGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report, "snapshot": snapshot})
}

// DownloadTemplate отдает пустую книгу с вопросами
// GET /api/board/template
func (h *BoardHandler) DownloadTemplate(c *gin.Context) {
	var buf bytes.Buffer
	if err := questionbank.WriteTemplate(&buf, h.ladders); err != nil {
		log.Printf("[BoardHandler] Ошибка формирования шаблона: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build template"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="jeopardy_template.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
