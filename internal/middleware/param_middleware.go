package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GameIDKey — ключ контекста с идентификатором игры
const GameIDKey = "gameID"

// ExtractUintParam создает middleware для извлечения и валидации числового параметра URL.
// paramName - имя параметра в URL (например, "id").
// contextKey - ключ, под которым значение будет сохранено в контексте Gin.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param(paramName)
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName)})
			return
		}
		c.Set(contextKey, uint(id))
		c.Next()
	}
}

// ExtractGameID проверяет, что параметр URL является UUID игры, и кладет его
// в контекст под GameIDKey в канонической записи
func ExtractGameID(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param(paramName))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName)})
			return
		}
		c.Set(GameIDKey, id.String())
		c.Next()
	}
}
