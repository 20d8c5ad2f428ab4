package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/jeopardy-api/internal/pkg/errors"
	"github.com/yourusername/jeopardy-api/internal/service"
)

// handleGameError переводит ошибки сервисов в HTTP ответ
func handleGameError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "error_type": "not_found"})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "error_type": "validation"})
	} else if errors.Is(err, apperrors.ErrInvalidTransition) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "invalid_transition"})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "conflict"})
	} else if errors.Is(err, apperrors.ErrDataLoad) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "data_load"})
	} else if errors.Is(err, service.ErrTooManySessions) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "error_type": "too_many_sessions"})
	} else {
		log.Printf("[Handler] Внутренняя ошибка %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bindingError отвечает 400 на некорректное тело запроса
func bindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "bad_request"})
}
