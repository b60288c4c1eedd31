package middleware

import (
	"log/slog"
	"net/http"

	"users-service/internal/domain"

	"github.com/gin-gonic/gin"
)

// Отлавливает паники и логирует их с помощью slog
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					slog.Any("error", err),
					slog.String("request_id", requestIDFrom(c)),
					slog.String("path", c.Request.URL.Path),
					slog.String("method", c.Request.Method),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": domain.NewAPIError(domain.CodeInternalError, domain.ErrInternalError.Error()),
				})
			}
		}()

		c.Next()
	}
}
