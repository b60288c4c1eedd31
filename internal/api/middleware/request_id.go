package middleware

import (
	"users-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID добавляем уникальный идентификатор запроса к каждому запросу.
// ID кладется и в gin.Context, и в context запроса для сервисов.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(string(logger.RequestIDKey), requestID)
		c.Request = c.Request.WithContext(logger.WithRequestIDContext(c.Request.Context(), requestID))

		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	if val, exists := c.Get(string(logger.RequestIDKey)); exists {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return "unknown"
}
