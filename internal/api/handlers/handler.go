package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"users-service/internal/domain"
	"users-service/internal/repository"
	"users-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UserService операции над пользователями, которые нужны хэндлерам
type UserService interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id int64) (*domain.User, error)
}

type StatsService interface {
	GetStats(ctx context.Context) (*repository.Stats, error)
}

// HealthChecker is implemented by *database.DB.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type Handler struct {
	userService  UserService
	statsService StatsService
	health       HealthChecker
	logger       *slog.Logger
}

// NewHandler собирает хэндлеры. health может быть nil (хранилище в памяти).
func NewHandler(
	userService UserService,
	statsService StatsService,
	health HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		userService:  userService,
		statsService: statsService,
		health:       health,
		logger:       logger,
	}
}

// /health
func (h *Handler) GetHealth(c *gin.Context) {
	if h.health != nil {
		if err := h.health.Health(c.Request.Context()); err != nil {
			logger.FromContext(c.Request.Context(), h.logger).Error("health check failed",
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// /stats
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	apiErr := domain.ToAPIError(err)

	var statusCode int
	switch apiErr.Code {
	case domain.CodeValidationFailed, domain.CodeInvalidID, domain.CodeBadRequest:
		statusCode = http.StatusBadRequest
	case domain.CodeNotFound:
		statusCode = http.StatusNotFound
	case domain.CodeUnsupportedMediaType:
		statusCode = http.StatusUnsupportedMediaType
	default:
		statusCode = http.StatusInternalServerError
	}

	// ошибка попадет в лог запроса через c.Errors
	_ = c.Error(err)

	log := logger.FromContext(c.Request.Context(), h.logger)
	attrs := []any{
		slog.String("code", string(apiErr.Code)),
		slog.String("message", apiErr.Message),
		slog.Int("status", statusCode),
	}
	if statusCode >= http.StatusInternalServerError {
		log.Error("request error", append(attrs, slog.String("error", err.Error()))...)
	} else {
		log.Warn("request error", attrs...)
	}

	c.JSON(statusCode, gin.H{
		"error": apiErr,
	})
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.GetHealth)
	r.GET("/stats", h.GetStats)

	users := r.Group("/users")
	users.POST("", h.CreateUser)
	users.GET("", h.ListUsers)
	users.GET("/:id", h.GetUser)
	users.PATCH("/:id", h.UpdateUser)
	users.DELETE("/:id", h.DeleteUser)
}
