package api

import (
	"log/slog"

	"users-service/internal/api/handlers"
	"users-service/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// RouterOptions optional router features
type RouterOptions struct {
	// Metrics включает сбор метрик; nil - метрики выключены
	Metrics     *middleware.HTTPMetrics
	MetricsPath string
}

func NewRouter(handler *handlers.Handler, logger *slog.Logger, opts RouterOptions) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
		r.GET(opts.MetricsPath, gin.WrapH(opts.Metrics.Handler()))
	}

	handler.RegisterRoutes(r)

	return r
}
