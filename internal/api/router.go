package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/crimestats-backend-go/internal/config"
	"github.com/jengzang/crimestats-backend-go/internal/handler"
	"github.com/jengzang/crimestats-backend-go/internal/loader"
	"github.com/jengzang/crimestats-backend-go/internal/middleware"
	"github.com/jengzang/crimestats-backend-go/internal/observability"
	"github.com/jengzang/crimestats-backend-go/internal/repository"
	"github.com/jengzang/crimestats-backend-go/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the process-wide objects the router wires into handlers.
type Deps struct {
	DB       *sql.DB
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Limiter  *middleware.RateLimiter
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(deps.Logger, deps.Metrics))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	limiter := deps.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, 10*time.Minute)
	}

	incidentRepo := repository.NewIncidentRepository(deps.DB, deps.Metrics)
	dashboardService := service.NewDashboardService(incidentRepo, cfg.TopGroupsLimit)

	healthHandler := handler.NewHealthHandler(incidentRepo)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	statsHandler := handler.NewStatsHandler(dashboardService)
	importHandler := handler.NewImportHandler(loader.New(deps.DB, cfg.LoadBatchSize, deps.Logger))

	// 健康检查
	r.GET("/health", healthHandler.GetHealth)
	if deps.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(limiter))
	{
		api.GET("/months", dashboardHandler.GetMonths)
		api.GET("/districts", dashboardHandler.GetDistricts)

		// 原始聚合接口
		stats := api.Group("/stats")
		{
			stats.GET("/offenses", statsHandler.GetOffenses)
			stats.GET("/shootings", statsHandler.GetShootings)
			stats.GET("/offense-groups", statsHandler.GetOffenseGroups)
			stats.GET("/heatmap", statsHandler.GetHeatmap)
		}

		// 仪表盘接口
		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("", dashboardHandler.GetDashboard)
			dashboard.GET("/domain", dashboardHandler.GetDomain)
			dashboard.POST("/range", dashboardHandler.PostRange)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireToken(cfg.JWTSecret))
		{
			admin.POST("/import", importHandler.PostImport)
		}
	}

	return r
}
