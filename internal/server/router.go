package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/studylane/studylane-backend/internal/handlers"
	"github.com/studylane/studylane-backend/internal/middleware"
)

type RouterConfig struct {
	RequestLogger  *middleware.RequestLogger
	PlanHandler    *handlers.PlanHandler
	AnswerHandler  *handlers.AnswerHandler
	CatalogHandler *handlers.CatalogHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("studylane-backend"))
	if cfg.RequestLogger != nil {
		router.Use(cfg.RequestLogger.Handler())
	}

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/departments", cfg.CatalogHandler.ListDepartments)
		api.GET("/students/:id/plan", cfg.PlanHandler.GetPlan)
		api.POST("/students/:id/answers", cfg.AnswerHandler.SubmitAnswer)
	}

	return router
}
