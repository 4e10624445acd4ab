package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/formsmith/formsmith-backend/internal/handlers"
	"github.com/formsmith/formsmith-backend/internal/middleware"
)

type RouterConfig struct {
	SynthesisHandler *handlers.SynthesisHandler
	FormHandler      *handlers.FormHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))
	router.Use(otelgin.Middleware("formsmith-backend"))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// Forms can be created and read anonymously; a bearer token, when
	// present, attaches ownership.
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.Authenticate())
	{
		api.POST("/forms/generate", cfg.SynthesisHandler.GenerateForm)
		api.GET("/forms/:formId", cfg.FormHandler.GetForm)
		api.POST("/forms/:formId/questions", cfg.SynthesisHandler.AddQuestions)
		api.POST("/forms/:formId/publish", cfg.FormHandler.PublishForm)
		api.DELETE("/forms/:formId", cfg.FormHandler.DeleteForm)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.GET("/forms", cfg.FormHandler.ListForms)

	return router
}
