package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/braincell-backend/internal/handlers"
	"github.com/yungbote/braincell-backend/internal/middleware"
)

type RouterConfig struct {
	SessionHandler    *handlers.SessionHandler
	ClassroomHandler  *handlers.ClassroomHandler
	TeacherMiddleware *middleware.TeacherAuthMiddleware
	TracingEnabled    bool
	AllowOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware("braincell-backend"))
	}

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api/v1")
	{
		api.POST("/session/analyze", cfg.SessionHandler.Analyze)
		api.POST("/session/metrics", cfg.SessionHandler.Metrics)

		api.GET("/session/learning-report/:student_id", cfg.SessionHandler.LearningReport)
		api.GET("/session/learning-report/:student_id/card", cfg.SessionHandler.LearningReportCard)
		api.GET("/session/progress/:student_id", cfg.SessionHandler.Progress)

		api.GET("/session/provider/health", handlers.ProviderHealth)

		api.POST("/classroom/create", cfg.ClassroomHandler.Create)
		api.POST("/classroom/join", cfg.ClassroomHandler.Join)
	}

	// ===============
	// || Protected ||
	// ===============
	teacher := router.Group("/api/v1/classroom")
	teacher.Use(cfg.TeacherMiddleware.RequireTeacher())
	teacher.GET("/teacher/:teacher_id", cfg.ClassroomHandler.ListByTeacher)
	teacher.GET("/:classroom_id", cfg.ClassroomHandler.Get)
	teacher.GET("/:classroom_id/students", cfg.ClassroomHandler.Students)
	teacher.GET("/:classroom_id/analytics", cfg.ClassroomHandler.Analytics)

	return router
}
