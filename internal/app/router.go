package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/braincell-backend/internal/observability"
	"github.com/yungbote/braincell-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		SessionHandler:    handlers.Session,
		ClassroomHandler:  handlers.Classroom,
		TeacherMiddleware: middleware.Teacher,
		TracingEnabled:    observability.Enabled(),
		AllowOrigins:      cfg.AllowOrigins,
	})
}
