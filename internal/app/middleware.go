package app

import (
	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/middleware"
)

type Middleware struct {
	Teacher *middleware.TeacherAuthMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Teacher: middleware.NewTeacherAuthMiddleware(log, cfg.JWTSecretKey),
	}
}
