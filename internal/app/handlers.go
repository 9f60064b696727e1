package app

import (
	"github.com/yungbote/braincell-backend/internal/handlers"
	"github.com/yungbote/braincell-backend/internal/logger"
)

type Handlers struct {
	Session   *handlers.SessionHandler
	Classroom *handlers.ClassroomHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Session:   handlers.NewSessionHandler(log, services.Turn, services.Fusion, services.Gaps, services.ReportCard),
		Classroom: handlers.NewClassroomHandler(log, services.Classroom, services.ClassAnalytics),
	}
}
