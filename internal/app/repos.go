package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/repos"
)

type Repos struct {
	SessionTranscript repos.SessionTranscriptRepo
	UsageMetric       repos.UsageMetricRepo
	ConceptMastery    repos.ConceptMasteryRepo
	Classroom         repos.ClassroomRepo
	Student           repos.StudentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		SessionTranscript: repos.NewSessionTranscriptRepo(db, log),
		UsageMetric:       repos.NewUsageMetricRepo(db, log),
		ConceptMastery:    repos.NewConceptMasteryRepo(db, log),
		Classroom:         repos.NewClassroomRepo(db, log),
		Student:           repos.NewStudentRepo(db, log),
	}
}
