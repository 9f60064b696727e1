package app

import (
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/repos"
	"github.com/yungbote/braincell-backend/internal/services"
)

type Services struct {
	Fusion    *services.SignalFusionEngine
	Assembler *services.ContextAssembler
	Prompts   *services.PromptBuilder
	Validator *services.ResponseValidator
	Fallback  *services.FallbackGenerator

	Generation services.GenerationClient
	Mastery    services.MasteryTracker
	Turn       services.TurnService

	Gaps           services.GapAnalyzer
	ClassAnalytics services.ClassAnalyticsAggregator
	Classroom      services.ClassroomService

	ReportCard *services.ReportCardRenderer
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	fusion := services.NewSignalFusionEngine(log)
	assembler := services.NewContextAssembler()
	prompts := services.NewPromptBuilder()
	validator := services.NewResponseValidator()
	fallback := services.NewFallbackGenerator()

	var generation services.GenerationClient
	if strings.TrimSpace(os.Getenv("GENERATION_API_KEY")) == "" {
		log.Warn("GENERATION_API_KEY not set; all turns will use the fallback generator")
		generation = services.NewDisabledGenerationClient()
	} else {
		g, err := services.NewGenerationClient(log)
		if err != nil {
			return Services{}, err
		}
		generation = g
	}

	mastery := services.NewMasteryTracker(db, log, reposet.ConceptMastery)

	var graph services.GraphStore
	if clients.Neo4j != nil {
		graph = repos.NewConceptGraphRepo(clients.Neo4j, log)
	}

	deps := services.TurnServiceDeps{
		Fusion:      fusion,
		Assembler:   assembler,
		Prompts:     prompts,
		Generation:  generation,
		Validator:   validator,
		Fallback:    fallback,
		Mastery:     mastery,
		Transcripts: reposet.SessionTranscript,
		Usage:       reposet.UsageMetric,
		Graph:       graph,
	}
	if clients.SessionCache != nil {
		deps.Cache = clients.SessionCache
	}
	if clients.FacialAffect != nil {
		deps.Facial = clients.FacialAffect
	}
	if clients.VocalAffect != nil {
		deps.Vocal = clients.VocalAffect
	}
	turn := services.NewTurnService(log, deps)

	gaps := services.NewGapAnalyzer(log, reposet.ConceptMastery)
	classAnalytics := services.NewClassAnalyticsAggregator(log, reposet.Classroom, reposet.Student, reposet.ConceptMastery, reposet.SessionTranscript)
	classroom := services.NewClassroomService(log, reposet.Classroom, reposet.Student)

	var reportCard *services.ReportCardRenderer
	if strings.TrimSpace(os.Getenv("REPORT_CARD_FONT")) != "" {
		rc, err := services.NewReportCardRenderer(log)
		if err != nil {
			return Services{}, err
		}
		reportCard = rc
	} else {
		log.Warn("REPORT_CARD_FONT not set; report card rendering disabled")
	}

	return Services{
		Fusion:         fusion,
		Assembler:      assembler,
		Prompts:        prompts,
		Validator:      validator,
		Fallback:       fallback,
		Generation:     generation,
		Mastery:        mastery,
		Turn:           turn,
		Gaps:           gaps,
		ClassAnalytics: classAnalytics,
		Classroom:      classroom,
		ReportCard:     reportCard,
	}, nil
}
