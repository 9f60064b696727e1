package services

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/repos"
	"github.com/yungbote/braincell-backend/internal/types"
)

// ConceptStat is one per-concept aggregate across a classroom roster.
type ConceptStat struct {
	ConceptID          string  `json:"concept_id"`
	ConceptName        string  `json:"concept_name"`
	Topic              string  `json:"topic"`
	AvgMastery         float64 `json:"avg_mastery"`
	TotalAttempts      int     `json:"total_attempts"`
	StudentsStruggling int     `json:"students_struggling"`
	StudentsMastered   int     `json:"students_mastered"`
}

type ConfusedTopic struct {
	Topic          string  `json:"topic"`
	AvgMastery     float64 `json:"avg_mastery"`
	ConfusionTotal int     `json:"confusion_total"`
}

// StudentAnalytics is one student's roll-up inside a class analytics view.
type StudentAnalytics struct {
	StudentID            string  `json:"student_id"`
	StudentName          string  `json:"student_name"`
	TotalSessions        int     `json:"total_sessions"`
	AvgMastery           float64 `json:"avg_mastery"`
	ConceptsStruggling   int     `json:"concepts_struggling"`
	ConceptsMastered     int     `json:"concepts_mastered"`
	TotalConfusedCount   int     `json:"total_confused_count"`
	TotalFrustratedCount int     `json:"total_frustrated_count"`
	LastActive           string  `json:"last_active"`
	NeedsHelp            bool    `json:"needs_help"`
}

type ClassAnalytics struct {
	ClassroomID         string             `json:"classroom_id"`
	ClassroomName       string             `json:"classroom_name"`
	TotalStudents       int                `json:"total_students"`
	ActiveStudents      int                `json:"active_students"`
	Concepts            []ConceptStat      `json:"concepts"`
	MostConfusedTopics  []ConfusedTopic    `json:"most_confused_topics"`
	StudentsNeedingHelp []StudentAnalytics `json:"students_needing_help"`
	AvgClassMastery     float64            `json:"avg_class_mastery"`
	TotalSessions       int                `json:"total_sessions"`
}

const (
	maxConfusedTopics   = 5
	rosterFanoutWorkers = 8

	// A student needs help when mastery is low or confusion signals pile up.
	helpMasteryThreshold    = 0.5
	helpConfusedThreshold   = 5
	helpFrustratedThreshold = 3
)

type ClassAnalyticsAggregator interface {
	Aggregate(ctx context.Context, classroomID string) (*ClassAnalytics, error)
	StudentsOverview(ctx context.Context, classroomID string) ([]StudentAnalytics, error)
}

type classAnalyticsAggregator struct {
	log         *logger.Logger
	classrooms  repos.ClassroomRepo
	students    repos.StudentRepo
	mastery     repos.ConceptMasteryRepo
	transcripts repos.SessionTranscriptRepo
}

func NewClassAnalyticsAggregator(
	log *logger.Logger,
	classrooms repos.ClassroomRepo,
	students repos.StudentRepo,
	mastery repos.ConceptMasteryRepo,
	transcripts repos.SessionTranscriptRepo,
) ClassAnalyticsAggregator {
	return &classAnalyticsAggregator{
		log:         log.With("service", "ClassAnalyticsAggregator"),
		classrooms:  classrooms,
		students:    students,
		mastery:     mastery,
		transcripts: transcripts,
	}
}

func (a *classAnalyticsAggregator) Aggregate(ctx context.Context, classroomID string) (*ClassAnalytics, error) {
	classroom, err := a.classrooms.GetByClassroomID(ctx, nil, classroomID)
	if err != nil {
		return nil, err
	}
	if classroom == nil {
		return nil, nil
	}

	roster, err := a.students.ListActiveByClassroomID(ctx, nil, classroomID)
	if err != nil {
		return nil, err
	}

	out := &ClassAnalytics{
		ClassroomID:         classroom.ClassroomID,
		ClassroomName:       classroom.Name,
		TotalStudents:       len(roster),
		ActiveStudents:      len(roster),
		Concepts:            []ConceptStat{},
		MostConfusedTopics:  []ConfusedTopic{},
		StudentsNeedingHelp: []StudentAnalytics{},
	}
	if len(roster) == 0 {
		return out, nil
	}

	studentIDs := make([]string, 0, len(roster))
	for _, s := range roster {
		studentIDs = append(studentIDs, s.StudentID)
	}

	g, gctx := errgroup.WithContext(ctx)

	var conceptRows []repos.ConceptStatRow
	g.Go(func() error {
		rows, err := a.mastery.ConceptStatsByStudentIDs(gctx, nil, studentIDs)
		if err != nil {
			return err
		}
		conceptRows = rows
		return nil
	})

	var topicRows []repos.TopicConfusionRow
	g.Go(func() error {
		rows, err := a.mastery.TopicConfusionByStudentIDs(gctx, nil, studentIDs, maxConfusedTopics)
		if err != nil {
			return err
		}
		topicRows = rows
		return nil
	})

	var avgMastery float64
	g.Go(func() error {
		avg, err := a.mastery.AvgMasteryByStudentIDs(gctx, nil, studentIDs)
		if err != nil {
			return err
		}
		avgMastery = avg
		return nil
	})

	var perStudent []StudentAnalytics
	g.Go(func() error {
		rows, err := a.studentAnalytics(gctx, roster)
		if err != nil {
			return err
		}
		perStudent = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, row := range conceptRows {
		out.Concepts = append(out.Concepts, ConceptStat{
			ConceptID:          row.ConceptID,
			ConceptName:        row.ConceptName,
			Topic:              row.Topic,
			AvgMastery:         round2(row.AvgMastery),
			TotalAttempts:      row.TotalAttempts,
			StudentsStruggling: row.StudentsStruggling,
			StudentsMastered:   row.StudentsMastered,
		})
	}
	for _, row := range topicRows {
		out.MostConfusedTopics = append(out.MostConfusedTopics, ConfusedTopic{
			Topic:          row.Topic,
			AvgMastery:     round2(row.AvgMastery),
			ConfusionTotal: row.ConfusionTotal,
		})
	}
	for _, s := range perStudent {
		if s.NeedsHelp {
			out.StudentsNeedingHelp = append(out.StudentsNeedingHelp, s)
		}
	}
	out.AvgClassMastery = round2(avgMastery)
	for _, s := range perStudent {
		out.TotalSessions += s.TotalSessions
	}

	return out, nil
}

func (a *classAnalyticsAggregator) StudentsOverview(ctx context.Context, classroomID string) ([]StudentAnalytics, error) {
	classroom, err := a.classrooms.GetByClassroomID(ctx, nil, classroomID)
	if err != nil {
		return nil, err
	}
	if classroom == nil {
		return nil, nil
	}

	roster, err := a.students.ListActiveByClassroomID(ctx, nil, classroomID)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return []StudentAnalytics{}, nil
	}
	return a.studentAnalytics(ctx, roster)
}

// studentAnalytics fans out per-student aggregation across the roster, then
// orders weakest-first: ascending mastery, confusion volume breaking ties.
func (a *classAnalyticsAggregator) studentAnalytics(ctx context.Context, roster []*types.Student) ([]StudentAnalytics, error) {
	results := make([]StudentAnalytics, len(roster))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rosterFanoutWorkers)

	for i, student := range roster {
		i, student := i, student
		g.Go(func() error {
			totals, err := a.mastery.StudentTotals(gctx, nil, student.StudentID)
			if err != nil {
				return err
			}
			sessions, err := a.transcripts.CountDistinctSessionsByPrefix(gctx, nil, student.StudentID)
			if err != nil {
				return err
			}

			avg := totals.AvgMastery
			needsHelp := avg < helpMasteryThreshold ||
				totals.TotalConfused > helpConfusedThreshold ||
				totals.TotalFrustrated > helpFrustratedThreshold

			results[i] = StudentAnalytics{
				StudentID:            student.StudentID,
				StudentName:          student.Name,
				TotalSessions:        int(sessions),
				AvgMastery:           round2(avg),
				ConceptsStruggling:   totals.ConceptsStruggling,
				ConceptsMastered:     totals.ConceptsMastered,
				TotalConfusedCount:   totals.TotalConfused,
				TotalFrustratedCount: totals.TotalFrustrated,
				LastActive:           student.LastActive.UTC().Format(time.RFC3339),
				NeedsHelp:            needsHelp,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].AvgMastery != results[j].AvgMastery {
			return results[i].AvgMastery < results[j].AvgMastery
		}
		ci := results[i].TotalConfusedCount + results[i].TotalFrustratedCount
		cj := results[j].TotalConfusedCount + results[j].TotalFrustratedCount
		return ci > cj
	})

	return results, nil
}
