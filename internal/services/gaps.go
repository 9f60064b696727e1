package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/repos"
)

// ConceptSummary is one concept entry of a gap report.
type ConceptSummary struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Mastery         float64 `json:"mastery"`
	Attempts        int     `json:"attempts"`
	ConfusedCount   int     `json:"confused_count"`
	FrustratedCount int     `json:"frustrated_count"`
}

// GapReport partitions a student's concepts into weak/struggling/strong and
// carries generated recommendations.
type GapReport struct {
	StudentID       string           `json:"student_id"`
	Topic           string           `json:"topic,omitempty"`
	TotalConcepts   int              `json:"total_concepts"`
	Gaps            []ConceptSummary `json:"gaps"`
	Struggling      []ConceptSummary `json:"struggling"`
	Strong          []ConceptSummary `json:"strong"`
	Moderate        int              `json:"moderate"`
	Recommendations []string         `json:"recommendations"`
	OverallProgress float64          `json:"overall_progress"`
	LastUpdated     string           `json:"last_updated,omitempty"`
}

// TopicProgress is one per-topic rollup of the student progress view.
type TopicProgress struct {
	Topic         string  `json:"topic"`
	AvgMastery    float64 `json:"avg_mastery"`
	ConceptsCount int     `json:"concepts_count"`
}

type StudentProgress struct {
	StudentID     string          `json:"student_id"`
	TotalConcepts int             `json:"total_concepts"`
	AvgMastery    float64         `json:"avg_mastery"`
	Topics        []TopicProgress `json:"topics"`
}

const (
	weakMasteryCeiling  = 0.4
	strongMasteryFloor  = 0.7
	maxReportedGaps     = 5
	maxReportedStruggle = 5
	maxReportedStrong   = 3
)

type GapAnalyzer interface {
	Analyze(ctx context.Context, studentID, topic string) (*GapReport, error)
	Progress(ctx context.Context, studentID string) (*StudentProgress, error)
}

type gapAnalyzer struct {
	log  *logger.Logger
	repo repos.ConceptMasteryRepo
}

func NewGapAnalyzer(log *logger.Logger, repo repos.ConceptMasteryRepo) GapAnalyzer {
	return &gapAnalyzer{log: log.With("service", "GapAnalyzer"), repo: repo}
}

func (a *gapAnalyzer) Analyze(ctx context.Context, studentID, topic string) (*GapReport, error) {
	records, err := a.repo.ListByStudent(ctx, nil, studentID, topic)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return &GapReport{
			StudentID:       studentID,
			Topic:           topic,
			TotalConcepts:   0,
			Gaps:            []ConceptSummary{},
			Struggling:      []ConceptSummary{},
			Strong:          []ConceptSummary{},
			Recommendations: []string{"Start learning! No data yet."},
			OverallProgress: 0.0,
		}, nil
	}

	var weak, struggling, strong []ConceptSummary
	moderate := 0
	sum := 0.0

	// Records arrive ordered by ascending mastery, so each partition stays
	// ordered without re-sorting.
	for _, rec := range records {
		sum += rec.MasteryLevel
		summary := ConceptSummary{
			ID:              rec.ConceptID,
			Name:            rec.ConceptName,
			Mastery:         round2(rec.MasteryLevel),
			Attempts:        rec.Attempts,
			ConfusedCount:   rec.ConfusedCount,
			FrustratedCount: rec.FrustratedCount,
		}

		switch {
		case rec.MasteryLevel < weakMasteryCeiling:
			weak = append(weak, summary)
		case rec.MasteryLevel >= strongMasteryFloor:
			strong = append(strong, summary)
		default:
			moderate++
		}

		if rec.ConfusedCount > 2 || rec.FrustratedCount > 1 {
			struggling = append(struggling, summary)
		}
	}

	avgMastery := sum / float64(len(records))
	recommendations := generateRecommendations(weak, struggling, strong, avgMastery)

	return &GapReport{
		StudentID:       studentID,
		Topic:           topic,
		TotalConcepts:   len(records),
		Gaps:            capSummaries(weak, maxReportedGaps),
		Struggling:      capSummaries(struggling, maxReportedStruggle),
		Strong:          capSummaries(strong, maxReportedStrong),
		Moderate:        moderate,
		Recommendations: recommendations,
		OverallProgress: round1(avgMastery * 100),
		LastUpdated:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (a *gapAnalyzer) Progress(ctx context.Context, studentID string) (*StudentProgress, error) {
	records, err := a.repo.ListByStudent(ctx, nil, studentID, "")
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return &StudentProgress{
			StudentID: studentID,
			Topics:    []TopicProgress{},
		}, nil
	}

	byTopic := map[string][]float64{}
	sum := 0.0
	for _, rec := range records {
		byTopic[rec.Topic] = append(byTopic[rec.Topic], rec.MasteryLevel)
		sum += rec.MasteryLevel
	}

	topics := make([]TopicProgress, 0, len(byTopic))
	for topic, masteries := range byTopic {
		topicSum := 0.0
		for _, m := range masteries {
			topicSum += m
		}
		topics = append(topics, TopicProgress{
			Topic:         topic,
			AvgMastery:    round2(topicSum / float64(len(masteries))),
			ConceptsCount: len(masteries),
		})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].AvgMastery != topics[j].AvgMastery {
			return topics[i].AvgMastery > topics[j].AvgMastery
		}
		return topics[i].Topic < topics[j].Topic
	})

	return &StudentProgress{
		StudentID:     studentID,
		TotalConcepts: len(records),
		AvgMastery:    round2(sum / float64(len(records))),
		Topics:        topics,
	}, nil
}

// generateRecommendations emits ordered, deterministic guidance: one tier
// message keyed by overall progress, then specific callouts for weak,
// struggling, and strong concepts, then a default encouragement if no
// specific callout fired.
func generateRecommendations(weak, struggling, strong []ConceptSummary, avgMastery float64) []string {
	var recs []string

	switch {
	case avgMastery < 0.3:
		recs = append(recs, "You're in early stages. Focus on building fundamentals before moving forward.")
	case avgMastery < 0.5:
		recs = append(recs, "You're making progress! Review weak areas before tackling new concepts.")
	case avgMastery < 0.7:
		recs = append(recs, "Good momentum! A few more practice sessions will solidify your knowledge.")
	default:
		recs = append(recs, "Excellent progress! You're ready for advanced topics.")
	}

	specific := false
	if len(weak) > 0 {
		recs = append(recs, fmt.Sprintf("Priority review needed: %s", joinNames(weak, 3)))
		specific = true
	}
	if len(struggling) > 0 {
		recs = append(recs, fmt.Sprintf("You've been confused about: %s. Try a different approach or ask for examples.", joinNames(struggling, 2)))
		specific = true
	}
	if len(strong) > 0 {
		recs = append(recs, fmt.Sprintf("You've mastered: %s! Build on these strengths.", joinNames(strong, 2)))
		specific = true
	}
	if !specific {
		recs = append(recs, "Keep learning! Consistency is key.")
	}

	return recs
}

func joinNames(summaries []ConceptSummary, max int) string {
	if len(summaries) > max {
		summaries = summaries[:max]
	}
	names := make([]string, 0, len(summaries))
	for _, s := range summaries {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

func capSummaries(summaries []ConceptSummary, max int) []ConceptSummary {
	if summaries == nil {
		return []ConceptSummary{}
	}
	if len(summaries) > max {
		return summaries[:max]
	}
	return summaries
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
