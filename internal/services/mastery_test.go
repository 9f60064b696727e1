package services

import (
	"math"
	"testing"
	"time"

	"github.com/yungbote/braincell-backend/internal/types"
)

func masteryRecord(level float64) *types.ConceptMastery {
	return &types.ConceptMastery{
		StudentID:    "student_1",
		ConceptID:    "algebra-1",
		ConceptName:  "Algebra",
		Topic:        "Math",
		MasteryLevel: level,
		Attempts:     1,
	}
}

func closeTo(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestInitialMastery_SeededByFirstImpression(t *testing.T) {
	if got := initialMastery(types.CognitiveFocused); got != 0.5 {
		t.Fatalf("focused seed should be 0.5, got %v", got)
	}
	if got := initialMastery(types.CognitiveConfused); got != 0.2 {
		t.Fatalf("confused seed should be 0.2, got %v", got)
	}
	if got := initialMastery(types.CognitiveFrustrated); got != 0.1 {
		t.Fatalf("frustrated seed should be 0.1, got %v", got)
	}
	if got := initialMastery(types.CognitiveState("UNKNOWN")); got != 0.3 {
		t.Fatalf("unknown state should seed 0.3, got %v", got)
	}
}

func TestApplyInteraction_SingleStepDeltas(t *testing.T) {
	now := time.Now().UTC()

	rec := masteryRecord(0.5)
	applyInteraction(rec, types.CognitiveFocused, now)
	if !closeTo(rec.MasteryLevel, 0.6) {
		t.Fatalf("focused step from 0.5 should reach 0.6, got %v", rec.MasteryLevel)
	}
	if rec.Attempts != 2 || rec.ConfusedCount != 0 || rec.FrustratedCount != 0 {
		t.Fatalf("focused step touched wrong counters: %+v", rec)
	}
	if !rec.LastAssessed.Equal(now) {
		t.Fatalf("expected LastAssessed %v, got %v", now, rec.LastAssessed)
	}

	rec = masteryRecord(0.5)
	applyInteraction(rec, types.CognitiveConfused, now)
	if !closeTo(rec.MasteryLevel, 0.45) {
		t.Fatalf("confused step from 0.5 should reach 0.45, got %v", rec.MasteryLevel)
	}
	if rec.ConfusedCount != 1 || rec.FrustratedCount != 0 {
		t.Fatalf("confused step touched wrong counters: %+v", rec)
	}

	rec = masteryRecord(0.5)
	applyInteraction(rec, types.CognitiveFrustrated, now)
	if !closeTo(rec.MasteryLevel, 0.4) {
		t.Fatalf("frustrated step from 0.5 should reach 0.4, got %v", rec.MasteryLevel)
	}
	if rec.FrustratedCount != 1 || rec.ConfusedCount != 0 {
		t.Fatalf("frustrated step touched wrong counters: %+v", rec)
	}
}

func TestApplyInteraction_ClampsAtBounds(t *testing.T) {
	now := time.Now().UTC()

	rec := masteryRecord(0.5)
	for i := 0; i < 10; i++ {
		applyInteraction(rec, types.CognitiveFocused, now)
	}
	if rec.MasteryLevel != 1 {
		t.Fatalf("long focused run should clamp to exactly 1, got %v", rec.MasteryLevel)
	}
	if rec.Attempts != 11 {
		t.Fatalf("expected 11 attempts after 10 events, got %d", rec.Attempts)
	}

	rec = masteryRecord(0.5)
	for i := 0; i < 10; i++ {
		applyInteraction(rec, types.CognitiveFrustrated, now)
	}
	if rec.MasteryLevel != 0 {
		t.Fatalf("long frustrated run should clamp to exactly 0, got %v", rec.MasteryLevel)
	}
	if rec.FrustratedCount != 10 {
		t.Fatalf("expected 10 frustrated events counted, got %d", rec.FrustratedCount)
	}
}

func TestApplyInteraction_MixedRunKeepsCountersConsistent(t *testing.T) {
	now := time.Now().UTC()
	run := []types.CognitiveState{
		types.CognitiveFocused,
		types.CognitiveConfused,
		types.CognitiveFrustrated,
		types.CognitiveFocused,
		types.CognitiveFrustrated,
		types.CognitiveConfused,
		types.CognitiveConfused,
		types.CognitiveFocused,
	}

	rec := masteryRecord(0.3)
	var confused, frustrated int
	for i, state := range run {
		prevAttempts := rec.Attempts
		applyInteraction(rec, state, now)

		if rec.MasteryLevel < 0 || rec.MasteryLevel > 1 {
			t.Fatalf("step %d left mastery out of range: %v", i, rec.MasteryLevel)
		}
		if rec.Attempts != prevAttempts+1 {
			t.Fatalf("step %d did not advance attempts: %d -> %d", i, prevAttempts, rec.Attempts)
		}
		switch state {
		case types.CognitiveConfused:
			confused++
		case types.CognitiveFrustrated:
			frustrated++
		}
	}

	if rec.ConfusedCount != confused {
		t.Fatalf("expected %d confused events counted, got %d", confused, rec.ConfusedCount)
	}
	if rec.FrustratedCount != frustrated {
		t.Fatalf("expected %d frustrated events counted, got %d", frustrated, rec.FrustratedCount)
	}
	// 0.3 +0.1 -0.05 -0.1 +0.1 -0.1 -0.05 -0.05 +0.1 = 0.25
	if !closeTo(rec.MasteryLevel, 0.25) {
		t.Fatalf("expected mixed run to land on 0.25, got %v", rec.MasteryLevel)
	}
}

func TestClamp01(t *testing.T) {
	if got := clamp01(-0.2); got != 0 {
		t.Fatalf("expected floor at 0, got %v", got)
	}
	if got := clamp01(1.3); got != 1 {
		t.Fatalf("expected ceiling at 1, got %v", got)
	}
	if got := clamp01(0.42); got != 0.42 {
		t.Fatalf("in-range value should pass through, got %v", got)
	}
}
