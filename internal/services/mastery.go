package services

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/repos"
	"github.com/yungbote/braincell-backend/internal/types"
)

// MasteryTracker records one interaction event as an atomic update to the
// per-(student, concept) mastery record.
type MasteryTracker interface {
	TrackInteraction(ctx context.Context, studentID, conceptID, conceptName, topic string, state types.CognitiveState) error
}

type masteryTracker struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.ConceptMasteryRepo

	// Serializes concurrent read-modify-writes on one key within this
	// process; the SELECT ... FOR UPDATE inside the transaction covers
	// concurrent replicas.
	keyMu sync.Mutex
	keys  map[string]*sync.Mutex
}

func NewMasteryTracker(db *gorm.DB, log *logger.Logger, repo repos.ConceptMasteryRepo) MasteryTracker {
	return &masteryTracker{
		db:   db,
		log:  log.With("service", "MasteryTracker"),
		repo: repo,
		keys: make(map[string]*sync.Mutex),
	}
}

func (t *masteryTracker) lockFor(studentID, conceptID string) *sync.Mutex {
	key := studentID + "\x00" + conceptID
	t.keyMu.Lock()
	defer t.keyMu.Unlock()
	mu, ok := t.keys[key]
	if !ok {
		mu = &sync.Mutex{}
		t.keys[key] = mu
	}
	return mu
}

func (t *masteryTracker) TrackInteraction(ctx context.Context, studentID, conceptID, conceptName, topic string, state types.CognitiveState) error {
	mu := t.lockFor(studentID, conceptID)
	mu.Lock()
	defer mu.Unlock()

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := t.repo.GetByKeyLocked(ctx, tx, studentID, conceptID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()

		if existing == nil {
			row := &types.ConceptMastery{
				StudentID:        studentID,
				ConceptID:        conceptID,
				ConceptName:      conceptName,
				Topic:            topic,
				MasteryLevel:     initialMastery(state),
				Attempts:         1,
				FirstEncountered: now,
				LastAssessed:     now,
			}
			if state == types.CognitiveConfused {
				row.ConfusedCount = 1
			}
			if state == types.CognitiveFrustrated {
				row.FrustratedCount = 1
			}
			return t.repo.Create(ctx, tx, row)
		}

		applyInteraction(existing, state, now)
		return t.repo.Update(ctx, tx, existing)
	})
	if err != nil {
		return &PersistenceError{Op: "concept mastery", Err: err}
	}

	t.log.Debug("Tracked concept interaction",
		"student_id", studentID,
		"concept", conceptName,
		"state", string(state),
	)
	return nil
}

// applyInteraction advances one mastery record by a single interaction
// event. Attempts grows on every event; mastery stays within [0, 1].
func applyInteraction(rec *types.ConceptMastery, state types.CognitiveState, now time.Time) {
	rec.Attempts++
	rec.LastAssessed = now
	switch state {
	case types.CognitiveFocused:
		rec.MasteryLevel = clamp01(rec.MasteryLevel + 0.1)
	case types.CognitiveConfused:
		rec.MasteryLevel = clamp01(rec.MasteryLevel - 0.05)
		rec.ConfusedCount++
	case types.CognitiveFrustrated:
		rec.MasteryLevel = clamp01(rec.MasteryLevel - 0.1)
		rec.FrustratedCount++
	}
}

func initialMastery(state types.CognitiveState) float64 {
	switch state {
	case types.CognitiveFocused:
		return 0.5
	case types.CognitiveConfused:
		return 0.2
	case types.CognitiveFrustrated:
		return 0.1
	default:
		return 0.3
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
