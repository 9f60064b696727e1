package types

import (
	"time"

	"github.com/google/uuid"
)

// ConceptMastery is the per-(student, concept) mastery record. One row per
// key; history is summarized via counters, never an event log. MasteryLevel
// is always clamped into [0,1] and Attempts is monotonically non-decreasing.
type ConceptMastery struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID   string    `gorm:"column:student_id;not null;index:idx_concept_mastery_key,unique,priority:1" json:"student_id"`
	ConceptID   string    `gorm:"column:concept_id;not null;index:idx_concept_mastery_key,unique,priority:2" json:"concept_id"`
	ConceptName string    `gorm:"column:concept_name;not null" json:"concept_name"`
	Topic       string    `gorm:"column:topic;not null;index" json:"topic"`

	MasteryLevel    float64 `gorm:"column:mastery_level;not null" json:"mastery_level"`
	Attempts        int     `gorm:"column:attempts;not null;default:0" json:"attempts"`
	ConfusedCount   int     `gorm:"column:confused_count;not null;default:0" json:"confused_count"`
	FrustratedCount int     `gorm:"column:frustrated_count;not null;default:0" json:"frustrated_count"`

	FirstEncountered time.Time `gorm:"not null;default:now()" json:"first_encountered"`
	LastAssessed     time.Time `gorm:"not null;default:now()" json:"last_assessed"`
}

func (ConceptMastery) TableName() string { return "concept_mastery" }
