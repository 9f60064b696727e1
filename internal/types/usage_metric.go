package types

import (
	"time"

	"github.com/google/uuid"
)

// UsageMetric is one generation-call accounting row.
type UsageMetric struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID string    `gorm:"column:session_id;not null;index" json:"session_id"`
	Timestamp time.Time `gorm:"not null;default:now()" json:"timestamp"`

	Endpoint         string  `gorm:"column:endpoint;not null" json:"endpoint"`
	TotalTokens      int     `gorm:"column:total_tokens" json:"total_tokens"`
	PromptTokens     int     `gorm:"column:prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int     `gorm:"column:completion_tokens" json:"completion_tokens"`
	LatencyMs        float64 `gorm:"column:latency_ms" json:"latency_ms"`
	Model            string  `gorm:"column:model" json:"model"`
	Success          int     `gorm:"column:success;not null;default:1" json:"success"`
}

func (UsageMetric) TableName() string { return "usage_metric" }
