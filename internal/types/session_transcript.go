package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SessionTranscript is the immutable per-turn record: input signals, fused
// state, and the response that was returned.
type SessionTranscript struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID string    `gorm:"column:session_id;not null;index" json:"session_id"`
	Timestamp time.Time `gorm:"not null;default:now()" json:"timestamp"`

	QueryText           string `gorm:"column:query_text;not null" json:"query_text"`
	TextFrictionSummary string `gorm:"column:text_friction_summary" json:"text_friction_summary"`
	VocalState          string `gorm:"column:vocal_state" json:"vocal_state,omitempty"`
	FacialExpression    string `gorm:"column:facial_expression" json:"facial_expression,omitempty"`

	CognitiveState string `gorm:"column:cognitive_state;not null" json:"cognitive_state"`

	ResponseType        string         `gorm:"column:response_type;not null" json:"response_type"`
	ResponseContent     string         `gorm:"column:response_content;not null" json:"response_content"`
	KnowledgeGraphDelta datatypes.JSON `gorm:"type:jsonb;column:knowledge_graph_delta" json:"knowledge_graph_delta"`

	LLMTokensUsed int     `gorm:"column:llm_tokens_used" json:"llm_tokens_used"`
	LLMLatencyMs  float64 `gorm:"column:llm_latency_ms" json:"llm_latency_ms"`
	Success       int     `gorm:"column:success;not null;default:1" json:"success"` // 1 = provider, 0 = fallback
}

func (SessionTranscript) TableName() string { return "session_transcript" }
