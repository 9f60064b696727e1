package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/braincell-backend/internal/types"
)

const (
	defaultTopic   = "General Exploration"
	maxHistoryKeep = 8
)

// ContextAssembler turns a raw turn request plus the fused cognitive state
// into the TutoringContext handed to the prompt builder. All meta parsing
// is lenient: malformed values degrade to empty, never to an error.
type ContextAssembler struct{}

func NewContextAssembler() *ContextAssembler {
	return &ContextAssembler{}
}

func (a *ContextAssembler) Assemble(input types.TurnInput, state types.CognitiveState) types.TutoringContext {
	meta := input.Meta
	if meta == nil {
		meta = map[string]string{}
	}

	topic := meta["topic"]
	if topic == "" {
		topic = meta["subject"]
	}
	if topic == "" {
		topic = defaultTopic
	}

	return types.TutoringContext{
		SessionID:           input.SessionID,
		Topic:               topic,
		QueryText:           input.QueryText,
		CognitiveState:      state,
		ConversationHistory: parseHistory(meta["history"]),
		LearningObjectives:  splitMetaList(meta["objectives"]),
		KnowledgeGraphNodes: splitMetaList(meta["knowledgeNodes"]),
		LastResponseType:    parseLastResponseType(meta["lastResponseType"]),
		TextFrictionSummary: summarizeTextFriction(input.TextFriction),
		VocalState:          input.VocalState,
		FacialExpression:    input.FacialExpression,
	}
}

func summarizeTextFriction(friction types.TextFriction) string {
	return fmt.Sprintf("%d rephrases, %d backspaces", friction.RephraseCount, friction.BackspaceCount)
}

// splitMetaList accepts two encodings: a JSON string array, or a
// comma-separated list. A value that looks like JSON but fails to parse
// falls through to comma splitting.
func splitMetaList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	if strings.HasPrefix(strings.TrimSpace(raw), "[") {
		var values []any
		if err := json.Unmarshal([]byte(raw), &values); err == nil {
			out := make([]string, 0, len(values))
			for _, v := range values {
				s := strings.TrimSpace(fmt.Sprint(v))
				if s != "" && v != nil {
					out = append(out, s)
				}
			}
			return out
		}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parseHistory expects a JSON array of {role, content} objects. It keeps at
// most the last 8 entries in original order and drops entries whose content
// is blank. Any parse failure yields an empty history.
func parseHistory(raw string) []types.HistoryEntry {
	if strings.TrimSpace(raw) == "" {
		return []types.HistoryEntry{}
	}
	var entries []types.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []types.HistoryEntry{}
	}
	if len(entries) > maxHistoryKeep {
		entries = entries[len(entries)-maxHistoryKeep:]
	}
	out := make([]types.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Content) == "" {
			continue
		}
		if e.Role == "" {
			e.Role = "unknown"
		}
		out = append(out, e)
	}
	return out
}

func parseLastResponseType(raw string) *types.ResponseType {
	if raw == "" {
		return nil
	}
	if t, ok := types.ParseResponseType(raw); ok {
		return &t
	}
	return nil
}
