package services

import (
	"fmt"
	"strings"

	"github.com/yungbote/braincell-backend/internal/types"
)

type modalityDirective struct {
	responseType types.ResponseType
	guidance     string
}

var modalityDirectives = map[types.CognitiveState]modalityDirective{
	types.CognitiveFocused: {
		responseType: types.ResponseText,
		guidance:     "Deliver a concise textual explanation that builds intuition, then reinforce with a short checklist of key points.",
	},
	types.CognitiveConfused: {
		responseType: types.ResponseDiagram,
		guidance:     "Use a Mermaid diagram to visualise relationships. Start with a one-sentence anchor explanation, then provide the diagram.",
	},
	types.CognitiveFrustrated: {
		responseType: types.ResponseCode,
		guidance:     "Present a small, runnable code sample (JavaScript or Python) with inline comments. Follow with a quick experiment suggestion.",
	},
}

const (
	varietyGuidance = "Learner remains focused after a textual response. Offer a quick visual (Mermaid diagram) to deepen understanding."
	defaultGuidance = "Provide a clear textual explanation and highlight key takeaways."

	maxHistoryRender = 6
)

// PromptBuilder renders a TutoringContext into the generation request text
// and the modality the engine expects back.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

func (b *PromptBuilder) Build(ctx types.TutoringContext) (string, types.ResponseType) {
	responseType, guidance := b.preferredModality(ctx)

	lastModality := "None yet"
	if ctx.LastResponseType != nil {
		lastModality = string(*ctx.LastResponseType)
	}
	friction := ctx.TextFrictionSummary
	if friction == "" {
		friction = "Not reported"
	}
	vocal := "Not detected"
	if ctx.VocalState != nil {
		vocal = string(*ctx.VocalState)
	}
	facial := "Not detected"
	if ctx.FacialExpression != nil {
		facial = string(*ctx.FacialExpression)
	}

	var sb strings.Builder
	sb.WriteString("You are BrainCell, an adaptive learning copilot. Tailor the modality and depth of your response to help the learner break through their current obstacle.\n\n")

	sb.WriteString("## Session Metadata\n")
	fmt.Fprintf(&sb, "- Session ID: %s\n", ctx.SessionID)
	fmt.Fprintf(&sb, "- Topic: %s\n", ctx.Topic)
	fmt.Fprintf(&sb, "- Cognitive State: %s\n", ctx.CognitiveState)
	fmt.Fprintf(&sb, "- Recommended Modality: %s\n", responseType)
	fmt.Fprintf(&sb, "- Previous Modality: %s\n\n", lastModality)

	sb.WriteString("## Learner Signals\n")
	fmt.Fprintf(&sb, "- Text Friction Summary: %s\n", friction)
	fmt.Fprintf(&sb, "- Vocal State: %s\n", vocal)
	fmt.Fprintf(&sb, "- Facial Expression: %s\n\n", facial)

	sb.WriteString("## Learner Question\n")
	sb.WriteString(strings.TrimSpace(ctx.QueryText))
	sb.WriteString("\n\n")

	sb.WriteString("## Conversation History (most recent first)\n")
	sb.WriteString(renderHistory(ctx.ConversationHistory))
	sb.WriteString("\n\n")

	sb.WriteString("## Learning Objectives\n")
	sb.WriteString(renderBullets(ctx.LearningObjectives, "No explicit objectives logged yet."))
	sb.WriteString("\n\n")

	sb.WriteString("## Knowledge Graph Snapshot\n")
	sb.WriteString(renderBullets(ctx.KnowledgeGraphNodes, "Graph is empty. Introduce foundational concepts."))
	sb.WriteString("\n\n")

	sb.WriteString("## Modality Guidance\n")
	sb.WriteString(guidance)
	sb.WriteString("\n\n")

	sb.WriteString("## Output Contract\n")
	sb.WriteString("- Respond with a **single JSON object** (no Markdown fences) containing keys: `responseType`, `content`, `cognitiveState`, `knowledgeGraphDelta`.\n")
	fmt.Fprintf(&sb, "- `responseType` should normally be %q. Switch only if the situation demands it and explain briefly inside `content`.\n", string(responseType))
	sb.WriteString("- `content` must align with the chosen modality (plain text, Mermaid diagram, or executable code) and include actionable next steps.\n")
	sb.WriteString("- `knowledgeGraphDelta.nodes` should introduce up to 2 new concepts with `id`, `type`, `label`, and `mastered` (boolean).\n")
	sb.WriteString("- `knowledgeGraphDelta.edges` should link new concepts to prior ones when relevant.\n")
	sb.WriteString("- Keep JSON valid and concise. Escape newlines as `\\n` where necessary.\n\n")

	sb.WriteString("Example schema (values are illustrative only):\n")
	fmt.Fprintf(&sb, `{
    "responseType": "%s",
    "content": "...",
    "cognitiveState": "%s",
    "knowledgeGraphDelta": {
        "nodes": [
            {"id": "node_rnn_backprop", "type": "concept", "label": "Backprop Through Time", "mastered": false}
        ],
        "edges": [
            {"id": "edge_rnn1", "source": "node_root", "target": "node_rnn_backprop", "label": "builds_on"}
        ]
    }
}`, responseType, ctx.CognitiveState)
	sb.WriteString("\n\nIf information is missing, make a best-effort inference and note assumptions within the `content` field.")

	return sb.String(), responseType
}

// preferredModality applies the modality table plus the anti-repetition
// rule: sustained focus after a textual answer switches to a diagram so the
// learner does not get the same modality twice in a row.
func (b *PromptBuilder) preferredModality(ctx types.TutoringContext) (types.ResponseType, string) {
	directive, ok := modalityDirectives[ctx.CognitiveState]
	if !ok {
		return types.ResponseText, defaultGuidance
	}
	if ctx.CognitiveState == types.CognitiveFocused &&
		ctx.LastResponseType != nil && *ctx.LastResponseType == directive.responseType {
		return types.ResponseDiagram, varietyGuidance
	}
	return directive.responseType, directive.guidance
}

func renderHistory(history []types.HistoryEntry) string {
	if len(history) == 0 {
		return "- (no previous exchanges)"
	}
	limited := history
	if len(limited) > maxHistoryRender {
		limited = limited[len(limited)-maxHistoryRender:]
	}
	lines := make([]string, 0, len(limited))
	for i := len(limited) - 1; i >= 0; i-- {
		entry := limited[i]
		sanitized := strings.Join(strings.Fields(entry.Content), " ")
		lines = append(lines, fmt.Sprintf("- %d. %s: %s", len(limited)-i, entry.Role, sanitized))
	}
	return strings.Join(lines, "\n")
}

func renderBullets(items []string, fallback string) string {
	if len(items) == 0 {
		return "- " + fallback
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}
