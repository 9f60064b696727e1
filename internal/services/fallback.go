package services

import (
	"fmt"
	"strings"

	"github.com/yungbote/braincell-backend/internal/types"
)

// FallbackGenerator is the universal safety net of the turn pipeline: a
// deterministic, always-schema-valid response keyed by cognitive state. It
// makes no external calls and cannot fail.
type FallbackGenerator struct{}

func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{}
}

func (g *FallbackGenerator) Generate(ctx types.TutoringContext, state types.CognitiveState) *types.ModelResponse {
	var modality types.ResponseType
	var content string

	switch state {
	case types.CognitiveConfused:
		modality = types.ResponseDiagram
		topicSafe := sanitizeTopic(ctx.Topic, 50)
		content = fmt.Sprintf(`graph TD
    A["%s"] --> B["Core Concept"]
    A --> C["Key Components"]
    A --> D["Related Ideas"]
    B --> E["Foundation"]
    C --> F["Sub-topics"]
    D --> G["Connections"]
`, topicSafe)
	case types.CognitiveFrustrated:
		modality = types.ResponseCode
		topicSafe := strings.ReplaceAll(sanitizeTopic(ctx.Topic, 30), "'", "")
		content = fmt.Sprintf(`// Let's break down %s with a simple example
// Try changing the values and see what happens!

function explore() {
  // Change this value to experiment
  const value = 42;

  console.log("Starting with:", value);
  console.log("Doubled:", value * 2);
  console.log("Squared:", value ** 2);

  return value;
}

explore();`, topicSafe)
	default:
		modality = types.ResponseText
		content = fmt.Sprintf("I'm reinforcing the core idea around %s. Here's a quick recap followed by a suggested next question to deepen your understanding.", ctx.Topic)
	}

	return &types.ModelResponse{
		ResponseType:   modality,
		Content:        content,
		CognitiveState: state,
		KnowledgeGraphDelta: types.KnowledgeGraphDelta{
			Nodes: []types.KnowledgeGraphNode{
				{
					ID:       TopicNodeID(ctx.Topic),
					Type:     "concept",
					Label:    ctx.Topic,
					Mastered: false,
				},
			},
			Edges: []types.KnowledgeGraphEdge{},
		},
	}
}

// TopicNodeID derives the deterministic graph node ID for a topic:
// lowercased with spaces collapsed to underscores.
func TopicNodeID(topic string) string {
	return "node_" + strings.ReplaceAll(strings.ToLower(topic), " ", "_")
}

func sanitizeTopic(topic string, maxLen int) string {
	s := strings.ReplaceAll(topic, `"`, "")
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}
