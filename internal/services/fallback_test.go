package services

import (
	"strings"
	"testing"

	"github.com/yungbote/braincell-backend/internal/types"
)

func TestFallback_TotalAcrossStates(t *testing.T) {
	g := NewFallbackGenerator()
	tctx := types.TutoringContext{Topic: "Neural Networks"}

	for _, state := range []types.CognitiveState{
		types.CognitiveFocused,
		types.CognitiveConfused,
		types.CognitiveFrustrated,
	} {
		resp := g.Generate(tctx, state)
		if resp == nil {
			t.Fatalf("state %s: nil response", state)
		}
		if resp.CognitiveState != state {
			t.Fatalf("state %s: echoed state %s", state, resp.CognitiveState)
		}
		if !resp.ResponseType.Valid() {
			t.Fatalf("state %s: invalid modality %s", state, resp.ResponseType)
		}
		if len(resp.KnowledgeGraphDelta.Nodes) != 1 {
			t.Fatalf("state %s: expected exactly one topic node, got %d", state, len(resp.KnowledgeGraphDelta.Nodes))
		}
		node := resp.KnowledgeGraphDelta.Nodes[0]
		if node.ID != "node_neural_networks" || node.Type != "concept" || node.Label != "Neural Networks" || node.Mastered {
			t.Fatalf("state %s: unexpected topic node %+v", state, node)
		}
		if len(resp.KnowledgeGraphDelta.Edges) != 0 {
			t.Fatalf("state %s: expected no edges, got %d", state, len(resp.KnowledgeGraphDelta.Edges))
		}
	}
}

func TestFallback_ConfusedYieldsMermaid(t *testing.T) {
	g := NewFallbackGenerator()

	resp := g.Generate(types.TutoringContext{Topic: "Graphs"}, types.CognitiveConfused)
	if resp.ResponseType != types.ResponseDiagram {
		t.Fatalf("expected diagram, got %s", resp.ResponseType)
	}
	if !strings.HasPrefix(resp.Content, "graph TD") {
		t.Fatalf("expected Mermaid content, got %q", resp.Content)
	}
	if !strings.Contains(resp.Content, `A["Graphs"]`) {
		t.Fatalf("expected topic anchor in diagram, got %q", resp.Content)
	}
}

func TestFallback_FrustratedYieldsRunnableCode(t *testing.T) {
	g := NewFallbackGenerator()

	resp := g.Generate(types.TutoringContext{Topic: "Loops"}, types.CognitiveFrustrated)
	if resp.ResponseType != types.ResponseCode {
		t.Fatalf("expected code, got %s", resp.ResponseType)
	}
	if !strings.Contains(resp.Content, "function explore()") {
		t.Fatalf("expected code sample, got %q", resp.Content)
	}
	if !strings.Contains(resp.Content, "Loops") {
		t.Fatalf("expected topic mention in code comment, got %q", resp.Content)
	}
}

func TestFallback_TopicSanitizedInTemplates(t *testing.T) {
	g := NewFallbackGenerator()
	hostile := `Graph "Theory"` + "\nwith newline"

	resp := g.Generate(types.TutoringContext{Topic: hostile}, types.CognitiveConfused)
	// Quotes are stripped from the embedded label and the topic's newline is
	// flattened so the Mermaid block stays parseable.
	if !strings.Contains(resp.Content, `A["Graph Theory with newline"]`) {
		t.Fatalf("topic not sanitized in Mermaid label: %q", resp.Content)
	}
}

func TestTopicNodeID(t *testing.T) {
	if got := TopicNodeID("Neural Networks"); got != "node_neural_networks" {
		t.Fatalf("unexpected node id %q", got)
	}
	if got := TopicNodeID("Math"); got != "node_math" {
		t.Fatalf("unexpected node id %q", got)
	}
}
