package services

import (
	"errors"
	"testing"

	"github.com/yungbote/braincell-backend/internal/types"
)

func TestValidate_DirectJSON(t *testing.T) {
	v := NewResponseValidator()

	raw := `{
		"responseType": "diagram",
		"content": "graph TD\n A --> B",
		"cognitiveState": "CONFUSED",
		"knowledgeGraphDelta": {
			"nodes": [{"id": "n1", "type": "concept", "label": "Recursion", "mastered": false}],
			"edges": [{"id": "e1", "source": "n0", "target": "n1", "label": "builds_on"}]
		}
	}`

	out, err := v.Validate(raw, types.CognitiveFocused)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.ResponseType != types.ResponseDiagram {
		t.Fatalf("expected diagram, got %s", out.ResponseType)
	}
	if out.CognitiveState != types.CognitiveConfused {
		t.Fatalf("model state should win over fallback, got %s", out.CognitiveState)
	}
	if len(out.KnowledgeGraphDelta.Nodes) != 1 || len(out.KnowledgeGraphDelta.Edges) != 1 {
		t.Fatalf("delta not carried through: %+v", out.KnowledgeGraphDelta)
	}
}

func TestValidate_ExtractsEmbeddedObject(t *testing.T) {
	v := NewResponseValidator()

	raw := "Sure! Here is the response:\n```json\n{\"content\": \"hello\"}\n```\nHope that helps."
	out, err := v.Validate(raw, types.CognitiveFocused)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.Content != "hello" {
		t.Fatalf("expected extracted content, got %q", out.Content)
	}
}

func TestValidate_DefaultsApplied(t *testing.T) {
	v := NewResponseValidator()

	out, err := v.Validate(`{"content": "just text"}`, types.CognitiveConfused)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.ResponseType != types.ResponseText {
		t.Fatalf("expected default text modality, got %s", out.ResponseType)
	}
	if out.CognitiveState != types.CognitiveConfused {
		t.Fatalf("expected fallback state when model omits one, got %s", out.CognitiveState)
	}
	if out.KnowledgeGraphDelta.Nodes == nil || out.KnowledgeGraphDelta.Edges == nil {
		t.Fatalf("delta slices must be non-nil: %+v", out.KnowledgeGraphDelta)
	}
	if len(out.KnowledgeGraphDelta.Nodes) != 0 || len(out.KnowledgeGraphDelta.Edges) != 0 {
		t.Fatalf("expected empty delta, got %+v", out.KnowledgeGraphDelta)
	}
}

func TestValidate_ParseErrorWhenNoObject(t *testing.T) {
	v := NewResponseValidator()

	_, err := v.Validate("I could not produce JSON this time.", types.CognitiveFocused)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}

func TestValidate_SchemaErrors(t *testing.T) {
	v := NewResponseValidator()

	cases := map[string]string{
		"missing content":   `{"responseType": "text"}`,
		"bad responseType":  `{"content": "x", "responseType": "video"}`,
		"bad state":         `{"content": "x", "cognitiveState": "SLEEPY"}`,
		"node missing id":   `{"content": "x", "knowledgeGraphDelta": {"nodes": [{"type": "concept", "label": "L"}]}}`,
		"bad node type":     `{"content": "x", "knowledgeGraphDelta": {"nodes": [{"id": "n1", "type": "galaxy", "label": "L"}]}}`,
		"edge missing ends": `{"content": "x", "knowledgeGraphDelta": {"edges": [{"id": "e1"}]}}`,
	}
	for name, raw := range cases {
		_, err := v.Validate(raw, types.CognitiveFocused)
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("%s: expected SchemaError, got %T: %v", name, err, err)
		}
	}
}

func TestExtractJSONObject_BracketSubstringMustBeValid(t *testing.T) {
	if _, err := extractJSONObject("prefix { not json } suffix"); err == nil {
		t.Fatal("expected invalid bracketed substring to fail")
	}
	if _, err := extractJSONObject("no braces at all"); err == nil {
		t.Fatal("expected missing braces to fail")
	}
}
