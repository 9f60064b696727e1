package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/braincell-backend/internal/types"
)

// ResponseValidator recovers a schema-valid ModelResponse from free-form
// generation text. Failure modes are exactly two: ParseError when no JSON
// object can be extracted, SchemaError when the extracted object violates a
// required enum or shape.
type ResponseValidator struct{}

func NewResponseValidator() *ResponseValidator {
	return &ResponseValidator{}
}

type rawModelResponse struct {
	ResponseType        *string                    `json:"responseType"`
	Content             *string                    `json:"content"`
	CognitiveState      *string                    `json:"cognitiveState"`
	KnowledgeGraphDelta *types.KnowledgeGraphDelta `json:"knowledgeGraphDelta"`
	Metrics             map[string]any             `json:"metrics"`
}

func (v *ResponseValidator) Validate(rawText string, fallbackState types.CognitiveState) (*types.ModelResponse, error) {
	candidate, err := extractJSONObject(rawText)
	if err != nil {
		return nil, &ParseError{Raw: rawText, Err: err}
	}

	var raw rawModelResponse
	if err := json.Unmarshal(candidate, &raw); err != nil {
		return nil, &SchemaError{Err: err}
	}

	out := &types.ModelResponse{
		ResponseType:   types.ResponseText,
		CognitiveState: fallbackState,
		KnowledgeGraphDelta: types.KnowledgeGraphDelta{
			Nodes: []types.KnowledgeGraphNode{},
			Edges: []types.KnowledgeGraphEdge{},
		},
		Metrics: raw.Metrics,
	}

	if raw.Content == nil {
		return nil, &SchemaError{Field: "content", Err: fmt.Errorf("missing required key")}
	}
	out.Content = *raw.Content

	if raw.ResponseType != nil {
		t, ok := types.ParseResponseType(*raw.ResponseType)
		if !ok {
			return nil, &SchemaError{Field: "responseType", Err: fmt.Errorf("unknown value %q", *raw.ResponseType)}
		}
		out.ResponseType = t
	}

	// The model's own emitted state wins over the fused fallback when valid.
	if raw.CognitiveState != nil {
		s, ok := types.ParseCognitiveState(*raw.CognitiveState)
		if !ok {
			return nil, &SchemaError{Field: "cognitiveState", Err: fmt.Errorf("unknown value %q", *raw.CognitiveState)}
		}
		out.CognitiveState = s
	}

	if raw.KnowledgeGraphDelta != nil {
		delta := *raw.KnowledgeGraphDelta
		if delta.Nodes == nil {
			delta.Nodes = []types.KnowledgeGraphNode{}
		}
		if delta.Edges == nil {
			delta.Edges = []types.KnowledgeGraphEdge{}
		}
		for _, node := range delta.Nodes {
			if node.ID == "" || node.Label == "" {
				return nil, &SchemaError{Field: "knowledgeGraphDelta.nodes", Err: fmt.Errorf("node missing id or label")}
			}
			if !types.ValidNodeType(node.Type) {
				return nil, &SchemaError{Field: "knowledgeGraphDelta.nodes", Err: fmt.Errorf("unknown node type %q", node.Type)}
			}
		}
		for _, edge := range delta.Edges {
			if edge.ID == "" || edge.Source == "" || edge.Target == "" {
				return nil, &SchemaError{Field: "knowledgeGraphDelta.edges", Err: fmt.Errorf("edge missing id, source, or target")}
			}
		}
		out.KnowledgeGraphDelta = delta
	}

	return out, nil
}

// extractJSONObject tries a direct parse of the trimmed text, then retries
// on the substring between the first '{' and the last '}' inclusive.
func extractJSONObject(rawText string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(rawText)

	if json.Valid([]byte(trimmed)) && strings.HasPrefix(trimmed, "{") {
		return json.RawMessage(trimmed), nil
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object found in generation output")
	}
	snippet := trimmed[start : end+1]
	if !json.Valid([]byte(snippet)) {
		return nil, fmt.Errorf("bracketed substring is not valid JSON")
	}
	return json.RawMessage(snippet), nil
}
