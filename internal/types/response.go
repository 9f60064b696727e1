package types

// KnowledgeGraphNode is one new concept a turn introduces into the learner's
// concept map. Type is one of concept|mastered|note.
type KnowledgeGraphNode struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Label    string `json:"label"`
	Mastered bool   `json:"mastered"`
}

func ValidNodeType(t string) bool {
	switch t {
	case "concept", "mastered", "note":
		return true
	}
	return false
}

type KnowledgeGraphEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

type KnowledgeGraphDelta struct {
	Nodes []KnowledgeGraphNode `json:"nodes"`
	Edges []KnowledgeGraphEdge `json:"edges"`
}

// ModelResponse is the schema-valid tutoring turn output. Every turn produces
// exactly one, whether from the generation provider or the fallback path.
type ModelResponse struct {
	ResponseType        ResponseType        `json:"responseType"`
	Content             string              `json:"content"`
	CognitiveState      CognitiveState      `json:"cognitiveState"`
	KnowledgeGraphDelta KnowledgeGraphDelta `json:"knowledgeGraphDelta"`
	Metrics             map[string]any      `json:"metrics,omitempty"`
}

// TurnInput is the turn-processing request body. Field aliases follow the
// existing client contract (camelCase plus two snake_case signal keys).
type TurnInput struct {
	SessionID        string            `json:"sessionId"`
	QueryText        string            `json:"queryText"`
	TextFriction     TextFriction      `json:"text_friction"`
	AudioBlob        string            `json:"audioBlob,omitempty"`
	FacialExpression *FacialExpression `json:"facial_expression,omitempty"`
	VocalState       *VocalState       `json:"vocal_state,omitempty"`
	Meta             map[string]string `json:"meta"`
}

// HistoryEntry is one (role, content) pair of prior conversation, oldest
// first.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TutoringContext is the per-request assembly of signals, history, and
// session metadata handed to the prompt builder. It lives for one turn.
type TutoringContext struct {
	SessionID           string
	Topic               string
	QueryText           string
	CognitiveState      CognitiveState
	ConversationHistory []HistoryEntry
	LearningObjectives  []string
	KnowledgeGraphNodes []string
	LastResponseType    *ResponseType
	TextFrictionSummary string
	VocalState          *VocalState
	FacialExpression    *FacialExpression
}
