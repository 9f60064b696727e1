package types

import "strings"

// CognitiveState is the fused learner status that drives tutoring strategy.
type CognitiveState string

const (
	CognitiveFocused    CognitiveState = "FOCUSED"
	CognitiveConfused   CognitiveState = "CONFUSED"
	CognitiveFrustrated CognitiveState = "FRUSTRATED"
)

func (s CognitiveState) Valid() bool {
	switch s {
	case CognitiveFocused, CognitiveConfused, CognitiveFrustrated:
		return true
	}
	return false
}

func ParseCognitiveState(raw string) (CognitiveState, bool) {
	s := CognitiveState(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// VocalState is the classified vocal signal when audio is available.
type VocalState string

const (
	VocalCalm       VocalState = "calm"
	VocalHesitant   VocalState = "hesitant"
	VocalStressed   VocalState = "stressed"
	VocalFrustrated VocalState = "frustrated"
)

func (s VocalState) Valid() bool {
	switch s {
	case VocalCalm, VocalHesitant, VocalStressed, VocalFrustrated:
		return true
	}
	return false
}

func ParseVocalState(raw string) (VocalState, bool) {
	s := VocalState(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// FacialExpression is the classified facial signal when a webcam snapshot
// is available.
type FacialExpression string

const (
	FacialFear     FacialExpression = "fear"
	FacialSad      FacialExpression = "sad"
	FacialAngry    FacialExpression = "angry"
	FacialSurprise FacialExpression = "surprise"
	FacialNeutral  FacialExpression = "neutral"
	FacialHappy    FacialExpression = "happy"
)

func (e FacialExpression) Valid() bool {
	switch e {
	case FacialFear, FacialSad, FacialAngry, FacialSurprise, FacialNeutral, FacialHappy:
		return true
	}
	return false
}

func ParseFacialExpression(raw string) (FacialExpression, bool) {
	e := FacialExpression(strings.ToLower(strings.TrimSpace(raw)))
	return e, e.Valid()
}

// ResponseType is the output modality of a tutoring turn.
type ResponseType string

const (
	ResponseText    ResponseType = "text"
	ResponseDiagram ResponseType = "diagram"
	ResponseCode    ResponseType = "code"
)

func (t ResponseType) Valid() bool {
	switch t {
	case ResponseText, ResponseDiagram, ResponseCode:
		return true
	}
	return false
}

func ParseResponseType(raw string) (ResponseType, bool) {
	t := ResponseType(strings.ToLower(strings.TrimSpace(raw)))
	return t, t.Valid()
}

// TextFriction carries the typing-behavior difficulty proxy supplied with
// every turn request.
type TextFriction struct {
	RephraseCount  int `json:"rephraseCount" binding:"min=0"`
	BackspaceCount int `json:"backspaceCount" binding:"min=0"`
}
