package services

import (
	"testing"

	"github.com/yungbote/braincell-backend/internal/types"
)

func TestAssemble_DefaultsWhenMetaEmpty(t *testing.T) {
	assembler := NewContextAssembler()

	tctx := assembler.Assemble(types.TurnInput{
		SessionID: "stu1_sess",
		QueryText: "What is recursion?",
	}, types.CognitiveFocused)

	if tctx.Topic != "General Exploration" {
		t.Fatalf("expected default topic, got %q", tctx.Topic)
	}
	if len(tctx.ConversationHistory) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(tctx.ConversationHistory))
	}
	if tctx.LastResponseType != nil {
		t.Fatalf("expected nil last response type, got %v", *tctx.LastResponseType)
	}
	if tctx.TextFrictionSummary != "0 rephrases, 0 backspaces" {
		t.Fatalf("unexpected friction summary %q", tctx.TextFrictionSummary)
	}
}

func TestAssemble_SubjectFallsBackForTopic(t *testing.T) {
	assembler := NewContextAssembler()

	tctx := assembler.Assemble(types.TurnInput{
		Meta: map[string]string{"subject": "Linear Algebra"},
	}, types.CognitiveFocused)
	if tctx.Topic != "Linear Algebra" {
		t.Fatalf("expected subject to supply topic, got %q", tctx.Topic)
	}

	tctx = assembler.Assemble(types.TurnInput{
		Meta: map[string]string{"topic": "Calculus", "subject": "Linear Algebra"},
	}, types.CognitiveFocused)
	if tctx.Topic != "Calculus" {
		t.Fatalf("expected topic key to win over subject, got %q", tctx.Topic)
	}
}

func TestSplitMetaList_JSONAndCommaEncodings(t *testing.T) {
	got := splitMetaList(`["loops", "arrays", ""]`)
	if len(got) != 2 || got[0] != "loops" || got[1] != "arrays" {
		t.Fatalf("JSON encoding parsed wrong: %v", got)
	}

	got = splitMetaList("loops, arrays , ,stacks")
	if len(got) != 3 || got[2] != "stacks" {
		t.Fatalf("comma encoding parsed wrong: %v", got)
	}

	// Looks like JSON but is broken: falls through to comma splitting.
	got = splitMetaList(`["loops", arrays`)
	if len(got) != 2 {
		t.Fatalf("broken JSON should comma-split, got %v", got)
	}

	if got := splitMetaList("   "); len(got) != 0 {
		t.Fatalf("blank input should be empty, got %v", got)
	}
}

func TestParseHistory_KeepsLastEightAndDropsBlanks(t *testing.T) {
	raw := `[
		{"role": "user", "content": "q1"},
		{"role": "assistant", "content": "a1"},
		{"role": "user", "content": "q2"},
		{"role": "assistant", "content": "a2"},
		{"role": "user", "content": "q3"},
		{"role": "assistant", "content": "  "},
		{"role": "user", "content": "q4"},
		{"role": "assistant", "content": "a4"},
		{"role": "user", "content": "q5"},
		{"content": "a5"}
	]`

	got := parseHistory(raw)

	// Ten entries arrive; the window keeps the last eight, then one blank
	// entry is dropped inside it.
	if len(got) != 7 {
		t.Fatalf("expected 7 entries, got %d: %v", len(got), got)
	}
	if got[0].Content != "q2" {
		t.Fatalf("expected window to start at q2, got %q", got[0].Content)
	}
	if got[len(got)-1].Role != "unknown" {
		t.Fatalf("expected missing role to become unknown, got %q", got[len(got)-1].Role)
	}
}

func TestParseHistory_MalformedYieldsEmpty(t *testing.T) {
	if got := parseHistory("not json at all"); len(got) != 0 {
		t.Fatalf("expected empty history on parse failure, got %v", got)
	}
	if got := parseHistory(`{"role": "user"}`); len(got) != 0 {
		t.Fatalf("expected empty history for non-array JSON, got %v", got)
	}
}

func TestAssemble_LastResponseTypeParsing(t *testing.T) {
	assembler := NewContextAssembler()

	tctx := assembler.Assemble(types.TurnInput{
		Meta: map[string]string{"lastResponseType": "DIAGRAM"},
	}, types.CognitiveFocused)
	if tctx.LastResponseType == nil || *tctx.LastResponseType != types.ResponseDiagram {
		t.Fatalf("expected diagram last response type, got %v", tctx.LastResponseType)
	}

	tctx = assembler.Assemble(types.TurnInput{
		Meta: map[string]string{"lastResponseType": "hologram"},
	}, types.CognitiveFocused)
	if tctx.LastResponseType != nil {
		t.Fatalf("expected unknown modality to be dropped, got %v", *tctx.LastResponseType)
	}
}
