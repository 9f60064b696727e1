package gcp

import (
	"testing"

	"github.com/yungbote/braincell-backend/internal/types"
)

func TestClassifyVocal_FrustrationKeywordsWin(t *testing.T) {
	// Frustration keywords trump both fillers and low confidence.
	got := classifyVocal("um, this is so frustrating, um", 0.3)
	if got != types.VocalFrustrated {
		t.Fatalf("expected frustrated, got %s", got)
	}
	got = classifyVocal("I hate this problem!", 0.95)
	if got != types.VocalFrustrated {
		t.Fatalf("expected frustrated from punctuated keyword, got %s", got)
	}
}

func TestClassifyVocal_FillerThreshold(t *testing.T) {
	if got := classifyVocal("um so what does uh this do", 0.9); got != types.VocalHesitant {
		t.Fatalf("expected hesitant at two fillers, got %s", got)
	}
	if got := classifyVocal("um what does this do", 0.9); got != types.VocalCalm {
		t.Fatalf("one filler should stay calm, got %s", got)
	}
}

func TestClassifyVocal_LowConfidenceReadsStressed(t *testing.T) {
	if got := classifyVocal("what does this function return", 0.45); got != types.VocalStressed {
		t.Fatalf("expected stressed below the confidence floor, got %s", got)
	}
	if got := classifyVocal("what does this function return", 0.6); got != types.VocalCalm {
		t.Fatalf("confidence at the floor should stay calm, got %s", got)
	}
}

func TestClassifyVocal_CaseAndPunctuationInsensitive(t *testing.T) {
	if got := classifyVocal("UGH.", 0.9); got != types.VocalFrustrated {
		t.Fatalf("expected frustrated from uppercase punctuated keyword, got %s", got)
	}
}
