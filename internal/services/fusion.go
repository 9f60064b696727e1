package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/types"
)

// FusionRubric holds the scoring weights and thresholds of the signal
// fusion engine. The defaults are authoritative; a deployment may override
// them from a YAML file, but the vocal-frustration override and the
// monotonicity of the score in each input are structural and not
// configurable.
type FusionRubric struct {
	RephraseWeight       int `yaml:"rephrase_weight"`
	BackspaceWeight      int `yaml:"backspace_weight"`
	BackspaceHeavyWeight int `yaml:"backspace_heavy_weight"`
	HesitantWeight       int `yaml:"hesitant_weight"`
	StressedWeight       int `yaml:"stressed_weight"`
	NegativeFaceWeight   int `yaml:"negative_face_weight"`
	SurpriseWeight       int `yaml:"surprise_weight"`

	RephraseThreshold       int `yaml:"rephrase_threshold"`
	BackspaceThreshold      int `yaml:"backspace_threshold"`
	BackspaceHeavyThreshold int `yaml:"backspace_heavy_threshold"`

	FrustratedScore int `yaml:"frustrated_score"`
	ConfusedScore   int `yaml:"confused_score"`
}

func DefaultFusionRubric() FusionRubric {
	return FusionRubric{
		RephraseWeight:       3,
		BackspaceWeight:      2,
		BackspaceHeavyWeight: 3,
		HesitantWeight:       3,
		StressedWeight:       4,
		NegativeFaceWeight:   3,
		SurpriseWeight:       1,

		RephraseThreshold:       1,
		BackspaceThreshold:      10,
		BackspaceHeavyThreshold: 20,

		FrustratedScore: 8,
		ConfusedScore:   4,
	}
}

// SignalFusionEngine maps multimodal affect signals to a cognitive state.
// Pure and total: same inputs always yield the same state.
type SignalFusionEngine struct {
	rubric FusionRubric
}

func NewSignalFusionEngine(log *logger.Logger) *SignalFusionEngine {
	rubric := DefaultFusionRubric()
	if path := os.Getenv("FUSION_RUBRIC_PATH"); path != "" {
		loaded, err := loadFusionRubric(path)
		if err != nil {
			if log != nil {
				log.Warn("Fusion rubric override failed to load, using defaults", "path", path, "error", err)
			}
		} else {
			rubric = loaded
			if log != nil {
				log.Info("Fusion rubric loaded from file", "path", path)
			}
		}
	}
	return &SignalFusionEngine{rubric: rubric}
}

func NewSignalFusionEngineWithRubric(rubric FusionRubric) *SignalFusionEngine {
	return &SignalFusionEngine{rubric: rubric}
}

func loadFusionRubric(path string) (FusionRubric, error) {
	rubric := DefaultFusionRubric()
	raw, err := os.ReadFile(path)
	if err != nil {
		return rubric, err
	}
	if err := yaml.Unmarshal(raw, &rubric); err != nil {
		return DefaultFusionRubric(), fmt.Errorf("parse fusion rubric: %w", err)
	}
	if rubric.FrustratedScore < rubric.ConfusedScore {
		return DefaultFusionRubric(), fmt.Errorf("fusion rubric invalid: frustrated_score %d below confused_score %d", rubric.FrustratedScore, rubric.ConfusedScore)
	}
	return rubric, nil
}

// Fuse implements the scoring rubric. A frustrated vocal signal overrides
// all other evidence; otherwise friction, vocal, and facial cues accumulate
// an integer score mapped through the two thresholds.
func (e *SignalFusionEngine) Fuse(friction types.TextFriction, vocal *types.VocalState, facial *types.FacialExpression) types.CognitiveState {
	if vocal != nil && *vocal == types.VocalFrustrated {
		return types.CognitiveFrustrated
	}

	score := e.Score(friction, vocal, facial)

	if score >= e.rubric.FrustratedScore {
		return types.CognitiveFrustrated
	}
	if score >= e.rubric.ConfusedScore {
		return types.CognitiveConfused
	}
	return types.CognitiveFocused
}

// Score exposes the raw accumulated score for the analytics-only endpoint
// and for tests of the monotonicity property.
func (e *SignalFusionEngine) Score(friction types.TextFriction, vocal *types.VocalState, facial *types.FacialExpression) int {
	score := 0

	if friction.RephraseCount > e.rubric.RephraseThreshold {
		score += e.rubric.RephraseWeight
	}
	if friction.BackspaceCount > e.rubric.BackspaceThreshold {
		score += e.rubric.BackspaceWeight
	}
	// Cumulative with the first backspace tier.
	if friction.BackspaceCount > e.rubric.BackspaceHeavyThreshold {
		score += e.rubric.BackspaceHeavyWeight
	}

	if vocal != nil {
		switch *vocal {
		case types.VocalHesitant:
			score += e.rubric.HesitantWeight
		case types.VocalStressed:
			score += e.rubric.StressedWeight
		}
	}

	if facial != nil {
		switch *facial {
		case types.FacialFear, types.FacialSad, types.FacialAngry:
			score += e.rubric.NegativeFaceWeight
		case types.FacialSurprise:
			score += e.rubric.SurpriseWeight
		}
	}

	return score
}
