package gcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/types"
)

// VocalAffect classifies short audio blobs into a vocal state from the
// transcript and recognition confidence.
type VocalAffect struct {
	log    *logger.Logger
	client *speech.Client
}

var fillerWords = map[string]struct{}{
	"um": {}, "uh": {}, "er": {}, "hmm": {}, "like": {},
}

var frustrationWords = map[string]struct{}{
	"frustrated": {}, "frustrating": {}, "annoying": {}, "stupid": {},
	"ugh": {}, "hate": {}, "impossible": {},
}

const (
	hesitantFillerThreshold = 2
	stressedConfidenceFloor = 0.6
)

func NewVocalAffect(log *logger.Logger) (*VocalAffect, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("client", "gcp.VocalAffect")

	ctx := context.Background()
	opts := ClientOptionsFromEnv()

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}

	return &VocalAffect{log: slog, client: client}, nil
}

func (v *VocalAffect) Close() error {
	if v == nil || v.client == nil {
		return nil
	}
	return v.client.Close()
}

// AssessVocalState returns nil when the blob is empty, undecodable, or
// yields no transcript; absence of signal is not an error.
func (v *VocalAffect) AssessVocalState(ctx context.Context, audioB64 string) (*types.VocalState, error) {
	trimmed := strings.TrimSpace(audioB64)
	if trimmed == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		v.log.Warn("audio blob is not valid base64", "error", err)
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			LanguageCode:               "en-US",
			Encoding:                   speechpb.RecognitionConfig_WEBM_OPUS,
			SampleRateHertz:            48000,
			EnableAutomaticPunctuation: false,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: raw},
		},
	}
	resp, err := v.client.Recognize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("speech recognize: %w", err)
	}
	if resp == nil || len(resp.Results) == 0 {
		return nil, nil
	}

	var transcript strings.Builder
	var confSum float64
	confCount := 0
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		alt := result.Alternatives[0]
		if transcript.Len() > 0 {
			transcript.WriteString(" ")
		}
		transcript.WriteString(alt.Transcript)
		if alt.Confidence > 0 {
			confSum += float64(alt.Confidence)
			confCount++
		}
	}
	text := strings.TrimSpace(transcript.String())
	if text == "" {
		return nil, nil
	}

	avgConfidence := 1.0
	if confCount > 0 {
		avgConfidence = confSum / float64(confCount)
	}

	state := classifyVocal(text, avgConfidence)
	return &state, nil
}

// classifyVocal ranks frustration keywords above hesitation fillers above
// low-confidence speech.
func classifyVocal(transcript string, avgConfidence float64) types.VocalState {
	fillers := 0
	for _, word := range strings.Fields(strings.ToLower(transcript)) {
		word = strings.Trim(word, ".,!?;:")
		if _, ok := frustrationWords[word]; ok {
			return types.VocalFrustrated
		}
		if _, ok := fillerWords[word]; ok {
			fillers++
		}
	}
	if fillers >= hesitantFillerThreshold {
		return types.VocalHesitant
	}
	if avgConfidence < stressedConfidenceFloor {
		return types.VocalStressed
	}
	return types.VocalCalm
}
