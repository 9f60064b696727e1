package gcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/types"
)

// FacialAffect infers a coarse facial expression from a webcam snapshot via
// face detection likelihoods.
type FacialAffect struct {
	log    *logger.Logger
	client *vision.ImageAnnotatorClient
}

func NewFacialAffect(log *logger.Logger) (*FacialAffect, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("client", "gcp.FacialAffect")

	ctx := context.Background()
	opts := ClientOptionsFromEnv()

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}

	return &FacialAffect{log: slog, client: client}, nil
}

func (f *FacialAffect) Close() error {
	if f == nil || f.client == nil {
		return nil
	}
	return f.client.Close()
}

// DetectExpression returns nil when the snapshot is empty, undecodable, or
// contains no face; absence of signal is not an error.
func (f *FacialAffect) DetectExpression(ctx context.Context, imageB64 string) (*types.FacialExpression, error) {
	trimmed := strings.TrimSpace(imageB64)
	if trimmed == "" {
		return nil, nil
	}
	// Strip a data-URL prefix if the client sent one.
	if i := strings.Index(trimmed, ","); i != -1 && strings.HasPrefix(trimmed, "data:") {
		trimmed = trimmed[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		f.log.Warn("snapshot is not valid base64", "error", err)
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: raw},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_FACE_DETECTION, MaxResults: 1},
				},
			},
		},
	}
	resp, err := f.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return nil, nil
	}
	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return nil, fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}
	if len(r0.FaceAnnotations) == 0 {
		return nil, nil
	}

	expr := expressionFromFace(r0.FaceAnnotations[0])
	return &expr, nil
}

// expressionFromFace maps detection likelihoods to the strongest expression,
// checking negative affect before positive so distress is never masked by a
// polite smile.
func expressionFromFace(face *visionpb.FaceAnnotation) types.FacialExpression {
	switch {
	case likely(face.AngerLikelihood):
		return types.FacialAngry
	case likely(face.SorrowLikelihood):
		return types.FacialSad
	case likely(face.SurpriseLikelihood):
		return types.FacialSurprise
	case likely(face.JoyLikelihood):
		return types.FacialHappy
	default:
		return types.FacialNeutral
	}
}

func likely(l visionpb.Likelihood) bool {
	return l == visionpb.Likelihood_LIKELY || l == visionpb.Likelihood_VERY_LIKELY
}
