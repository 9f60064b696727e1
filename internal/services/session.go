package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/repos"
	"github.com/yungbote/braincell-backend/internal/types"
)

// SessionCache keeps the short rolling conversation memory for a session.
// All methods are best-effort: a cache miss or outage degrades to empty.
type SessionCache interface {
	History(ctx context.Context, sessionID string) ([]types.HistoryEntry, error)
	LastResponseType(ctx context.Context, sessionID string) (*types.ResponseType, error)
	AppendTurn(ctx context.Context, sessionID, query, responseContent string, responseType types.ResponseType) error
}

// GraphStore persists knowledge graph deltas into the per-student concept
// graph.
type GraphStore interface {
	MergeDelta(ctx context.Context, studentID string, delta types.KnowledgeGraphDelta) error
}

// FacialAffectProvider infers a facial expression from a base64 snapshot.
// A nil expression with nil error means no usable signal.
type FacialAffectProvider interface {
	DetectExpression(ctx context.Context, imageB64 string) (*types.FacialExpression, error)
}

// VocalAffectProvider infers a vocal state from a base64 audio blob. A nil
// state with nil error means no usable signal.
type VocalAffectProvider interface {
	AssessVocalState(ctx context.Context, audioB64 string) (*types.VocalState, error)
}

// TurnService runs the full tutoring turn: affect inference, signal fusion,
// context assembly, prompt construction, generation, validation, and
// persistence. ProcessTurn always returns a schema-valid response.
type TurnService interface {
	ProcessTurn(ctx context.Context, input types.TurnInput) *types.ModelResponse
}

type turnService struct {
	log         *logger.Logger
	fusion      *SignalFusionEngine
	assembler   *ContextAssembler
	prompts     *PromptBuilder
	generation  GenerationClient
	validator   *ResponseValidator
	fallback    *FallbackGenerator
	mastery     MasteryTracker
	transcripts repos.SessionTranscriptRepo
	usage       repos.UsageMetricRepo

	// Optional collaborators; nil when the backing service is not configured.
	cache  SessionCache
	graph  GraphStore
	facial FacialAffectProvider
	vocal  VocalAffectProvider
}

type TurnServiceDeps struct {
	Fusion      *SignalFusionEngine
	Assembler   *ContextAssembler
	Prompts     *PromptBuilder
	Generation  GenerationClient
	Validator   *ResponseValidator
	Fallback    *FallbackGenerator
	Mastery     MasteryTracker
	Transcripts repos.SessionTranscriptRepo
	Usage       repos.UsageMetricRepo
	Cache       SessionCache
	Graph       GraphStore
	Facial      FacialAffectProvider
	Vocal       VocalAffectProvider
}

func NewTurnService(log *logger.Logger, deps TurnServiceDeps) TurnService {
	return &turnService{
		log:         log.With("service", "TurnService"),
		fusion:      deps.Fusion,
		assembler:   deps.Assembler,
		prompts:     deps.Prompts,
		generation:  deps.Generation,
		validator:   deps.Validator,
		fallback:    deps.Fallback,
		mastery:     deps.Mastery,
		transcripts: deps.Transcripts,
		usage:       deps.Usage,
		cache:       deps.Cache,
		graph:       deps.Graph,
		facial:      deps.Facial,
		vocal:       deps.Vocal,
	}
}

// StudentIDFromSession extracts the student identifier from a session ID of
// the form "<student_id>_<suffix>".
func StudentIDFromSession(sessionID string) string {
	if i := strings.Index(sessionID, "_"); i > 0 {
		return sessionID[:i]
	}
	return sessionID
}

func (s *turnService) ProcessTurn(ctx context.Context, input types.TurnInput) (out *types.ModelResponse) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Turn pipeline panicked, returning fallback",
				"session_id", input.SessionID,
				"panic", r,
			)
			out = s.fallback.Generate(types.TutoringContext{Topic: "General"}, types.CognitiveFocused)
		}
	}()

	s.inferMissingSignals(ctx, &input)

	fused := s.fusion.Fuse(input.TextFriction, input.VocalState, input.FacialExpression)
	tctx := s.assembler.Assemble(input, fused)
	s.mergeCachedSession(ctx, &tctx)

	prompt, modality := s.prompts.Build(tctx)

	start := time.Now()
	completion, err := s.generation.Complete(ctx, prompt, string(modality))
	latencyMs := float64(time.Since(start).Milliseconds())

	var response *types.ModelResponse
	success := 1
	usage := TokenUsage{}
	if err != nil {
		s.log.Warn("Generation failed, using fallback",
			"session_id", input.SessionID,
			"error", err.Error(),
		)
		response = s.fallback.Generate(tctx, fused)
		success = 0
	} else {
		usage = completion.Usage
		response, err = s.validator.Validate(completion.Content, fused)
		if err != nil {
			s.log.Warn("Generation output rejected, using fallback",
				"session_id", input.SessionID,
				"error", err.Error(),
			)
			response = s.fallback.Generate(tctx, fused)
			success = 0
		}
	}

	s.persistTurn(ctx, input, tctx, response, usage, latencyMs, success)
	return response
}

// inferMissingSignals fills absent affect signals from raw media when a
// provider is configured. Failures degrade to no signal.
func (s *turnService) inferMissingSignals(ctx context.Context, input *types.TurnInput) {
	if input.VocalState == nil && input.AudioBlob != "" && s.vocal != nil {
		state, err := s.vocal.AssessVocalState(ctx, input.AudioBlob)
		if err != nil {
			s.log.Warn("Vocal affect inference failed", "session_id", input.SessionID, "error", err.Error())
		} else if state != nil {
			input.VocalState = state
		}
	}
	if input.FacialExpression == nil && s.facial != nil {
		if snapshot := input.Meta["snapshot"]; snapshot != "" {
			expr, err := s.facial.DetectExpression(ctx, snapshot)
			if err != nil {
				s.log.Warn("Facial affect inference failed", "session_id", input.SessionID, "error", err.Error())
			} else if expr != nil {
				input.FacialExpression = expr
			}
		}
	}
}

// mergeCachedSession backfills history and last response type from the
// session cache when the request itself did not carry them.
func (s *turnService) mergeCachedSession(ctx context.Context, tctx *types.TutoringContext) {
	if s.cache == nil {
		return
	}
	if len(tctx.ConversationHistory) == 0 {
		history, err := s.cache.History(ctx, tctx.SessionID)
		if err != nil {
			s.log.Warn("Session history fetch failed", "session_id", tctx.SessionID, "error", err.Error())
		} else {
			tctx.ConversationHistory = history
		}
	}
	if tctx.LastResponseType == nil {
		last, err := s.cache.LastResponseType(ctx, tctx.SessionID)
		if err != nil {
			s.log.Warn("Last response type fetch failed", "session_id", tctx.SessionID, "error", err.Error())
		} else {
			tctx.LastResponseType = last
		}
	}
}

// persistTurn records the transcript, the usage metric, per-concept mastery
// updates, the graph delta, and the cache append. The response has already
// been decided; persistence failures are logged and never surface to the
// learner.
func (s *turnService) persistTurn(
	ctx context.Context,
	input types.TurnInput,
	tctx types.TutoringContext,
	response *types.ModelResponse,
	usage TokenUsage,
	latencyMs float64,
	success int,
) {
	now := time.Now().UTC()
	studentID := StudentIDFromSession(input.SessionID)

	deltaJSON, err := json.Marshal(response.KnowledgeGraphDelta)
	if err != nil {
		deltaJSON = []byte(`{"nodes":[],"edges":[]}`)
	}

	transcript := &types.SessionTranscript{
		SessionID:           input.SessionID,
		Timestamp:           now,
		QueryText:           input.QueryText,
		TextFrictionSummary: tctx.TextFrictionSummary,
		CognitiveState:      string(response.CognitiveState),
		ResponseType:        string(response.ResponseType),
		ResponseContent:     response.Content,
		KnowledgeGraphDelta: datatypes.JSON(deltaJSON),
		LLMTokensUsed:       usage.TotalTokens,
		LLMLatencyMs:        latencyMs,
		Success:             success,
	}
	if input.VocalState != nil {
		transcript.VocalState = string(*input.VocalState)
	}
	if input.FacialExpression != nil {
		transcript.FacialExpression = string(*input.FacialExpression)
	}
	if err := s.transcripts.Create(ctx, nil, transcript); err != nil {
		s.log.Error("Transcript persistence failed", "session_id", input.SessionID, "error", err.Error())
	}

	metric := &types.UsageMetric{
		SessionID:        input.SessionID,
		Timestamp:        now,
		Endpoint:         "session/analyze",
		TotalTokens:      usage.TotalTokens,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		LatencyMs:        latencyMs,
		Model:            usage.Model,
		Success:          success,
	}
	if err := s.usage.Create(ctx, nil, metric); err != nil {
		s.log.Error("Usage metric persistence failed", "session_id", input.SessionID, "error", err.Error())
	}

	for _, node := range response.KnowledgeGraphDelta.Nodes {
		if err := s.mastery.TrackInteraction(ctx, studentID, node.ID, node.Label, tctx.Topic, response.CognitiveState); err != nil {
			s.log.Error("Mastery tracking failed",
				"student_id", studentID,
				"concept", node.Label,
				"error", err.Error(),
			)
		}
	}

	if s.graph != nil {
		if err := s.graph.MergeDelta(ctx, studentID, response.KnowledgeGraphDelta); err != nil {
			s.log.Warn("Graph merge failed", "student_id", studentID, "error", err.Error())
		}
	}

	if s.cache != nil {
		if err := s.cache.AppendTurn(ctx, input.SessionID, input.QueryText, response.Content, response.ResponseType); err != nil {
			s.log.Warn("Session cache append failed", "session_id", input.SessionID, "error", err.Error())
		}
	}
}
