package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/services"
	"github.com/yungbote/braincell-backend/internal/types"
)

type stubTurnService struct {
	lastInput types.TurnInput
	response  *types.ModelResponse
}

func (s *stubTurnService) ProcessTurn(ctx context.Context, input types.TurnInput) *types.ModelResponse {
	s.lastInput = input
	return s.response
}

type stubGapAnalyzer struct {
	report   *services.GapReport
	progress *services.StudentProgress
	err      error
}

func (s *stubGapAnalyzer) Analyze(ctx context.Context, studentID, topic string) (*services.GapReport, error) {
	return s.report, s.err
}

func (s *stubGapAnalyzer) Progress(ctx context.Context, studentID string) (*services.StudentProgress, error) {
	return s.progress, s.err
}

func newSessionRouter(t *testing.T, turns *stubTurnService, gaps *stubGapAnalyzer) *gin.Engine {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	gin.SetMode(gin.TestMode)

	h := NewSessionHandler(log, turns, services.NewSignalFusionEngine(log), gaps, nil)
	r := gin.New()
	r.POST("/session/analyze", h.Analyze)
	r.POST("/session/metrics", h.Metrics)
	r.GET("/learning-report/:student_id", h.LearningReport)
	r.GET("/learning-report/:student_id/card", h.LearningReportCard)
	r.GET("/progress/:student_id", h.Progress)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyze_RequiresSessionAndQuery(t *testing.T) {
	r := newSessionRouter(t, &stubTurnService{}, &stubGapAnalyzer{})

	w := postJSON(r, "/session/analyze", `{"queryText": "hi"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without sessionId, got %d", w.Code)
	}
	w = postJSON(r, "/session/analyze", `{"sessionId": "s1_x"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without queryText, got %d", w.Code)
	}
}

func TestAnalyze_RejectsUnknownEnums(t *testing.T) {
	r := newSessionRouter(t, &stubTurnService{}, &stubGapAnalyzer{})

	w := postJSON(r, "/session/analyze", `{"sessionId": "s1_x", "queryText": "hi", "facial_expression": "smug"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown facial expression, got %d", w.Code)
	}
	w = postJSON(r, "/session/analyze", `{"sessionId": "s1_x", "queryText": "hi", "vocal_state": "yodeling"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown vocal state, got %d", w.Code)
	}
}

func TestAnalyze_PassesInputThrough(t *testing.T) {
	turns := &stubTurnService{response: &types.ModelResponse{
		ResponseType:   types.ResponseText,
		Content:        "hello there",
		CognitiveState: types.CognitiveFocused,
	}}
	r := newSessionRouter(t, turns, &stubGapAnalyzer{})

	w := postJSON(r, "/session/analyze", `{
		"sessionId": "s1_x",
		"queryText": "what is a closure?",
		"text_friction": {"rephraseCount": 2, "backspaceCount": 14},
		"vocal_state": "hesitant"
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if turns.lastInput.SessionID != "s1_x" || turns.lastInput.TextFriction.BackspaceCount != 14 {
		t.Fatalf("input not forwarded: %+v", turns.lastInput)
	}
	if turns.lastInput.VocalState == nil || *turns.lastInput.VocalState != types.VocalHesitant {
		t.Fatalf("vocal state not forwarded: %+v", turns.lastInput.VocalState)
	}

	var resp types.ModelResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Content != "hello there" {
		t.Fatalf("unexpected content %q", resp.Content)
	}
}

func TestMetrics_ReturnsStateAndScore(t *testing.T) {
	r := newSessionRouter(t, &stubTurnService{}, &stubGapAnalyzer{})

	w := postJSON(r, "/session/metrics", `{
		"text_friction": {"rephraseCount": 2, "backspaceCount": 0},
		"vocal_state": "hesitant"
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var out struct {
		CognitiveState string `json:"cognitive_state"`
		FusionScore    int    `json:"fusion_score"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Rephrases (3) + hesitant voice (3) = 6, inside the confusion band.
	if out.FusionScore != 6 || out.CognitiveState != string(types.CognitiveConfused) {
		t.Fatalf("unexpected metrics %+v", out)
	}
}

func TestLearningReport_ServesAnalyzerOutput(t *testing.T) {
	gaps := &stubGapAnalyzer{report: &services.GapReport{
		StudentID:       "s1",
		TotalConcepts:   2,
		Recommendations: []string{"Keep learning! Consistency is key."},
	}}
	r := newSessionRouter(t, &stubTurnService{}, gaps)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/learning-report/s1?topic=Math", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"student_id":"s1"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestLearningReportCard_UnavailableWithoutRenderer(t *testing.T) {
	r := newSessionRouter(t, &stubTurnService{}, &stubGapAnalyzer{report: &services.GapReport{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/learning-report/s1/card", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a renderer, got %d", w.Code)
	}
}

func TestProgress_ServesRollup(t *testing.T) {
	gaps := &stubGapAnalyzer{progress: &services.StudentProgress{
		StudentID:     "s1",
		TotalConcepts: 3,
		AvgMastery:    0.47,
	}}
	r := newSessionRouter(t, &stubTurnService{}, gaps)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/progress/s1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"avg_mastery":0.47`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
