package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/services"
	"github.com/yungbote/braincell-backend/internal/types"
)

type SessionHandler struct {
	log       *logger.Logger
	turns     services.TurnService
	fusion    *services.SignalFusionEngine
	gaps      services.GapAnalyzer
	reportPNG *services.ReportCardRenderer
}

func NewSessionHandler(
	log *logger.Logger,
	turns services.TurnService,
	fusion *services.SignalFusionEngine,
	gaps services.GapAnalyzer,
	reportPNG *services.ReportCardRenderer,
) *SessionHandler {
	return &SessionHandler{
		log:       log.With("handler", "SessionHandler"),
		turns:     turns,
		fusion:    fusion,
		gaps:      gaps,
		reportPNG: reportPNG,
	}
}

// POST /api/v1/session/analyze
func (h *SessionHandler) Analyze(c *gin.Context) {
	var input types.TurnInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if input.SessionID == "" || input.QueryText == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("sessionId and queryText are required"))
		return
	}
	if input.FacialExpression != nil && !input.FacialExpression.Valid() {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("unknown facial_expression %q", string(*input.FacialExpression)))
		return
	}
	if input.VocalState != nil && !input.VocalState.Valid() {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("unknown vocal_state %q", string(*input.VocalState)))
		return
	}

	response := h.turns.ProcessTurn(c.Request.Context(), input)
	RespondOK(c, response)
}

type fusionMetricsInput struct {
	TextFriction     types.TextFriction      `json:"text_friction"`
	FacialExpression *types.FacialExpression `json:"facial_expression,omitempty"`
	VocalState       *types.VocalState       `json:"vocal_state,omitempty"`
}

// POST /api/v1/session/metrics
// Returns the fused state and the raw rubric score without running a turn.
func (h *SessionHandler) Metrics(c *gin.Context) {
	var input fusionMetricsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if input.FacialExpression != nil && !input.FacialExpression.Valid() {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("unknown facial_expression %q", string(*input.FacialExpression)))
		return
	}
	if input.VocalState != nil && !input.VocalState.Valid() {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("unknown vocal_state %q", string(*input.VocalState)))
		return
	}

	state := h.fusion.Fuse(input.TextFriction, input.VocalState, input.FacialExpression)
	score := h.fusion.Score(input.TextFriction, input.VocalState, input.FacialExpression)
	RespondOK(c, gin.H{
		"cognitive_state": state,
		"fusion_score":    score,
	})
}

// GET /api/v1/learning-report/:student_id?topic=...
func (h *SessionHandler) LearningReport(c *gin.Context) {
	studentID := c.Param("student_id")
	topic := c.Query("topic")

	report, err := h.gaps.Analyze(c.Request.Context(), studentID, topic)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "report_failed", err)
		return
	}
	RespondOK(c, report)
}

// GET /api/v1/learning-report/:student_id/card
func (h *SessionHandler) LearningReportCard(c *gin.Context) {
	if h.reportPNG == nil {
		RespondError(c, http.StatusServiceUnavailable, "card_unavailable", fmt.Errorf("report card rendering is not configured"))
		return
	}

	studentID := c.Param("student_id")
	topic := c.Query("topic")

	report, err := h.gaps.Analyze(c.Request.Context(), studentID, topic)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "report_failed", err)
		return
	}

	buf, err := h.reportPNG.Render(report)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "render_failed", err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// GET /api/v1/progress/:student_id
func (h *SessionHandler) Progress(c *gin.Context) {
	studentID := c.Param("student_id")

	progress, err := h.gaps.Progress(c.Request.Context(), studentID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "progress_failed", err)
		return
	}
	RespondOK(c, progress)
}
