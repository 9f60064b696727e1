package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/services"
)

type ClassroomHandler struct {
	log        *logger.Logger
	classrooms services.ClassroomService
	analytics  services.ClassAnalyticsAggregator
}

func NewClassroomHandler(log *logger.Logger, classrooms services.ClassroomService, analytics services.ClassAnalyticsAggregator) *ClassroomHandler {
	return &ClassroomHandler{
		log:        log.With("handler", "ClassroomHandler"),
		classrooms: classrooms,
		analytics:  analytics,
	}
}

// POST /api/v1/classroom/create
func (h *ClassroomHandler) Create(c *gin.Context) {
	var input services.CreateClassroomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	classroom, err := h.classrooms.Create(c.Request.Context(), input)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "create_failed", err)
		return
	}
	RespondOK(c, classroom)
}

// POST /api/v1/classroom/join
func (h *ClassroomHandler) Join(c *gin.Context) {
	var input services.JoinClassroomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	student, classroom, err := h.classrooms.Join(c.Request.Context(), input)
	if err != nil {
		if err.Error() == "invalid join code" {
			RespondError(c, http.StatusNotFound, "invalid_join_code", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "join_failed", err)
		return
	}
	RespondOK(c, gin.H{
		"student":        student,
		"classroom_id":   classroom.ClassroomID,
		"classroom_name": classroom.Name,
	})
}

// GET /api/v1/classroom/teacher/:teacher_id
func (h *ClassroomHandler) ListByTeacher(c *gin.Context) {
	teacherID := c.Param("teacher_id")

	summaries, err := h.classrooms.ListByTeacher(c.Request.Context(), teacherID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"classrooms": summaries})
}

// GET /api/v1/classroom/:classroom_id
func (h *ClassroomHandler) Get(c *gin.Context) {
	classroomID := c.Param("classroom_id")

	classroom, err := h.classrooms.Get(c.Request.Context(), classroomID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "lookup_failed", err)
		return
	}
	if classroom == nil {
		RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("classroom %s not found", classroomID))
		return
	}
	RespondOK(c, classroom)
}

// GET /api/v1/classroom/:classroom_id/students
func (h *ClassroomHandler) Students(c *gin.Context) {
	classroomID := c.Param("classroom_id")

	students, err := h.analytics.StudentsOverview(c.Request.Context(), classroomID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	if students == nil {
		RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("classroom %s not found", classroomID))
		return
	}
	RespondOK(c, gin.H{"students": students})
}

// GET /api/v1/classroom/:classroom_id/analytics
func (h *ClassroomHandler) Analytics(c *gin.Context) {
	classroomID := c.Param("classroom_id")

	analytics, err := h.analytics.Aggregate(c.Request.Context(), classroomID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "analytics_failed", err)
		return
	}
	if analytics == nil {
		RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("classroom %s not found", classroomID))
		return
	}
	RespondOK(c, analytics)
}
