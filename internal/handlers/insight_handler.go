package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholalink/school-service/internal/services"
	"github.com/scholalink/school-service/internal/utils"
)

type InsightHandler struct {
	BaseHandler
	insightService services.InsightService
}

func NewInsightHandler(insightService services.InsightService, logger utils.Logger) *InsightHandler {
	return &InsightHandler{
		BaseHandler:    NewBaseHandler(logger),
		insightService: insightService,
	}
}

// GetStudentInsight returns an AI summary of a student's performance
// @Summary Get student insight
// @Description Short AI-generated performance summary for a student in one subject. Falls back to a static message when the provider is unavailable.
// @Tags insights
// @Produce json
// @Param id path string true "Student ID"
// @Param subject_id query string true "Subject ID"
// @Success 200 {object} map[string]interface{} "Insight response"
// @Failure 400 {object} ErrorResponse "Missing subject_id"
// @Failure 404 {object} ErrorResponse "Student or subject not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /insights/students/{id} [get]
func (h *InsightHandler) GetStudentInsight(c *gin.Context) {
	h.LogRequest(c, "Getting student insight")

	subjectID := c.Query("subject_id")
	if subjectID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "subject_id is required",
		})
		return
	}

	insight, err := h.insightService.StudentInsight(c.Request.Context(), c.Param("id"), subjectID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"insight": insight})
}

type lessonIdeaRequest struct {
	SubjectName string `json:"subject_name" binding:"required"`
	Topic       string `json:"topic" binding:"required"`
}

// GetLessonPlanIdea returns an AI-generated lesson hook
// @Summary Get lesson plan idea
// @Tags insights
// @Accept json
// @Produce json
// @Param request body lessonIdeaRequest true "Subject name and topic"
// @Success 200 {object} map[string]interface{} "Suggestion response"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /insights/lesson-idea [post]
func (h *InsightHandler) GetLessonPlanIdea(c *gin.Context) {
	h.LogRequest(c, "Getting lesson plan idea")

	var req lessonIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	suggestion, err := h.insightService.LessonPlanIdea(c.Request.Context(), req.SubjectName, req.Topic)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
}
