package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholalink/school-service/internal/services"
	"github.com/scholalink/school-service/internal/utils"
)

type GradebookHandler struct {
	BaseHandler
	gradebookService services.GradebookService
}

func NewGradebookHandler(gradebookService services.GradebookService, logger utils.Logger) *GradebookHandler {
	return &GradebookHandler{
		BaseHandler:      NewBaseHandler(logger),
		gradebookService: gradebookService,
	}
}

// UpsertGrade records a score for (student, subject, date)
// @Summary Upsert a grade
// @Description Record a score. An existing record for the same student, subject and date keeps its metadata and only the score changes; otherwise a quick-entry quiz grade out of 100 is created.
// @Tags gradebook
// @Accept json
// @Produce json
// @Param request body services.UpsertGradeRequest true "Grade data"
// @Success 200 {object} models.Grade
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Student or subject not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /grades [post]
func (h *GradebookHandler) UpsertGrade(c *gin.Context) {
	h.LogRequest(c, "Upserting grade")

	var req services.UpsertGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	grade, err := h.gradebookService.UpsertGrade(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grade)
}

// GetGrade returns a single grade record
// @Summary Get a grade
// @Tags gradebook
// @Produce json
// @Param id path string true "Grade ID"
// @Success 200 {object} models.Grade
// @Failure 404 {object} ErrorResponse "Grade not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /grades/{id} [get]
func (h *GradebookHandler) GetGrade(c *gin.Context) {
	grade, err := h.gradebookService.GetGrade(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grade)
}

// ListGrades lists grade records with optional filtering
// @Summary List grades
// @Tags gradebook
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param subject_id query string false "Filter by subject"
// @Success 200 {object} map[string]interface{} "Grade list response"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /grades [get]
func (h *GradebookHandler) ListGrades(c *gin.Context) {
	grades, err := h.gradebookService.ListGrades(c.Request.Context(), c.Query("student_id"), c.Query("subject_id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"grades": grades,
		"total":  len(grades),
	})
}
