package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholalink/school-service/internal/services"
	"github.com/scholalink/school-service/internal/utils"
)

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService, logger utils.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
	}
}

// GetClassStats returns the bundled per-subject aggregations
// @Summary Get class statistics
// @Description Get class average, grade distribution, attendance breakdown and at-risk students for a subject
// @Tags analytics
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} services.ClassStatsResponse
// @Failure 404 {object} ErrorResponse "Subject not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /subjects/{id}/stats [get]
func (h *AnalyticsHandler) GetClassStats(c *gin.Context) {
	h.LogRequest(c, "Getting class stats")

	stats, err := h.analyticsService.ClassStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetClassAverage returns the class average for a subject
// @Summary Get class average
// @Tags analytics
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} map[string]interface{} "Class average response"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /subjects/{id}/average [get]
func (h *AnalyticsHandler) GetClassAverage(c *gin.Context) {
	subjectID := c.Param("id")

	average, err := h.analyticsService.ClassAverage(c.Request.Context(), subjectID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subject_id": subjectID,
		"average":    average,
	})
}

// GetGradeDistribution returns the letter-band histogram for a subject
// @Summary Get grade distribution
// @Tags analytics
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} services.GradeDistribution
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /subjects/{id}/distribution [get]
func (h *AnalyticsHandler) GetGradeDistribution(c *gin.Context) {
	distribution, err := h.analyticsService.GradeDistribution(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, distribution)
}

// GetAttendanceBreakdown returns the attendance summary for a subject
// @Summary Get attendance breakdown
// @Tags analytics
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} services.AttendanceBreakdown
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /subjects/{id}/attendance-breakdown [get]
func (h *AnalyticsHandler) GetAttendanceBreakdown(c *gin.Context) {
	breakdown, err := h.analyticsService.AttendanceBreakdown(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

// GetAtRiskStudents lists students below the risk threshold
// @Summary Get at-risk students
// @Description List students whose subject average fell below the risk threshold
// @Tags analytics
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} map[string]interface{} "At-risk students response"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /subjects/{id}/at-risk [get]
func (h *AnalyticsHandler) GetAtRiskStudents(c *gin.Context) {
	h.LogRequest(c, "Getting at-risk students")

	students, err := h.analyticsService.AtRiskStudents(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"students": students,
		"total":    len(students),
	})
}

// GetEnrolledStudents lists the students enrolled in a subject
// @Summary Get enrolled students
// @Description List students whose grade level matches the subject's
// @Tags analytics
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} map[string]interface{} "Enrolled students response"
// @Failure 404 {object} ErrorResponse "Subject not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /subjects/{id}/students [get]
func (h *AnalyticsHandler) GetEnrolledStudents(c *gin.Context) {
	students, err := h.analyticsService.EnrolledStudents(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"students": students,
		"total":    len(students),
	})
}

// GetStudentAverage returns a student's average, overall or per subject
// @Summary Get student average
// @Tags analytics
// @Produce json
// @Param id path string true "Student ID"
// @Param subject_id query string false "Restrict to one subject"
// @Success 200 {object} map[string]interface{} "Student average response"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /students/{id}/average [get]
func (h *AnalyticsHandler) GetStudentAverage(c *gin.Context) {
	studentID := c.Param("id")
	subjectID := c.Query("subject_id")

	average, err := h.analyticsService.StudentAverage(c.Request.Context(), studentID, subjectID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"student_id": studentID,
		"subject_id": subjectID,
		"average":    average,
	})
}
