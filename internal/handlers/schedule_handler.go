package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/services"
	"github.com/scholalink/school-service/internal/utils"
)

type ScheduleHandler struct {
	BaseHandler
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService, logger utils.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		BaseHandler:     NewBaseHandler(logger),
		scheduleService: scheduleService,
	}
}

// CreateLesson adds a journal entry for a subject
// @Summary Create a lesson
// @Description Add a journal entry. A non-empty homework title also creates the linked assignment in the same transaction.
// @Tags schedule
// @Accept json
// @Produce json
// @Param request body services.CreateLessonRequest true "Lesson data"
// @Success 201 {object} models.Lesson
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Subject not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /lessons [post]
func (h *ScheduleHandler) CreateLesson(c *gin.Context) {
	h.LogRequest(c, "Creating lesson")

	var req services.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	lesson, err := h.scheduleService.CreateLesson(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

// ListLessons lists a subject's journal entries in calendar order
// @Summary List lessons
// @Tags schedule
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} map[string]interface{} "Lesson list response"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /subjects/{id}/lessons [get]
func (h *ScheduleHandler) ListLessons(c *gin.Context) {
	lessons, err := h.scheduleService.ListLessons(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lessons": lessons,
		"total":   len(lessons),
	})
}

type setAssignmentStatusRequest struct {
	Status models.AssignmentStatus `json:"status" binding:"required"`
}

// SetAssignmentStatus opens or closes an assignment
// @Summary Set assignment status
// @Tags schedule
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param request body setAssignmentStatusRequest true "New status (OPEN or CLOSED)"
// @Success 200 {object} models.Assignment
// @Failure 400 {object} ErrorResponse "Invalid status"
// @Failure 404 {object} ErrorResponse "Assignment not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /assignments/{id}/status [put]
func (h *ScheduleHandler) SetAssignmentStatus(c *gin.Context) {
	h.LogRequest(c, "Setting assignment status")

	var req setAssignmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	assignment, err := h.scheduleService.SetAssignmentStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// GetAssignment returns an assignment by ID
// @Summary Get an assignment
// @Tags schedule
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} models.Assignment
// @Failure 404 {object} ErrorResponse "Assignment not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /assignments/{id} [get]
func (h *ScheduleHandler) GetAssignment(c *gin.Context) {
	assignment, err := h.scheduleService.GetAssignment(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// ListAssignments lists a subject's assignments by due date
// @Summary List assignments
// @Tags schedule
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} map[string]interface{} "Assignment list response"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /subjects/{id}/assignments [get]
func (h *ScheduleHandler) ListAssignments(c *gin.Context) {
	assignments, err := h.scheduleService.ListAssignments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assignments": assignments,
		"total":       len(assignments),
	})
}
