package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholalink/school-service/internal/services"
	"github.com/scholalink/school-service/internal/utils"
)

type AttendanceHandler struct {
	BaseHandler
	attendanceService services.AttendanceService
}

func NewAttendanceHandler(attendanceService services.AttendanceService, logger utils.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler:       NewBaseHandler(logger),
		attendanceService: attendanceService,
	}
}

// UpsertAttendance records a status for (student, subject, date)
// @Summary Upsert attendance
// @Description Record an attendance status. Re-marking the same student, subject and date overwrites the status.
// @Tags attendance
// @Accept json
// @Produce json
// @Param request body services.UpsertAttendanceRequest true "Attendance data"
// @Success 200 {object} models.Attendance
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Student or subject not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /attendance [post]
func (h *AttendanceHandler) UpsertAttendance(c *gin.Context) {
	h.LogRequest(c, "Upserting attendance")

	var req services.UpsertAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	record, err := h.attendanceService.UpsertAttendance(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListAttendance lists attendance records for a subject or a student
// @Summary List attendance
// @Tags attendance
// @Produce json
// @Param subject_id query string false "Filter by subject"
// @Param student_id query string false "Filter by student"
// @Success 200 {object} map[string]interface{} "Attendance list response"
// @Failure 400 {object} ErrorResponse "Missing filter"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /attendance [get]
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	subjectID := c.Query("subject_id")
	studentID := c.Query("student_id")

	var (
		records interface{}
		err     error
	)
	switch {
	case subjectID != "":
		records, err = h.attendanceService.ListBySubject(c.Request.Context(), subjectID)
	case studentID != "":
		records, err = h.attendanceService.ListByStudent(c.Request.Context(), studentID)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Either subject_id or student_id is required",
		})
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}
