package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/services"
	"github.com/scholalink/school-service/internal/utils"
)

type RosterHandler struct {
	BaseHandler
	rosterService services.RosterService
}

func NewRosterHandler(rosterService services.RosterService, logger utils.Logger) *RosterHandler {
	return &RosterHandler{
		BaseHandler:   NewBaseHandler(logger),
		rosterService: rosterService,
	}
}

// CreateUser creates a user account
// @Summary Create a user
// @Description Create a user. A STUDENT role also creates the paired student record in the same transaction.
// @Tags roster
// @Accept json
// @Produce json
// @Param request body services.CreateUserRequest true "User data"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users [post]
func (h *RosterHandler) CreateUser(c *gin.Context) {
	h.LogRequest(c, "Creating user")

	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	user, err := h.rosterService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser returns a user by ID
// @Summary Get a user
// @Tags roster
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users/{id} [get]
func (h *RosterHandler) GetUser(c *gin.Context) {
	user, err := h.rosterService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers lists users with optional filtering
// @Summary List users
// @Tags roster
// @Produce json
// @Param role query string false "Filter by role (TEACHER, STUDENT, PARENT, ADMIN)"
// @Param q query string false "Search query (name or email)"
// @Success 200 {object} map[string]interface{} "User list response"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users [get]
func (h *RosterHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	var role *models.UserRole
	if value := c.Query("role"); value != "" {
		r := models.UserRole(value)
		role = &r
	}

	users, err := h.rosterService.ListUsers(c.Request.Context(), role, c.Query("q"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": len(users),
	})
}

// UpdateProfile updates the caller's editable profile fields
// @Summary Update profile
// @Description Update name, avatar or bio. Changes mirror onto the paired student record when one exists.
// @Tags roster
// @Accept json
// @Produce json
// @Param request body services.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users/me/profile [put]
func (h *RosterHandler) UpdateProfile(c *gin.Context) {
	h.LogRequest(c, "Updating profile")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	user, err := h.rosterService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetStudent returns a student by ID
// @Summary Get a student
// @Tags roster
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse "Student not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (h *RosterHandler) GetStudent(c *gin.Context) {
	student, err := h.rosterService.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// ListStudents lists every student
// @Summary List students
// @Tags roster
// @Produce json
// @Success 200 {object} map[string]interface{} "Student list response"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /students [get]
func (h *RosterHandler) ListStudents(c *gin.Context) {
	students, err := h.rosterService.ListStudents(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"students": students,
		"total":    len(students),
	})
}

// ListChildren lists the caller's children
// @Summary List children
// @Description List the students linked to the calling parent account
// @Tags roster
// @Produce json
// @Success 200 {object} map[string]interface{} "Children list response"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /students/children [get]
func (h *RosterHandler) ListChildren(c *gin.Context) {
	parentID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	children, err := h.rosterService.ListChildren(c.Request.Context(), parentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"students": children,
		"total":    len(children),
	})
}

// CreateSubject creates a subject
// @Summary Create a subject
// @Tags roster
// @Accept json
// @Produce json
// @Param request body services.CreateSubjectRequest true "Subject data"
// @Success 201 {object} models.Subject
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Teacher not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /subjects [post]
func (h *RosterHandler) CreateSubject(c *gin.Context) {
	h.LogRequest(c, "Creating subject")

	var req services.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	subject, err := h.rosterService.CreateSubject(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

// GetSubject returns a subject by ID
// @Summary Get a subject
// @Tags roster
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} models.Subject
// @Failure 404 {object} ErrorResponse "Subject not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /subjects/{id} [get]
func (h *RosterHandler) GetSubject(c *gin.Context) {
	subject, err := h.rosterService.GetSubject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

// ListSubjects lists subjects, optionally filtered by teacher
// @Summary List subjects
// @Tags roster
// @Produce json
// @Param teacher_id query string false "Filter by teacher"
// @Success 200 {object} map[string]interface{} "Subject list response"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /subjects [get]
func (h *RosterHandler) ListSubjects(c *gin.Context) {
	var (
		subjects []*models.Subject
		err      error
	)
	if teacherID := c.Query("teacher_id"); teacherID != "" {
		subjects, err = h.rosterService.ListSubjectsByTeacher(c.Request.Context(), teacherID)
	} else {
		subjects, err = h.rosterService.ListSubjects(c.Request.Context())
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subjects": subjects,
		"total":    len(subjects),
	})
}
