package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/services"
	"github.com/scholalink/school-service/internal/utils"
)

type HandlerManager struct {
	analyticsHandler  *AnalyticsHandler
	gradebookHandler  *GradebookHandler
	attendanceHandler *AttendanceHandler
	rosterHandler     *RosterHandler
	scheduleHandler   *ScheduleHandler
	messagingHandler  *MessagingHandler
	dashboardHandler  *DashboardHandler
	insightHandler    *InsightHandler
	exportHandler     *ExportHandler

	serviceManager services.ServiceManager
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		analyticsHandler:  NewAnalyticsHandler(serviceManager.Analytics(), logger),
		gradebookHandler:  NewGradebookHandler(serviceManager.Gradebook(), logger),
		attendanceHandler: NewAttendanceHandler(serviceManager.Attendance(), logger),
		rosterHandler:     NewRosterHandler(serviceManager.Roster(), logger),
		scheduleHandler:   NewScheduleHandler(serviceManager.Schedule(), logger),
		messagingHandler:  NewMessagingHandler(serviceManager.Messaging(), logger),
		dashboardHandler:  NewDashboardHandler(serviceManager.Dashboard(), logger),
		insightHandler:    NewInsightHandler(serviceManager.Insight(), logger),
		exportHandler:     NewExportHandler(serviceManager.Export(), logger),
		serviceManager:    serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware()) // Apply authentication to all API routes
	{
		// User routes
		users := v1.Group("/users")
		{
			users.POST("", RequireRoleMiddleware(models.RoleAdmin), hm.rosterHandler.CreateUser)
			users.GET("", hm.rosterHandler.ListUsers)
			users.GET("/export", RequireRoleMiddleware(models.RoleAdmin), hm.exportHandler.GetUsersExport)
			users.PUT("/me/profile", hm.rosterHandler.UpdateProfile)
			users.GET("/:id", hm.rosterHandler.GetUser)
		}

		// Student routes
		students := v1.Group("/students")
		{
			students.GET("", RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.rosterHandler.ListStudents)
			students.GET("/children", RequireRoleMiddleware(models.RoleParent), hm.rosterHandler.ListChildren)
			students.GET("/:id", hm.rosterHandler.GetStudent)
			students.GET("/:id/average", hm.analyticsHandler.GetStudentAverage)
		}

		// Subject routes
		subjects := v1.Group("/subjects")
		{
			subjects.POST("", RequireRoleMiddleware(models.RoleAdmin), hm.rosterHandler.CreateSubject)
			subjects.GET("", hm.rosterHandler.ListSubjects)
			subjects.GET("/:id", hm.rosterHandler.GetSubject)
			subjects.GET("/:id/lessons", hm.scheduleHandler.ListLessons)
			subjects.GET("/:id/assignments", hm.scheduleHandler.ListAssignments)
			subjects.GET("/:id/students", hm.analyticsHandler.GetEnrolledStudents)

			// Analytics - Teachers and Admins only
			subjects.GET("/:id/stats", RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.analyticsHandler.GetClassStats)
			subjects.GET("/:id/average", RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.analyticsHandler.GetClassAverage)
			subjects.GET("/:id/distribution", RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.analyticsHandler.GetGradeDistribution)
			subjects.GET("/:id/attendance-breakdown", RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.analyticsHandler.GetAttendanceBreakdown)
			subjects.GET("/:id/at-risk", RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.analyticsHandler.GetAtRiskStudents)
			subjects.GET("/:id/report", RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.exportHandler.GetClassReport)
		}

		// Gradebook routes
		grades := v1.Group("/grades")
		{
			grades.POST("", RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.gradebookHandler.UpsertGrade)
			grades.GET("", hm.gradebookHandler.ListGrades)
			grades.GET("/:id", hm.gradebookHandler.GetGrade)
		}

		// Attendance routes
		attendance := v1.Group("/attendance")
		{
			attendance.POST("", RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.attendanceHandler.UpsertAttendance)
			attendance.GET("", hm.attendanceHandler.ListAttendance)
		}

		// Schedule routes
		lessons := v1.Group("/lessons")
		{
			lessons.POST("", RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.scheduleHandler.CreateLesson)
		}
		assignments := v1.Group("/assignments")
		{
			assignments.GET("/:id", hm.scheduleHandler.GetAssignment)
			assignments.PUT("/:id/status", RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.scheduleHandler.SetAssignmentStatus)
		}

		// Messaging routes
		messages := v1.Group("/messages")
		{
			messages.POST("", hm.messagingHandler.SendMessage)
			messages.PUT("/:id/read", hm.messagingHandler.MarkMessageRead)
		}
		v1.GET("/conversations/:user_id", hm.messagingHandler.GetConversation)

		// Notification routes
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", hm.messagingHandler.ListNotifications)
			notifications.GET("/unread-count", hm.messagingHandler.UnreadNotificationCount)
			notifications.PUT("/:id/read", hm.messagingHandler.MarkNotificationRead)
		}

		// Dashboard route
		v1.GET("/dashboard", hm.dashboardHandler.GetDashboard)

		// Insight routes
		insights := v1.Group("/insights")
		{
			insights.GET("/students/:id", hm.insightHandler.GetStudentInsight)
			insights.POST("/lesson-idea", RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.insightHandler.GetLessonPlanIdea)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "school-service",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "school-service",
		})
	})
}
