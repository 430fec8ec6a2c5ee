package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
)

// ===== RESPONSE DTOs =====

// DashboardResponse is role-shaped: exactly one of the role sections is
// populated, matching the Role field.
type DashboardResponse struct {
	Role    models.UserRole   `json:"role"`
	Teacher *TeacherDashboard `json:"teacher,omitempty"`
	Student *StudentDashboard `json:"student,omitempty"`
	Parent  *ParentDashboard  `json:"parent,omitempty"`
	Admin   *AdminDashboard   `json:"admin,omitempty"`
}

type TeacherDashboard struct {
	Subjects []TeacherSubjectSummary `json:"subjects"`
}

type TeacherSubjectSummary struct {
	Subject       *models.Subject `json:"subject"`
	ClassAverage  int             `json:"class_average"`
	EnrolledCount int             `json:"enrolled_count"`
	AtRiskCount   int             `json:"at_risk_count"`
}

type StudentDashboard struct {
	OverallAverage      int                     `json:"overall_average"`
	AttendanceRate      int                     `json:"attendance_rate"`
	Subjects            []StudentSubjectSummary `json:"subjects"`
	OpenAssignments     int                     `json:"open_assignments"`
	UnreadNotifications int                     `json:"unread_notifications"`
}

type StudentSubjectSummary struct {
	Subject *models.Subject `json:"subject"`
	Average int             `json:"average"`
}

type ParentDashboard struct {
	Children []ChildSummary `json:"children"`
}

type ChildSummary struct {
	Student        *models.Student `json:"student"`
	OverallAverage int             `json:"overall_average"`
	AttendanceRate int             `json:"attendance_rate"`
}

type AdminDashboard struct {
	TotalStudents int `json:"total_students"`
	TotalTeachers int `json:"total_teachers"`
	TotalParents  int `json:"total_parents"`
	TotalSubjects int `json:"total_subjects"`
}

// ===== SERVICE INTERFACE =====

type DashboardService interface {
	// GetDashboard assembles the landing view for a user based on their
	// role.
	GetDashboard(ctx context.Context, userID string) (*DashboardResponse, error)
}

// ===== SERVICE IMPLEMENTATION =====

type dashboardService struct {
	repo      repositories.Repository
	analytics AnalyticsService
	logger    *slog.Logger
}

func NewDashboardService(repo repositories.Repository, analytics AnalyticsService, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:      repo,
		analytics: analytics,
		logger:    logger,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, userID string) (*DashboardResponse, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	response := &DashboardResponse{Role: user.Role}

	switch user.Role {
	case models.RoleTeacher:
		response.Teacher, err = s.teacherDashboard(ctx, userID)
	case models.RoleStudent:
		response.Student, err = s.studentDashboard(ctx, userID)
	case models.RoleParent:
		response.Parent, err = s.parentDashboard(ctx, userID)
	case models.RoleAdmin:
		response.Admin, err = s.adminDashboard(ctx)
	default:
		return nil, fmt.Errorf("unhandled role %q for user %s", user.Role, userID)
	}
	if err != nil {
		return nil, err
	}

	return response, nil
}

func (s *dashboardService) teacherDashboard(ctx context.Context, teacherID string) (*TeacherDashboard, error) {
	subjects, err := s.repo.Subject().ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}

	summaries := make([]TeacherSubjectSummary, 0, len(subjects))
	for _, subject := range subjects {
		stats, err := s.analytics.ClassStats(ctx, subject.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, TeacherSubjectSummary{
			Subject:       subject,
			ClassAverage:  stats.ClassAverage,
			EnrolledCount: stats.EnrolledCount,
			AtRiskCount:   len(stats.AtRisk),
		})
	}
	return &TeacherDashboard{Subjects: summaries}, nil
}

func (s *dashboardService) studentDashboard(ctx context.Context, studentID string) (*StudentDashboard, error) {
	student, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: student %s", ErrNotFound, studentID)
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	overall, err := s.analytics.StudentAverage(ctx, studentID, "")
	if err != nil {
		return nil, err
	}

	subjects, err := s.repo.Subject().ListByGradeLevel(ctx, student.GradeLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}

	summaries := make([]StudentSubjectSummary, 0, len(subjects))
	openAssignments := 0
	for _, subject := range subjects {
		average, err := s.analytics.StudentAverage(ctx, studentID, subject.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, StudentSubjectSummary{Subject: subject, Average: average})

		assignments, err := s.repo.Assignment().ListBySubject(ctx, subject.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list assignments: %w", err)
		}
		for _, assignment := range assignments {
			if assignment.Status == models.AssignmentOpen {
				openAssignments++
			}
		}
	}

	rate, err := s.studentAttendanceRate(ctx, studentID)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.Notification().CountUnread(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	return &StudentDashboard{
		OverallAverage:      overall,
		AttendanceRate:      rate,
		Subjects:            summaries,
		OpenAssignments:     openAssignments,
		UnreadNotifications: unread,
	}, nil
}

func (s *dashboardService) parentDashboard(ctx context.Context, parentID string) (*ParentDashboard, error) {
	children, err := s.repo.Student().ListByParent(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}

	summaries := make([]ChildSummary, 0, len(children))
	for _, child := range children {
		average, err := s.analytics.StudentAverage(ctx, child.ID, "")
		if err != nil {
			return nil, err
		}
		rate, err := s.studentAttendanceRate(ctx, child.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ChildSummary{Student: child, OverallAverage: average, AttendanceRate: rate})
	}
	return &ParentDashboard{Children: summaries}, nil
}

func (s *dashboardService) adminDashboard(ctx context.Context) (*AdminDashboard, error) {
	users, err := s.repo.User().List(ctx, repositories.UserFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	subjects, err := s.repo.Subject().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}

	dashboard := &AdminDashboard{TotalSubjects: len(subjects)}
	for _, user := range users {
		switch user.Role {
		case models.RoleStudent:
			dashboard.TotalStudents++
		case models.RoleTeacher:
			dashboard.TotalTeachers++
		case models.RoleParent:
			dashboard.TotalParents++
		}
	}
	return dashboard, nil
}

func (s *dashboardService) studentAttendanceRate(ctx context.Context, studentID string) (int, error) {
	records, err := s.repo.Attendance().ListByStudent(ctx, studentID)
	if err != nil {
		return 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}
	present := 0
	for _, record := range records {
		if record.Status == models.AttendancePresent {
			present++
		}
	}
	return roundPercent(float64(present) / float64(len(records)) * 100), nil
}
