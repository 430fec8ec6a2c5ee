package services

import (
	"context"
	"errors"
	"testing"

	"github.com/scholalink/school-service/internal/models"
)

func newDashboardFixture(t *testing.T) (*testFixture, DashboardService) {
	t.Helper()
	f := newTestFixture(t)
	analytics := NewAnalyticsService(f.repo, f.cache, f.logger)
	service := NewDashboardService(f.repo, analytics, f.logger)

	f.addTeacher(t, "t1", "Sarah")
	f.addParent(t, "p1", "Martha")
	f.addStudent(t, "st1", "Alex", 10, strPtr("p1"))
	f.addSubject(t, "sub1", "Mathematics", "t1", 10)
	f.addGrade(t, "st1", "sub1", "2023-10-01", 80, 100, models.GradeQuiz)
	f.addAttendance(t, "st1", "sub1", "2023-10-01", models.AttendancePresent)
	return f, service
}

func TestDashboardService_RoleDispatch(t *testing.T) {
	_, service := newDashboardFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		userID string
		role   models.UserRole
		check  func(t *testing.T, resp *DashboardResponse)
	}{
		{
			name:   "Teacher",
			userID: "t1",
			role:   models.RoleTeacher,
			check: func(t *testing.T, resp *DashboardResponse) {
				if resp.Teacher == nil {
					t.Fatal("Expected teacher section")
				}
				if len(resp.Teacher.Subjects) != 1 {
					t.Fatalf("Expected 1 subject, got %d", len(resp.Teacher.Subjects))
				}
				summary := resp.Teacher.Subjects[0]
				if summary.ClassAverage != 80 || summary.EnrolledCount != 1 {
					t.Errorf("Unexpected summary: %+v", summary)
				}
			},
		},
		{
			name:   "Student",
			userID: "st1",
			role:   models.RoleStudent,
			check: func(t *testing.T, resp *DashboardResponse) {
				if resp.Student == nil {
					t.Fatal("Expected student section")
				}
				if resp.Student.OverallAverage != 80 {
					t.Errorf("Expected overall average 80, got %d", resp.Student.OverallAverage)
				}
				if resp.Student.AttendanceRate != 100 {
					t.Errorf("Expected attendance rate 100, got %d", resp.Student.AttendanceRate)
				}
			},
		},
		{
			name:   "Parent",
			userID: "p1",
			role:   models.RoleParent,
			check: func(t *testing.T, resp *DashboardResponse) {
				if resp.Parent == nil {
					t.Fatal("Expected parent section")
				}
				if len(resp.Parent.Children) != 1 || resp.Parent.Children[0].Student.ID != "st1" {
					t.Fatalf("Expected one child st1, got %+v", resp.Parent.Children)
				}
				if resp.Parent.Children[0].OverallAverage != 80 {
					t.Errorf("Expected child average 80, got %d", resp.Parent.Children[0].OverallAverage)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := service.GetDashboard(ctx, tt.userID)
			if err != nil {
				t.Fatalf("GetDashboard failed: %v", err)
			}
			if resp.Role != tt.role {
				t.Errorf("Expected role %s, got %s", tt.role, resp.Role)
			}

			// Exactly one role section may be populated.
			sections := 0
			for _, populated := range []bool{resp.Teacher != nil, resp.Student != nil, resp.Parent != nil, resp.Admin != nil} {
				if populated {
					sections++
				}
			}
			if sections != 1 {
				t.Errorf("Expected exactly 1 populated section, got %d", sections)
			}

			tt.check(t, resp)
		})
	}
}

func TestDashboardService_Admin(t *testing.T) {
	f, service := newDashboardFixture(t)
	ctx := context.Background()

	admin := &models.User{ID: "a1", Name: "Principal", Email: "principal@school.edu", Role: models.RoleAdmin}
	if err := f.repo.User().Create(ctx, admin); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp, err := service.GetDashboard(ctx, "a1")
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	if resp.Admin == nil {
		t.Fatal("Expected admin section")
	}
	if resp.Admin.TotalStudents != 1 || resp.Admin.TotalTeachers != 1 || resp.Admin.TotalParents != 1 {
		t.Errorf("Unexpected role totals: %+v", resp.Admin)
	}
	if resp.Admin.TotalSubjects != 1 {
		t.Errorf("Expected 1 subject, got %d", resp.Admin.TotalSubjects)
	}
}

func TestDashboardService_UnknownUser(t *testing.T) {
	_, service := newDashboardFixture(t)

	_, err := service.GetDashboard(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
