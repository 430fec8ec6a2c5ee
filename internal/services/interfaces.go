package services

import (
	"context"

	"github.com/scholalink/school-service/internal/models"
)

// ===== SHARED RESPONSE DTOs =====

// GradeDistribution counts grade records per letter band. Each record
// counts once: A >= 90%, B >= 80%, C >= 70%, D >= 60%, F below.
type GradeDistribution struct {
	A int `json:"a"`
	B int `json:"b"`
	C int `json:"c"`
	D int `json:"d"`
	F int `json:"f"`
}

// AttendanceBreakdown summarizes a subject's attendance records. Rate is
// the rounded percentage of PRESENT records over all records, so LATE
// and EXCUSED count against it.
type AttendanceBreakdown struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Excused int `json:"excused"`
	Total   int `json:"total"`
	Rate    int `json:"rate"`
}

// AtRiskStudent is a student whose average in a subject fell below the
// risk threshold.
type AtRiskStudent struct {
	Student *models.Student `json:"student"`
	Average int             `json:"average"`
}

// ClassStatsResponse bundles every per-subject aggregation in one
// cacheable payload.
type ClassStatsResponse struct {
	SubjectID     string              `json:"subject_id"`
	ClassAverage  int                 `json:"class_average"`
	Distribution  GradeDistribution   `json:"distribution"`
	Attendance    AttendanceBreakdown `json:"attendance"`
	AtRisk        []*AtRiskStudent    `json:"at_risk"`
	EnrolledCount int                 `json:"enrolled_count"`
}

// ===== SERVICE MANAGER =====

// ServiceManager wires every service and owns their lifecycle.
type ServiceManager interface {
	Analytics() AnalyticsService
	Gradebook() GradebookService
	Attendance() AttendanceService
	Roster() RosterService
	Schedule() ScheduleService
	Messaging() MessagingService
	Dashboard() DashboardService
	Insight() InsightService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
