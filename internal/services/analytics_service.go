package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/scholalink/school-service/internal/cache"
	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
)

// atRiskThreshold is the average below which a student shows up on the
// at-risk list.
const atRiskThreshold = 70

// ===== SERVICE INTERFACE =====

type AnalyticsService interface {
	// StudentAverage returns the rounded mean percentage of a student's
	// grades, optionally restricted to one subject (empty = all). A
	// student with no grades averages 0.
	StudentAverage(ctx context.Context, studentID, subjectID string) (int, error)

	// ClassAverage returns the rounded mean percentage across every
	// grade record in a subject.
	ClassAverage(ctx context.Context, subjectID string) (int, error)

	GradeDistribution(ctx context.Context, subjectID string) (*GradeDistribution, error)
	AttendanceBreakdown(ctx context.Context, subjectID string) (*AttendanceBreakdown, error)

	// AtRiskStudents lists students with at least one grade in the
	// subject whose average fell below the risk threshold.
	AtRiskStudents(ctx context.Context, subjectID string) ([]*AtRiskStudent, error)

	// EnrolledStudents lists the students whose grade level matches the
	// subject's. Enrollment is derived, never stored.
	EnrolledStudents(ctx context.Context, subjectID string) ([]*models.Student, error)

	// ClassStats bundles the per-subject aggregations, served from the
	// stats cache when warm.
	ClassStats(ctx context.Context, subjectID string) (*ClassStatsResponse, error)
}

// ===== SERVICE IMPLEMENTATION =====

type analyticsService struct {
	repo   repositories.Repository
	cache  *cache.CacheManager
	logger *slog.Logger
}

func NewAnalyticsService(repo repositories.Repository, cacheManager *cache.CacheManager, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		cache:  cacheManager,
		logger: logger,
	}
}

// roundPercent rounds half-up, matching how every percentage in the
// product is displayed. Inputs are never negative.
func roundPercent(val float64) int {
	return int(val + 0.5)
}

func meanPercent(grades []*models.Grade) int {
	if len(grades) == 0 {
		return 0
	}
	total := 0.0
	for _, grade := range grades {
		total += grade.Percent()
	}
	return roundPercent(total / float64(len(grades)))
}

func (s *analyticsService) StudentAverage(ctx context.Context, studentID, subjectID string) (int, error) {
	grades, err := s.repo.Grade().List(ctx, repositories.GradeFilters{StudentID: studentID, SubjectID: subjectID})
	if err != nil {
		return 0, fmt.Errorf("failed to list grades: %w", err)
	}
	return meanPercent(grades), nil
}

func (s *analyticsService) ClassAverage(ctx context.Context, subjectID string) (int, error) {
	grades, err := s.repo.Grade().List(ctx, repositories.GradeFilters{SubjectID: subjectID})
	if err != nil {
		return 0, fmt.Errorf("failed to list grades: %w", err)
	}
	return meanPercent(grades), nil
}

func (s *analyticsService) GradeDistribution(ctx context.Context, subjectID string) (*GradeDistribution, error) {
	grades, err := s.repo.Grade().List(ctx, repositories.GradeFilters{SubjectID: subjectID})
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}

	dist := &GradeDistribution{}
	for _, grade := range grades {
		switch pct := grade.Percent(); {
		case pct >= 90:
			dist.A++
		case pct >= 80:
			dist.B++
		case pct >= 70:
			dist.C++
		case pct >= 60:
			dist.D++
		default:
			dist.F++
		}
	}
	return dist, nil
}

func (s *analyticsService) AttendanceBreakdown(ctx context.Context, subjectID string) (*AttendanceBreakdown, error) {
	records, err := s.repo.Attendance().ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	breakdown := &AttendanceBreakdown{Total: len(records)}
	for _, record := range records {
		switch record.Status {
		case models.AttendancePresent:
			breakdown.Present++
		case models.AttendanceAbsent:
			breakdown.Absent++
		case models.AttendanceLate:
			breakdown.Late++
		case models.AttendanceExcused:
			breakdown.Excused++
		}
	}
	if breakdown.Total > 0 {
		breakdown.Rate = roundPercent(float64(breakdown.Present) / float64(breakdown.Total) * 100)
	}
	return breakdown, nil
}

func (s *analyticsService) AtRiskStudents(ctx context.Context, subjectID string) ([]*AtRiskStudent, error) {
	grades, err := s.repo.Grade().List(ctx, repositories.GradeFilters{SubjectID: subjectID})
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}

	students, err := s.repo.Student().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	bySt := make(map[string][]*models.Grade)
	for _, grade := range grades {
		bySt[grade.StudentID] = append(bySt[grade.StudentID], grade)
	}

	atRisk := make([]*AtRiskStudent, 0)
	for _, student := range students {
		studentGrades := bySt[student.ID]
		// A student with no grades in the subject is unknown, not at risk.
		if len(studentGrades) == 0 {
			continue
		}
		if avg := meanPercent(studentGrades); avg < atRiskThreshold {
			atRisk = append(atRisk, &AtRiskStudent{Student: student, Average: avg})
		}
	}
	return atRisk, nil
}

func (s *analyticsService) EnrolledStudents(ctx context.Context, subjectID string) ([]*models.Student, error) {
	subject, err := s.repo.Subject().GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	students, err := s.repo.Student().ListByGradeLevel(ctx, subject.GradeLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *analyticsService) ClassStats(ctx context.Context, subjectID string) (*ClassStatsResponse, error) {
	var stats ClassStatsResponse
	cacheKey := fmt.Sprintf("subject:%s:class_stats", subjectID)

	err := s.cache.Stats.CacheOrExecute(ctx, cacheKey, &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.computeClassStats(ctx, subjectID)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *analyticsService) computeClassStats(ctx context.Context, subjectID string) (*ClassStatsResponse, error) {
	s.logger.Debug("Computing class stats", "subject_id", subjectID)

	average, err := s.ClassAverage(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	dist, err := s.GradeDistribution(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	attendance, err := s.AttendanceBreakdown(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	atRisk, err := s.AtRiskStudents(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.EnrolledStudents(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	return &ClassStatsResponse{
		SubjectID:     subjectID,
		ClassAverage:  average,
		Distribution:  *dist,
		Attendance:    *attendance,
		AtRisk:        atRisk,
		EnrolledCount: len(enrolled),
	}, nil
}
