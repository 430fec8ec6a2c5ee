package services

import (
	"context"
	"errors"
	"testing"

	"github.com/scholalink/school-service/internal/models"
)

func newAnalyticsFixture(t *testing.T) (*testFixture, AnalyticsService) {
	t.Helper()
	f := newTestFixture(t)
	return f, NewAnalyticsService(f.repo, f.cache, f.logger)
}

func TestAnalyticsService_StudentAverage(t *testing.T) {
	f, service := newAnalyticsFixture(t)
	ctx := context.Background()

	f.addTeacher(t, "t1", "Teacher")
	f.addStudent(t, "st1", "Alex", 10, nil)
	f.addSubject(t, "sub1", "Mathematics", "t1", 10)
	f.addSubject(t, "sub2", "Physics", "t1", 10)

	f.addGrade(t, "st1", "sub1", "2023-10-01", 85, 100, models.GradeQuiz)
	f.addGrade(t, "st1", "sub1", "2023-10-08", 92, 100, models.GradeExam)
	f.addGrade(t, "st1", "sub1", "2023-10-15", 78, 100, models.GradeHomework)
	f.addGrade(t, "st1", "sub2", "2023-10-01", 40, 100, models.GradeQuiz)

	t.Run("SingleSubject", func(t *testing.T) {
		average, err := service.StudentAverage(ctx, "st1", "sub1")
		if err != nil {
			t.Fatalf("StudentAverage failed: %v", err)
		}
		// mean(85, 92, 78) = 85
		if average != 85 {
			t.Errorf("Expected average 85, got %d", average)
		}
	})

	t.Run("AllSubjects", func(t *testing.T) {
		average, err := service.StudentAverage(ctx, "st1", "")
		if err != nil {
			t.Fatalf("StudentAverage failed: %v", err)
		}
		// mean(85, 92, 78, 40) = 73.75, rounds to 74
		if average != 74 {
			t.Errorf("Expected average 74, got %d", average)
		}
	})

	t.Run("WeightedByPercentage", func(t *testing.T) {
		f.addStudent(t, "st2", "Maria", 10, nil)
		// 45/50 is 90%, 30/40 is 75%; mean of percentages is 82.5,
		// rounds half-up to 83.
		f.addGrade(t, "st2", "sub1", "2023-10-01", 45, 50, models.GradeQuiz)
		f.addGrade(t, "st2", "sub1", "2023-10-08", 30, 40, models.GradeHomework)

		average, err := service.StudentAverage(ctx, "st2", "sub1")
		if err != nil {
			t.Fatalf("StudentAverage failed: %v", err)
		}
		if average != 83 {
			t.Errorf("Expected average 83, got %d", average)
		}
	})

	t.Run("NoGrades", func(t *testing.T) {
		f.addStudent(t, "st3", "Noah", 10, nil)
		average, err := service.StudentAverage(ctx, "st3", "sub1")
		if err != nil {
			t.Fatalf("StudentAverage failed: %v", err)
		}
		if average != 0 {
			t.Errorf("Expected average 0 for student with no grades, got %d", average)
		}
	})
}

func TestAnalyticsService_ClassAverage(t *testing.T) {
	f, service := newAnalyticsFixture(t)
	ctx := context.Background()

	f.addTeacher(t, "t1", "Teacher")
	f.addStudent(t, "st1", "Alex", 10, nil)
	f.addStudent(t, "st2", "Maria", 10, nil)
	f.addSubject(t, "sub1", "Mathematics", "t1", 10)

	f.addGrade(t, "st1", "sub1", "2023-10-01", 80, 100, models.GradeQuiz)
	f.addGrade(t, "st2", "sub1", "2023-10-01", 90, 100, models.GradeQuiz)
	f.addGrade(t, "st2", "sub1", "2023-10-08", 70, 100, models.GradeHomework)

	average, err := service.ClassAverage(ctx, "sub1")
	if err != nil {
		t.Fatalf("ClassAverage failed: %v", err)
	}
	if average != 80 {
		t.Errorf("Expected class average 80, got %d", average)
	}

	t.Run("EmptySubject", func(t *testing.T) {
		f.addSubject(t, "sub2", "Physics", "t1", 10)
		average, err := service.ClassAverage(ctx, "sub2")
		if err != nil {
			t.Fatalf("ClassAverage failed: %v", err)
		}
		if average != 0 {
			t.Errorf("Expected 0 for subject with no grades, got %d", average)
		}
	})
}

func TestAnalyticsService_GradeDistribution(t *testing.T) {
	f, service := newAnalyticsFixture(t)
	ctx := context.Background()

	f.addTeacher(t, "t1", "Teacher")
	f.addStudent(t, "st1", "Alex", 10, nil)
	f.addSubject(t, "sub1", "Mathematics", "t1", 10)

	// One record right on each band boundary plus one just below it.
	scores := []float64{90, 89, 80, 79, 70, 69, 60, 59}
	for i, score := range scores {
		date := "2023-10-0" + string(rune('1'+i))
		f.addGrade(t, "st1", "sub1", date, score, 100, models.GradeQuiz)
	}

	distribution, err := service.GradeDistribution(ctx, "sub1")
	if err != nil {
		t.Fatalf("GradeDistribution failed: %v", err)
	}

	if distribution.A != 1 {
		t.Errorf("Expected 1 A (90), got %d", distribution.A)
	}
	if distribution.B != 2 {
		t.Errorf("Expected 2 Bs (89, 80), got %d", distribution.B)
	}
	if distribution.C != 2 {
		t.Errorf("Expected 2 Cs (79, 70), got %d", distribution.C)
	}
	if distribution.D != 2 {
		t.Errorf("Expected 2 Ds (69, 60), got %d", distribution.D)
	}
	if distribution.F != 1 {
		t.Errorf("Expected 1 F (59), got %d", distribution.F)
	}
}

func TestAnalyticsService_AttendanceBreakdown(t *testing.T) {
	f, service := newAnalyticsFixture(t)
	ctx := context.Background()

	f.addTeacher(t, "t1", "Teacher")
	f.addStudent(t, "st1", "Alex", 10, nil)
	f.addStudent(t, "st2", "Maria", 10, nil)
	f.addSubject(t, "sub1", "Mathematics", "t1", 10)

	f.addAttendance(t, "st1", "sub1", "2023-10-01", models.AttendancePresent)
	f.addAttendance(t, "st2", "sub1", "2023-10-01", models.AttendancePresent)
	f.addAttendance(t, "st1", "sub1", "2023-10-02", models.AttendanceAbsent)

	breakdown, err := service.AttendanceBreakdown(ctx, "sub1")
	if err != nil {
		t.Fatalf("AttendanceBreakdown failed: %v", err)
	}

	if breakdown.Present != 2 || breakdown.Absent != 1 || breakdown.Late != 0 || breakdown.Excused != 0 {
		t.Errorf("Unexpected counts: %+v", breakdown)
	}
	if breakdown.Total != 3 {
		t.Errorf("Expected total 3, got %d", breakdown.Total)
	}
	// 2/3 = 66.67%, rounds to 67
	if breakdown.Rate != 67 {
		t.Errorf("Expected rate 67, got %d", breakdown.Rate)
	}

	t.Run("LateCountsAgainstRate", func(t *testing.T) {
		f.addAttendance(t, "st2", "sub1", "2023-10-02", models.AttendanceLate)
		breakdown, err := service.AttendanceBreakdown(ctx, "sub1")
		if err != nil {
			t.Fatalf("AttendanceBreakdown failed: %v", err)
		}
		// 2 PRESENT of 4 records.
		if breakdown.Rate != 50 {
			t.Errorf("Expected rate 50, got %d", breakdown.Rate)
		}
	})
}

func TestAnalyticsService_AtRiskStudents(t *testing.T) {
	f, service := newAnalyticsFixture(t)
	ctx := context.Background()

	f.addTeacher(t, "t1", "Teacher")
	f.addSubject(t, "sub1", "Mathematics", "t1", 10)

	f.addStudent(t, "st1", "Alex", 10, nil)
	f.addStudent(t, "st2", "Maria", 10, nil)
	f.addStudent(t, "st3", "Noah", 10, nil)

	f.addGrade(t, "st1", "sub1", "2023-10-01", 65, 100, models.GradeQuiz)
	f.addGrade(t, "st2", "sub1", "2023-10-01", 85, 100, models.GradeQuiz)
	// st3 has no grades and must not appear.

	atRisk, err := service.AtRiskStudents(ctx, "sub1")
	if err != nil {
		t.Fatalf("AtRiskStudents failed: %v", err)
	}

	if len(atRisk) != 1 {
		t.Fatalf("Expected 1 at-risk student, got %d", len(atRisk))
	}
	if atRisk[0].Student.ID != "st1" {
		t.Errorf("Expected st1 at risk, got %s", atRisk[0].Student.ID)
	}
	if atRisk[0].Average != 65 {
		t.Errorf("Expected average 65, got %d", atRisk[0].Average)
	}

	t.Run("ThresholdIsExclusive", func(t *testing.T) {
		f.addStudent(t, "st4", "Lena", 10, nil)
		f.addGrade(t, "st4", "sub1", "2023-10-01", 70, 100, models.GradeQuiz)

		atRisk, err := service.AtRiskStudents(ctx, "sub1")
		if err != nil {
			t.Fatalf("AtRiskStudents failed: %v", err)
		}
		for _, entry := range atRisk {
			if entry.Student.ID == "st4" {
				t.Errorf("Student at exactly 70 must not be at risk")
			}
		}
	})
}

func TestAnalyticsService_EnrolledStudents(t *testing.T) {
	f, service := newAnalyticsFixture(t)
	ctx := context.Background()

	f.addTeacher(t, "t1", "Teacher")
	f.addSubject(t, "sub1", "Mathematics", "t1", 10)
	f.addStudent(t, "st1", "Alex", 10, nil)
	f.addStudent(t, "st2", "Maria", 10, nil)
	f.addStudent(t, "st3", "Noah", 11, nil)

	students, err := service.EnrolledStudents(ctx, "sub1")
	if err != nil {
		t.Fatalf("EnrolledStudents failed: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("Expected 2 enrolled students, got %d", len(students))
	}
	for _, student := range students {
		if student.GradeLevel != 10 {
			t.Errorf("Student %s has grade level %d, expected 10", student.ID, student.GradeLevel)
		}
	}

	t.Run("UnknownSubject", func(t *testing.T) {
		_, err := service.EnrolledStudents(ctx, "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestAnalyticsService_ClassStats(t *testing.T) {
	f, service := newAnalyticsFixture(t)
	ctx := context.Background()

	f.addTeacher(t, "t1", "Teacher")
	f.addSubject(t, "sub1", "Mathematics", "t1", 10)
	f.addStudent(t, "st1", "Alex", 10, nil)
	f.addStudent(t, "st2", "Maria", 10, nil)

	f.addGrade(t, "st1", "sub1", "2023-10-01", 95, 100, models.GradeQuiz)
	f.addGrade(t, "st2", "sub1", "2023-10-01", 55, 100, models.GradeQuiz)
	f.addAttendance(t, "st1", "sub1", "2023-10-01", models.AttendancePresent)

	stats, err := service.ClassStats(ctx, "sub1")
	if err != nil {
		t.Fatalf("ClassStats failed: %v", err)
	}

	if stats.SubjectID != "sub1" {
		t.Errorf("Expected subject sub1, got %s", stats.SubjectID)
	}
	if stats.ClassAverage != 75 {
		t.Errorf("Expected class average 75, got %d", stats.ClassAverage)
	}
	if stats.Distribution.A != 1 || stats.Distribution.F != 1 {
		t.Errorf("Unexpected distribution: %+v", stats.Distribution)
	}
	if stats.EnrolledCount != 2 {
		t.Errorf("Expected 2 enrolled, got %d", stats.EnrolledCount)
	}
	if len(stats.AtRisk) != 1 || stats.AtRisk[0].Student.ID != "st2" {
		t.Errorf("Expected st2 at risk, got %+v", stats.AtRisk)
	}
	if stats.Attendance.Rate != 100 {
		t.Errorf("Expected attendance rate 100, got %d", stats.Attendance.Rate)
	}
}
