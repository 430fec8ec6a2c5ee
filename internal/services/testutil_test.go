package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/scholalink/school-service/internal/cache"
	"github.com/scholalink/school-service/internal/events"
	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
	"github.com/scholalink/school-service/internal/repositories/memory"
	"github.com/scholalink/school-service/internal/validator"
)

// testFixture bundles the shared service dependencies over an empty
// in-memory store.
type testFixture struct {
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	cache     *cache.CacheManager
	validator *validator.Validator
	logger    *slog.Logger
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testFixture{
		repo:      memory.NewRepository(),
		publisher: events.NewMockEventPublisher(logger),
		cache:     cache.NewCacheManager(nil),
		validator: validator.New(),
		logger:    logger,
	}
}

func (f *testFixture) addTeacher(t *testing.T, id, name string) *models.User {
	t.Helper()
	user := &models.User{ID: id, Name: name, Email: name + "@school.edu", Role: models.RoleTeacher}
	if err := f.repo.User().Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create teacher %s: %v", id, err)
	}
	return user
}

func (f *testFixture) addParent(t *testing.T, id, name string) *models.User {
	t.Helper()
	user := &models.User{ID: id, Name: name, Email: name + "@family.net", Role: models.RoleParent}
	if err := f.repo.User().Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create parent %s: %v", id, err)
	}
	return user
}

func (f *testFixture) addStudent(t *testing.T, id, name string, gradeLevel int, parentID *string) *models.Student {
	t.Helper()
	ctx := context.Background()
	student := &models.Student{
		User:       models.User{ID: id, Name: name, Email: name + "@school.edu", Role: models.RoleStudent},
		GradeLevel: gradeLevel,
		ParentID:   parentID,
	}
	if err := f.repo.User().Create(ctx, &student.User); err != nil {
		t.Fatalf("Failed to create user row for student %s: %v", id, err)
	}
	if err := f.repo.Student().Create(ctx, student); err != nil {
		t.Fatalf("Failed to create student %s: %v", id, err)
	}
	return student
}

func (f *testFixture) addSubject(t *testing.T, id, name, teacherID string, gradeLevel int) *models.Subject {
	t.Helper()
	subject := &models.Subject{
		ID:         id,
		Name:       name,
		TeacherID:  teacherID,
		Schedule:   "Mon, Wed 10:00 AM",
		Room:       "101",
		GradeLevel: gradeLevel,
	}
	if err := f.repo.Subject().Create(context.Background(), subject); err != nil {
		t.Fatalf("Failed to create subject %s: %v", id, err)
	}
	return subject
}

func (f *testFixture) addGrade(t *testing.T, studentID, subjectID, date string, score, maxScore float64, gradeType models.GradeType) *models.Grade {
	t.Helper()
	grade := &models.Grade{
		StudentID: studentID,
		SubjectID: subjectID,
		Date:      date,
		Score:     score,
		MaxScore:  maxScore,
		Type:      gradeType,
	}
	if err := f.repo.Grade().Save(context.Background(), grade); err != nil {
		t.Fatalf("Failed to save grade: %v", err)
	}
	return grade
}

func (f *testFixture) addAttendance(t *testing.T, studentID, subjectID, date string, status models.AttendanceStatus) *models.Attendance {
	t.Helper()
	record := &models.Attendance{
		StudentID: studentID,
		SubjectID: subjectID,
		Date:      date,
		Status:    status,
	}
	if err := f.repo.Attendance().Save(context.Background(), record); err != nil {
		t.Fatalf("Failed to save attendance: %v", err)
	}
	return record
}
