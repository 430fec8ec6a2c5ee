package services

import (
	"context"
	"errors"
	"testing"

	"github.com/scholalink/school-service/internal/events"
	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
)

func newGradebookFixture(t *testing.T) (*testFixture, GradebookService) {
	t.Helper()
	f := newTestFixture(t)
	service := NewGradebookService(f.repo, f.cache, f.publisher, f.logger, f.validator)

	f.addTeacher(t, "t1", "Teacher")
	f.addStudent(t, "st1", "Alex", 10, nil)
	f.addSubject(t, "sub1", "Mathematics", "t1", 10)
	return f, service
}

func TestGradebookService_UpsertGrade_Create(t *testing.T) {
	f, service := newGradebookFixture(t)
	ctx := context.Background()

	grade, err := service.UpsertGrade(ctx, &UpsertGradeRequest{
		StudentID: "st1",
		SubjectID: "sub1",
		Date:      "2023-11-01",
		Score:     95,
	})
	if err != nil {
		t.Fatalf("UpsertGrade failed: %v", err)
	}

	if grade.ID == "" {
		t.Error("Expected generated grade ID")
	}
	if grade.Type != models.GradeQuiz {
		t.Errorf("Expected quick-entry type QUIZ, got %s", grade.Type)
	}
	if grade.MaxScore != 100 {
		t.Errorf("Expected quick-entry max score 100, got %g", grade.MaxScore)
	}

	t.Run("NotificationCreated", func(t *testing.T) {
		notifications, err := f.repo.Notification().ListByUser(ctx, "st1")
		if err != nil {
			t.Fatalf("ListByUser failed: %v", err)
		}
		if len(notifications) != 1 {
			t.Fatalf("Expected 1 notification, got %d", len(notifications))
		}
		n := notifications[0]
		if n.Title != "New Grade: Mathematics" {
			t.Errorf("Unexpected title %q", n.Title)
		}
		if n.Message != "You received 95/100 on Quiz" {
			t.Errorf("Unexpected message %q", n.Message)
		}
		if n.Type != models.NotificationGrade {
			t.Errorf("Expected GRADE notification, got %s", n.Type)
		}
		if n.Read {
			t.Error("New notification must be unread")
		}
	})

	t.Run("EventPublished", func(t *testing.T) {
		published := f.publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.EventGradeUpserted {
			t.Errorf("Expected event type %s, got %s", events.EventGradeUpserted, published[0].Type)
		}
	})
}

func TestGradebookService_UpsertGrade_UpdateKeepsMetadata(t *testing.T) {
	f, service := newGradebookFixture(t)
	ctx := context.Background()

	title := "Bridge Building"
	feedback := "Strong work"
	// A project graded out of 50, not a quick-entry quiz.
	existing := &models.Grade{
		StudentID: "st1",
		SubjectID: "sub1",
		Date:      "2023-11-01",
		Score:     40,
		MaxScore:  50,
		Type:      models.GradeProject,
		Title:     &title,
		Feedback:  &feedback,
	}
	if err := f.repo.Grade().Save(ctx, existing); err != nil {
		t.Fatalf("Failed to seed grade: %v", err)
	}

	updated, err := service.UpsertGrade(ctx, &UpsertGradeRequest{
		StudentID: "st1",
		SubjectID: "sub1",
		Date:      "2023-11-01",
		Score:     45,
	})
	if err != nil {
		t.Fatalf("UpsertGrade failed: %v", err)
	}

	if updated.ID != existing.ID {
		t.Errorf("Expected update to keep identity %s, got %s", existing.ID, updated.ID)
	}
	if updated.Score != 45 {
		t.Errorf("Expected score 45, got %g", updated.Score)
	}
	if updated.Type != models.GradeProject {
		t.Errorf("Type must survive re-grading, got %s", updated.Type)
	}
	if updated.Title == nil || *updated.Title != title {
		t.Errorf("Title must survive re-grading, got %v", updated.Title)
	}
	if updated.Feedback == nil || *updated.Feedback != feedback {
		t.Errorf("Feedback must survive re-grading, got %v", updated.Feedback)
	}
	if updated.MaxScore != 50 {
		t.Errorf("MaxScore must survive re-grading, got %g", updated.MaxScore)
	}

	grades, err := f.repo.Grade().List(ctx, repositories.GradeFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(grades) != 1 {
		t.Errorf("Expected 1 stored grade after upsert, got %d", len(grades))
	}

	notifications, err := f.repo.Notification().ListByUser(ctx, "st1")
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifications))
	}
	if notifications[0].Message != "You received 45/50 on Project: Bridge Building" {
		t.Errorf("Unexpected message %q", notifications[0].Message)
	}
}

func TestGradebookService_UpsertGrade_InvalidScore(t *testing.T) {
	f, service := newGradebookFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		score float64
	}{
		{"Negative", -1},
		{"AboveMax", 101},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.UpsertGrade(ctx, &UpsertGradeRequest{
				StudentID: "st1",
				SubjectID: "sub1",
				Date:      "2023-11-01",
				Score:     tt.score,
			})
			if !errors.Is(err, ErrInvalidScore) {
				t.Errorf("Expected ErrInvalidScore, got %v", err)
			}
		})
	}

	// Nothing may be written on a rejected score.
	grades, err := f.repo.Grade().List(ctx, repositories.GradeFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(grades) != 0 {
		t.Errorf("Expected no grades after rejected upserts, got %d", len(grades))
	}
	notifications, err := f.repo.Notification().ListByUser(ctx, "st1")
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(notifications) != 0 {
		t.Errorf("Expected no notifications after rejected upserts, got %d", len(notifications))
	}
}

func TestGradebookService_UpsertGrade_UnknownStudent(t *testing.T) {
	_, service := newGradebookFixture(t)

	_, err := service.UpsertGrade(context.Background(), &UpsertGradeRequest{
		StudentID: "missing",
		SubjectID: "sub1",
		Date:      "2023-11-01",
		Score:     50,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGradebookService_UpsertGrade_InvalidDate(t *testing.T) {
	_, service := newGradebookFixture(t)

	_, err := service.UpsertGrade(context.Background(), &UpsertGradeRequest{
		StudentID: "st1",
		SubjectID: "sub1",
		Date:      "11/01/2023",
		Score:     50,
	})
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("Expected ErrValidationFailed for non ISO date, got %v", err)
	}
}

func TestGradebookService_GetGrade(t *testing.T) {
	f, service := newGradebookFixture(t)
	ctx := context.Background()

	grade := f.addGrade(t, "st1", "sub1", "2023-11-01", 80, 100, models.GradeQuiz)

	got, err := service.GetGrade(ctx, grade.ID)
	if err != nil {
		t.Fatalf("GetGrade failed: %v", err)
	}
	if got.ID != grade.ID || got.Score != 80 {
		t.Errorf("Unexpected grade: %+v", got)
	}

	if _, err := service.GetGrade(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
