package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
)

func TestRepository_CopySemantics(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	user := &models.User{ID: "u1", Name: "Sarah", Email: "sarah@school.edu", Role: models.RoleTeacher}
	if err := repo.User().Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Mutating the caller's struct after Create must not leak into the store.
	user.Name = "Changed"

	stored, err := repo.User().GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Name != "Sarah" {
		t.Errorf("Store aliased caller memory: got %q", stored.Name)
	}

	// Mutating a read result must not leak either.
	stored.Name = "Changed again"
	again, err := repo.User().GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if again.Name != "Sarah" {
		t.Errorf("Read result aliased store memory: got %q", again.Name)
	}
}

func TestRepository_GeneratesIDs(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	grade := &models.Grade{StudentID: "st1", SubjectID: "sub1", Date: "2023-10-01", Score: 80, MaxScore: 100, Type: models.GradeQuiz}
	if err := repo.Grade().Save(ctx, grade); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if grade.ID == "" {
		t.Error("Expected Save to assign an ID")
	}

	// A caller-provided ID is kept.
	lesson := &models.Lesson{ID: "l1", SubjectID: "sub1", Date: "2023-10-01", Topic: "Intro", Status: models.LessonPlanned}
	if err := repo.Lesson().Create(ctx, lesson); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if lesson.ID != "l1" {
		t.Errorf("Expected provided ID to survive, got %q", lesson.ID)
	}
}

func TestRepository_GetByEmail_CaseInsensitive(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	if err := repo.User().Create(ctx, &models.User{ID: "u1", Name: "Sarah", Email: "Sarah.Wilson@school.edu", Role: models.RoleTeacher}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	user, err := repo.User().GetByEmail(ctx, "sarah.wilson@SCHOOL.EDU")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("Expected u1, got %s", user.ID)
	}

	if _, err := repo.User().GetByEmail(ctx, "nobody@school.edu"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRepository_WithTransaction(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	t.Run("WritesVisibleAfterCommit", func(t *testing.T) {
		err := repo.WithTransaction(ctx, func(tx repositories.Repository) error {
			user := models.User{ID: "u1", Name: "Alex", Email: "alex@school.edu", Role: models.RoleStudent}
			if err := tx.User().Create(ctx, &user); err != nil {
				return err
			}
			return tx.Student().Create(ctx, &models.Student{User: user, GradeLevel: 10})
		})
		if err != nil {
			t.Fatalf("WithTransaction failed: %v", err)
		}
		if _, err := repo.User().GetByID(ctx, "u1"); err != nil {
			t.Errorf("User not visible after commit: %v", err)
		}
		if _, err := repo.Student().GetByID(ctx, "u1"); err != nil {
			t.Errorf("Student not visible after commit: %v", err)
		}
	})

	t.Run("ReadsInsideTransaction", func(t *testing.T) {
		err := repo.WithTransaction(ctx, func(tx repositories.Repository) error {
			if err := tx.User().Create(ctx, &models.User{ID: "u2", Name: "Martha", Email: "martha@family.net", Role: models.RoleParent}); err != nil {
				return err
			}
			// A write earlier in the transaction is readable later in it.
			user, err := tx.User().GetByID(ctx, "u2")
			if err != nil {
				return err
			}
			if user.Name != "Martha" {
				return fmt.Errorf("unexpected name %q", user.Name)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WithTransaction failed: %v", err)
		}
	})

	t.Run("ErrorPropagates", func(t *testing.T) {
		sentinel := errors.New("boom")
		err := repo.WithTransaction(ctx, func(tx repositories.Repository) error {
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Errorf("Expected sentinel error, got %v", err)
		}
	})
}

func TestRepository_ConcurrentWrites(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := &models.User{
				ID:    fmt.Sprintf("u%d", i),
				Name:  fmt.Sprintf("User %d", i),
				Email: fmt.Sprintf("user%d@school.edu", i),
				Role:  models.RoleStudent,
			}
			if err := repo.User().Create(ctx, user); err != nil {
				t.Errorf("Create failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	users, err := repo.User().List(ctx, repositories.UserFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 20 {
		t.Errorf("Expected 20 users, got %d", len(users))
	}
}

func TestRepositoryManager_SeedsDemoData(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	manager := NewRepositoryManager(ManagerConfig{Logger: logger, SeedDemoData: true})
	if err := manager.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	repo := manager.GetRepository()
	ctx := context.Background()

	students, err := repo.Student().List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(students) == 0 {
		t.Error("Expected seeded students")
	}

	subjects, err := repo.Subject().List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(subjects) == 0 {
		t.Error("Expected seeded subjects")
	}

	// Every seeded student has a matching user row.
	for _, student := range students {
		if _, err := repo.User().GetByID(ctx, student.ID); err != nil {
			t.Errorf("Student %s has no paired user row: %v", student.ID, err)
		}
	}
}

func TestRepositoryManager_SkipsSeedWhenDisabled(t *testing.T) {
	manager := NewRepositoryManager(ManagerConfig{SeedDemoData: false})
	if err := manager.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	users, err := manager.GetRepository().User().List(context.Background(), repositories.UserFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Expected empty store, got %d users", len(users))
	}
}
