package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/scholalink/school-service/internal/cache"
	"github.com/scholalink/school-service/internal/events"
	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
	"github.com/scholalink/school-service/internal/validator"
)

// ===== REQUEST DTOs =====

type UpsertGradeRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	SubjectID string  `json:"subject_id" validate:"required"`
	Date      string  `json:"date" validate:"required,dateonly"`
	Score     float64 `json:"score"`
}

type GradeUpsertedEvent struct {
	GradeID   string  `json:"grade_id"`
	StudentID string  `json:"student_id"`
	SubjectID string  `json:"subject_id"`
	Date      string  `json:"date"`
	Score     float64 `json:"score"`
	MaxScore  float64 `json:"max_score"`
	Created   bool    `json:"created"`
}

// ===== SERVICE INTERFACE =====

type GradebookService interface {
	// UpsertGrade records a score for (student, subject, date). An
	// existing record for that key keeps its identity and metadata and
	// only the score changes; otherwise a new quick-entry grade is
	// created (QUIZ out of 100).
	UpsertGrade(ctx context.Context, req *UpsertGradeRequest) (*models.Grade, error)

	GetGrade(ctx context.Context, id string) (*models.Grade, error)
	ListGrades(ctx context.Context, studentID, subjectID string) ([]*models.Grade, error)
}

// ===== SERVICE IMPLEMENTATION =====

type gradebookService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewGradebookService(repo repositories.Repository, cacheManager *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) GradebookService {
	return &gradebookService{
		repo:      repo,
		cache:     cacheManager,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *gradebookService) UpsertGrade(ctx context.Context, req *UpsertGradeRequest) (*models.Grade, error) {
	if verrs := s.validator.Validate(req); len(verrs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, verrs.Error())
	}

	if _, err := s.repo.Student().GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: student %s", ErrNotFound, req.StudentID)
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	subject, err := s.repo.Subject().GetByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: subject %s", ErrNotFound, req.SubjectID)
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	var saved *models.Grade
	var created bool

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		existing, err := tx.Grade().GetByKey(ctx, req.StudentID, req.SubjectID, req.Date)
		switch {
		case err == nil:
			if req.Score < 0 || req.Score > existing.MaxScore {
				return fmt.Errorf("%w: %.1f not in [0, %.1f]", ErrInvalidScore, req.Score, existing.MaxScore)
			}
			// Only the score moves; type, title and feedback survive
			// re-grading.
			existing.Score = req.Score
			saved = existing
		case errors.Is(err, repositories.ErrNotFound):
			if req.Score < 0 || req.Score > quickEntryMaxScore {
				return fmt.Errorf("%w: %.1f not in [0, %.1f]", ErrInvalidScore, req.Score, float64(quickEntryMaxScore))
			}
			created = true
			saved = &models.Grade{
				StudentID: req.StudentID,
				SubjectID: req.SubjectID,
				Score:     req.Score,
				MaxScore:  quickEntryMaxScore,
				Type:      models.GradeQuiz,
				Date:      req.Date,
			}
		default:
			return fmt.Errorf("failed to look up grade: %w", err)
		}

		if err := tx.Grade().Save(ctx, saved); err != nil {
			return fmt.Errorf("failed to save grade: %w", err)
		}

		notification := &models.Notification{
			UserID:  req.StudentID,
			Title:   fmt.Sprintf("New Grade: %s", subject.Name),
			Message: fmt.Sprintf("You received %g/%g on %s", saved.Score, saved.MaxScore, gradeLabel(saved)),
			Date:    time.Now().UTC(),
			Type:    models.NotificationGrade,
		}
		if err := tx.Notification().Create(ctx, notification); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateSubjectStats(ctx, req.SubjectID)
	s.cache.InvalidateStudentStats(ctx, req.StudentID)

	event := events.NewEvent(events.EventGradeUpserted, &GradeUpsertedEvent{
		GradeID:   saved.ID,
		StudentID: saved.StudentID,
		SubjectID: saved.SubjectID,
		Date:      saved.Date,
		Score:     saved.Score,
		MaxScore:  saved.MaxScore,
		Created:   created,
	})
	if err := s.publisher.Publish(ctx, events.TopicGradebook, event); err != nil {
		// The write already committed; a lost event must not fail the call.
		s.logger.Error("Failed to publish grade event", "error", err, "grade_id", saved.ID)
	}

	s.logger.Info("Upserted grade",
		"grade_id", saved.ID,
		"student_id", saved.StudentID,
		"subject_id", saved.SubjectID,
		"created", created)

	return saved, nil
}

// quickEntryMaxScore is the denominator for grades entered straight from
// the lesson journal, where only a score is typed in.
const quickEntryMaxScore = 100

func gradeLabel(grade *models.Grade) string {
	if grade.Title != nil && *grade.Title != "" {
		return fmt.Sprintf("%s: %s", displayType(grade.Type), *grade.Title)
	}
	return displayType(grade.Type)
}

func displayType(t models.GradeType) string {
	switch t {
	case models.GradeHomework:
		return "Homework"
	case models.GradeExam:
		return "Exam"
	case models.GradeQuiz:
		return "Quiz"
	case models.GradeProject:
		return "Project"
	default:
		return string(t)
	}
}

func (s *gradebookService) GetGrade(ctx context.Context, id string) (*models.Grade, error) {
	grade, err := s.repo.Grade().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: grade %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get grade: %w", err)
	}
	return grade, nil
}

func (s *gradebookService) ListGrades(ctx context.Context, studentID, subjectID string) ([]*models.Grade, error) {
	grades, err := s.repo.Grade().List(ctx, repositories.GradeFilters{StudentID: studentID, SubjectID: subjectID})
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	return grades, nil
}
