package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/scholalink/school-service/internal/events"
	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
	"github.com/scholalink/school-service/internal/validator"
)

// ===== REQUEST DTOs =====

type CreateLessonRequest struct {
	SubjectID string              `json:"subject_id" validate:"required"`
	Date      string              `json:"date" validate:"required,dateonly"`
	Topic     string              `json:"topic" validate:"required,min=1,max=300"`
	Status    models.LessonStatus `json:"status" validate:"omitempty,lesson_status"`
	Notes     *string             `json:"notes" validate:"omitempty,max=2000"`

	// Optional homework attached to the lesson. A non-empty title
	// creates the assignment together with the lesson.
	HomeworkTitle       string  `json:"homework_title" validate:"omitempty,min=1,max=300"`
	HomeworkDescription string  `json:"homework_description" validate:"omitempty,max=2000"`
	HomeworkDueDate     *string `json:"homework_due_date" validate:"omitempty,dateonly"`
}

type LessonCreatedEvent struct {
	LessonID   string  `json:"lesson_id"`
	SubjectID  string  `json:"subject_id"`
	Date       string  `json:"date"`
	HomeworkID *string `json:"homework_id,omitempty"`
}

type AssignmentStatusChangedEvent struct {
	AssignmentID string                  `json:"assignment_id"`
	SubjectID    string                  `json:"subject_id"`
	Status       models.AssignmentStatus `json:"status"`
}

// ===== SERVICE INTERFACE =====

type ScheduleService interface {
	// CreateLesson adds a journal entry. When a homework title is given
	// the assignment is created in the same transaction and linked to
	// the lesson, so the journal never points at a missing assignment.
	CreateLesson(ctx context.Context, req *CreateLessonRequest) (*models.Lesson, error)

	ListLessons(ctx context.Context, subjectID string) ([]*models.Lesson, error)

	SetAssignmentStatus(ctx context.Context, assignmentID string, status models.AssignmentStatus) (*models.Assignment, error)
	ListAssignments(ctx context.Context, subjectID string) ([]*models.Assignment, error)
	GetAssignment(ctx context.Context, id string) (*models.Assignment, error)
}

// ===== SERVICE IMPLEMENTATION =====

type scheduleService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewScheduleService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) ScheduleService {
	return &scheduleService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *scheduleService) CreateLesson(ctx context.Context, req *CreateLessonRequest) (*models.Lesson, error) {
	if verrs := s.validator.Validate(req); len(verrs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, verrs.Error())
	}

	if _, err := s.repo.Subject().GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: subject %s", ErrNotFound, req.SubjectID)
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	status := req.Status
	if status == "" {
		status = models.LessonPlanned
	}

	lesson := &models.Lesson{
		SubjectID: req.SubjectID,
		Date:      req.Date,
		Topic:     req.Topic,
		Status:    status,
		Notes:     req.Notes,
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if req.HomeworkTitle != "" {
			dueDate := req.Date
			if req.HomeworkDueDate != nil {
				dueDate = *req.HomeworkDueDate
			}
			assignment := &models.Assignment{
				SubjectID:    req.SubjectID,
				Title:        req.HomeworkTitle,
				Description:  req.HomeworkDescription,
				AssignedDate: req.Date,
				DueDate:      dueDate,
				Status:       models.AssignmentOpen,
			}
			if err := tx.Assignment().Create(ctx, assignment); err != nil {
				return fmt.Errorf("failed to create assignment: %w", err)
			}
			lesson.HomeworkID = &assignment.ID
		}
		if err := tx.Lesson().Create(ctx, lesson); err != nil {
			return fmt.Errorf("failed to create lesson: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := events.NewEvent(events.EventLessonCreated, &LessonCreatedEvent{
		LessonID:   lesson.ID,
		SubjectID:  lesson.SubjectID,
		Date:       lesson.Date,
		HomeworkID: lesson.HomeworkID,
	})
	if err := s.publisher.Publish(ctx, events.TopicSchedule, event); err != nil {
		s.logger.Error("Failed to publish lesson created event", "error", err, "lesson_id", lesson.ID)
	}

	s.logger.Info("Created lesson",
		"lesson_id", lesson.ID,
		"subject_id", lesson.SubjectID,
		"has_homework", lesson.HomeworkID != nil)

	return lesson, nil
}

func (s *scheduleService) ListLessons(ctx context.Context, subjectID string) ([]*models.Lesson, error) {
	lessons, err := s.repo.Lesson().ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, nil
}

func (s *scheduleService) SetAssignmentStatus(ctx context.Context, assignmentID string, status models.AssignmentStatus) (*models.Assignment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be OPEN or CLOSED", ErrValidationFailed)
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: assignment %s", ErrNotFound, assignmentID)
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	assignment.Status = status
	if err := s.repo.Assignment().Update(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}

	event := events.NewEvent(events.EventAssignmentStatusChanged, &AssignmentStatusChangedEvent{
		AssignmentID: assignment.ID,
		SubjectID:    assignment.SubjectID,
		Status:       assignment.Status,
	})
	if err := s.publisher.Publish(ctx, events.TopicSchedule, event); err != nil {
		s.logger.Error("Failed to publish assignment status event", "error", err, "assignment_id", assignment.ID)
	}

	s.logger.Info("Set assignment status", "assignment_id", assignment.ID, "status", status)
	return assignment, nil
}

func (s *scheduleService) ListAssignments(ctx context.Context, subjectID string) ([]*models.Assignment, error) {
	assignments, err := s.repo.Assignment().ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

func (s *scheduleService) GetAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: assignment %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return assignment, nil
}
