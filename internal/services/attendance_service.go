package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/scholalink/school-service/internal/cache"
	"github.com/scholalink/school-service/internal/events"
	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
	"github.com/scholalink/school-service/internal/validator"
)

// ===== REQUEST DTOs =====

type UpsertAttendanceRequest struct {
	StudentID string                  `json:"student_id" validate:"required"`
	SubjectID string                  `json:"subject_id" validate:"required"`
	Date      string                  `json:"date" validate:"required,dateonly"`
	Status    models.AttendanceStatus `json:"status" validate:"required,attendance_status"`
}

type AttendanceUpsertedEvent struct {
	RecordID  string                  `json:"record_id"`
	StudentID string                  `json:"student_id"`
	SubjectID string                  `json:"subject_id"`
	Date      string                  `json:"date"`
	Status    models.AttendanceStatus `json:"status"`
}

// ===== SERVICE INTERFACE =====

type AttendanceService interface {
	// UpsertAttendance records a status for (student, subject, date).
	// Re-marking the same key overwrites the status; the latest call
	// wins.
	UpsertAttendance(ctx context.Context, req *UpsertAttendanceRequest) (*models.Attendance, error)

	ListBySubject(ctx context.Context, subjectID string) ([]*models.Attendance, error)
	ListByStudent(ctx context.Context, studentID string) ([]*models.Attendance, error)
}

// ===== SERVICE IMPLEMENTATION =====

type attendanceService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAttendanceService(repo repositories.Repository, cacheManager *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) AttendanceService {
	return &attendanceService{
		repo:      repo,
		cache:     cacheManager,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *attendanceService) UpsertAttendance(ctx context.Context, req *UpsertAttendanceRequest) (*models.Attendance, error) {
	if verrs := s.validator.Validate(req); len(verrs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, verrs.Error())
	}

	if _, err := s.repo.Student().GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: student %s", ErrNotFound, req.StudentID)
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if _, err := s.repo.Subject().GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: subject %s", ErrNotFound, req.SubjectID)
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	var saved *models.Attendance

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		existing, err := tx.Attendance().GetByKey(ctx, req.StudentID, req.SubjectID, req.Date)
		switch {
		case err == nil:
			existing.Status = req.Status
			saved = existing
		case errors.Is(err, repositories.ErrNotFound):
			saved = &models.Attendance{
				StudentID: req.StudentID,
				SubjectID: req.SubjectID,
				Date:      req.Date,
				Status:    req.Status,
			}
		default:
			return fmt.Errorf("failed to look up attendance: %w", err)
		}
		if err := tx.Attendance().Save(ctx, saved); err != nil {
			return fmt.Errorf("failed to save attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateSubjectStats(ctx, req.SubjectID)
	s.cache.InvalidateStudentStats(ctx, req.StudentID)

	event := events.NewEvent(events.EventAttendanceUpserted, &AttendanceUpsertedEvent{
		RecordID:  saved.ID,
		StudentID: saved.StudentID,
		SubjectID: saved.SubjectID,
		Date:      saved.Date,
		Status:    saved.Status,
	})
	if err := s.publisher.Publish(ctx, events.TopicAttendance, event); err != nil {
		s.logger.Error("Failed to publish attendance event", "error", err, "record_id", saved.ID)
	}

	s.logger.Info("Upserted attendance",
		"record_id", saved.ID,
		"student_id", saved.StudentID,
		"subject_id", saved.SubjectID,
		"status", saved.Status)

	return saved, nil
}

func (s *attendanceService) ListBySubject(ctx context.Context, subjectID string) ([]*models.Attendance, error) {
	records, err := s.repo.Attendance().ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

func (s *attendanceService) ListByStudent(ctx context.Context, studentID string) ([]*models.Attendance, error) {
	records, err := s.repo.Attendance().ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}
