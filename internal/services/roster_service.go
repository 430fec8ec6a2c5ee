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

type CreateUserRequest struct {
	Name  string          `json:"name" validate:"required,min=1,max=200"`
	Email string          `json:"email" validate:"required,email"`
	Role  models.UserRole `json:"role" validate:"required,user_role"`

	// Students only.
	GradeLevel *int    `json:"grade_level" validate:"omitempty,grade_level"`
	ParentID   *string `json:"parent_id"`
}

type UpdateProfileRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,max=500"`
	Bio       *string `json:"bio" validate:"omitempty,max=1000"`
}

type CreateSubjectRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=200"`
	TeacherID  string `json:"teacher_id" validate:"required"`
	Schedule   string `json:"schedule" validate:"required"`
	Room       string `json:"room" validate:"required"`
	GradeLevel int    `json:"grade_level" validate:"required,grade_level"`
}

type UserCreatedEvent struct {
	UserID string          `json:"user_id"`
	Role   models.UserRole `json:"role"`
}

type SubjectCreatedEvent struct {
	SubjectID  string `json:"subject_id"`
	TeacherID  string `json:"teacher_id"`
	GradeLevel int    `json:"grade_level"`
}

// ===== SERVICE INTERFACE =====

type RosterService interface {
	// CreateUser creates a user. A STUDENT role also creates the paired
	// student record in the same transaction, so a student never exists
	// half-registered.
	CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error)

	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, role *models.UserRole, query string) ([]*models.User, error)

	// UpdateProfile updates a user's editable fields and mirrors them
	// onto the paired student record when one exists.
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error)

	GetStudent(ctx context.Context, id string) (*models.Student, error)
	ListStudents(ctx context.Context) ([]*models.Student, error)
	ListChildren(ctx context.Context, parentID string) ([]*models.Student, error)

	CreateSubject(ctx context.Context, req *CreateSubjectRequest) (*models.Subject, error)
	GetSubject(ctx context.Context, id string) (*models.Subject, error)
	ListSubjects(ctx context.Context) ([]*models.Subject, error)
	ListSubjectsByTeacher(ctx context.Context, teacherID string) ([]*models.Subject, error)
}

// ===== SERVICE IMPLEMENTATION =====

type rosterService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewRosterService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) RosterService {
	return &rosterService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *rosterService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if verrs := s.validator.Validate(req); len(verrs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, verrs.Error())
	}
	if req.Role == models.RoleStudent && req.GradeLevel == nil {
		return nil, fmt.Errorf("%w: grade_level is required for students", ErrValidationFailed)
	}

	if _, err := s.repo.User().GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already in use", ErrValidationFailed)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if req.ParentID != nil {
		parent, err := s.repo.User().GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent %s", ErrNotFound, *req.ParentID)
			}
			return nil, fmt.Errorf("failed to get parent: %w", err)
		}
		if parent.Role != models.RoleParent {
			return nil, fmt.Errorf("%w: %s is not a parent account", ErrValidationFailed, *req.ParentID)
		}
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.User().Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if req.Role == models.RoleStudent {
			student := &models.Student{
				User:       *user,
				GradeLevel: *req.GradeLevel,
				ParentID:   req.ParentID,
			}
			if err := tx.Student().Create(ctx, student); err != nil {
				return fmt.Errorf("failed to create student: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := events.NewEvent(events.EventUserCreated, &UserCreatedEvent{UserID: user.ID, Role: user.Role})
	if err := s.publisher.Publish(ctx, events.TopicRoster, event); err != nil {
		s.logger.Error("Failed to publish user created event", "error", err, "user_id", user.ID)
	}

	s.logger.Info("Created user", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *rosterService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *rosterService) ListUsers(ctx context.Context, role *models.UserRole, query string) ([]*models.User, error) {
	users, err := s.repo.User().List(ctx, repositories.UserFilters{Role: role, Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *rosterService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error) {
	if verrs := s.validator.Validate(req); len(verrs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, verrs.Error())
	}

	var updated *models.User

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		user, err := tx.User().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: user %s", ErrNotFound, userID)
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.AvatarURL != nil {
			user.AvatarURL = req.AvatarURL
		}
		if req.Bio != nil {
			user.Bio = req.Bio
		}
		if err := tx.User().Update(ctx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		// Keep the paired student record in step.
		student, err := tx.Student().GetByID(ctx, userID)
		if err == nil {
			student.User = *user
			if err := tx.Student().Update(ctx, student); err != nil {
				return fmt.Errorf("failed to update student: %w", err)
			}
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("failed to get student: %w", err)
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated profile", "user_id", userID)
	return updated, nil
}

func (s *rosterService) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.Student().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: student %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (s *rosterService) ListStudents(ctx context.Context) ([]*models.Student, error) {
	students, err := s.repo.Student().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *rosterService) ListChildren(ctx context.Context, parentID string) ([]*models.Student, error) {
	students, err := s.repo.Student().ListByParent(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	return students, nil
}

func (s *rosterService) CreateSubject(ctx context.Context, req *CreateSubjectRequest) (*models.Subject, error) {
	if verrs := s.validator.Validate(req); len(verrs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, verrs.Error())
	}

	teacher, err := s.repo.User().GetByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: teacher %s", ErrNotFound, req.TeacherID)
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	if teacher.Role != models.RoleTeacher {
		return nil, fmt.Errorf("%w: %s is not a teacher account", ErrValidationFailed, req.TeacherID)
	}

	subject := &models.Subject{
		Name:       req.Name,
		TeacherID:  req.TeacherID,
		Schedule:   req.Schedule,
		Room:       req.Room,
		GradeLevel: req.GradeLevel,
	}
	if err := s.repo.Subject().Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	event := events.NewEvent(events.EventSubjectCreated, &SubjectCreatedEvent{
		SubjectID:  subject.ID,
		TeacherID:  subject.TeacherID,
		GradeLevel: subject.GradeLevel,
	})
	if err := s.publisher.Publish(ctx, events.TopicRoster, event); err != nil {
		s.logger.Error("Failed to publish subject created event", "error", err, "subject_id", subject.ID)
	}

	s.logger.Info("Created subject", "subject_id", subject.ID, "name", subject.Name)
	return subject, nil
}

func (s *rosterService) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.Subject().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: subject %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	return subject, nil
}

func (s *rosterService) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	subjects, err := s.repo.Subject().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

func (s *rosterService) ListSubjectsByTeacher(ctx context.Context, teacherID string) ([]*models.Subject, error) {
	subjects, err := s.repo.Subject().ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}
