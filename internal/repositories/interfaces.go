package repositories

import (
	"context"
	"errors"

	"github.com/scholalink/school-service/internal/models"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("record not found")

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role  *models.UserRole `json:"role"`
	Query string           `json:"query"` // matches name or email, case-insensitive
}

type GradeFilters struct {
	StudentID string `json:"student_id"` // empty = any
	SubjectID string `json:"subject_id"` // empty = any
}

// ===== PER-ENTITY REPOSITORIES =====

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

type StudentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	ListByGradeLevel(ctx context.Context, gradeLevel int) ([]*models.Student, error)
	ListByParent(ctx context.Context, parentID string) ([]*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

type SubjectRepository interface {
	GetByID(ctx context.Context, id string) (*models.Subject, error)
	List(ctx context.Context) ([]*models.Subject, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]*models.Subject, error)
	ListByGradeLevel(ctx context.Context, gradeLevel int) ([]*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
}

type LessonRepository interface {
	GetByID(ctx context.Context, id string) (*models.Lesson, error)
	// ListBySubject returns lessons in chronological date order.
	ListBySubject(ctx context.Context, subjectID string) ([]*models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
}

type AssignmentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
	ListBySubject(ctx context.Context, subjectID string) ([]*models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
}

type GradeRepository interface {
	GetByID(ctx context.Context, id string) (*models.Grade, error)
	// GetByKey finds the single grade for (studentID, subjectID, date),
	// the upsert key used by the gradebook.
	GetByKey(ctx context.Context, studentID, subjectID, date string) (*models.Grade, error)
	List(ctx context.Context, filters GradeFilters) ([]*models.Grade, error)
	// Save inserts the grade, or replaces the stored record with the same ID.
	Save(ctx context.Context, grade *models.Grade) error
}

type AttendanceRepository interface {
	GetByKey(ctx context.Context, studentID, subjectID, date string) (*models.Attendance, error)
	ListBySubject(ctx context.Context, subjectID string) ([]*models.Attendance, error)
	ListByStudent(ctx context.Context, studentID string) ([]*models.Attendance, error)
	Save(ctx context.Context, record *models.Attendance) error
}

type MessageRepository interface {
	GetByID(ctx context.Context, id string) (*models.Message, error)
	// ListConversation returns all messages between two users, oldest first.
	ListConversation(ctx context.Context, userA, userB string) ([]*models.Message, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Message, error)
	Create(ctx context.Context, message *models.Message) error
	Update(ctx context.Context, message *models.Message) error
}

type NotificationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	// ListByUser returns the user's notifications, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, notification *models.Notification) error
	Update(ctx context.Context, notification *models.Notification) error
}
