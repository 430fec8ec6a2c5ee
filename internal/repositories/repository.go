package repositories

import "context"

// Repository aggregates the per-entity repositories backing the service.
// The canonical implementation is in-memory; the interface keeps the shape
// a database-backed implementation would need.
type Repository interface {
	// People
	User() UserRepository
	Student() StudentRepository

	// Academics
	Subject() SubjectRepository
	Lesson() LessonRepository
	Assignment() AssignmentRepository
	Grade() GradeRepository
	Attendance() AttendanceRepository

	// Communication
	Message() MessageRepository
	Notification() NotificationRepository

	// WithTransaction runs fn with exclusive access to the store so that
	// multi-collection writes (user+student, lesson+assignment) are atomic
	// under concurrent request handling.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
