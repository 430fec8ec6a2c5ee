package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
)

// store owns every collection. Nothing outside this package touches the
// maps directly; repositories hand out copies so callers can never alias
// internal state.
type store struct {
	mu sync.Mutex

	users         map[string]*models.User
	students      map[string]*models.Student
	subjects      map[string]*models.Subject
	lessons       map[string]*models.Lesson
	assignments   map[string]*models.Assignment
	grades        map[string]*models.Grade
	attendance    map[string]*models.Attendance
	messages      map[string]*models.Message
	notifications map[string]*models.Notification
}

func newStore() *store {
	return &store{
		users:         make(map[string]*models.User),
		students:      make(map[string]*models.Student),
		subjects:      make(map[string]*models.Subject),
		lessons:       make(map[string]*models.Lesson),
		assignments:   make(map[string]*models.Assignment),
		grades:        make(map[string]*models.Grade),
		attendance:    make(map[string]*models.Attendance),
		messages:      make(map[string]*models.Message),
		notifications: make(map[string]*models.Notification),
	}
}

// repository implements repositories.Repository over a store. When tx is
// set the store lock is already held by WithTransaction and the locking
// helpers become no-ops.
type repository struct {
	s  *store
	tx bool
}

// NewRepository returns an empty in-memory repository. Used directly by
// tests; production wiring goes through the RepositoryManager.
func NewRepository() repositories.Repository {
	return &repository{s: newStore()}
}

func (r *repository) lock() func() {
	if r.tx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *repository) User() repositories.UserRepository                 { return &userRepository{r} }
func (r *repository) Student() repositories.StudentRepository           { return &studentRepository{r} }
func (r *repository) Subject() repositories.SubjectRepository           { return &subjectRepository{r} }
func (r *repository) Lesson() repositories.LessonRepository             { return &lessonRepository{r} }
func (r *repository) Assignment() repositories.AssignmentRepository     { return &assignmentRepository{r} }
func (r *repository) Grade() repositories.GradeRepository               { return &gradeRepository{r} }
func (r *repository) Attendance() repositories.AttendanceRepository     { return &attendanceRepository{r} }
func (r *repository) Message() repositories.MessageRepository           { return &messageRepository{r} }
func (r *repository) Notification() repositories.NotificationRepository { return &notificationRepository{r} }

func (r *repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	if r.tx {
		return fn(r)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(&repository{s: r.s, tx: true})
}

func (r *repository) Ping(ctx context.Context) error { return ctx.Err() }

func (r *repository) Close() error { return nil }

// ===== REPOSITORY MANAGER =====

type ManagerConfig struct {
	Logger       *slog.Logger
	SeedDemoData bool
}

type repositoryManager struct {
	config      ManagerConfig
	repo        *repository
	initialized bool
}

func NewRepositoryManager(config ManagerConfig) repositories.RepositoryManager {
	return &repositoryManager{config: config}
}

func (m *repositoryManager) Initialize() error {
	if m.initialized {
		return nil
	}
	m.repo = &repository{s: newStore()}
	if m.config.SeedDemoData {
		if err := seed(m.repo); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		if m.config.Logger != nil {
			m.config.Logger.Info("Seeded demo data",
				"users", len(m.repo.s.users),
				"subjects", len(m.repo.s.subjects),
				"grades", len(m.repo.s.grades))
		}
	}
	m.initialized = true
	return nil
}

func (m *repositoryManager) GetRepository() repositories.Repository {
	if !m.initialized {
		panic("repository manager not initialized")
	}
	return m.repo
}

func (m *repositoryManager) HealthCheck(ctx context.Context) error {
	if !m.initialized {
		return fmt.Errorf("repository manager not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *repositoryManager) Shutdown(ctx context.Context) error {
	if m.repo != nil {
		return m.repo.Close()
	}
	return nil
}
