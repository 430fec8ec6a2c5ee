package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
)

type userRepository struct{ r *repository }

func (u *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer u.r.lock()()
	user, ok := u.r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *user
	return &c, nil
}

func (u *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer u.r.lock()()
	for _, user := range u.r.s.users {
		if strings.EqualFold(user.Email, email) {
			c := *user
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (u *userRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	defer u.r.lock()()
	users := make([]*models.User, 0, len(u.r.s.users))
	query := strings.ToLower(filters.Query)
	for _, user := range u.r.s.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(user.Name), query) &&
			!strings.Contains(strings.ToLower(user.Email), query) {
			continue
		}
		c := *user
		users = append(users, &c)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (u *userRepository) Create(ctx context.Context, user *models.User) error {
	defer u.r.lock()()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	c := *user
	u.r.s.users[user.ID] = &c
	return nil
}

func (u *userRepository) Update(ctx context.Context, user *models.User) error {
	defer u.r.lock()()
	if _, ok := u.r.s.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *user
	u.r.s.users[user.ID] = &c
	return nil
}

type studentRepository struct{ r *repository }

func (s *studentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	defer s.r.lock()()
	student, ok := s.r.s.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *student
	return &c, nil
}

func (s *studentRepository) List(ctx context.Context) ([]*models.Student, error) {
	defer s.r.lock()()
	return s.listLocked(func(*models.Student) bool { return true }), nil
}

func (s *studentRepository) ListByGradeLevel(ctx context.Context, gradeLevel int) ([]*models.Student, error) {
	defer s.r.lock()()
	return s.listLocked(func(st *models.Student) bool { return st.GradeLevel == gradeLevel }), nil
}

func (s *studentRepository) ListByParent(ctx context.Context, parentID string) ([]*models.Student, error) {
	defer s.r.lock()()
	return s.listLocked(func(st *models.Student) bool {
		return st.ParentID != nil && *st.ParentID == parentID
	}), nil
}

func (s *studentRepository) listLocked(match func(*models.Student) bool) []*models.Student {
	students := make([]*models.Student, 0)
	for _, student := range s.r.s.students {
		if match(student) {
			c := *student
			students = append(students, &c)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students
}

func (s *studentRepository) Create(ctx context.Context, student *models.Student) error {
	defer s.r.lock()()
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	c := *student
	s.r.s.students[student.ID] = &c
	return nil
}

func (s *studentRepository) Update(ctx context.Context, student *models.Student) error {
	defer s.r.lock()()
	if _, ok := s.r.s.students[student.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *student
	s.r.s.students[student.ID] = &c
	return nil
}
