package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
)

type subjectRepository struct{ r *repository }

func (s *subjectRepository) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	defer s.r.lock()()
	subject, ok := s.r.s.subjects[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *subject
	return &c, nil
}

func (s *subjectRepository) List(ctx context.Context) ([]*models.Subject, error) {
	defer s.r.lock()()
	return s.listLocked(func(*models.Subject) bool { return true }), nil
}

func (s *subjectRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*models.Subject, error) {
	defer s.r.lock()()
	return s.listLocked(func(sub *models.Subject) bool { return sub.TeacherID == teacherID }), nil
}

func (s *subjectRepository) ListByGradeLevel(ctx context.Context, gradeLevel int) ([]*models.Subject, error) {
	defer s.r.lock()()
	return s.listLocked(func(sub *models.Subject) bool { return sub.GradeLevel == gradeLevel }), nil
}

func (s *subjectRepository) listLocked(match func(*models.Subject) bool) []*models.Subject {
	subjects := make([]*models.Subject, 0)
	for _, subject := range s.r.s.subjects {
		if match(subject) {
			c := *subject
			subjects = append(subjects, &c)
		}
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects
}

func (s *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	defer s.r.lock()()
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	c := *subject
	s.r.s.subjects[subject.ID] = &c
	return nil
}

type lessonRepository struct{ r *repository }

func (l *lessonRepository) GetByID(ctx context.Context, id string) (*models.Lesson, error) {
	defer l.r.lock()()
	lesson, ok := l.r.s.lessons[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *lesson
	return &c, nil
}

func (l *lessonRepository) ListBySubject(ctx context.Context, subjectID string) ([]*models.Lesson, error) {
	defer l.r.lock()()
	lessons := make([]*models.Lesson, 0)
	for _, lesson := range l.r.s.lessons {
		if lesson.SubjectID == subjectID {
			c := *lesson
			lessons = append(lessons, &c)
		}
	}
	// Journal display order is chronological; dates are YYYY-MM-DD so the
	// lexicographic order is the calendar order.
	sort.Slice(lessons, func(i, j int) bool {
		if lessons[i].Date != lessons[j].Date {
			return lessons[i].Date < lessons[j].Date
		}
		return lessons[i].ID < lessons[j].ID
	})
	return lessons, nil
}

func (l *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	defer l.r.lock()()
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	c := *lesson
	l.r.s.lessons[lesson.ID] = &c
	return nil
}

func (l *lessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	defer l.r.lock()()
	if _, ok := l.r.s.lessons[lesson.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *lesson
	l.r.s.lessons[lesson.ID] = &c
	return nil
}

type assignmentRepository struct{ r *repository }

func (a *assignmentRepository) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	defer a.r.lock()()
	assignment, ok := a.r.s.assignments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *assignment
	return &c, nil
}

func (a *assignmentRepository) ListBySubject(ctx context.Context, subjectID string) ([]*models.Assignment, error) {
	defer a.r.lock()()
	assignments := make([]*models.Assignment, 0)
	for _, assignment := range a.r.s.assignments {
		if assignment.SubjectID == subjectID {
			c := *assignment
			assignments = append(assignments, &c)
		}
	}
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].DueDate != assignments[j].DueDate {
			return assignments[i].DueDate < assignments[j].DueDate
		}
		return assignments[i].ID < assignments[j].ID
	})
	return assignments, nil
}

func (a *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	defer a.r.lock()()
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	c := *assignment
	a.r.s.assignments[assignment.ID] = &c
	return nil
}

func (a *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	defer a.r.lock()()
	if _, ok := a.r.s.assignments[assignment.ID]; !ok {
		return repositories.ErrNotFound
	}
	c := *assignment
	a.r.s.assignments[assignment.ID] = &c
	return nil
}
