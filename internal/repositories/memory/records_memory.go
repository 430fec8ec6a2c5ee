package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
)

type gradeRepository struct{ r *repository }

func (g *gradeRepository) GetByID(ctx context.Context, id string) (*models.Grade, error) {
	defer g.r.lock()()
	grade, ok := g.r.s.grades[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *grade
	return &c, nil
}

func (g *gradeRepository) GetByKey(ctx context.Context, studentID, subjectID, date string) (*models.Grade, error) {
	defer g.r.lock()()
	for _, grade := range g.r.s.grades {
		if grade.StudentID == studentID && grade.SubjectID == subjectID && grade.Date == date {
			c := *grade
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (g *gradeRepository) List(ctx context.Context, filters repositories.GradeFilters) ([]*models.Grade, error) {
	defer g.r.lock()()
	grades := make([]*models.Grade, 0)
	for _, grade := range g.r.s.grades {
		if filters.StudentID != "" && grade.StudentID != filters.StudentID {
			continue
		}
		if filters.SubjectID != "" && grade.SubjectID != filters.SubjectID {
			continue
		}
		c := *grade
		grades = append(grades, &c)
	}
	sort.Slice(grades, func(i, j int) bool {
		if grades[i].Date != grades[j].Date {
			return grades[i].Date < grades[j].Date
		}
		return grades[i].ID < grades[j].ID
	})
	return grades, nil
}

func (g *gradeRepository) Save(ctx context.Context, grade *models.Grade) error {
	defer g.r.lock()()
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	c := *grade
	g.r.s.grades[grade.ID] = &c
	return nil
}

type attendanceRepository struct{ r *repository }

func (a *attendanceRepository) GetByKey(ctx context.Context, studentID, subjectID, date string) (*models.Attendance, error) {
	defer a.r.lock()()
	for _, record := range a.r.s.attendance {
		if record.StudentID == studentID && record.SubjectID == subjectID && record.Date == date {
			c := *record
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (a *attendanceRepository) ListBySubject(ctx context.Context, subjectID string) ([]*models.Attendance, error) {
	defer a.r.lock()()
	return a.listLocked(func(rec *models.Attendance) bool { return rec.SubjectID == subjectID }), nil
}

func (a *attendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.Attendance, error) {
	defer a.r.lock()()
	return a.listLocked(func(rec *models.Attendance) bool { return rec.StudentID == studentID }), nil
}

func (a *attendanceRepository) listLocked(match func(*models.Attendance) bool) []*models.Attendance {
	records := make([]*models.Attendance, 0)
	for _, record := range a.r.s.attendance {
		if match(record) {
			c := *record
			records = append(records, &c)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].ID < records[j].ID
	})
	return records
}

func (a *attendanceRepository) Save(ctx context.Context, record *models.Attendance) error {
	defer a.r.lock()()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	c := *record
	a.r.s.attendance[record.ID] = &c
	return nil
}
