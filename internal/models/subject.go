package models

// Subject has no roster table: its enrolled population is every Student
// whose GradeLevel matches the subject's GradeLevel. Creating a student
// implicitly enrolls them in every subject of that grade level.
type Subject struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TeacherID  string `json:"teacher_id"`
	Schedule   string `json:"schedule"` // free text, e.g. "Mon, Wed 10:00 AM"
	Room       string `json:"room"`
	GradeLevel int    `json:"grade_level"`
}

type LessonStatus string

const (
	LessonPlanned   LessonStatus = "PLANNED"
	LessonCompleted LessonStatus = "COMPLETED"
	LessonCancelled LessonStatus = "CANCELLED"
)

func (s LessonStatus) Valid() bool {
	switch s {
	case LessonPlanned, LessonCompleted, LessonCancelled:
		return true
	}
	return false
}

// Lesson is one scheduled class session, conceptually keyed by
// (SubjectID, Date).
type Lesson struct {
	ID         string       `json:"id"`
	SubjectID  string       `json:"subject_id"`
	Date       string       `json:"date"` // YYYY-MM-DD
	Topic      string       `json:"topic"`
	HomeworkID *string      `json:"homework_id,omitempty"`
	Status     LessonStatus `json:"status"`
	Notes      *string      `json:"notes,omitempty"`
}

type AssignmentStatus string

const (
	AssignmentOpen   AssignmentStatus = "OPEN"
	AssignmentClosed AssignmentStatus = "CLOSED"
)

func (s AssignmentStatus) Valid() bool {
	return s == AssignmentOpen || s == AssignmentClosed
}

type Assignment struct {
	ID           string           `json:"id"`
	SubjectID    string           `json:"subject_id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	AssignedDate string           `json:"assigned_date"`
	DueDate      string           `json:"due_date"`
	Status       AssignmentStatus `json:"status"`
}
