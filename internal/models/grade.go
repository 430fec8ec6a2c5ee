package models

type GradeType string

const (
	GradeHomework GradeType = "HOMEWORK"
	GradeExam     GradeType = "EXAM"
	GradeQuiz     GradeType = "QUIZ"
	GradeProject  GradeType = "PROJECT"
)

func (t GradeType) Valid() bool {
	switch t {
	case GradeHomework, GradeExam, GradeQuiz, GradeProject:
		return true
	}
	return false
}

// Grade is one scored assessment instance for a student in a subject.
// Gradebook entry writes are keyed by (StudentID, SubjectID, Date).
type Grade struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	SubjectID string    `json:"subject_id"`
	Score     float64   `json:"score"`
	MaxScore  float64   `json:"max_score"`
	Type      GradeType `json:"type"`
	Title     *string   `json:"title,omitempty"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Feedback  *string   `json:"feedback,omitempty"`
}

// Percent is this grade's score as a percentage of its max score.
func (g Grade) Percent() float64 {
	if g.MaxScore == 0 {
		return 0
	}
	return (g.Score / g.MaxScore) * 100
}
