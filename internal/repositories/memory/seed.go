package memory

import (
	"context"
	"time"

	"github.com/scholalink/school-service/internal/models"
	"github.com/scholalink/school-service/internal/repositories"
)

func strPtr(s string) *string { return &s }

// seed loads the demo dataset: one class of grade-10 students, four
// subjects, and enough grades and attendance to make the dashboards and
// analytics views non-trivial on first boot.
func seed(repo repositories.Repository) error {
	ctx := context.Background()

	return repo.WithTransaction(ctx, func(r repositories.Repository) error {
		users := []*models.User{
			{ID: "u1", Name: "Sarah Wilson", Email: "teacher@school.com", Role: models.RoleTeacher, AvatarURL: strPtr("https://picsum.photos/100/100"), Bio: strPtr("Passionate mathematics teacher with 10 years of experience.")},
			{ID: "u3", Name: "Martha Johnson", Email: "parent@school.com", Role: models.RoleParent, AvatarURL: strPtr("https://picsum.photos/102/102")},
			{ID: "u99", Name: "Principal Skinner", Email: "admin@school.com", Role: models.RoleAdmin, AvatarURL: strPtr("https://picsum.photos/105/105")},
		}
		for _, user := range users {
			if err := r.User().Create(ctx, user); err != nil {
				return err
			}
		}

		students := []*models.Student{
			{User: models.User{ID: "u2", Name: "Alex Johnson", Email: "student@school.com", Role: models.RoleStudent, AvatarURL: strPtr("https://picsum.photos/101/101"), Bio: strPtr("Aspiring engineer and physics enthusiast.")}, GradeLevel: 10, ParentID: strPtr("u3")},
			{User: models.User{ID: "u4", Name: "Emily Davis", Email: "emily@school.com", Role: models.RoleStudent, AvatarURL: strPtr("https://picsum.photos/103/103")}, GradeLevel: 10},
			{User: models.User{ID: "u5", Name: "Michael Brown", Email: "michael@school.com", Role: models.RoleStudent, AvatarURL: strPtr("https://picsum.photos/104/104")}, GradeLevel: 10},
			{User: models.User{ID: "u6", Name: "Jessica Miller", Email: "jessica@school.com", Role: models.RoleStudent, AvatarURL: strPtr("https://picsum.photos/105/105")}, GradeLevel: 10},
			{User: models.User{ID: "u7", Name: "David Wilson", Email: "david@school.com", Role: models.RoleStudent, AvatarURL: strPtr("https://picsum.photos/106/106")}, GradeLevel: 10},
			{User: models.User{ID: "u8", Name: "Sophia Taylor", Email: "sophia@school.com", Role: models.RoleStudent, AvatarURL: strPtr("https://picsum.photos/107/107")}, GradeLevel: 10},
		}
		for _, student := range students {
			if err := r.User().Create(ctx, &student.User); err != nil {
				return err
			}
			if err := r.Student().Create(ctx, student); err != nil {
				return err
			}
		}

		subjects := []*models.Subject{
			{ID: "s1", Name: "Mathematics 101", TeacherID: "u1", Schedule: "Mon, Wed, Fri 09:00 AM", Room: "Room 301", GradeLevel: 10},
			{ID: "s2", Name: "Physics 101", TeacherID: "u1", Schedule: "Tue, Thu 10:30 AM", Room: "Lab 2", GradeLevel: 10},
			{ID: "s3", Name: "History", TeacherID: "u8", Schedule: "Mon, Wed 13:00 PM", Room: "Room 105", GradeLevel: 10},
			{ID: "s4", Name: "English Literature", TeacherID: "u1", Schedule: "Tue, Thu 09:00 AM", Room: "Room 204", GradeLevel: 10},
		}
		for _, subject := range subjects {
			if err := r.Subject().Create(ctx, subject); err != nil {
				return err
			}
		}

		lessons := []*models.Lesson{
			{ID: "l1", SubjectID: "s1", Date: "2023-10-23", Topic: "Introduction to Derivatives", Status: models.LessonCompleted, Notes: strPtr("Students grasped the concept well.")},
			{ID: "l2", SubjectID: "s1", Date: "2023-10-25", Topic: "Product Rule", HomeworkID: strPtr("as1"), Status: models.LessonCompleted},
			{ID: "l3", SubjectID: "s1", Date: "2023-10-27", Topic: "Quotient Rule", Status: models.LessonPlanned},
			{ID: "l4", SubjectID: "s2", Date: "2023-10-24", Topic: "Newton's Third Law", Status: models.LessonCompleted},
			{ID: "l5", SubjectID: "s2", Date: "2023-10-26", Topic: "Friction and Drag", Status: models.LessonPlanned},
			{ID: "l6", SubjectID: "s4", Date: "2023-10-24", Topic: "Shakespearean Sonnets", Status: models.LessonCompleted},
			{ID: "l7", SubjectID: "s4", Date: "2023-10-26", Topic: "Modern Poetry", Status: models.LessonPlanned},
		}
		for _, lesson := range lessons {
			if err := r.Lesson().Create(ctx, lesson); err != nil {
				return err
			}
		}

		grades := []*models.Grade{
			{ID: "g1", StudentID: "u2", SubjectID: "s1", Score: 85, MaxScore: 100, Type: models.GradeHomework, Title: strPtr("Algebra Worksheet"), Date: "2023-10-01"},
			{ID: "g2", StudentID: "u2", SubjectID: "s1", Score: 92, MaxScore: 100, Type: models.GradeQuiz, Title: strPtr("Quadratic Equations"), Date: "2023-10-05"},
			{ID: "g3", StudentID: "u2", SubjectID: "s1", Score: 78, MaxScore: 100, Type: models.GradeExam, Title: strPtr("Midterm"), Date: "2023-10-15"},
			{ID: "g8", StudentID: "u2", SubjectID: "s1", Score: 90, MaxScore: 100, Type: models.GradeQuiz, Date: "2023-10-23"},
			{ID: "g4", StudentID: "u4", SubjectID: "s1", Score: 95, MaxScore: 100, Type: models.GradeHomework, Title: strPtr("Algebra Worksheet"), Date: "2023-10-01"},
			{ID: "g5", StudentID: "u4", SubjectID: "s1", Score: 88, MaxScore: 100, Type: models.GradeQuiz, Title: strPtr("Quadratic Equations"), Date: "2023-10-05"},
			{ID: "g6", StudentID: "u2", SubjectID: "s2", Score: 88, MaxScore: 100, Type: models.GradeHomework, Title: strPtr("Motion Laws"), Date: "2023-10-02"},
			{ID: "g7", StudentID: "u2", SubjectID: "s2", Score: 95, MaxScore: 100, Type: models.GradeProject, Title: strPtr("Bridge Building"), Date: "2023-10-10"},
		}
		for _, grade := range grades {
			if err := r.Grade().Save(ctx, grade); err != nil {
				return err
			}
		}

		attendance := []*models.Attendance{
			{ID: "a1", StudentID: "u2", SubjectID: "s1", Date: "2023-10-01", Status: models.AttendancePresent},
			{ID: "a2", StudentID: "u2", SubjectID: "s1", Date: "2023-10-03", Status: models.AttendancePresent},
			{ID: "a3", StudentID: "u2", SubjectID: "s1", Date: "2023-10-05", Status: models.AttendanceAbsent},
			{ID: "a4", StudentID: "u4", SubjectID: "s1", Date: "2023-10-05", Status: models.AttendanceLate},
			{ID: "a5", StudentID: "u2", SubjectID: "s1", Date: "2023-10-25", Status: models.AttendanceAbsent},
		}
		for _, record := range attendance {
			if err := r.Attendance().Save(ctx, record); err != nil {
				return err
			}
		}

		assignments := []*models.Assignment{
			{ID: "as1", SubjectID: "s1", Title: "Calculus Intro Problems", Description: "Complete pages 45-47, exercises 1-10.", AssignedDate: "2023-10-20", DueDate: "2023-10-25", Status: models.AssignmentOpen},
			{ID: "as2", SubjectID: "s1", Title: "Group Project: Statistics", Description: "Collect data and present findings.", AssignedDate: "2023-10-15", DueDate: "2023-10-30", Status: models.AssignmentOpen},
			{ID: "as3", SubjectID: "s2", Title: "Lab Report: Pendulum", Description: "Submit PDF format.", AssignedDate: "2023-10-18", DueDate: "2023-10-22", Status: models.AssignmentClosed},
		}
		for _, assignment := range assignments {
			if err := r.Assignment().Create(ctx, assignment); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		notifications := []*models.Notification{
			{ID: "n1", UserID: "u2", Title: "New Grade: Physics", Message: "You received 95/100 on Project: Bridge Building", Date: now.Add(-2 * time.Minute), Read: false, Type: models.NotificationGrade},
			{ID: "n2", UserID: "u2", Title: "Assignment Due Soon", Message: "Calculus Intro Problems is due tomorrow", Date: now.Add(-time.Hour), Read: false, Type: models.NotificationAssignment},
			{ID: "n3", UserID: "u2", Title: "School Announcement", Message: "Parent-Teacher conferences next Tuesday", Date: now.Add(-24 * time.Hour), Read: true, Type: models.NotificationSystem},
		}
		for _, notification := range notifications {
			if err := r.Notification().Create(ctx, notification); err != nil {
				return err
			}
		}

		messages := []*models.Message{
			{ID: "m1", SenderID: "u1", ReceiverID: "u3", Content: "Hello Mrs. Johnson, Alex has been doing great in Algebra lately!", Timestamp: time.Date(2023, 10, 24, 10, 30, 0, 0, time.UTC), Read: false},
			{ID: "m2", SenderID: "u3", ReceiverID: "u1", Content: "Hi Ms. Wilson, that is wonderful to hear. He really enjoys your class.", Timestamp: time.Date(2023, 10, 24, 11, 0, 0, 0, time.UTC), Read: true},
			{ID: "m3", SenderID: "u1", ReceiverID: "u3", Content: "Just a reminder about the parent teacher conference next week.", Timestamp: time.Date(2023, 10, 25, 9, 0, 0, 0, time.UTC), Read: false},
		}
		for _, message := range messages {
			if err := r.Message().Create(ctx, message); err != nil {
				return err
			}
		}

		return nil
	})
}
