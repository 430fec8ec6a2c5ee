package services

import (
	"context"
	"errors"
	"testing"

	"github.com/scholalink/school-service/internal/events"
	"github.com/scholalink/school-service/internal/models"
)

func newAttendanceFixture(t *testing.T) (*testFixture, AttendanceService) {
	t.Helper()
	f := newTestFixture(t)
	service := NewAttendanceService(f.repo, f.cache, f.publisher, f.logger, f.validator)

	f.addTeacher(t, "t1", "Teacher")
	f.addStudent(t, "st1", "Alex", 10, nil)
	f.addSubject(t, "sub1", "Mathematics", "t1", 10)
	return f, service
}

func TestAttendanceService_UpsertAttendance(t *testing.T) {
	f, service := newAttendanceFixture(t)
	ctx := context.Background()

	record, err := service.UpsertAttendance(ctx, &UpsertAttendanceRequest{
		StudentID: "st1",
		SubjectID: "sub1",
		Date:      "2023-11-01",
		Status:    models.AttendanceAbsent,
	})
	if err != nil {
		t.Fatalf("UpsertAttendance failed: %v", err)
	}
	if record.ID == "" {
		t.Error("Expected generated record ID")
	}

	t.Run("LatestStatusWins", func(t *testing.T) {
		corrected, err := service.UpsertAttendance(ctx, &UpsertAttendanceRequest{
			StudentID: "st1",
			SubjectID: "sub1",
			Date:      "2023-11-01",
			Status:    models.AttendanceLate,
		})
		if err != nil {
			t.Fatalf("UpsertAttendance failed: %v", err)
		}
		if corrected.ID != record.ID {
			t.Errorf("Re-marking must keep identity %s, got %s", record.ID, corrected.ID)
		}
		if corrected.Status != models.AttendanceLate {
			t.Errorf("Expected LATE, got %s", corrected.Status)
		}

		records, err := f.repo.Attendance().ListBySubject(ctx, "sub1")
		if err != nil {
			t.Fatalf("ListBySubject failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("Expected 1 record for the key, got %d", len(records))
		}
		if records[0].Status != models.AttendanceLate {
			t.Errorf("Stored status is %s, expected LATE", records[0].Status)
		}
	})

	t.Run("EventsPublished", func(t *testing.T) {
		published := f.publisher.GetPublishedEvents()
		if len(published) != 2 {
			t.Fatalf("Expected 2 events, got %d", len(published))
		}
		for _, event := range published {
			if event.Type != events.EventAttendanceUpserted {
				t.Errorf("Expected event type %s, got %s", events.EventAttendanceUpserted, event.Type)
			}
		}
	})
}

func TestAttendanceService_UpsertAttendance_Invalid(t *testing.T) {
	_, service := newAttendanceFixture(t)
	ctx := context.Background()

	t.Run("BadStatus", func(t *testing.T) {
		_, err := service.UpsertAttendance(ctx, &UpsertAttendanceRequest{
			StudentID: "st1",
			SubjectID: "sub1",
			Date:      "2023-11-01",
			Status:    "TARDY",
		})
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("Expected ErrValidationFailed, got %v", err)
		}
	})

	t.Run("UnknownStudent", func(t *testing.T) {
		_, err := service.UpsertAttendance(ctx, &UpsertAttendanceRequest{
			StudentID: "missing",
			SubjectID: "sub1",
			Date:      "2023-11-01",
			Status:    models.AttendancePresent,
		})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestAttendanceService_ListByStudent(t *testing.T) {
	f, service := newAttendanceFixture(t)
	ctx := context.Background()

	f.addSubject(t, "sub2", "Physics", "t1", 10)
	f.addAttendance(t, "st1", "sub1", "2023-11-01", models.AttendancePresent)
	f.addAttendance(t, "st1", "sub2", "2023-11-01", models.AttendanceExcused)

	records, err := service.ListByStudent(ctx, "st1")
	if err != nil {
		t.Fatalf("ListByStudent failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}

	bySubject, err := service.ListBySubject(ctx, "sub2")
	if err != nil {
		t.Fatalf("ListBySubject failed: %v", err)
	}
	if len(bySubject) != 1 || bySubject[0].Status != models.AttendanceExcused {
		t.Errorf("Unexpected records: %+v", bySubject)
	}
}
