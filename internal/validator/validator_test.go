package validator

import (
	"strings"
	"testing"
)

type upsertGradePayload struct {
	StudentID string  `validate:"required"`
	Date      string  `validate:"required,dateonly"`
	Score     float64 `validate:"gte=0"`
}

type rolePayload struct {
	Role string `validate:"required,user_role"`
}

type levelPayload struct {
	GradeLevel int `validate:"required,grade_level"`
}

func TestValidator_DateOnly(t *testing.T) {
	v := New()

	tests := []struct {
		name  string
		date  string
		valid bool
	}{
		{"ISODate", "2023-10-25", true},
		{"USFormat", "10/25/2023", false},
		{"DateTime", "2023-10-25T10:00:00Z", false},
		{"NotADate", "yesterday", false},
		{"ImpossibleDay", "2023-02-30", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(upsertGradePayload{StudentID: "st1", Date: tt.date})
			if tt.valid && len(errs) > 0 {
				t.Errorf("Expected %q valid, got %v", tt.date, errs)
			}
			if !tt.valid && len(errs) == 0 {
				t.Errorf("Expected %q rejected", tt.date)
			}
		})
	}
}

func TestValidator_DomainEnums(t *testing.T) {
	v := New()

	t.Run("UserRole", func(t *testing.T) {
		for _, role := range []string{"TEACHER", "STUDENT", "PARENT", "ADMIN"} {
			if errs := v.Validate(rolePayload{Role: role}); len(errs) > 0 {
				t.Errorf("Expected %q valid, got %v", role, errs)
			}
		}
		if errs := v.Validate(rolePayload{Role: "teacher"}); len(errs) == 0 {
			t.Error("Roles are upper case on the wire; lower case must be rejected")
		}
	})

	t.Run("GradeLevel", func(t *testing.T) {
		for _, level := range []int{1, 12} {
			if errs := v.Validate(levelPayload{GradeLevel: level}); len(errs) > 0 {
				t.Errorf("Expected level %d valid, got %v", level, errs)
			}
		}
		for _, level := range []int{-1, 13} {
			if errs := v.Validate(levelPayload{GradeLevel: level}); len(errs) == 0 {
				t.Errorf("Expected level %d rejected", level)
			}
		}
	})
}

func TestValidationErrors_Error(t *testing.T) {
	v := New()

	errs := v.Validate(upsertGradePayload{Date: "bad"})
	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %d: %v", len(errs), errs)
	}

	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	if !fields["StudentID"] || !fields["Date"] {
		t.Errorf("Expected StudentID and Date failures, got %v", errs)
	}

	if !strings.HasPrefix(errs.Error(), "validation failed") {
		t.Errorf("Unexpected error string %q", errs.Error())
	}

	single := errs[:1]
	if !strings.Contains(single.Error(), single[0].Field) {
		t.Errorf("Single failure must name the field, got %q", single.Error())
	}
}
