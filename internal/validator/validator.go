package validator

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/scholalink/school-service/internal/models"
)

// ValidationError describes one failed field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Validator wraps go-playground/validator with the school domain rules.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the domain rules registered.
func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerDomainRules()

	return v
}

// Validate checks a struct's `validate` tags and returns nil when clean.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	var errors ValidationErrors

	err := v.validate.Struct(s)
	if err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errors = append(errors, ValidationError{
				Field:   fieldErr.Field(),
				Message: errorMessage(fieldErr),
				Value:   fieldErr.Value(),
				Rule:    fieldErr.Tag(),
			})
		}
	}

	return errors
}

func (v *Validator) registerDomainRules() {
	// Calendar dates travel as YYYY-MM-DD strings.
	v.validate.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})

	v.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})

	v.validate.RegisterValidation("grade_type", func(fl validator.FieldLevel) bool {
		return models.GradeType(fl.Field().String()).Valid()
	})

	v.validate.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})

	v.validate.RegisterValidation("lesson_status", func(fl validator.FieldLevel) bool {
		return models.LessonStatus(fl.Field().String()).Valid()
	})

	v.validate.RegisterValidation("assignment_status", func(fl validator.FieldLevel) bool {
		return models.AssignmentStatus(fl.Field().String()).Valid()
	})

	// Grade levels 1 through 12.
	v.validate.RegisterValidation("grade_level", func(fl validator.FieldLevel) bool {
		level := fl.Field().Int()
		return level >= 1 && level <= 12
	})
}

func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "dateonly":
		return "must be a date in YYYY-MM-DD format"
	case "user_role":
		return "must be one of TEACHER, STUDENT, PARENT, ADMIN"
	case "grade_type":
		return "must be one of HOMEWORK, EXAM, QUIZ, PROJECT"
	case "attendance_status":
		return "must be one of PRESENT, ABSENT, LATE, EXCUSED"
	case "lesson_status":
		return "must be one of PLANNED, COMPLETED, CANCELLED"
	case "assignment_status":
		return "must be OPEN or CLOSED"
	case "grade_level":
		return "must be between 1 and 12"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}
