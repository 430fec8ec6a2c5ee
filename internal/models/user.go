package models

type UserRole string

const (
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
	RoleParent  UserRole = "PARENT"
	RoleAdmin   UserRole = "ADMIN"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleTeacher, RoleStudent, RoleParent, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`

	// Profile info
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// Student carries the roster-specific fields of a STUDENT user. A student
// always exists as a pair: a User row and a Student row with the same ID.
type Student struct {
	User
	GradeLevel int     `json:"grade_level"`
	ParentID   *string `json:"parent_id,omitempty"`
}
