package models

import "time"

// StudentStatus represents a student's registration state.
type StudentStatus string

// Possible student statuses.
const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusInactive StudentStatus = "inactive"
)

// Student represents a learner registered with the course provider.
type Student struct {
	ID        string        `db:"id" json:"id"`
	FullName  string        `db:"full_name" json:"full_name"`
	Phone     string        `db:"phone" json:"phone"`
	Email     string        `db:"email" json:"email"`
	Status    StudentStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentDetail contains student information with class membership context.
type StudentDetail struct {
	Student
	ClassIDs []string `json:"class_ids"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
// Search matches full name and email, never phone.
type StudentFilter struct {
	Search    string
	Status    StudentStatus
	CourseID  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
