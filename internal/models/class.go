package models

import "time"

// Class represents a scheduled class belonging to a course.
type Class struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CourseID  string    `db:"course_id" json:"course_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassDetail extends Class with its member student identifiers.
type ClassDetail struct {
	Class
	MemberIDs []string `json:"member_ids"`
}
