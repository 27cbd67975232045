package models

import "time"

// ConsultationStatus represents the lifecycle state of a consultation lead.
type ConsultationStatus string

// Possible consultation statuses.
const (
	ConsultationStatusPending       ConsultationStatus = "pending"
	ConsultationStatusProcessed     ConsultationStatus = "processed"
	ConsultationStatusCancelled     ConsultationStatus = "cancelled"
	ConsultationStatusClassAssigned ConsultationStatus = "class_assigned"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s ConsultationStatus) Valid() bool {
	switch s {
	case ConsultationStatusPending, ConsultationStatusProcessed, ConsultationStatusCancelled, ConsultationStatusClassAssigned:
		return true
	}
	return false
}

// allowedTransitions is the explicit transition table. Operators may re-open
// a record from any state, so every known state lists every known state as a
// legal target; unknown statuses are rejected by CanTransition.
var allowedTransitions = map[ConsultationStatus][]ConsultationStatus{
	ConsultationStatusPending:       {ConsultationStatusPending, ConsultationStatusProcessed, ConsultationStatusCancelled, ConsultationStatusClassAssigned},
	ConsultationStatusProcessed:     {ConsultationStatusPending, ConsultationStatusProcessed, ConsultationStatusCancelled, ConsultationStatusClassAssigned},
	ConsultationStatusCancelled:     {ConsultationStatusPending, ConsultationStatusProcessed, ConsultationStatusCancelled, ConsultationStatusClassAssigned},
	ConsultationStatusClassAssigned: {ConsultationStatusPending, ConsultationStatusProcessed, ConsultationStatusCancelled, ConsultationStatusClassAssigned},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to ConsultationStatus) bool {
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	for _, t := range targets {
		if t == to {
			return true
		}
	}
	return false
}

// Consultation is a prospective-student inquiry record.
type Consultation struct {
	ID              string             `db:"id" json:"id"`
	Name            string             `db:"name" json:"name"`
	Phone           string             `db:"phone" json:"phone"`
	Email           string             `db:"email" json:"email"`
	Content         string             `db:"content" json:"content"`
	CourseID        *string            `db:"course_id" json:"course_id,omitempty"`
	Status          ConsultationStatus `db:"status" json:"status"`
	AssignedClassID *string            `db:"assigned_class_id" json:"assigned_class_id,omitempty"`
	Notes           string             `db:"notes" json:"notes"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at" json:"updated_at"`
}

// ConsultationFilter encapsulates allowed search parameters for listing
// consultations. Search matches name and email, never phone.
type ConsultationFilter struct {
	Status    ConsultationStatus
	Search    string
	CourseID  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
