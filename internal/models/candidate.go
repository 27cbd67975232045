package models

// CandidateSource identifies which pool a candidate came from.
type CandidateSource string

const (
	CandidateSourceStudent      CandidateSource = "student"
	CandidateSourceConsultation CandidateSource = "consultation"
)

// Candidate is a selectable entry for class enrollment, drawn from either
// the student roster or the pending consultations of a course. Candidates
// are keyed by ID alone: the same identifier never appears twice in a list
// regardless of its source pool.
type Candidate struct {
	ID       string          `json:"id"`
	Source   CandidateSource `json:"source"`
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	Email    string          `json:"email"`
	CourseID string          `json:"course_id,omitempty"`
}
