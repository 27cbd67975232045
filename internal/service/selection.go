package service

import (
	"sort"

	"github.com/lamnguyen-dev/educenter-api/internal/models"
)

// SelectionSet holds the candidates an operator has picked for enrollment.
// Membership is keyed by candidate ID; toggling is a symmetric difference,
// so selecting the same candidate twice deselects it.
type SelectionSet struct {
	members map[string]models.Candidate
}

// NewSelectionSet builds an empty selection.
func NewSelectionSet() *SelectionSet {
	return &SelectionSet{members: make(map[string]models.Candidate)}
}

// Toggle flips the candidate's membership.
func (s *SelectionSet) Toggle(c models.Candidate) {
	if _, ok := s.members[c.ID]; ok {
		delete(s.members, c.ID)
		return
	}
	s.members[c.ID] = c
}

// Contains reports whether the candidate with the given ID is selected.
func (s *SelectionSet) Contains(id string) bool {
	_, ok := s.members[id]
	return ok
}

// Len returns the number of selected candidates.
func (s *SelectionSet) Len() int { return len(s.members) }

// Confirm returns the current selection ordered by ID and clears it, so a
// later confirm can never be attributed to a stale selection. It is the only
// way the selection leaves the set.
func (s *SelectionSet) Confirm() []models.Candidate {
	confirmed := make([]models.Candidate, 0, len(s.members))
	for _, c := range s.members {
		confirmed = append(confirmed, c)
	}
	sort.Slice(confirmed, func(i, j int) bool { return confirmed[i].ID < confirmed[j].ID })
	s.members = make(map[string]models.Candidate)
	return confirmed
}
