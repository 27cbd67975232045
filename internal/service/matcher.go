package service

import (
	"context"
	"sync"

	"github.com/lamnguyen-dev/educenter-api/internal/models"
)

type candidateSource interface {
	Candidates(ctx context.Context, classID string) ([]models.Candidate, error)
}

// Matcher is the stateful candidate-selection workflow for one class. Each
// workflow instance owns its selection set exclusively; instances are never
// shared. Reloads carry a generation number so a response arriving after a
// newer reload started is discarded instead of overwriting fresher data.
type Matcher struct {
	mu         sync.Mutex
	source     candidateSource
	classID    string
	candidates []models.Candidate
	selection  *SelectionSet
	generation uint64
}

// NewMatcher builds a matcher workflow for the given class.
func NewMatcher(source candidateSource, classID string) *Matcher {
	return &Matcher{source: source, classID: classID, selection: NewSelectionSet()}
}

// Reload refreshes the candidate pools. A reload that resolves after a newer
// one began leaves the matcher untouched.
func (m *Matcher) Reload(ctx context.Context) error {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	candidates, err := m.source.Candidates(ctx, m.classID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return nil
	}
	if err != nil {
		return err
	}
	m.candidates = candidates
	return nil
}

// Candidates returns the most recently loaded selectable set.
func (m *Matcher) Candidates() []models.Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Candidate, len(m.candidates))
	copy(out, m.candidates)
	return out
}

// Toggle flips the selection of the candidate with the given ID. It reports
// whether the ID named a known candidate.
func (m *Matcher) Toggle(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.candidates {
		if c.ID == id {
			m.selection.Toggle(c)
			return true
		}
	}
	return false
}

// Selected reports whether the candidate with the given ID is selected.
func (m *Matcher) Selected(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selection.Contains(id)
}

// Confirm externalizes the current selection and clears it.
func (m *Matcher) Confirm() []models.Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selection.Confirm()
}
