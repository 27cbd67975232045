package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lamnguyen-dev/educenter-api/internal/models"
	appErrors "github.com/lamnguyen-dev/educenter-api/pkg/errors"
)

type classRepository interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
	ListMemberIDs(ctx context.Context, classID string) ([]string, error)
	AddMembers(ctx context.Context, classID string, studentIDs []string) error
}

type candidateStudentLister interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
}

type candidateConsultationSource interface {
	List(ctx context.Context, filter models.ConsultationFilter) ([]models.Consultation, int, error)
	UpdateStatus(ctx context.Context, id string, status models.ConsultationStatus, notes *string, assignedClassID *string) error
}

// EnrollRequest carries the candidate IDs an operator confirmed for a class.
type EnrollRequest struct {
	CandidateIDs []string `json:"candidate_ids" validate:"required,min=1"`
}

// EnrollResult reports what an enrollment run did.
type EnrollResult struct {
	ClassID          string             `json:"class_id"`
	EnrolledStudents []string           `json:"enrolled_students"`
	AssignedLeads    []string           `json:"assigned_leads"`
	Candidates       []models.Candidate `json:"candidates"`
}

// candidatePoolLimit bounds the pools merged into the selectable set.
const candidatePoolLimit = 500

// EnrollmentService merges enrollment candidate pools and attaches confirmed
// candidates to classes.
type EnrollmentService struct {
	classes       classRepository
	students      candidateStudentLister
	consultations candidateConsultationSource
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(classes classRepository, students candidateStudentLister, consultations candidateConsultationSource, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{classes: classes, students: students, consultations: consultations, validator: validate, logger: logger}
}

// Candidates merges the student roster with the pending consultations of the
// class's course into one selectable set. The set is keyed by identifier:
// an ID appearing in both pools collapses to a single entry, with the
// student record taking precedence.
func (s *EnrollmentService) Candidates(ctx context.Context, classID string) ([]models.Candidate, error) {
	class, err := s.findClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	students, _, err := s.students.List(ctx, models.StudentFilter{Page: 1, PageSize: candidatePoolLimit})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student pool")
	}
	consultations, _, err := s.consultations.List(ctx, models.ConsultationFilter{
		Status:   models.ConsultationStatusPending,
		CourseID: class.CourseID,
		Page:     1,
		PageSize: candidatePoolLimit,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load consultation pool")
	}

	seen := make(map[string]struct{}, len(students)+len(consultations))
	candidates := make([]models.Candidate, 0, len(students)+len(consultations))
	for _, st := range students {
		if _, ok := seen[st.ID]; ok {
			continue
		}
		seen[st.ID] = struct{}{}
		candidates = append(candidates, models.Candidate{
			ID:     st.ID,
			Source: models.CandidateSourceStudent,
			Name:   st.FullName,
			Phone:  st.Phone,
			Email:  st.Email,
		})
	}
	for _, c := range consultations {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		candidate := models.Candidate{
			ID:     c.ID,
			Source: models.CandidateSourceConsultation,
			Name:   c.Name,
			Phone:  c.Phone,
			Email:  c.Email,
		}
		if c.CourseID != nil {
			candidate.CourseID = *c.CourseID
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// Enroll attaches the confirmed candidates to a class. Student candidates
// become class members; consultation candidates are transitioned to
// class_assigned with the target class. Unknown IDs are rejected before any
// write happens.
func (s *EnrollmentService) Enroll(ctx context.Context, classID string, req EnrollRequest) (*EnrollResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	candidates, err := s.Candidates(ctx, classID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	selection := NewSelectionSet()
	for _, id := range req.CandidateIDs {
		candidate, ok := byID[id]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "candidate not in the selectable set")
		}
		selection.Toggle(candidate)
	}
	confirmed := selection.Confirm()

	result := &EnrollResult{ClassID: classID, EnrolledStudents: []string{}, AssignedLeads: []string{}, Candidates: confirmed}
	studentIDs := make([]string, 0, len(confirmed))
	for _, c := range confirmed {
		if c.Source == models.CandidateSourceStudent {
			studentIDs = append(studentIDs, c.ID)
		}
	}
	if err := s.classes.AddMembers(ctx, classID, studentIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add class members")
	}
	result.EnrolledStudents = studentIDs

	for _, c := range confirmed {
		if c.Source != models.CandidateSourceConsultation {
			continue
		}
		if err := s.consultations.UpdateStatus(ctx, c.ID, models.ConsultationStatusClassAssigned, nil, &classID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign consultation to class")
		}
		result.AssignedLeads = append(result.AssignedLeads, c.ID)
	}

	return result, nil
}

// Members lists the student identifiers currently attached to a class.
func (s *EnrollmentService) Members(ctx context.Context, classID string) (*models.ClassDetail, error) {
	class, err := s.findClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	memberIDs, err := s.classes.ListMemberIDs(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class members")
	}
	return &models.ClassDetail{Class: *class, MemberIDs: memberIDs}, nil
}

func (s *EnrollmentService) findClass(ctx context.Context, classID string) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}
