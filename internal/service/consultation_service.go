package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lamnguyen-dev/educenter-api/internal/models"
	"github.com/lamnguyen-dev/educenter-api/internal/validation"
	appErrors "github.com/lamnguyen-dev/educenter-api/pkg/errors"
)

type consultationRepository interface {
	List(ctx context.Context, filter models.ConsultationFilter) ([]models.Consultation, int, error)
	FindByID(ctx context.Context, id string) (*models.Consultation, error)
	Create(ctx context.Context, consultation *models.Consultation) error
	Update(ctx context.Context, consultation *models.Consultation) error
	UpdateStatus(ctx context.Context, id string, status models.ConsultationStatus, notes *string, assignedClassID *string) error
	Delete(ctx context.Context, id string) error
}

// CreateConsultationRequest holds the payload for creating a consultation.
// Status is honored for admin creation only; the public form always starts
// at pending.
type CreateConsultationRequest struct {
	Name        string                    `json:"name"`
	Phone       string                    `json:"phone"`
	ParentPhone string                    `json:"parent_phone"`
	Email       string                    `json:"email"`
	Content     string                    `json:"content"`
	CourseID    *string                   `json:"course_id"`
	Status      models.ConsultationStatus `json:"status"`
	Notes       string                    `json:"notes"`
}

// UpdateConsultationRequest holds the payload for editing contact fields.
type UpdateConsultationRequest struct {
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Email    string  `json:"email"`
	Content  string  `json:"content"`
	CourseID *string `json:"course_id"`
}

// TransitionRequest moves a consultation to a new status with optional
// side fields.
type TransitionRequest struct {
	Status          models.ConsultationStatus `json:"status" validate:"required"`
	Notes           *string                   `json:"notes"`
	AssignedClassID *string                   `json:"assigned_class_id"`
}

// ConsultationService handles the consultation lifecycle.
type ConsultationService struct {
	repo      consultationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConsultationService constructs the consultation service.
func NewConsultationService(repo consultationRepository, validate *validator.Validate, logger *zap.Logger) *ConsultationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsultationService{repo: repo, validator: validate, logger: logger}
}

// List returns consultations and pagination metadata.
func (s *ConsultationService) List(ctx context.Context, filter models.ConsultationFilter) ([]models.Consultation, *models.Pagination, error) {
	consultations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list consultations")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return consultations, models.NewPagination(page, size, total), nil
}

// Get returns a single consultation.
func (s *ConsultationService) Get(ctx context.Context, id string) (*models.Consultation, error) {
	consultation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "consultation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load consultation")
	}
	return consultation, nil
}

// Create registers a new consultation from the admin panel. Field validation
// runs first; a failed validation creates nothing.
func (s *ConsultationService) Create(ctx context.Context, req CreateConsultationRequest) (*models.Consultation, error) {
	if err := validateConsultationFields(req.Name, req.Phone, req.ParentPhone, req.Email, req.Content); err != nil {
		return nil, err
	}

	status := models.ConsultationStatusPending
	if req.Status != "" {
		if !req.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown consultation status")
		}
		status = req.Status
	}
	if status == models.ConsultationStatusClassAssigned {
		return nil, appErrors.Clone(appErrors.ErrTransitionRejected, "a new consultation cannot start with a class assigned")
	}

	consultation := &models.Consultation{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Content:  req.Content,
		CourseID: req.CourseID,
		Status:   status,
		Notes:    req.Notes,
	}
	if err := s.repo.Create(ctx, consultation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create consultation")
	}
	return consultation, nil
}

// CreatePublic registers a consultation submitted through the public form.
// The record always starts at pending.
func (s *ConsultationService) CreatePublic(ctx context.Context, req CreateConsultationRequest) (*models.Consultation, error) {
	req.Status = ""
	req.Notes = ""
	return s.Create(ctx, req)
}

// Update edits the contact and course fields of a consultation. Status,
// notes and assigned class only change through Transition.
func (s *ConsultationService) Update(ctx context.Context, id string, req UpdateConsultationRequest) (*models.Consultation, error) {
	consultation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateConsultationFields(req.Name, req.Phone, "", req.Email, req.Content); err != nil {
		return nil, err
	}

	consultation.Name = req.Name
	consultation.Phone = req.Phone
	consultation.Email = req.Email
	consultation.Content = req.Content
	consultation.CourseID = req.CourseID
	if err := s.repo.Update(ctx, consultation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update consultation")
	}
	return consultation, nil
}

// Transition moves a consultation to a new status. Assigning a class
// requires the class reference; a rejected transition leaves the record
// unchanged.
func (s *ConsultationService) Transition(ctx context.Context, id string, req TransitionRequest) (*models.Consultation, error) {
	consultation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrTransitionRejected, "unknown consultation status")
	}
	if !models.CanTransition(consultation.Status, req.Status) {
		return nil, appErrors.Clone(appErrors.ErrTransitionRejected, "transition not allowed")
	}
	if req.Status == models.ConsultationStatusClassAssigned && (req.AssignedClassID == nil || *req.AssignedClassID == "") {
		return nil, appErrors.Clone(appErrors.ErrTransitionRejected, "assigning a class requires an assigned class")
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status, req.Notes, req.AssignedClassID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update consultation status")
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload consultation")
	}
	return updated, nil
}

// Delete removes a consultation permanently.
func (s *ConsultationService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete consultation")
	}
	return nil
}

func validateConsultationFields(name, phone, parentPhone, email, content string) error {
	record := map[string]string{
		"name":         name,
		"phone":        phone,
		"parent_phone": parentPhone,
		"email":        email,
		"content":      content,
	}
	if result := validation.Validate(record, validation.ConsultationSchema()); !result.Valid() {
		return appErrors.Validation(result)
	}
	return nil
}
