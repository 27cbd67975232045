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

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	Create(ctx context.Context, student *models.Student) error
}

// CreateStudentRequest holds the payload for registering a student.
type CreateStudentRequest struct {
	FullName string               `json:"full_name"`
	Phone    string               `json:"phone"`
	Email    string               `json:"email"`
	Status   models.StudentStatus `json:"status"`
}

// StudentService handles student listing and registration.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return students, models.NewPagination(page, size, total), nil
}

// Get returns a student with class membership details.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	record := map[string]string{
		"name":  req.FullName,
		"phone": req.Phone,
		"email": req.Email,
	}
	schema := validation.Schema{
		{Field: "name", Kind: validation.KindName},
		{Field: "phone", Kind: validation.KindPhone},
		{Field: "email", Kind: validation.KindEmail},
	}
	if result := validation.Validate(record, schema); !result.Valid() {
		return nil, appErrors.Validation(result)
	}

	status := models.StudentStatusActive
	if req.Status != "" {
		status = req.Status
	}
	student := &models.Student{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Status:   status,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}
