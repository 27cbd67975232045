package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamnguyen-dev/educenter-api/internal/models"
	appErrors "github.com/lamnguyen-dev/educenter-api/pkg/errors"
)

type mockConsultationRepo struct {
	consultations map[string]*models.Consultation
	listResult    []models.Consultation
	listTotal     int
	listErr       error
	createErr     error
	createCalls   int
	updateCalls   int
	statusCalls   int
	lastStatus    models.ConsultationStatus
	lastNotes     *string
	lastClassID   *string
	deleteCalls   int
}

func (m *mockConsultationRepo) List(ctx context.Context, filter models.ConsultationFilter) ([]models.Consultation, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listResult, m.listTotal, nil
}

func (m *mockConsultationRepo) FindByID(ctx context.Context, id string) (*models.Consultation, error) {
	c, ok := m.consultations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (m *mockConsultationRepo) Create(ctx context.Context, consultation *models.Consultation) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	consultation.ID = "new-consultation"
	return nil
}

func (m *mockConsultationRepo) Update(ctx context.Context, consultation *models.Consultation) error {
	m.updateCalls++
	m.consultations[consultation.ID] = consultation
	return nil
}

func (m *mockConsultationRepo) UpdateStatus(ctx context.Context, id string, status models.ConsultationStatus, notes *string, assignedClassID *string) error {
	m.statusCalls++
	m.lastStatus = status
	m.lastNotes = notes
	m.lastClassID = assignedClassID
	c := m.consultations[id]
	c.Status = status
	if notes != nil {
		c.Notes = *notes
	}
	if assignedClassID != nil {
		c.AssignedClassID = assignedClassID
	}
	return nil
}

func (m *mockConsultationRepo) Delete(ctx context.Context, id string) error {
	m.deleteCalls++
	delete(m.consultations, id)
	return nil
}

func validCreateRequest() CreateConsultationRequest {
	return CreateConsultationRequest{
		Name:    "Le Van An",
		Phone:   "0912345678",
		Email:   "an.le@example.com",
		Content: "Toi muon hoi ve khoa IELTS buoi toi cho hoc sinh lop 11",
	}
}

func TestConsultationServiceCreate(t *testing.T) {
	repo := &mockConsultationRepo{consultations: map[string]*models.Consultation{}}
	svc := NewConsultationService(repo, nil, nil)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, models.ConsultationStatusPending, created.Status)
	assert.Equal(t, 1, repo.createCalls)
}

func TestConsultationServiceCreateValidationBlocksPersistence(t *testing.T) {
	repo := &mockConsultationRepo{consultations: map[string]*models.Consultation{}}
	svc := NewConsultationService(repo, nil, nil)

	req := validCreateRequest()
	req.Phone = "12345"
	req.Email = "not-an-email"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "phoneInvalid", appErr.Fields["phone"])
	assert.Equal(t, "emailInvalid", appErr.Fields["email"])
	assert.Zero(t, repo.createCalls, "nothing may be persisted on validation failure")
}

func TestConsultationServiceCreateRejectsClassAssignedStart(t *testing.T) {
	repo := &mockConsultationRepo{consultations: map[string]*models.Consultation{}}
	svc := NewConsultationService(repo, nil, nil)

	req := validCreateRequest()
	req.Status = models.ConsultationStatusClassAssigned

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTransitionRejected.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.createCalls)
}

func TestConsultationServiceCreatePublicIgnoresStatusOverride(t *testing.T) {
	repo := &mockConsultationRepo{consultations: map[string]*models.Consultation{}}
	svc := NewConsultationService(repo, nil, nil)

	req := validCreateRequest()
	req.Status = models.ConsultationStatusProcessed
	req.Notes = "self-promoted"

	created, err := svc.CreatePublic(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.ConsultationStatusPending, created.Status)
	assert.Empty(t, created.Notes)
}

func TestConsultationServiceTransition(t *testing.T) {
	notes := "called back, scheduled a placement test"
	classID := "class-1"
	tests := []struct {
		name    string
		from    models.ConsultationStatus
		req     TransitionRequest
		wantErr string
	}{
		{
			name: "pending to processed",
			from: models.ConsultationStatusPending,
			req:  TransitionRequest{Status: models.ConsultationStatusProcessed, Notes: &notes},
		},
		{
			name: "processed back to pending",
			from: models.ConsultationStatusProcessed,
			req:  TransitionRequest{Status: models.ConsultationStatusPending},
		},
		{
			name: "cancelled reopened to class assigned",
			from: models.ConsultationStatusCancelled,
			req:  TransitionRequest{Status: models.ConsultationStatusClassAssigned, AssignedClassID: &classID},
		},
		{
			name:    "class assignment without a class",
			from:    models.ConsultationStatusPending,
			req:     TransitionRequest{Status: models.ConsultationStatusClassAssigned},
			wantErr: appErrors.ErrTransitionRejected.Code,
		},
		{
			name:    "unknown target status",
			from:    models.ConsultationStatusPending,
			req:     TransitionRequest{Status: "archived"},
			wantErr: appErrors.ErrTransitionRejected.Code,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockConsultationRepo{consultations: map[string]*models.Consultation{
				"c-1": {ID: "c-1", Name: "Le Van An", Status: tt.from},
			}}
			svc := NewConsultationService(repo, nil, nil)

			updated, err := svc.Transition(context.Background(), "c-1", tt.req)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, appErrors.FromError(err).Code)
				assert.Zero(t, repo.statusCalls, "a rejected transition must not touch the record")
				assert.Equal(t, tt.from, repo.consultations["c-1"].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req.Status, updated.Status)
			assert.Equal(t, 1, repo.statusCalls)
		})
	}
}

func TestConsultationServiceTransitionAssignsClass(t *testing.T) {
	repo := &mockConsultationRepo{consultations: map[string]*models.Consultation{
		"c-1": {ID: "c-1", Name: "Le Van An", Status: models.ConsultationStatusProcessed},
	}}
	svc := NewConsultationService(repo, nil, nil)

	classID := "class-7"
	updated, err := svc.Transition(context.Background(), "c-1", TransitionRequest{
		Status:          models.ConsultationStatusClassAssigned,
		AssignedClassID: &classID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ConsultationStatusClassAssigned, updated.Status)
	require.NotNil(t, updated.AssignedClassID)
	assert.Equal(t, classID, *updated.AssignedClassID)
	assert.Equal(t, &classID, repo.lastClassID)
}

func TestConsultationServiceTransitionNotFound(t *testing.T) {
	repo := &mockConsultationRepo{consultations: map[string]*models.Consultation{}}
	svc := NewConsultationService(repo, nil, nil)

	_, err := svc.Transition(context.Background(), "missing", TransitionRequest{Status: models.ConsultationStatusProcessed})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestConsultationServiceUpdateKeepsLifecycleFields(t *testing.T) {
	classID := "class-1"
	repo := &mockConsultationRepo{consultations: map[string]*models.Consultation{
		"c-1": {
			ID:              "c-1",
			Name:            "Le Van An",
			Status:          models.ConsultationStatusClassAssigned,
			AssignedClassID: &classID,
			Notes:           "keep me",
		},
	}}
	svc := NewConsultationService(repo, nil, nil)

	req := UpdateConsultationRequest{
		Name:    "Le Van Binh",
		Phone:   "0987654321",
		Email:   "binh.le@example.com",
		Content: "Cap nhat lai noi dung tu van cho khoa hoc moi nhat",
	}
	updated, err := svc.Update(context.Background(), "c-1", req)
	require.NoError(t, err)
	assert.Equal(t, "Le Van Binh", updated.Name)
	assert.Equal(t, models.ConsultationStatusClassAssigned, updated.Status)
	require.NotNil(t, updated.AssignedClassID)
	assert.Equal(t, classID, *updated.AssignedClassID)
	assert.Equal(t, "keep me", updated.Notes)
}

func TestConsultationServiceListPagination(t *testing.T) {
	repo := &mockConsultationRepo{
		listResult: []models.Consultation{{ID: "c-1"}, {ID: "c-2"}},
		listTotal:  45,
	}
	svc := NewConsultationService(repo, nil, nil)

	items, pagination, err := svc.List(context.Background(), models.ConsultationFilter{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 45, pagination.Total)
	assert.Equal(t, 5, pagination.Pages)
}

func TestConsultationServiceDelete(t *testing.T) {
	repo := &mockConsultationRepo{consultations: map[string]*models.Consultation{
		"c-1": {ID: "c-1", Status: models.ConsultationStatusCancelled},
	}}
	svc := NewConsultationService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "c-1"))
	assert.Equal(t, 1, repo.deleteCalls)

	err := svc.Delete(context.Background(), "c-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
