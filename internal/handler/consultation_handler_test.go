package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamnguyen-dev/educenter-api/internal/models"
	"github.com/lamnguyen-dev/educenter-api/internal/service"
)

type stubConsultationRepo struct {
	consultations map[string]*models.Consultation
	lastFilter    models.ConsultationFilter
}

func (s *stubConsultationRepo) List(ctx context.Context, filter models.ConsultationFilter) ([]models.Consultation, int, error) {
	s.lastFilter = filter
	out := make([]models.Consultation, 0, len(s.consultations))
	for _, c := range s.consultations {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (s *stubConsultationRepo) FindByID(ctx context.Context, id string) (*models.Consultation, error) {
	c, ok := s.consultations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (s *stubConsultationRepo) Create(ctx context.Context, c *models.Consultation) error {
	c.ID = "created-1"
	s.consultations[c.ID] = c
	return nil
}

func (s *stubConsultationRepo) Update(ctx context.Context, c *models.Consultation) error {
	s.consultations[c.ID] = c
	return nil
}

func (s *stubConsultationRepo) UpdateStatus(ctx context.Context, id string, status models.ConsultationStatus, notes *string, assignedClassID *string) error {
	c := s.consultations[id]
	c.Status = status
	if assignedClassID != nil {
		c.AssignedClassID = assignedClassID
	}
	return nil
}

func (s *stubConsultationRepo) Delete(ctx context.Context, id string) error {
	delete(s.consultations, id)
	return nil
}

type envelopeBody struct {
	Success    bool               `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
	Code       string             `json:"code"`
	Message    string             `json:"message"`
	Status     int                `json:"status"`
	Fields     map[string]string  `json:"fields"`
}

func consultationTestHandler(repo *stubConsultationRepo) *ConsultationHandler {
	svc := service.NewConsultationService(repo, nil, nil)
	exports := service.NewExportService(repo, 100, nil)
	return NewConsultationHandler(svc, exports, nil, 20, 100)
}

func TestConsultationHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubConsultationRepo{consultations: map[string]*models.Consultation{}}
	h := consultationTestHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	body := `{"name":"Le Van An","phone":"0912345678","email":"an@example.com","content":"Toi muon hoi ve khoa IELTS buoi toi"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/consultations", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var env envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
}

func TestConsultationHandlerCreateValidationFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubConsultationRepo{consultations: map[string]*models.Consultation{}}
	h := consultationTestHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	body := `{"name":"A","phone":"12345","email":"bad","content":"short"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/consultations", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var env envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
	assert.Equal(t, "nameTooShort", env.Fields["name"])
	assert.Equal(t, "phoneInvalid", env.Fields["phone"])
	assert.Equal(t, "emailInvalid", env.Fields["email"])
	assert.Equal(t, "contentTooShort", env.Fields["content"])
	assert.Empty(t, repo.consultations)
}

func TestConsultationHandlerTransitionRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubConsultationRepo{consultations: map[string]*models.Consultation{
		"c-1": {ID: "c-1", Status: models.ConsultationStatusPending},
	}}
	h := consultationTestHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "c-1"}}
	body := `{"status":"class_assigned"}`
	c.Request = httptest.NewRequest(http.MethodPatch, "/consultations/c-1/status", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Transition(c)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var env envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "TRANSITION_REJECTED", env.Code)
	assert.Equal(t, models.ConsultationStatusPending, repo.consultations["c-1"].Status)
}

func TestConsultationHandlerTransitionApplied(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubConsultationRepo{consultations: map[string]*models.Consultation{
		"c-1": {ID: "c-1", Status: models.ConsultationStatusPending},
	}}
	h := consultationTestHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "c-1"}}
	body := `{"status":"class_assigned","assigned_class_id":"class-1"}`
	c.Request = httptest.NewRequest(http.MethodPatch, "/consultations/c-1/status", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Transition(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ConsultationStatusClassAssigned, repo.consultations["c-1"].Status)
}

func TestConsultationHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := consultationTestHandler(&stubConsultationRepo{consultations: map[string]*models.Consultation{}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/consultations/missing", nil)

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConsultationHandlerListEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubConsultationRepo{consultations: map[string]*models.Consultation{
		"c-1": {ID: "c-1", Status: models.ConsultationStatusPending},
	}}
	h := consultationTestHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/consultations?page=1&limit=20", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var env envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.Page)
	assert.Equal(t, 1, env.Pagination.Total)
}

func TestConsultationHandlerListPageSizeCapped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubConsultationRepo{consultations: map[string]*models.Consultation{}}
	h := consultationTestHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/consultations?limit=1000000", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, repo.lastFilter.PageSize)
}

func TestConsultationHandlerListPageSizeDefaulted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubConsultationRepo{consultations: map[string]*models.Consultation{}}
	h := NewConsultationHandler(
		service.NewConsultationService(repo, nil, nil),
		service.NewExportService(repo, 100, nil),
		nil, 25, 50,
	)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/consultations", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25, repo.lastFilter.PageSize)
}

func TestConsultationHandlerTransitionBindFailureCounted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubConsultationRepo{consultations: map[string]*models.Consultation{
		"c-1": {ID: "c-1", Status: models.ConsultationStatusPending},
	}}
	metrics := service.NewMetricsService()
	h := NewConsultationHandler(
		service.NewConsultationService(repo, nil, nil),
		service.NewExportService(repo, 100, nil),
		metrics, 20, 100,
	)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "c-1"}}
	c.Request = httptest.NewRequest(http.MethodPatch, "/consultations/c-1/status", strings.NewReader(`{"status":`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Transition(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	scrape := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(),
		`consultation_transitions_total{outcome="rejected",status="invalid"} 1`)
}

func TestConsultationHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubConsultationRepo{consultations: map[string]*models.Consultation{
		"c-1": {ID: "c-1", Name: "Le Van An", Status: models.ConsultationStatusPending},
	}}
	h := consultationTestHandler(repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/consultations/export?format=csv", nil)

	h.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "Le Van An")
}
