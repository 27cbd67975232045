package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lamnguyen-dev/educenter-api/internal/service"
	appErrors "github.com/lamnguyen-dev/educenter-api/pkg/errors"
	"github.com/lamnguyen-dev/educenter-api/pkg/response"
)

// PublicHandler exposes the unauthenticated consultation form endpoint.
type PublicHandler struct {
	consultations *service.ConsultationService
	metrics       *service.MetricsService
	enabled       bool
}

// NewPublicHandler constructs PublicHandler.
func NewPublicHandler(consultations *service.ConsultationService, metrics *service.MetricsService, enabled bool) *PublicHandler {
	return &PublicHandler{consultations: consultations, metrics: metrics, enabled: enabled}
}

// CreateConsultation godoc
// @Summary Submit a consultation request from the public form
// @Tags Public
// @Accept json
// @Produce json
// @Param payload body service.CreateConsultationRequest true "Consultation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /public/consultations [post]
func (h *PublicHandler) CreateConsultation(c *gin.Context) {
	if !h.enabled {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "public consultation form is disabled"))
		return
	}
	var req service.CreateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	consultation, err := h.consultations.CreatePublic(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordConsultationCreated("public")
	}
	response.Created(c, consultation)
}
