package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lamnguyen-dev/educenter-api/internal/models"
	"github.com/lamnguyen-dev/educenter-api/internal/service"
	appErrors "github.com/lamnguyen-dev/educenter-api/pkg/errors"
	"github.com/lamnguyen-dev/educenter-api/pkg/response"
)

// ConsultationHandler exposes consultation endpoints.
type ConsultationHandler struct {
	consultations   *service.ConsultationService
	exports         *service.ExportService
	metrics         *service.MetricsService
	defaultPageSize int
	maxPageSize     int
}

// NewConsultationHandler constructs ConsultationHandler. Page sizes below 1
// fall back to 20 and 100.
func NewConsultationHandler(consultations *service.ConsultationService, exports *service.ExportService, metrics *service.MetricsService, defaultPageSize, maxPageSize int) *ConsultationHandler {
	if defaultPageSize < 1 {
		defaultPageSize = 20
	}
	if maxPageSize < 1 {
		maxPageSize = 100
	}
	return &ConsultationHandler{
		consultations:   consultations,
		exports:         exports,
		metrics:         metrics,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (h *ConsultationHandler) filterFromQuery(c *gin.Context) models.ConsultationFilter {
	var filter models.ConsultationFilter
	filter.Status = models.ConsultationStatus(c.Query("status"))
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.CourseID = c.Query("courseId")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	filter.PageSize = h.defaultPageSize
	if size, err := strconv.Atoi(c.Query("limit")); err == nil && size > 0 {
		filter.PageSize = size
	}
	if filter.PageSize > h.maxPageSize {
		filter.PageSize = h.maxPageSize
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")
	return filter
}

// List godoc
// @Summary List consultations
// @Tags Consultations
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search by name or email"
// @Param courseId query string false "Filter by course"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /consultations [get]
func (h *ConsultationHandler) List(c *gin.Context) {
	consultations, pagination, err := h.consultations.List(c.Request.Context(), h.filterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, consultations, pagination)
}

// Get godoc
// @Summary Get consultation detail
// @Tags Consultations
// @Produce json
// @Param id path string true "Consultation ID"
// @Success 200 {object} response.Envelope
// @Router /consultations/{id} [get]
func (h *ConsultationHandler) Get(c *gin.Context) {
	consultation, err := h.consultations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, consultation, nil)
}

// Create godoc
// @Summary Create consultation
// @Tags Consultations
// @Accept json
// @Produce json
// @Param payload body service.CreateConsultationRequest true "Consultation payload"
// @Success 201 {object} response.Envelope
// @Router /consultations [post]
func (h *ConsultationHandler) Create(c *gin.Context) {
	var req service.CreateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	consultation, err := h.consultations.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordConsultationCreated("admin")
	}
	response.Created(c, consultation)
}

// Update godoc
// @Summary Update consultation contact fields
// @Tags Consultations
// @Accept json
// @Produce json
// @Param id path string true "Consultation ID"
// @Param payload body service.UpdateConsultationRequest true "Consultation payload"
// @Success 200 {object} response.Envelope
// @Router /consultations/{id} [put]
func (h *ConsultationHandler) Update(c *gin.Context) {
	var req service.UpdateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	consultation, err := h.consultations.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, consultation, nil)
}

// Transition godoc
// @Summary Move a consultation to a new status
// @Tags Consultations
// @Accept json
// @Produce json
// @Param id path string true "Consultation ID"
// @Param payload body service.TransitionRequest true "Transition payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /consultations/{id}/status [patch]
func (h *ConsultationHandler) Transition(c *gin.Context) {
	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Malformed requests count as rejected transitions too, under a
		// sentinel status since the target never decoded.
		if h.metrics != nil {
			h.metrics.RecordTransition("invalid", "rejected")
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	consultation, err := h.consultations.Transition(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordTransition(string(req.Status), "rejected")
		}
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordTransition(string(req.Status), "applied")
	}
	response.JSON(c, http.StatusOK, consultation, nil)
}

// Delete godoc
// @Summary Delete consultation
// @Tags Consultations
// @Produce json
// @Param id path string true "Consultation ID"
// @Success 204
// @Router /consultations/{id} [delete]
func (h *ConsultationHandler) Delete(c *gin.Context) {
	if err := h.consultations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export consultations as CSV or PDF
// @Tags Consultations
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /consultations/export [get]
func (h *ConsultationHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	file, err := h.exports.Consultations(c.Request.Context(), h.filterFromQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+file.Filename)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
