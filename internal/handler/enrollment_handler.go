package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lamnguyen-dev/educenter-api/internal/service"
	appErrors "github.com/lamnguyen-dev/educenter-api/pkg/errors"
	"github.com/lamnguyen-dev/educenter-api/pkg/response"
)

// EnrollmentHandler exposes the candidate matching and enrollment endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Candidates godoc
// @Summary List enrollment candidates for a class
// @Tags Enrollment
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/candidates [get]
func (h *EnrollmentHandler) Candidates(c *gin.Context) {
	candidates, err := h.enrollments.Candidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates, nil)
}

// Enroll godoc
// @Summary Enroll confirmed candidates into a class
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body service.EnrollRequest true "Candidate IDs"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/enroll [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.enrollments.Enroll(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Members godoc
// @Summary List class members
// @Tags Enrollment
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/members [get]
func (h *EnrollmentHandler) Members(c *gin.Context) {
	detail, err := h.enrollments.Members(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}
