package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/service"
	"github.com/noah-isme/academia-api/pkg/response"
)

// EnrollmentHandler exposes enrollment endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// enrollPayload accepts either a single {type,id} item or a batch under items.
type enrollPayload struct {
	StudentID string               `json:"student_id"`
	Type      models.OfferingKind  `json:"type"`
	ID        string               `json:"id"`
	Items     []models.OfferingRef `json:"items"`
}

func (p enrollPayload) request() service.EnrollRequest {
	req := service.EnrollRequest{StudentID: p.StudentID, Items: p.Items}
	if len(req.Items) == 0 && (p.Type != "" || p.ID != "") {
		req.Items = []models.OfferingRef{{Type: p.Type, ID: p.ID}}
	}
	return req
}

func enrollmentFilter(c *gin.Context) models.EnrollmentFilter {
	return models.EnrollmentFilter{
		StudentID: c.Query("student_id"),
		Status:    models.EnrollmentStatus(c.Query("status")),
		Type:      models.OfferingKind(c.Query("type")),
		CycleID:   c.Query("cycle_id"),
	}
}

// Enroll godoc
// @Summary Enroll a student
// @Description Creates every enrollment with its payment plan, or nothing at all
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body enrollPayload true "Single item or batch"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var payload enrollPayload
	if !bindJSON(c, &payload) {
		return
	}
	results, err := h.enrollments.Enroll(c.Request.Context(), claimsFromContext(c), payload.request())
	respondCreated(c, results, err)
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param student_id query string false "Student"
// @Param status query string false "pending, accepted or rejected"
// @Param type query string false "course or package"
// @Param cycle_id query string false "Cycle"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	items, err := h.enrollments.List(c.Request.Context(), claimsFromContext(c), enrollmentFilter(c))
	respond(c, items, err)
}

// Get godoc
// @Summary Get enrollment
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	item, err := h.enrollments.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	respond(c, item, err)
}

// ListByOffering godoc
// @Summary List enrollments of an offering
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param kind path string true "course or package"
// @Param id path string true "Offering ID"
// @Param status query string false "Defaults to accepted"
// @Success 200 {object} response.Envelope
// @Router /enrollments/offering/{kind}/{id} [get]
func (h *EnrollmentHandler) ListByOffering(c *gin.Context) {
	ref := models.OfferingRef{Type: models.OfferingKind(c.Param("kind")), ID: c.Param("id")}
	items, err := h.enrollments.ListByOffering(c.Request.Context(), ref, models.EnrollmentStatus(c.Query("status")))
	respond(c, items, err)
}

// SetStatus godoc
// @Summary Change enrollment status
// @Description Accepting requires the payment plan to be fully paid
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Param payload body service.SetStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /enrollments/{id}/status [patch]
func (h *EnrollmentHandler) SetStatus(c *gin.Context) {
	var req service.SetStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.enrollments.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	respond(c, item, err)
}

// Delete godoc
// @Summary Delete enrollment
// @Tags Enrollments
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Success 204
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	respondDeleted(c, h.enrollments.Delete(c.Request.Context(), c.Param("id")))
}

// Export godoc
// @Summary Export enrollments
// @Tags Enrollments
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv, pdf or xlsx"
// @Param status query string false "Status filter"
// @Param cycle_id query string false "Cycle filter"
// @Success 200 {file} file
// @Router /enrollments/export [get]
func (h *EnrollmentHandler) Export(c *gin.Context) {
	file, err := h.enrollments.Export(c.Request.Context(), enrollmentFilter(c), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}
