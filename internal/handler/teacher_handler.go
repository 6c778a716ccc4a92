package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/service"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
	"github.com/noah-isme/academia-api/pkg/response"
)

// TeacherHandler manages teacher endpoints.
type TeacherHandler struct {
	service *service.TeacherService
}

// NewTeacherHandler constructs TeacherHandler.
func NewTeacherHandler(svc *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{service: svc}
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	teachers, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teachers)
}

// Get godoc
// @Summary Get teacher
// @Tags Teachers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	teacher, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teacher)
}

// Create godoc
// @Summary Create teacher
// @Description Also provisions a TEACHER account whose username and initial password are the DNI
// @Tags Teachers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req service.CreateTeacherRequest
	if !bindJSON(c, &req) {
		return
	}
	teacher, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// Update godoc
// @Summary Update teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Param payload body models.TeacherUpdate true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [patch]
func (h *TeacherHandler) Update(c *gin.Context) {
	var upd models.TeacherUpdate
	if !bindJSON(c, &upd) {
		return
	}
	teacher, err := h.service.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, teacher)
}

// Delete godoc
// @Summary Delete teacher
// @Tags Teachers
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Success 204
// @Router /teachers/{id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ResetPassword godoc
// @Summary Reset teacher password to the DNI
// @Tags Teachers
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Success 204
// @Router /teachers/{id}/reset-password [post]
func (h *TeacherHandler) ResetPassword(c *gin.Context) {
	if err := h.service.ResetPassword(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Students godoc
// @Summary Students with accepted enrollments in the teacher's offerings
// @Tags Teachers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/students [get]
func (h *TeacherHandler) Students(c *gin.Context) {
	students, err := h.service.Students(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// MyStudents godoc
// @Summary Students of the authenticated teacher
// @Tags Teachers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /teachers/me/students [get]
func (h *TeacherHandler) MyStudents(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.RelatedID == "" {
		response.Error(c, appErrors.ErrForbidden)
		return
	}
	students, err := h.service.Students(c.Request.Context(), claims.RelatedID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}
