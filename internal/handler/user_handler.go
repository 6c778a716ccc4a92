package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/service"
	"github.com/noah-isme/academia-api/pkg/response"
)

// UserHandler manages staff account endpoints.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new handler instance.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// List godoc
// @Summary List staff accounts
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param role query string false "ADMIN or TEACHER"
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	role := models.UserRole(strings.ToUpper(strings.TrimSpace(c.Query("role"))))
	users, err := h.service.List(c.Request.Context(), role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// Get godoc
// @Summary Get staff account
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// Create godoc
// @Summary Create an administrator account
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateAdminRequest true "Account payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateAdminRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.CreateAdmin(c.Request.Context(), req, auditMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// SetActive godoc
// @Summary Enable or disable a staff account
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param payload body setActiveRequest true "Active flag"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/active [patch]
func (h *UserHandler) SetActive(c *gin.Context) {
	var req setActiveRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.SetActive(c.Request.Context(), c.Param("id"), *req.Active, auditMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}
