package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/service"
	"github.com/noah-isme/academia-api/pkg/response"
)

const calendarContentType = "text/calendar; charset=utf-8"

// ScheduleHandler manages weekly schedule slots.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// List godoc
// @Summary List schedules
// @Description Filter by course_offering_id or package_offering_id; without filters every slot is returned
// @Tags Schedules
// @Produce json
// @Param course_offering_id query string false "Course offering"
// @Param package_offering_id query string false "Package offering"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		items []models.ScheduleDetail
		err   error
	)
	switch {
	case c.Query("course_offering_id") != "":
		items, err = h.schedules.ListByCourseOffering(ctx, c.Query("course_offering_id"))
	case c.Query("package_offering_id") != "":
		items, err = h.schedules.ListByPackageOffering(ctx, c.Query("package_offering_id"))
	default:
		items, err = h.schedules.List(ctx)
	}
	respond(c, items, err)
}

// Get godoc
// @Summary Get schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	item, err := h.schedules.Get(c.Request.Context(), c.Param("id"))
	respond(c, item, err)
}

// Create godoc
// @Summary Create schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.CreateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.schedules.Create(c.Request.Context(), req)
	respondCreated(c, item, err)
}

// Update godoc
// @Summary Update schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Param payload body models.ScheduleUpdate true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [patch]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var upd models.ScheduleUpdate
	if !bindJSON(c, &upd) {
		return
	}
	item, err := h.schedules.Update(c.Request.Context(), c.Param("id"), upd)
	respond(c, item, err)
}

// Delete godoc
// @Summary Delete schedule
// @Tags Schedules
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	respondDeleted(c, h.schedules.Delete(c.Request.Context(), c.Param("id")))
}

// Calendar godoc
// @Summary Download an offering timetable as iCalendar
// @Tags Schedules
// @Produce text/calendar
// @Param id path string true "Course offering ID"
// @Success 200 {file} file
// @Router /course-offerings/{id}/calendar.ics [get]
func (h *ScheduleHandler) Calendar(c *gin.Context) {
	id := c.Param("id")
	body, err := h.schedules.Calendar(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, fmt.Sprintf("offering-%s.ics", id), calendarContentType, body)
}
