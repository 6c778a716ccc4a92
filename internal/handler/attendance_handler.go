package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academia-api/internal/service"
)

// AttendanceHandler records and lists attendance.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Mark godoc
// @Summary Mark attendance
// @Description Upserts the mark for the day and raises an absence alert at the configured threshold
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.MarkAttendanceRequest true "Attendance mark"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.attendance.Mark(c.Request.Context(), claimsFromContext(c), req)
	respond(c, result, err)
}

// BySchedule godoc
// @Summary Attendance of a schedule on a date
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/attendance [get]
func (h *AttendanceHandler) BySchedule(c *gin.Context) {
	records, err := h.attendance.BySchedule(c.Request.Context(), claimsFromContext(c), c.Param("id"), c.Query("date"))
	respond(c, records, err)
}
