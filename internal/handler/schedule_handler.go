package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/plon/illinispots-sub000/internal/service"
	appErrors "github.com/plon/illinispots-sub000/pkg/errors"
	"github.com/plon/illinispots-sub000/pkg/response"
)

type scheduleService interface {
	Schedule(ctx context.Context, query service.RoomScheduleQuery) (*service.RoomDaySchedule, error)
	Export(ctx context.Context, query service.RoomScheduleQuery, format string) (string, string, []byte, error)
}

// ScheduleHandler wires the room schedule views to HTTP endpoints.
type ScheduleHandler struct {
	service  scheduleService
	validate *validator.Validate
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc, validate: validator.New()}
}

func (h *ScheduleHandler) query(c *gin.Context) (service.RoomScheduleQuery, error) {
	query := service.RoomScheduleQuery{
		BuildingID: strings.TrimSpace(c.Query("buildingId")),
		RoomNumber: strings.TrimSpace(c.Query("room")),
		Relative:   parseBoolDefault(c.Query("relative"), false),
	}
	if err := h.validate.Struct(query); err != nil {
		return service.RoomScheduleQuery{}, appErrors.Clone(appErrors.ErrValidation, "buildingId and room are required")
	}
	return query, nil
}

// Get godoc
// @Summary One room's day schedule as hourly blocks
// @Tags Schedules
// @Produce json
// @Param buildingId query string true "Building ID"
// @Param room query string true "Room number"
// @Param relative query bool false "Trim to the remainder of the day"
// @Success 200 {object} response.Envelope
// @Router /room-schedule [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	query, err := h.query(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.Schedule(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Export godoc
// @Summary Download one room's day schedule
// @Tags Schedules
// @Produce text/csv,application/pdf
// @Param buildingId query string true "Building ID"
// @Param room query string true "Room number"
// @Param format query string true "csv or pdf"
// @Success 200 {file} file
// @Router /room-schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	query, err := h.query(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := strings.TrimSpace(c.Query("format"))

	filename, contentType, payload, err := h.service.Export(c.Request.Context(), query, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
