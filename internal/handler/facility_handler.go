package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/plon/illinispots-sub000/internal/models"
	"github.com/plon/illinispots-sub000/internal/service"
	appErrors "github.com/plon/illinispots-sub000/pkg/errors"
	"github.com/plon/illinispots-sub000/pkg/response"
)

type facilityService interface {
	Snapshot(ctx context.Context, query service.FacilityQuery) (*models.FacilityStatus, bool, error)
}

// FacilityHandler wires the availability snapshot to HTTP endpoints.
type FacilityHandler struct {
	service  facilityService
	metrics  *service.MetricsService
	validate *validator.Validate
}

// NewFacilityHandler constructs the handler.
func NewFacilityHandler(svc facilityService, metrics *service.MetricsService) *FacilityHandler {
	return &FacilityHandler{service: svc, metrics: metrics, validate: validator.New()}
}

// List godoc
// @Summary Campus-wide facility availability snapshot
// @Tags Facilities
// @Produce json
// @Param academic query bool false "Include academic buildings (default true)"
// @Param libraries query bool false "Include libraries (default true)"
// @Param minDuration query int false "Minimum free minutes"
// @Param freeUntil query string false "Room must stay free until HH:mm"
// @Param startTime query string false "Room must still be free at HH:mm"
// @Success 200 {object} response.Envelope
// @Router /facilities [get]
func (h *FacilityHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	query := service.FacilityQuery{
		IncludeAcademic:  parseBoolDefault(c.Query("academic"), true),
		IncludeLibraries: parseBoolDefault(c.Query("libraries"), true),
		FreeUntil:        strings.TrimSpace(c.Query("freeUntil")),
		StartTime:        strings.TrimSpace(c.Query("startTime")),
	}
	if raw := strings.TrimSpace(c.Query("minDuration")); raw != "" {
		minDuration, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "minDuration must be an integer"))
			return
		}
		query.MinDuration = minDuration
	}
	if err := h.validate.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid facility query"))
		return
	}

	start := time.Now()
	snapshot, cacheHit, err := h.service.Snapshot(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordCacheLookup(cacheHit)
	h.metrics.ObserveSnapshotBuild(time.Since(start))

	meta := map[string]interface{}{
		"cache_hit":          cacheHit,
		"processing_time_ms": time.Since(start).Milliseconds(),
	}
	response.JSON(c, http.StatusOK, snapshot, meta)
}

func parseBoolDefault(raw string, fallback bool) bool {
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
