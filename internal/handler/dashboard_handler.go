package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-dashboard-api/internal/dto"
	"github.com/noah-isme/lms-dashboard-api/internal/middleware"
	appErrors "github.com/noah-isme/lms-dashboard-api/pkg/errors"
	"github.com/noah-isme/lms-dashboard-api/pkg/response"
)

type dashboardService interface {
	Overview(ctx context.Context, learnerID string, expanded bool) (*dto.LearnerDashboardResponse, bool, error)
	CoursePrice(ctx context.Context, learnerID, courseID string) (*dto.CoursePriceResponse, error)
}

// DashboardHandler wires the dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Overview godoc
// @Summary Learner dashboard with evaluated course statuses
// @Tags Dashboard
// @Produce json
// @Param expanded query bool false "Include expanded-card offers such as re-enrollment on passed courses"
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	expanded := strings.EqualFold(c.Query("expanded"), "true")

	start := time.Now()
	overview, cacheHit, err := h.service.Overview(c.Request.Context(), claims.UserID, expanded)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, overview, nil, meta)
}

// CoursePrice godoc
// @Summary Pricing breakdown for a single course
// @Tags Dashboard
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/price [get]
func (h *DashboardHandler) CoursePrice(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	courseID := strings.TrimSpace(c.Param("courseId"))
	if courseID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "courseId is required"))
		return
	}

	price, err := h.service.CoursePrice(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, price, nil)
}
