package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-dashboard-api/internal/service"
	appErrors "github.com/noah-isme/lms-dashboard-api/pkg/errors"
	"github.com/noah-isme/lms-dashboard-api/pkg/response"
)

type exportService interface {
	Render(ctx context.Context, learnerID, format string) (*service.ExportResult, error)
}

// ExportHandler streams dashboard exports.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Download godoc
// @Summary Export the learner dashboard as CSV or PDF
// @Tags Dashboard
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "Export format (csv or pdf)"
// @Success 200 {file} file
// @Router /dashboard/export [get]
func (h *ExportHandler) Download(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	format := strings.TrimSpace(c.Query("format"))
	if format == "" {
		format = "csv"
	}

	result, err := h.service.Render(c.Request.Context(), claims.UserID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
