package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-dashboard-api/internal/dto"
	appErrors "github.com/noah-isme/lms-dashboard-api/pkg/errors"
	"github.com/noah-isme/lms-dashboard-api/pkg/export"
)

type dashboardProvider interface {
	Overview(ctx context.Context, learnerID string, expanded bool) (*dto.LearnerDashboardResponse, bool, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult carries a rendered export and its download metadata.
type ExportResult struct {
	Payload     []byte
	ContentType string
	Filename    string
}

// ExportService renders the learner dashboard as a downloadable file.
type ExportService struct {
	dashboard dashboardProvider
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
	enabled   bool
}

// NewExportService constructs an ExportService.
func NewExportService(dashboard dashboardProvider, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger, enabled bool) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{dashboard: dashboard, csv: csv, pdf: pdf, logger: logger, enabled: enabled}
}

var exportHeaders = []string{"Course", "Original Price", "Final Price", "Discount", "Next Step", "Messages"}

// Render evaluates the learner dashboard and renders it in the given format.
func (s *ExportService) Render(ctx context.Context, learnerID, format string) (*ExportResult, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}

	overview, _, err := s.dashboard.Overview(ctx, learnerID, false)
	if err != nil {
		return nil, err
	}

	dataset := buildExportDataset(overview)

	switch strings.ToLower(format) {
	case "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Payload:     payload,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("dashboard-%s.csv", learnerID),
		}, nil
	case "pdf":
		payload, err := s.pdf.Render(dataset, overview.Program.Title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Payload:     payload,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("dashboard-%s.pdf", learnerID),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format, expected csv or pdf")
	}
}

func buildExportDataset(overview *dto.LearnerDashboardResponse) export.Dataset {
	rows := make([]map[string]string, 0, len(overview.Courses))
	for _, course := range overview.Courses {
		discount := ""
		if course.Discount != nil {
			discount = *course.Discount
		}
		texts := make([]string, 0, len(course.Messages))
		for _, msg := range course.Messages {
			texts = append(texts, msg.Text)
		}
		rows = append(rows, map[string]string{
			"Course":         course.Title,
			"Original Price": course.OriginalPrice,
			"Final Price":    course.FinalPrice,
			"Discount":       discount,
			"Next Step":      course.PrimaryAction,
			"Messages":       strings.Join(texts, "; "),
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}
