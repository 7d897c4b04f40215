package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-dashboard-api/internal/dto"
	appErrors "github.com/noah-isme/lms-dashboard-api/pkg/errors"
)

type stubDashboardProvider struct {
	overview *dto.LearnerDashboardResponse
	err      error
}

func (s *stubDashboardProvider) Overview(ctx context.Context, learnerID string, expanded bool) (*dto.LearnerDashboardResponse, bool, error) {
	return s.overview, false, s.err
}

func testOverview() *dto.LearnerDashboardResponse {
	discount := "25.00"
	return &dto.LearnerDashboardResponse{
		Program: dto.ProgramSummary{ID: "program-1", Title: "Data Science"},
		Courses: []dto.CourseStatusResponse{{
			CourseID:      "course-1",
			Title:         "Statistics",
			OriginalPrice: "100.00",
			FinalPrice:    "75.00",
			Discount:      &discount,
			PrimaryAction: "enroll",
			Messages: []dto.StatusMessageResponse{
				{Text: "25% off this course!"},
				{Text: "Enrollment open", Action: "enroll"},
			},
		}},
		GeneratedAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestExportServiceRenderCSV(t *testing.T) {
	svc := NewExportService(&stubDashboardProvider{overview: testOverview()}, nil, nil, nil, true)

	result, err := svc.Render(context.Background(), "learner-1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "dashboard-learner-1.csv", result.Filename)

	body := string(result.Payload)
	assert.Contains(t, body, "Course,Original Price,Final Price,Discount,Next Step,Messages")
	assert.Contains(t, body, "Statistics")
	assert.Contains(t, body, "75.00")
	assert.Contains(t, body, "25% off this course!; Enrollment open")
}

func TestExportServiceRenderPDF(t *testing.T) {
	svc := NewExportService(&stubDashboardProvider{overview: testOverview()}, nil, nil, nil, true)

	result, err := svc.Render(context.Background(), "learner-1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Payload), "%PDF"))
}

func TestExportServiceDisabled(t *testing.T) {
	svc := NewExportService(&stubDashboardProvider{overview: testOverview()}, nil, nil, nil, false)

	_, err := svc.Render(context.Background(), "learner-1", "csv")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	svc := NewExportService(&stubDashboardProvider{overview: testOverview()}, nil, nil, nil, true)

	_, err := svc.Render(context.Background(), "learner-1", "xlsx")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
