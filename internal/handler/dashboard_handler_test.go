package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-dashboard-api/internal/dto"
	"github.com/noah-isme/lms-dashboard-api/internal/middleware"
	"github.com/noah-isme/lms-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/lms-dashboard-api/pkg/errors"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeDashboardSrv struct {
	overview    *dto.LearnerDashboardResponse
	overviewErr error
	overviewHit bool
	price       *dto.CoursePriceResponse
	priceErr    error
	last        struct {
		learnerID string
		courseID  string
		expanded  bool
	}
}

func (f *fakeDashboardSrv) Overview(_ context.Context, learnerID string, expanded bool) (*dto.LearnerDashboardResponse, bool, error) {
	f.last.learnerID = learnerID
	f.last.expanded = expanded
	return f.overview, f.overviewHit, f.overviewErr
}

func (f *fakeDashboardSrv) CoursePrice(_ context.Context, learnerID, courseID string) (*dto.CoursePriceResponse, error) {
	f.last.learnerID = learnerID
	f.last.courseID = courseID
	return f.price, f.priceErr
}

func newAuthedContext(t *testing.T, method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "learner-1", Role: models.RoleLearner})
	return c, rec
}

func TestDashboardHandlerOverviewRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Overview(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardHandlerOverviewSuccess(t *testing.T) {
	srv := &fakeDashboardSrv{
		overview: &dto.LearnerDashboardResponse{
			Program: dto.ProgramSummary{ID: "program-1"},
		},
	}
	handler := NewDashboardHandler(srv)

	c, rec := newAuthedContext(t, http.MethodGet, "/dashboard?expanded=true")
	handler.Overview(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "learner-1", srv.last.learnerID)
	assert.True(t, srv.last.expanded)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	program, ok := envelope.Data["program"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "program-1", program["id"])
}

func TestDashboardHandlerCoursePrice(t *testing.T) {
	srv := &fakeDashboardSrv{
		price: &dto.CoursePriceResponse{CourseID: "course-1", FinalPrice: "75.00", CouponApplied: true},
	}
	handler := NewDashboardHandler(srv)

	c, rec := newAuthedContext(t, http.MethodGet, "/courses/course-1/price")
	c.Params = gin.Params{{Key: "courseId", Value: "course-1"}}
	handler.CoursePrice(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "course-1", srv.last.courseID)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "75.00", envelope.Data["finalPrice"])
}

func TestDashboardHandlerCoursePriceNotFound(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{
		priceErr: appErrors.Clone(appErrors.ErrNotFound, "course not found in learner program"),
	})

	c, rec := newAuthedContext(t, http.MethodGet, "/courses/course-404/price")
	c.Params = gin.Params{{Key: "courseId", Value: "course-404"}}
	handler.CoursePrice(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "NOT_FOUND", envelope.Error["code"])
}
