package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-dashboard-api/internal/dto"
	"github.com/noah-isme/lms-dashboard-api/internal/engine"
	"github.com/noah-isme/lms-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/lms-dashboard-api/pkg/errors"
)

type programRepository interface {
	GetForLearner(ctx context.Context, learnerID string) (*models.Program, error)
}

type financialAidRepository interface {
	GetForLearner(ctx context.Context, learnerID, programID string) (*models.FinancialAidInfo, error)
}

type couponLister interface {
	ListForLearner(ctx context.Context, learnerID string) ([]models.Coupon, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService loads a learner's program snapshot, runs the decision
// engine per course and serves the assembled dashboard.
type DashboardService struct {
	programs programRepository
	aid      financialAidRepository
	coupons  couponLister
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
	cfg      DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Programs programRepository
	Aid      financialAidRepository
	Coupons  couponLister
	Cache    *CacheService
	Metrics  *MetricsService
	Logger   *zap.Logger
	Config   DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		programs: params.Programs,
		aid:      params.Aid,
		coupons:  params.Coupons,
		cache:    params.Cache,
		metrics:  params.Metrics,
		logger:   logger,
		now:      time.Now,
		cfg:      cfg,
	}
}

// Overview returns the learner dashboard and indicates cache utilisation.
func (s *DashboardService) Overview(ctx context.Context, learnerID string, expanded bool) (*dto.LearnerDashboardResponse, bool, error) {
	if learnerID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "learnerId is required")
	}

	cacheKey := fmt.Sprintf("dash:learner:%s:expanded:%t", learnerID, expanded)
	if cached, hit, err := s.tryCache(ctx, cacheKey); err != nil {
		return nil, false, err
	} else if hit {
		return cached, true, nil
	}

	summary, err := s.compose(ctx, learnerID, expanded)
	if err != nil {
		return nil, false, err
	}
	s.persistCache(ctx, cacheKey, summary)
	return summary, false, nil
}

// CoursePrice returns the pricing breakdown for a single course.
func (s *DashboardService) CoursePrice(ctx context.Context, learnerID, courseID string) (*dto.CoursePriceResponse, error) {
	if learnerID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "learnerId is required")
	}
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "courseId is required")
	}

	snapshot, err := s.loadSnapshot(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	for _, course := range snapshot.program.Courses {
		if course.ID != courseID {
			continue
		}
		status := s.evaluate(course, snapshot, false)

		resp := &dto.CoursePriceResponse{
			CourseID:      course.ID,
			OriginalPrice: status.OriginalPrice.StringFixed(2),
			FinalPrice:    status.FinalPrice.StringFixed(2),
			Discount:      decimalString(status.Discount),
			CouponApplied: status.Discount != nil,
		}
		if resp.CouponApplied {
			if coupon := engine.ResolveCoupon(snapshot.coupons, course.ID, snapshot.program.ID); coupon != nil {
				resp.CouponCode = coupon.CouponCode
			}
		}
		return resp, nil
	}

	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found in learner program")
}

type learnerSnapshot struct {
	program *models.Program
	aid     models.FinancialAidInfo
	coupons []models.Coupon
}

func (s *DashboardService) loadSnapshot(ctx context.Context, learnerID string) (*learnerSnapshot, error) {
	program, err := s.programs.GetForLearner(ctx, learnerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program snapshot")
	}
	if program == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "learner is not enrolled in a program")
	}

	snapshot := &learnerSnapshot{program: program}

	aid, err := s.aid.GetForLearner(ctx, learnerID, program.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load financial aid")
	}
	if aid != nil {
		snapshot.aid = *aid
	} else {
		snapshot.aid = models.FinancialAidInfo{
			ProgramID:         program.ID,
			LearnerID:         learnerID,
			ApplicationStatus: models.AidStatusNoneCreated,
		}
	}

	coupons, err := s.coupons.ListForLearner(ctx, learnerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coupons")
	}
	snapshot.coupons = coupons

	return snapshot, nil
}

func (s *DashboardService) compose(ctx context.Context, learnerID string, expanded bool) (*dto.LearnerDashboardResponse, error) {
	snapshot, err := s.loadSnapshot(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	program := snapshot.program
	courses := make([]dto.CourseStatusResponse, 0, len(program.Courses))
	for _, course := range program.Courses {
		status := s.evaluate(course, snapshot, expanded)
		courses = append(courses, buildCourseStatus(course, status))
	}

	return &dto.LearnerDashboardResponse{
		Program: dto.ProgramSummary{
			ID:                    program.ID,
			Title:                 program.Title,
			Description:           program.Description,
			FinancialAidAvailable: program.FinancialAidAvailability,
		},
		Courses:     courses,
		GeneratedAt: s.now().UTC(),
	}, nil
}

func (s *DashboardService) evaluate(course models.Course, snapshot *learnerSnapshot, expanded bool) models.DerivedStatus {
	start := time.Now()
	status := engine.Evaluate(engine.EvaluateParams{
		Course:       course,
		Program:      *snapshot.program,
		FinancialAid: snapshot.aid,
		Coupons:      snapshot.coupons,
		Now:          s.now().UTC(),
		Expanded:     expanded,
	})
	if s.metrics != nil {
		s.metrics.ObserveEvaluation(string(status.PrimaryAction), time.Since(start))
	}
	return status
}

func buildCourseStatus(course models.Course, status models.DerivedStatus) dto.CourseStatusResponse {
	messages := make([]dto.StatusMessageResponse, 0, len(status.Messages))
	for _, msg := range status.Messages {
		messages = append(messages, dto.NewStatusMessageResponse(msg))
	}
	return dto.CourseStatusResponse{
		CourseID:      course.ID,
		Title:         course.Title,
		Position:      course.Position,
		OriginalPrice: status.OriginalPrice.StringFixed(2),
		FinalPrice:    status.FinalPrice.StringFixed(2),
		Discount:      decimalString(status.Discount),
		PrimaryAction: string(status.PrimaryAction),
		Messages:      messages,
	}
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	formatted := d.StringFixed(2)
	return &formatted
}

func (s *DashboardService) tryCache(ctx context.Context, key string) (*dto.LearnerDashboardResponse, bool, error) {
	if s.cache == nil {
		return nil, false, nil
	}
	var cached dto.LearnerDashboardResponse
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		return nil, false, err
	}
	if hit {
		return &cached, true, nil
	}
	return nil, false, nil
}

func (s *DashboardService) persistCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil && s.logger != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
