package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-dashboard-api/internal/dto"
	"github.com/noah-isme/lms-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/lms-dashboard-api/pkg/errors"
)

type couponRepository interface {
	ListForLearner(ctx context.Context, learnerID string) ([]models.Coupon, error)
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	IsAttached(ctx context.Context, learnerID, couponID string) (bool, error)
	CountForLearner(ctx context.Context, learnerID string) (int, error)
	Attach(ctx context.Context, learnerID, couponID string, attachedAt time.Time) error
}

// CouponService manages coupon listing and attachment for learners.
type CouponService struct {
	repo        couponRepository
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
	maxAttached int
	now         func() time.Time
}

// NewCouponService constructs a CouponService.
func NewCouponService(repo couponRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, maxAttached int) *CouponService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxAttached <= 0 {
		maxAttached = 25
	}
	return &CouponService{
		repo:        repo,
		cache:       cache,
		validator:   validate,
		logger:      logger,
		maxAttached: maxAttached,
		now:         time.Now,
	}
}

// List returns the learner's attached coupons.
func (s *CouponService) List(ctx context.Context, learnerID string) ([]dto.CouponResponse, error) {
	if learnerID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "learnerId is required")
	}
	coupons, err := s.repo.ListForLearner(ctx, learnerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list coupons")
	}
	result := make([]dto.CouponResponse, 0, len(coupons))
	for _, coupon := range coupons {
		result = append(result, dto.NewCouponResponse(coupon))
	}
	return result, nil
}

// Attach links the coupon with the given code to the learner. The dashboard
// cache is invalidated so the next evaluation sees the new discount.
func (s *CouponService) Attach(ctx context.Context, learnerID string, req dto.AttachCouponRequest) (*dto.CouponResponse, error) {
	if learnerID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "learnerId is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid coupon payload")
	}

	code := strings.TrimSpace(req.CouponCode)
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up coupon")
	}
	if coupon == nil {
		return nil, appErrors.Clone(appErrors.ErrCouponInvalid, "unknown coupon code")
	}

	attached, err := s.repo.IsAttached(ctx, learnerID, coupon.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check coupon attachment")
	}
	if attached {
		return nil, appErrors.Clone(appErrors.ErrConflict, "coupon is already attached")
	}

	count, err := s.repo.CountForLearner(ctx, learnerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count coupons")
	}
	if count >= s.maxAttached {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "coupon limit reached")
	}

	attachedAt := s.now().UTC()
	if err := s.repo.Attach(ctx, learnerID, coupon.ID, attachedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach coupon")
	}

	if s.cache != nil {
		pattern := fmt.Sprintf("dash:learner:%s:*", learnerID)
		if err := s.cache.Invalidate(ctx, pattern); err != nil {
			s.logger.Warn("coupon attach cache invalidation failed",
				zap.String("learner_id", learnerID), zap.Error(err))
		}
	}

	coupon.AttachedAt = attachedAt
	resp := dto.NewCouponResponse(*coupon)
	return &resp, nil
}
