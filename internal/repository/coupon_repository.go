package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-dashboard-api/internal/models"
)

// CouponRepository manages coupons and their attachment to learners.
type CouponRepository struct {
	db *sqlx.DB
}

// NewCouponRepository constructs the repository.
func NewCouponRepository(db *sqlx.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

const couponsByLearnerQuery = `
SELECT
	c.id,
	c.coupon_code,
	c.content_type,
	c.object_id,
	c.amount_type,
	c.amount,
	lc.attached_at
FROM coupons c
JOIN learner_coupons lc ON lc.coupon_id = c.id
WHERE lc.learner_id = $1
ORDER BY lc.attached_at DESC`

const couponByCodeQuery = `
SELECT
	c.id,
	c.coupon_code,
	c.content_type,
	c.object_id,
	c.amount_type,
	c.amount
FROM coupons c
WHERE c.coupon_code = $1 AND c.active = TRUE`

const couponAttachedQuery = `
SELECT COUNT(1)
FROM learner_coupons lc
WHERE lc.learner_id = $1 AND lc.coupon_id = $2`

const countByLearnerQuery = `
SELECT COUNT(1)
FROM learner_coupons lc
WHERE lc.learner_id = $1`

const attachCouponStmt = `
INSERT INTO learner_coupons (id, learner_id, coupon_id, attached_at)
VALUES ($1, $2, $3, $4)`

// ListForLearner returns all coupons attached to the learner, newest first.
func (r *CouponRepository) ListForLearner(ctx context.Context, learnerID string) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := r.db.SelectContext(ctx, &coupons, couponsByLearnerQuery, learnerID); err != nil {
		return nil, fmt.Errorf("list coupons for learner %s: %w", learnerID, err)
	}
	return coupons, nil
}

// FindByCode returns the active coupon with the given code, or nil.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.GetContext(ctx, &coupon, couponByCodeQuery, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find coupon by code: %w", err)
	}
	return &coupon, nil
}

// IsAttached reports whether the learner already holds the coupon.
func (r *CouponRepository) IsAttached(ctx context.Context, learnerID, couponID string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, couponAttachedQuery, learnerID, couponID); err != nil {
		return false, fmt.Errorf("check coupon attachment: %w", err)
	}
	return count > 0, nil
}

// CountForLearner returns how many coupons the learner holds.
func (r *CouponRepository) CountForLearner(ctx context.Context, learnerID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, countByLearnerQuery, learnerID); err != nil {
		return 0, fmt.Errorf("count coupons for learner %s: %w", learnerID, err)
	}
	return count, nil
}

// Attach links the coupon to the learner.
func (r *CouponRepository) Attach(ctx context.Context, learnerID, couponID string, attachedAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, attachCouponStmt, uuid.NewString(), learnerID, couponID, attachedAt); err != nil {
		return fmt.Errorf("attach coupon %s to learner %s: %w", couponID, learnerID, err)
	}
	return nil
}
