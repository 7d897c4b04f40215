package engine

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/lms-dashboard-api/internal/models"
)

// ResolveCoupon picks the best-matching coupon for a course/program pair.
// A course-scoped coupon always wins over a program-scoped one; a coupon
// whose target matches nothing is simply ignored. The caller pre-filters the
// list to the learner's attached coupons.
func ResolveCoupon(coupons []models.Coupon, courseID, programID string) *models.Coupon {
	for i := range coupons {
		if coupons[i].ContentType == models.CouponContentCourse && coupons[i].ObjectID == courseID {
			return &coupons[i]
		}
	}
	for i := range coupons {
		if coupons[i].ContentType == models.CouponContentProgram && coupons[i].ObjectID == programID {
			return &coupons[i]
		}
	}
	return nil
}

// CouponDiscount computes the discount a coupon yields against a price.
// Fixed discounts are capped at the price; unknown amount types yield zero.
func CouponDiscount(coupon models.Coupon, price decimal.Decimal) decimal.Decimal {
	switch coupon.AmountType {
	case models.CouponAmountPercent:
		return price.Mul(coupon.Amount)
	case models.CouponAmountFixed:
		if coupon.Amount.GreaterThan(price) {
			return price
		}
		return coupon.Amount
	default:
		return decimal.Zero
	}
}
