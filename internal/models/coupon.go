package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CouponContentType scopes a coupon to a program or a single course.
type CouponContentType string

// Coupon scopes.
const (
	CouponContentProgram CouponContentType = "program"
	CouponContentCourse  CouponContentType = "course"
)

// CouponAmountType distinguishes percentage from fixed-amount discounts.
type CouponAmountType string

// Coupon amount types.
const (
	CouponAmountPercent CouponAmountType = "percent-discount"
	CouponAmountFixed   CouponAmountType = "fixed-discount"
)

// Coupon is a discount attached to a learner. Amount is a fraction for
// percent coupons (0.25 = 25% off) and a currency amount for fixed coupons.
type Coupon struct {
	ID          string            `db:"id" json:"id"`
	CouponCode  string            `db:"coupon_code" json:"coupon_code"`
	ContentType CouponContentType `db:"content_type" json:"content_type"`
	ObjectID    string            `db:"object_id" json:"object_id"`
	AmountType  CouponAmountType  `db:"amount_type" json:"amount_type"`
	Amount      decimal.Decimal   `db:"amount" json:"amount"`
	AttachedAt  time.Time         `db:"attached_at" json:"attached_at"`
}
