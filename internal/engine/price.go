package engine

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/lms-dashboard-api/internal/models"
)

// PriceBreakdown is the human-facing pricing result for one course.
type PriceBreakdown struct {
	OriginalPrice decimal.Decimal
	FinalPrice    decimal.Decimal
	Discount      *decimal.Decimal
	CouponApplied bool
}

// CalculatePrice combines the list price, the resolved aid tier and the
// resolved coupon into the final payable price. An aid-assigned price
// replaces the list price rather than discounting it, and suppresses the
// coupon for calculation; the two never stack. This stacking rule matches
// observed platform behaviour rather than a single canonical source.
// Monetary values stay unrounded between steps and are rounded exactly once
// here, at output.
func CalculatePrice(listPrice decimal.Decimal, aid AidResolution, coupon *models.Coupon) PriceBreakdown {
	original := listPrice
	if aid.PriceAssigned() {
		original = *aid.Price
	}

	final := original
	breakdown := PriceBreakdown{}

	if coupon != nil && couponCanApply(aid) {
		discount := CouponDiscount(*coupon, original)
		final = original.Sub(discount)
		if final.IsNegative() {
			final = decimal.Zero
		}
		rounded := discount.Round(2)
		breakdown.Discount = &rounded
		breakdown.CouponApplied = true
	}

	breakdown.OriginalPrice = original.Round(2)
	breakdown.FinalPrice = final.Round(2)
	return breakdown
}

// couponCanApply reports whether the aid tier leaves the coupon active for
// calculation. Any tier that assigns or will assign an aid price wins.
func couponCanApply(aid AidResolution) bool {
	switch aid.Tier {
	case AidNotApplicable, AidMustApply, AidUnknown:
		return true
	}
	return !aid.PriceAssigned() && aid.Tier == AidPriced
}
