package dto

import (
	"time"

	"github.com/noah-isme/lms-dashboard-api/internal/models"
)

// StatusMessageResponse is one display line for a course card.
type StatusMessageResponse struct {
	Text   string `json:"text"`
	Action string `json:"action,omitempty"`
	Link   string `json:"link,omitempty"`
}

// CourseStatusResponse is the evaluated state of one course for the learner.
type CourseStatusResponse struct {
	CourseID      string                  `json:"courseId"`
	Title         string                  `json:"title"`
	Position      int                     `json:"position"`
	OriginalPrice string                  `json:"originalPrice"`
	FinalPrice    string                  `json:"finalPrice"`
	Discount      *string                 `json:"discount,omitempty"`
	PrimaryAction string                  `json:"primaryAction,omitempty"`
	Messages      []StatusMessageResponse `json:"messages"`
}

// ProgramSummary describes the program owning the dashboard courses.
type ProgramSummary struct {
	ID                    string `json:"id"`
	Title                 string `json:"title"`
	Description           string `json:"description,omitempty"`
	FinancialAidAvailable bool   `json:"financialAidAvailable"`
}

// LearnerDashboardResponse is the full dashboard payload for one learner.
type LearnerDashboardResponse struct {
	Program     ProgramSummary         `json:"program"`
	Courses     []CourseStatusResponse `json:"courses"`
	GeneratedAt time.Time              `json:"generatedAt"`
}

// CoursePriceResponse is the standalone pricing breakdown for one course.
type CoursePriceResponse struct {
	CourseID      string  `json:"courseId"`
	OriginalPrice string  `json:"originalPrice"`
	FinalPrice    string  `json:"finalPrice"`
	Discount      *string `json:"discount,omitempty"`
	CouponApplied bool    `json:"couponApplied"`
	CouponCode    string  `json:"couponCode,omitempty"`
}

// CouponResponse is a coupon attached to the learner.
type CouponResponse struct {
	ID          string    `json:"id"`
	CouponCode  string    `json:"couponCode"`
	ContentType string    `json:"contentType"`
	ObjectID    string    `json:"objectId"`
	AmountType  string    `json:"amountType"`
	Amount      string    `json:"amount"`
	AttachedAt  time.Time `json:"attachedAt"`
}

// AttachCouponRequest is the payload for attaching a coupon by code.
type AttachCouponRequest struct {
	CouponCode string `json:"couponCode" validate:"required"`
}

// NewStatusMessageResponse maps an engine status message to its wire form.
func NewStatusMessageResponse(msg models.StatusMessage) StatusMessageResponse {
	return StatusMessageResponse{
		Text:   msg.Text,
		Action: string(msg.Action),
		Link:   msg.Link,
	}
}

// NewCouponResponse maps a coupon model to its wire form.
func NewCouponResponse(coupon models.Coupon) CouponResponse {
	return CouponResponse{
		ID:          coupon.ID,
		CouponCode:  coupon.CouponCode,
		ContentType: string(coupon.ContentType),
		ObjectID:    coupon.ObjectID,
		AmountType:  string(coupon.AmountType),
		Amount:      coupon.Amount.String(),
		AttachedAt:  coupon.AttachedAt,
	}
}
