package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-dashboard-api/internal/dto"
	appErrors "github.com/noah-isme/lms-dashboard-api/pkg/errors"
	"github.com/noah-isme/lms-dashboard-api/pkg/response"
)

type couponService interface {
	List(ctx context.Context, learnerID string) ([]dto.CouponResponse, error)
	Attach(ctx context.Context, learnerID string, req dto.AttachCouponRequest) (*dto.CouponResponse, error)
}

// CouponHandler wires the coupon service to HTTP endpoints.
type CouponHandler struct {
	service couponService
}

// NewCouponHandler constructs the handler.
func NewCouponHandler(service couponService) *CouponHandler {
	return &CouponHandler{service: service}
}

// List godoc
// @Summary List coupons attached to the learner
// @Tags Coupons
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	coupons, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, coupons, nil)
}

// Attach godoc
// @Summary Attach a coupon by code
// @Tags Coupons
// @Accept json
// @Produce json
// @Param payload body dto.AttachCouponRequest true "Coupon code"
// @Success 201 {object} response.Envelope
// @Router /coupons/attach [post]
func (h *CouponHandler) Attach(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.AttachCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	coupon, err := h.service.Attach(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, coupon)
}
