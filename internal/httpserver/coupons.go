package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/domain"
)

type validateCouponRequest struct {
	Code      string `json:"code"`
	CartTotal int64  `json:"cartTotal"`
}

type couponResponse struct {
	Code           string `json:"code"`
	DiscountType   string `json:"discountType"`
	DiscountValue  int64  `json:"discountValue"`
	DiscountAmount int64  `json:"discountAmount"`
	Description    string `json:"description"`
}

func validateCouponHandler(logger *log.Logger, svc CouponService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "coupon code required"})
			return
		}

		coupon, amount, err := svc.Validate(c.Request.Context(), req.Code, req.CartTotal)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "invalid or unknown coupon code"})
				return
			}
			respondError(c, logger, err, "failed to validate coupon")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"valid": true,
			"coupon": couponResponse{
				Code:           coupon.Code,
				DiscountType:   string(coupon.DiscountType),
				DiscountValue:  coupon.DiscountValue,
				DiscountAmount: amount,
				Description:    coupon.Description,
			},
		})
	}
}

func listCouponsHandler(logger *log.Logger, svc CouponService) gin.HandlerFunc {
	return func(c *gin.Context) {
		coupons, err := svc.ListVisible(c.Request.Context())
		if err != nil {
			respondError(c, logger, err, "failed to fetch coupons")
			return
		}
		if coupons == nil {
			coupons = []domain.Coupon{}
		}
		c.JSON(http.StatusOK, gin.H{"coupons": coupons})
	}
}
