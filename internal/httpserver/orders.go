package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/domain"
	ordersvc "storefront-api/internal/service/order"
)

// createOrderRequest mirrors the checkout payload. The monetary fields
// the client sends (subtotal, shipping, tax, total, coupon discount)
// are accepted for wire compatibility but never trusted: the order
// service recomputes all of them from catalog prices.
type createOrderRequest struct {
	Customer        domain.Customer        `json:"customer"`
	ShippingAddress domain.Address         `json:"shippingAddress"`
	BillingAddress  *domain.BillingAddress `json:"billingAddress"`
	Items           []domain.LineItem      `json:"items"`
	Subtotal        int64                  `json:"subtotal"`
	Coupon          *orderCouponRequest    `json:"coupon"`
	Shipping        int64                  `json:"shipping"`
	Tax             int64                  `json:"tax"`
	Total           int64                  `json:"total"`
	PaymentMethod   string                 `json:"paymentMethod"`
	Notes           string                 `json:"notes"`
}

type orderCouponRequest struct {
	Code string `json:"code"`
}

func createOrderHandler(logger *log.Logger, svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		in := ordersvc.CreateInput{
			Customer:        req.Customer,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
			Items:           req.Items,
			PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
			Notes:           req.Notes,
			IdempotencyKey:  c.GetHeader("Idempotency-Key"),
		}
		if req.Coupon != nil {
			in.CouponCode = req.Coupon.Code
		}

		order, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, logger, err, "failed to create order")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"order": gin.H{
				"id":          order.ID,
				"orderNumber": order.OrderNumber,
			},
		})
	}
}

func listOrdersHandler(logger *log.Logger, svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, logger, err, "failed to fetch orders")
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func getOrderHandler(logger *log.Logger, svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err, "failed to fetch order")
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func updateOrderStatusHandler(logger *log.Logger, svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status required"})
			return
		}
		order, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), domain.OrderStatus(req.Status))
		if err != nil {
			respondError(c, logger, err, "failed to update order status")
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}
