package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	cartsvc "storefront-api/internal/service/cart"
)

func createCartHandler(logger *log.Logger, svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.Create(c.Request.Context())
		if err != nil {
			respondError(c, logger, err, "failed to create cart")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"cart": view})
	}
}

func getCartHandler(logger *log.Logger, svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err, "failed to fetch cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": view})
	}
}

type updateCartRequest struct {
	Actions []cartsvc.ActionInput `json:"actions"`
}

func updateCartHandler(logger *log.Logger, svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		view, err := svc.Dispatch(c.Request.Context(), c.Param("id"), req.Actions)
		if err != nil {
			respondError(c, logger, err, "failed to update cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": view})
	}
}
