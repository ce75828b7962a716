package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/domain"
)

func listProductsHandler(logger *log.Logger, svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categoryID *string
		if v := c.Query("category"); v != "" && v != "all" {
			categoryID = &v
		}
		products, err := svc.List(c.Request.Context(), categoryID)
		if err != nil {
			respondError(c, logger, err, "failed to fetch products")
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"docs": products, "totalDocs": len(products)})
	}
}

func getProductHandler(logger *log.Logger, svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err, "failed to fetch product")
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}
