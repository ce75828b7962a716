package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/domain"
)

func listCategoriesHandler(logger *log.Logger, svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, logger, err, "failed to fetch categories")
			return
		}
		if categories == nil {
			categories = []domain.Category{}
		}
		c.JSON(http.StatusOK, gin.H{"docs": categories, "totalDocs": len(categories)})
	}
}
