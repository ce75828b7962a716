package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	rules "storefront-api/internal/coupon"
	"storefront-api/internal/domain"
)

// respondError maps service errors onto the wire contract. Validation
// and business-rule errors carry their message; persistence failures
// are logged and surfaced as the generic fallback without internals.
func respondError(c *gin.Context, logger *log.Logger, err error, fallback string) {
	var ve *domain.ValidationError
	var re *rules.RuleError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.As(err, &re):
		body := gin.H{"error": re.Error()}
		if re.Reason == rules.ReasonBelowMinimum {
			body["minimumPurchase"] = re.MinimumPurchase
		}
		c.JSON(http.StatusBadRequest, body)
	default:
		logger.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
