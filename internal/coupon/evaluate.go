// Package coupon evaluates coupon eligibility rules against a cart
// subtotal. Evaluation is pure: it never touches storage and has no
// side effects. Usage counting happens separately, once per completed
// order.
package coupon

import (
	"fmt"
	"strings"
	"time"

	"storefront-api/internal/domain"
)

// Reason is a machine-checkable cause for rejecting a coupon.
type Reason string

const (
	ReasonInactive          Reason = "inactive"
	ReasonNotYetValid       Reason = "not_yet_valid"
	ReasonExpired           Reason = "expired"
	ReasonUsageLimitReached Reason = "usage_limit_reached"
	ReasonBelowMinimum      Reason = "below_minimum"
)

// RuleError reports the first eligibility rule a coupon failed.
type RuleError struct {
	Reason Reason
	// MinimumPurchase is set only for ReasonBelowMinimum.
	MinimumPurchase int64
}

func (e *RuleError) Error() string {
	switch e.Reason {
	case ReasonInactive:
		return "this coupon is not active"
	case ReasonNotYetValid:
		return "this coupon is not valid yet"
	case ReasonExpired:
		return "this coupon has expired"
	case ReasonUsageLimitReached:
		return "this coupon has reached its usage limit"
	case ReasonBelowMinimum:
		return fmt.Sprintf("this coupon requires a minimum purchase of $%d", e.MinimumPurchase)
	default:
		return "invalid coupon"
	}
}

// NormalizeCode canonicalizes a submitted code. Stored codes are
// uppercase; matching is case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Evaluate runs the eligibility rules in order (active, validFrom,
// validUntil, usageLimit, minimumPurchase) and fails on the first
// violated rule. On success it returns the discount amount for the
// given subtotal.
func Evaluate(c domain.Coupon, cartSubtotal int64, now time.Time) (int64, error) {
	if !c.Active {
		return 0, &RuleError{Reason: ReasonInactive}
	}
	if now.Before(c.ValidFrom) {
		return 0, &RuleError{Reason: ReasonNotYetValid}
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return 0, &RuleError{Reason: ReasonExpired}
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return 0, &RuleError{Reason: ReasonUsageLimitReached}
	}
	if c.MinimumPurchase != nil && cartSubtotal < *c.MinimumPurchase {
		return 0, &RuleError{Reason: ReasonBelowMinimum, MinimumPurchase: *c.MinimumPurchase}
	}
	return Discount(c.DiscountType, c.DiscountValue, cartSubtotal), nil
}

// Discount computes the discount amount a coupon of the given type and
// value grants on a subtotal. Percentage discounts round half-up on
// whole currency units; fixed discounts are capped at the subtotal;
// free shipping contributes nothing here because its effect lands in
// the shipping line.
func Discount(typ domain.DiscountType, value, subtotal int64) int64 {
	switch typ {
	case domain.DiscountPercentage:
		return (subtotal*value + 50) / 100
	case domain.DiscountFixed:
		if value > subtotal {
			return subtotal
		}
		return value
	case domain.DiscountFreeShipping:
		return 0
	default:
		return 0
	}
}
