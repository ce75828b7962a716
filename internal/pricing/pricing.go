// Package pricing computes cart totals. All amounts are whole currency
// units and the computation is deterministic: the same items and coupon
// always produce the same totals.
package pricing

import (
	"storefront-api/internal/coupon"
	"storefront-api/internal/domain"
)

const (
	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold int64 = 50000
	// FlatShippingCost is charged below the free-shipping threshold.
	FlatShippingCost int64 = 5000
	// TaxRatePercent is the VAT rate applied to the pre-discount subtotal.
	TaxRatePercent int64 = 21
)

// Totals is the price breakdown of a cart or order.
// Total = Subtotal - Discount + Shipping + Tax, always.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Shipping int64 `json:"shipping"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// Quote prices a set of line items with an optional applied coupon.
// The fixed order of the rules matters: subtotal, then discount, then
// shipping (free above the threshold or with a free_shipping coupon),
// then tax on the pre-discount subtotal.
func Quote(items []domain.LineItem, applied *domain.AppliedCoupon) Totals {
	var subtotal int64
	for _, li := range items {
		subtotal += li.LineTotal()
	}

	var discount int64
	freeShipping := subtotal > FreeShippingThreshold
	if applied != nil {
		discount = coupon.Discount(applied.DiscountType, applied.DiscountValue, subtotal)
		if applied.DiscountType == domain.DiscountFreeShipping {
			freeShipping = true
		}
	}

	shipping := FlatShippingCost
	if freeShipping {
		shipping = 0
	}

	tax := roundPercent(subtotal, TaxRatePercent)

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal - discount + shipping + tax,
	}
}

// roundPercent takes pct% of amount, rounding half-up on whole units.
func roundPercent(amount, pct int64) int64 {
	return (amount*pct + 50) / 100
}
