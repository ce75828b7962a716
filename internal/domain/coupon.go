package domain

import "time"

// DiscountType enumerates the supported coupon discount strategies.
type DiscountType string

const (
	// DiscountPercentage discounts a percentage of the cart subtotal.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed discounts a fixed amount, capped at the subtotal.
	DiscountFixed DiscountType = "fixed"
	// DiscountFreeShipping waives the shipping cost. The discount amount
	// itself is zero; the effect lands in the shipping line.
	DiscountFreeShipping DiscountType = "free_shipping"
)

// Coupon is owned by catalog administrators. The storefront only reads
// it, except for the usage counter which advances once per completed
// order.
type Coupon struct {
	ID              string       `json:"id"`
	Code            string       `json:"code"`
	Description     string       `json:"description,omitempty"`
	DiscountType    DiscountType `json:"discountType"`
	DiscountValue   int64        `json:"discountValue"`
	MinimumPurchase *int64       `json:"minimumPurchase,omitempty"`
	UsageLimit      *int         `json:"usageLimit,omitempty"`
	UsageCount      int          `json:"usageCount"`
	ValidFrom       time.Time    `json:"validFrom"`
	ValidUntil      *time.Time   `json:"validUntil,omitempty"`
	Active          bool         `json:"active"`
	ShowOnSite      bool         `json:"showOnSite"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// AppliedCoupon is the slice of a coupon a cart or order carries. The
// discount amount is never persisted with the cart; it is recomputed
// from the current subtotal wherever totals are produced.
type AppliedCoupon struct {
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue int64        `json:"discountValue"`
}
