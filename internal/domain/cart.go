package domain

import "time"

// ItemVariant is the variant selection snapshotted onto a cart line.
// When present, its unit price overrides the line's nominal price.
type ItemVariant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	UnitPrice int64  `json:"unitPrice"`
}

type LineItem struct {
	ID        string       `json:"id"`
	ProductID string       `json:"productId"`
	Name      string       `json:"name"`
	UnitPrice int64        `json:"unitPrice"`
	Image     string       `json:"image,omitempty"`
	Quantity  int          `json:"quantity"`
	Variant   *ItemVariant `json:"variant,omitempty"`
}

// EffectiveUnitPrice resolves the price a line is charged at: the
// variant price when a variant is selected, the item price otherwise.
func (li LineItem) EffectiveUnitPrice() int64 {
	if li.Variant != nil {
		return li.Variant.UnitPrice
	}
	return li.UnitPrice
}

// LineTotal is quantity times the effective unit price.
func (li LineItem) LineTotal() int64 {
	return li.EffectiveUnitPrice() * int64(li.Quantity)
}

type Cart struct {
	ID        string         `json:"id"`
	Items     []LineItem     `json:"items"`
	Coupon    *AppliedCoupon `json:"coupon,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ItemCount is the sum of line quantities.
func (c Cart) ItemCount() int {
	var n int
	for _, li := range c.Items {
		n += li.Quantity
	}
	return n
}

// Subtotal is the sum of line totals.
func (c Cart) Subtotal() int64 {
	var sum int64
	for _, li := range c.Items {
		sum += li.LineTotal()
	}
	return sum
}
