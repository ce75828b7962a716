package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-api/internal/domain"
)

func items(unitPrice int64, qty int) []domain.LineItem {
	return []domain.LineItem{{
		ID:        "p1",
		ProductID: "p1",
		Name:      "Tee",
		UnitPrice: unitPrice,
		Quantity:  qty,
	}}
}

func TestQuoteNoCoupon(t *testing.T) {
	got := Quote(items(12999, 2), nil)
	assert.Equal(t, Totals{
		Subtotal: 25998,
		Discount: 0,
		Shipping: 5000,
		Tax:      5460,
		Total:    36458,
	}, got)
}

func TestQuotePercentageCoupon(t *testing.T) {
	got := Quote(items(12999, 2), &domain.AppliedCoupon{
		Code:          "SAVE10",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 10,
	})
	assert.Equal(t, int64(2600), got.Discount)
	assert.Equal(t, int64(33858), got.Total)
}

func TestQuoteFreeShippingAboveThreshold(t *testing.T) {
	got := Quote(items(60000, 1), nil)
	assert.Equal(t, int64(0), got.Shipping)
	// Exactly at the threshold still pays shipping.
	got = Quote(items(50000, 1), nil)
	assert.Equal(t, int64(5000), got.Shipping)
}

func TestQuoteFreeShippingCoupon(t *testing.T) {
	got := Quote(items(10000, 1), &domain.AppliedCoupon{
		Code:         "FREESHIP",
		DiscountType: domain.DiscountFreeShipping,
	})
	assert.Equal(t, int64(0), got.Shipping)
	assert.Equal(t, int64(0), got.Discount)
}

func TestQuoteFixedCouponClamped(t *testing.T) {
	got := Quote(items(4000, 1), &domain.AppliedCoupon{
		Code:          "OFF5000",
		DiscountType:  domain.DiscountFixed,
		DiscountValue: 5000,
	})
	assert.Equal(t, int64(4000), got.Discount)
	assert.GreaterOrEqual(t, got.Total, int64(0))
}

// Tax is charged on the pre-discount subtotal. This is store policy,
// pinned here on purpose.
func TestQuoteTaxOnPreDiscountSubtotal(t *testing.T) {
	withCoupon := Quote(items(12999, 2), &domain.AppliedCoupon{
		Code:          "SAVE10",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 10,
	})
	without := Quote(items(12999, 2), nil)
	assert.Equal(t, without.Tax, withCoupon.Tax)
}

func TestQuoteVariantPriceOverrides(t *testing.T) {
	got := Quote([]domain.LineItem{{
		ID:        "p1-v2",
		ProductID: "p1",
		UnitPrice: 9999,
		Quantity:  3,
		Variant: &domain.ItemVariant{
			ID:        "v2",
			Name:      "Tee / Blue / M",
			UnitPrice: 10999,
		},
	}}, nil)
	assert.Equal(t, int64(32997), got.Subtotal)
}

func TestQuoteEmptyCart(t *testing.T) {
	got := Quote(nil, nil)
	assert.Equal(t, Totals{Shipping: FlatShippingCost, Total: FlatShippingCost}, got)
}

func TestQuoteIdentity(t *testing.T) {
	for _, tc := range []struct {
		name    string
		items   []domain.LineItem
		applied *domain.AppliedCoupon
	}{
		{"no coupon", items(12999, 2), nil},
		{"percentage", items(7777, 3), &domain.AppliedCoupon{DiscountType: domain.DiscountPercentage, DiscountValue: 15}},
		{"fixed", items(100, 1), &domain.AppliedCoupon{DiscountType: domain.DiscountFixed, DiscountValue: 99999}},
		{"free shipping", items(51000, 1), &domain.AppliedCoupon{DiscountType: domain.DiscountFreeShipping}},
	} {
		got := Quote(tc.items, tc.applied)
		assert.Equal(t, got.Subtotal-got.Discount+got.Shipping+got.Tax, got.Total, tc.name)
	}
}
