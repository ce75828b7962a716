// Package cart holds the cart state machine: a pure reducer over
// tagged actions. Persistence and coupon lookup live in the cart
// service; the reducer only transforms state.
package cart

import (
	"fmt"

	"storefront-api/internal/domain"
)

type ActionType string

const (
	ActionAddItem        ActionType = "addItem"
	ActionRemoveItem     ActionType = "removeItem"
	ActionUpdateQuantity ActionType = "updateQuantity"
	ActionApplyCoupon    ActionType = "applyCoupon"
	ActionRemoveCoupon   ActionType = "removeCoupon"
	ActionClearCart      ActionType = "clearCart"
)

// Action is a single cart transition. Which fields matter depends on
// the type: addItem uses Item and Quantity, removeItem uses ItemID,
// updateQuantity uses ItemID and Quantity, applyCoupon uses Coupon.
type Action struct {
	Type     ActionType            `json:"action"`
	Item     *domain.LineItem      `json:"item,omitempty"`
	ItemID   string                `json:"itemId,omitempty"`
	Quantity int                   `json:"quantity,omitempty"`
	Coupon   *domain.AppliedCoupon `json:"-"`
}

// Apply runs one action against a cart and returns the next state.
// The input cart is not mutated.
func Apply(c domain.Cart, a Action) (domain.Cart, error) {
	next := c
	next.Items = append([]domain.LineItem(nil), c.Items...)

	switch a.Type {
	case ActionAddItem:
		if a.Item == nil {
			return c, fmt.Errorf("addItem: item required")
		}
		qty := a.Quantity
		if qty <= 0 {
			qty = 1
		}
		item := *a.Item
		item.Quantity = qty
		addItem(&next, item)
	case ActionRemoveItem:
		removeItem(&next, a.ItemID)
	case ActionUpdateQuantity:
		if a.Quantity <= 0 {
			removeItem(&next, a.ItemID)
			break
		}
		for i := range next.Items {
			if next.Items[i].ID == a.ItemID {
				next.Items[i].Quantity = a.Quantity
				break
			}
		}
	case ActionApplyCoupon:
		if a.Coupon == nil {
			return c, fmt.Errorf("applyCoupon: coupon required")
		}
		// Only one coupon at a time; a new one replaces the old.
		next.Coupon = a.Coupon
	case ActionRemoveCoupon:
		next.Coupon = nil
	case ActionClearCart:
		next.Items = nil
		next.Coupon = nil
	default:
		return c, fmt.Errorf("unsupported action %q", a.Type)
	}

	return next, nil
}

func addItem(c *domain.Cart, item domain.LineItem) {
	for i := range c.Items {
		if sameIdentity(c.Items[i], item) {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

func removeItem(c *domain.Cart, id string) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// sameIdentity matches lines by id, or by product plus a structural
// variant comparison.
func sameIdentity(a, b domain.LineItem) bool {
	if a.ID != "" && a.ID == b.ID {
		return true
	}
	return a.ProductID == b.ProductID && variantEqual(a.Variant, b.Variant)
}

func variantEqual(a, b *domain.ItemVariant) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
