package cart

import (
	"context"
	"strconv"
	"strings"
	"time"

	"storefront-api/internal/cart"
	"storefront-api/internal/domain"
	"storefront-api/internal/pricing"
	cartrepo "storefront-api/internal/repository/cart"
)

type Service struct {
	repo    cartRepo
	coupons couponValidator
	now     func() time.Time
}

type cartRepo interface {
	Create(ctx context.Context) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	Save(ctx context.Context, c domain.Cart) (*domain.Cart, error)
}

type couponValidator interface {
	Validate(ctx context.Context, code string, cartSubtotal int64) (*domain.Coupon, int64, error)
}

func New(repo cartrepo.Repository, coupons couponValidator) *Service {
	return &Service{repo: repo, coupons: coupons, now: time.Now}
}

// View is a cart with its derived values. Totals are recomputed from
// the current items on every read; the applied coupon's discount is
// never cached in stored state.
type View struct {
	domain.Cart
	ItemCount int            `json:"itemCount"`
	Totals    pricing.Totals `json:"totals"`
}

// ActionInput is one wire-level cart transition request.
type ActionInput struct {
	Action   string           `json:"action"`
	Item     *domain.LineItem `json:"item,omitempty"`
	ItemID   string           `json:"itemId,omitempty"`
	Quantity int              `json:"quantity,omitempty"`
	Code     string           `json:"code,omitempty"`
}

func (s *Service) Create(ctx context.Context) (*View, error) {
	c, err := s.repo.Create(ctx)
	if err != nil {
		return nil, err
	}
	return s.view(*c), nil
}

func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(*c), nil
}

// Dispatch folds the submitted actions over the stored cart state and
// persists the result.
func (s *Service) Dispatch(ctx context.Context, id string, actions []ActionInput) (*View, error) {
	if len(actions) == 0 {
		return nil, domain.Validationf("actions required")
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	state := *current
	for _, in := range actions {
		action, err := s.toAction(ctx, state, in)
		if err != nil {
			return nil, err
		}
		if state, err = cart.Apply(state, action); err != nil {
			return nil, err
		}
	}

	saved, err := s.repo.Save(ctx, state)
	if err != nil {
		return nil, err
	}
	return s.view(*saved), nil
}

func (s *Service) toAction(ctx context.Context, state domain.Cart, in ActionInput) (cart.Action, error) {
	typ := cart.ActionType(strings.TrimSpace(in.Action))
	switch typ {
	case cart.ActionAddItem:
		if in.Item == nil {
			return cart.Action{}, domain.Validationf("item required for addItem")
		}
		item := *in.Item
		if item.ProductID == "" {
			return cart.Action{}, domain.Validationf("item.productId required")
		}
		if item.ID == "" {
			item.ID = s.deriveItemID(item)
		}
		return cart.Action{Type: typ, Item: &item, Quantity: in.Quantity}, nil
	case cart.ActionRemoveItem, cart.ActionUpdateQuantity:
		if in.ItemID == "" {
			return cart.Action{}, domain.Validationf("itemId required for %s", typ)
		}
		return cart.Action{Type: typ, ItemID: in.ItemID, Quantity: in.Quantity}, nil
	case cart.ActionApplyCoupon:
		c, _, err := s.coupons.Validate(ctx, in.Code, state.Subtotal())
		if err != nil {
			return cart.Action{}, err
		}
		return cart.Action{Type: typ, Coupon: &domain.AppliedCoupon{
			Code:          c.Code,
			DiscountType:  c.DiscountType,
			DiscountValue: c.DiscountValue,
		}}, nil
	case cart.ActionRemoveCoupon, cart.ActionClearCart:
		return cart.Action{Type: typ}, nil
	default:
		return cart.Action{}, domain.Validationf("unsupported action %q", in.Action)
	}
}

// deriveItemID builds a line id from the product and variant, or from a
// generation timestamp for ungrouped entries.
func (s *Service) deriveItemID(item domain.LineItem) string {
	if item.Variant != nil && item.Variant.ID != "" {
		return item.ProductID + "-" + item.Variant.ID
	}
	return item.ProductID + "-" + strconv.FormatInt(s.now().UnixMilli(), 10)
}

func (s *Service) view(c domain.Cart) *View {
	return &View{
		Cart:      c,
		ItemCount: c.ItemCount(),
		Totals:    pricing.Quote(c.Items, c.Coupon),
	}
}
