package order

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	rules "storefront-api/internal/coupon"
	"storefront-api/internal/domain"
	"storefront-api/internal/pricing"
	orderrepo "storefront-api/internal/repository/order"
)

// Service assembles orders: it validates the checkout payload, reprices
// everything server-side from authoritative product prices, adjusts
// inventory, and persists the order. Client-sent monetary fields are
// never trusted.
type Service struct {
	orders   orderRepo
	products productRepo
	coupons  couponRepo
	adjuster stockAdjuster
	mailer   Mailer
	logger   *log.Logger
	now      func() time.Time
}

type orderRepo interface {
	Create(ctx context.Context, o domain.Order, couponID string) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type couponRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

type stockAdjuster interface {
	Adjust(ctx context.Context, items []domain.LineItem)
}

// Mailer sends the order confirmation. A nil mailer disables email.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, o domain.Order) error
}

func New(orders orderRepo, products productRepo, coupons couponRepo, adjuster stockAdjuster, mailer Mailer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		orders:   orders,
		products: products,
		coupons:  coupons,
		adjuster: adjuster,
		mailer:   mailer,
		logger:   logger,
		now:      time.Now,
	}
}

type CreateInput struct {
	Customer        domain.Customer
	ShippingAddress domain.Address
	BillingAddress  *domain.BillingAddress
	Items           []domain.LineItem
	CouponCode      string
	PaymentMethod   domain.PaymentMethod
	Notes           string
	OrderNumber     string
	IdempotencyKey  string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	items, orderItems := s.reprice(ctx, in.Items)

	var subtotal int64
	for _, it := range orderItems {
		subtotal += it.Total
	}

	var applied *domain.AppliedCoupon
	var orderCoupon *domain.OrderCoupon
	var couponID string
	if code := rules.NormalizeCode(in.CouponCode); code != "" {
		c, err := s.coupons.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.Validationf("invalid or unknown coupon code")
			}
			return nil, err
		}
		amount, err := rules.Evaluate(*c, subtotal, s.now())
		if err != nil {
			return nil, err
		}
		couponID = c.ID
		applied = &domain.AppliedCoupon{Code: c.Code, DiscountType: c.DiscountType, DiscountValue: c.DiscountValue}
		orderCoupon = &domain.OrderCoupon{
			Code:           c.Code,
			DiscountType:   c.DiscountType,
			DiscountValue:  c.DiscountValue,
			DiscountAmount: amount,
		}
	}

	totals := pricing.Quote(items, applied)

	billing := domain.BillingAddress{SameAsShipping: true}
	if in.BillingAddress != nil {
		billing = *in.BillingAddress
	}
	shippingAddr := in.ShippingAddress
	if shippingAddr.Country == "" {
		shippingAddr.Country = "Argentina"
	}

	number := in.OrderNumber
	if number == "" {
		number = s.newOrderNumber()
	}

	o := domain.Order{
		OrderNumber:     number,
		Customer:        in.Customer,
		ShippingAddress: shippingAddr,
		BillingAddress:  billing,
		Items:           orderItems,
		Subtotal:        totals.Subtotal,
		Coupon:          orderCoupon,
		Shipping:        totals.Shipping,
		Tax:             totals.Tax,
		Total:           totals.Total,
		Status:          domain.OrderPending,
		PaymentStatus:   domain.PaymentPending,
		PaymentMethod:   in.PaymentMethod,
		Notes:           in.Notes,
		IdempotencyKey:  in.IdempotencyKey,
	}

	created, err := s.orders.Create(ctx, o, couponID)
	if err != nil {
		switch {
		case errors.Is(err, orderrepo.ErrDuplicateIdempotencyKey):
			// Replayed checkout: hand back the order created first.
			// Stock was already adjusted for it, so no adjust here.
			return s.orders.GetByIdempotencyKey(ctx, in.IdempotencyKey)
		case errors.Is(err, orderrepo.ErrCouponExhausted):
			return nil, &rules.RuleError{Reason: rules.ReasonUsageLimitReached}
		}
		return nil, err
	}

	// Stock moves only once the order is accepted; a rejected or
	// replayed checkout must leave the counters alone.
	s.adjuster.Adjust(ctx, items)

	if s.mailer != nil {
		if err := s.mailer.SendOrderConfirmation(ctx, *created); err != nil {
			s.logger.Printf("order %s: confirmation email failed: %v", created.OrderNumber, err)
		}
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

// UpdateStatus moves an order along its status machine, rejecting
// transitions the machine does not allow.
func (s *Service) UpdateStatus(ctx context.Context, id string, to domain.OrderStatus) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(o.Status, to) {
		return nil, domain.Validationf("cannot transition order from %s to %s", o.Status, to)
	}
	if err := s.orders.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	o.Status = to
	return o, nil
}

func validate(in CreateInput) error {
	switch {
	case in.Customer.Email == "" || in.Customer.FirstName == "" || in.Customer.LastName == "":
		return domain.Validationf("missing required fields")
	case in.ShippingAddress.Street == "" || in.ShippingAddress.City == "" || in.ShippingAddress.State == "" || in.ShippingAddress.ZipCode == "":
		return domain.Validationf("missing required fields")
	case len(in.Items) == 0:
		return domain.Validationf("missing required fields")
	}
	for _, li := range in.Items {
		if li.ProductID == "" || li.Quantity < 1 {
			return domain.Validationf("each item needs a productId and a positive quantity")
		}
	}
	return nil
}

// reprice resolves each line against the catalog so order totals come
// from authoritative prices. A product that cannot be resolved keeps
// the client-sent price rather than blocking checkout; that is logged.
func (s *Service) reprice(ctx context.Context, items []domain.LineItem) ([]domain.LineItem, []domain.OrderItem) {
	repriced := make([]domain.LineItem, 0, len(items))
	orderItems := make([]domain.OrderItem, 0, len(items))

	for _, li := range items {
		unitPrice := li.EffectiveUnitPrice()
		name := li.Name

		p, err := s.products.GetByID(ctx, li.ProductID)
		switch {
		case err != nil:
			s.logger.Printf("order: product %s not resolved, keeping client price: %v", li.ProductID, err)
		case li.Variant != nil:
			if v := p.FindVariant(li.Variant.ID); v != nil {
				unitPrice = v.Price
			} else {
				s.logger.Printf("order: variant %s/%s not resolved, keeping client price", li.ProductID, li.Variant.ID)
			}
			name = p.Name
		default:
			unitPrice = p.Price
			name = p.Name
		}

		line := li
		line.UnitPrice = unitPrice
		if li.Variant != nil {
			v := *li.Variant
			v.UnitPrice = unitPrice
			line.Variant = &v
		}
		repriced = append(repriced, line)

		item := domain.OrderItem{
			ProductID: li.ProductID,
			Name:      name,
			Quantity:  li.Quantity,
			UnitPrice: unitPrice,
			Total:     unitPrice * int64(li.Quantity),
		}
		if li.Variant != nil {
			item.VariantID = li.Variant.ID
			item.Variant = strings.TrimSpace(li.Variant.Color + "-" + li.Variant.Size)
		}
		orderItems = append(orderItems, item)
	}
	return repriced, orderItems
}

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newOrderNumber builds ORD-<epoch-millis>-<5 random base36 chars>.
func (s *Service) newOrderNumber() string {
	var buf [5]byte
	_, _ = rand.Read(buf[:])
	for i := range buf {
		buf[i] = orderNumberAlphabet[int(buf[i])%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("ORD-%d-%s", s.now().UnixMilli(), buf[:])
}
