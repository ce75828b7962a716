package order

import (
	"context"
	"errors"
	"io"
	"log"
	"regexp"
	"testing"
	"time"

	rules "storefront-api/internal/coupon"
	"storefront-api/internal/domain"
	orderrepo "storefront-api/internal/repository/order"
)

type stubOrderRepo struct {
	created      *domain.Order
	createErr    error
	lastCouponID string
	byKey        *domain.Order
	byID         *domain.Order
	getErr       error
	lastStatus   domain.OrderStatus
	statusErr    error
}

func (s *stubOrderRepo) Create(_ context.Context, o domain.Order, couponID string) (*domain.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.lastCouponID = couponID
	out := o
	out.ID = "order-1"
	s.created = &out
	return &out, nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, _ string) (*domain.Order, error) {
	return s.byID, s.getErr
}

func (s *stubOrderRepo) GetByIdempotencyKey(_ context.Context, _ string) (*domain.Order, error) {
	return s.byKey, nil
}

func (s *stubOrderRepo) List(_ context.Context) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, _ string, status domain.OrderStatus) error {
	s.lastStatus = status
	return s.statusErr
}

type stubProductRepo struct {
	products map[string]*domain.Product
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

type stubCouponRepo struct {
	coupon *domain.Coupon
	err    error
}

func (s *stubCouponRepo) GetByCode(_ context.Context, _ string) (*domain.Coupon, error) {
	return s.coupon, s.err
}

type stubAdjuster struct {
	items []domain.LineItem
	calls int
}

func (s *stubAdjuster) Adjust(_ context.Context, items []domain.LineItem) {
	s.items = items
	s.calls++
}

type stubMailer struct {
	sent []domain.Order
	err  error
}

func (s *stubMailer) SendOrderConfirmation(_ context.Context, o domain.Order) error {
	s.sent = append(s.sent, o)
	return s.err
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testService(orders *stubOrderRepo, products *stubProductRepo, coupons *stubCouponRepo, adjuster *stubAdjuster, mailer Mailer) *Service {
	if products == nil {
		products = &stubProductRepo{}
	}
	if coupons == nil {
		coupons = &stubCouponRepo{err: domain.ErrNotFound}
	}
	if adjuster == nil {
		adjuster = &stubAdjuster{}
	}
	return &Service{
		orders:   orders,
		products: products,
		coupons:  coupons,
		adjuster: adjuster,
		mailer:   mailer,
		logger:   log.New(io.Discard, "", 0),
		now:      func() time.Time { return testNow },
	}
}

func checkoutInput() CreateInput {
	return CreateInput{
		Customer:        domain.Customer{Email: "ana@example.com", FirstName: "Ana", LastName: "Gomez"},
		ShippingAddress: domain.Address{Street: "Av. Siempre Viva 123", City: "Buenos Aires", State: "CABA", ZipCode: "1000"},
		Items:           []domain.LineItem{{ID: "p1", ProductID: "p1", Name: "Tee", UnitPrice: 1, Quantity: 2}},
		PaymentMethod:   domain.PaymentTransfer,
	}
}

func TestCreateMissingFields(t *testing.T) {
	svc := testService(&stubOrderRepo{}, nil, nil, nil, nil)
	for name, mutate := range map[string]func(*CreateInput){
		"no customer": func(in *CreateInput) { in.Customer.Email = "" },
		"no address":  func(in *CreateInput) { in.ShippingAddress.Street = "" },
		"no items":    func(in *CreateInput) { in.Items = nil },
	} {
		in := checkoutInput()
		mutate(&in)
		_, err := svc.Create(context.Background(), in)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestCreateRepricesFromCatalog(t *testing.T) {
	orders := &stubOrderRepo{}
	products := &stubProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Tee", ProductType: domain.ProductSimple, Price: 12999},
	}}
	adjuster := &stubAdjuster{}
	svc := testService(orders, products, nil, adjuster, nil)

	created, err := svc.Create(context.Background(), checkoutInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Client sent a unit price of 1; the catalog price wins.
	if created.Subtotal != 25998 {
		t.Fatalf("expected subtotal 25998, got %d", created.Subtotal)
	}
	if created.Shipping != 5000 {
		t.Fatalf("expected shipping 5000, got %d", created.Shipping)
	}
	if created.Tax != 5460 {
		t.Fatalf("expected tax 5460, got %d", created.Tax)
	}
	if created.Total != 36458 {
		t.Fatalf("expected total 36458, got %d", created.Total)
	}
	if created.Items[0].Total != 25998 {
		t.Fatalf("expected line total 25998, got %d", created.Items[0].Total)
	}
	if created.Status != domain.OrderPending || created.PaymentStatus != domain.PaymentPending {
		t.Fatalf("expected pending/pending, got %s/%s", created.Status, created.PaymentStatus)
	}
	if len(adjuster.items) != 1 || adjuster.items[0].UnitPrice != 12999 {
		t.Fatalf("expected adjuster to see repriced items, got %+v", adjuster.items)
	}
}

func TestCreateOrderNumberShape(t *testing.T) {
	orders := &stubOrderRepo{}
	svc := testService(orders, nil, nil, nil, nil)

	created, err := svc.Create(context.Background(), checkoutInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pattern := regexp.MustCompile(`^ORD-\d+-[0-9A-Z]{5}$`)
	if !pattern.MatchString(created.OrderNumber) {
		t.Fatalf("unexpected order number %q", created.OrderNumber)
	}
}

func TestCreateKeepsSuppliedOrderNumber(t *testing.T) {
	orders := &stubOrderRepo{}
	svc := testService(orders, nil, nil, nil, nil)

	in := checkoutInput()
	in.OrderNumber = "ORD-1-AAAAA"
	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.OrderNumber != "ORD-1-AAAAA" {
		t.Fatalf("expected supplied order number to stick, got %q", created.OrderNumber)
	}
}

func TestCreateWithCoupon(t *testing.T) {
	orders := &stubOrderRepo{}
	products := &stubProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Tee", ProductType: domain.ProductSimple, Price: 12999},
	}}
	coupons := &stubCouponRepo{coupon: &domain.Coupon{
		ID:            "cp1",
		Code:          "SAVE10",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     testNow.Add(-time.Hour),
		Active:        true,
	}}
	svc := testService(orders, products, coupons, nil, nil)

	in := checkoutInput()
	in.CouponCode = "save10"
	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Coupon == nil || created.Coupon.DiscountAmount != 2600 {
		t.Fatalf("expected coupon discount 2600, got %+v", created.Coupon)
	}
	if created.Total != 33858 {
		t.Fatalf("expected total 33858, got %d", created.Total)
	}
	if orders.lastCouponID != "cp1" {
		t.Fatalf("expected coupon usage to advance for cp1, got %q", orders.lastCouponID)
	}
}

func TestCreateFreeShippingCoupon(t *testing.T) {
	orders := &stubOrderRepo{}
	coupons := &stubCouponRepo{coupon: &domain.Coupon{
		ID:           "cp2",
		Code:         "FREESHIP",
		DiscountType: domain.DiscountFreeShipping,
		ValidFrom:    testNow.Add(-time.Hour),
		Active:       true,
	}}
	svc := testService(orders, nil, coupons, nil, nil)

	in := checkoutInput()
	in.CouponCode = "FREESHIP"
	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Shipping != 0 {
		t.Fatalf("expected free shipping, got %d", created.Shipping)
	}
	if created.Coupon == nil || created.Coupon.DiscountAmount != 0 {
		t.Fatalf("expected zero discount amount, got %+v", created.Coupon)
	}
}

func TestCreateRejectsInvalidCoupon(t *testing.T) {
	coupons := &stubCouponRepo{coupon: &domain.Coupon{
		ID:            "cp3",
		Code:          "OLD",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     testNow.Add(-48 * time.Hour),
		ValidUntil:    &testNow,
		Active:        false,
	}}
	svc := testService(&stubOrderRepo{}, nil, coupons, nil, nil)

	in := checkoutInput()
	in.CouponCode = "OLD"
	_, err := svc.Create(context.Background(), in)
	var re *rules.RuleError
	if !errors.As(err, &re) {
		t.Fatalf("expected rule error, got %v", err)
	}
}

func TestCreateUnknownCouponCode(t *testing.T) {
	svc := testService(&stubOrderRepo{}, nil, &stubCouponRepo{err: domain.ErrNotFound}, nil, nil)

	in := checkoutInput()
	in.CouponCode = "NOPE"
	_, err := svc.Create(context.Background(), in)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateIdempotentReplay(t *testing.T) {
	existing := &domain.Order{ID: "order-1", OrderNumber: "ORD-1-AAAAA"}
	orders := &stubOrderRepo{createErr: orderrepo.ErrDuplicateIdempotencyKey, byKey: existing}
	svc := testService(orders, nil, nil, nil, nil)

	in := checkoutInput()
	in.IdempotencyKey = "key-1"
	got, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "order-1" {
		t.Fatalf("expected the original order back, got %+v", got)
	}
}

func TestCreateCouponExhaustedAtCommit(t *testing.T) {
	orders := &stubOrderRepo{createErr: orderrepo.ErrCouponExhausted}
	coupons := &stubCouponRepo{coupon: &domain.Coupon{
		ID:            "cp1",
		Code:          "SAVE10",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     testNow.Add(-time.Hour),
		Active:        true,
	}}
	svc := testService(orders, nil, coupons, nil, nil)

	in := checkoutInput()
	in.CouponCode = "SAVE10"
	_, err := svc.Create(context.Background(), in)
	var re *rules.RuleError
	if !errors.As(err, &re) || re.Reason != rules.ReasonUsageLimitReached {
		t.Fatalf("expected usage limit rule error, got %v", err)
	}
}

func TestCreateAdjustsStockOnlyOnceAccepted(t *testing.T) {
	orders := &stubOrderRepo{}
	adjuster := &stubAdjuster{}
	svc := testService(orders, nil, nil, adjuster, nil)

	if _, err := svc.Create(context.Background(), checkoutInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adjuster.calls != 1 {
		t.Fatalf("expected one stock adjustment, got %d", adjuster.calls)
	}
}

func TestCreateRejectedCouponLeavesStockAlone(t *testing.T) {
	coupons := &stubCouponRepo{coupon: &domain.Coupon{
		ID:            "cp3",
		Code:          "OLD",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     testNow.Add(-48 * time.Hour),
		Active:        false,
	}}
	adjuster := &stubAdjuster{}
	svc := testService(&stubOrderRepo{}, nil, coupons, adjuster, nil)

	in := checkoutInput()
	in.CouponCode = "OLD"
	if _, err := svc.Create(context.Background(), in); err == nil {
		t.Fatalf("expected rejection")
	}
	if adjuster.calls != 0 {
		t.Fatalf("stock adjusted %d time(s) for a rejected checkout", adjuster.calls)
	}
}

func TestCreateReplayLeavesStockAlone(t *testing.T) {
	existing := &domain.Order{ID: "order-1", OrderNumber: "ORD-1-AAAAA"}
	orders := &stubOrderRepo{createErr: orderrepo.ErrDuplicateIdempotencyKey, byKey: existing}
	adjuster := &stubAdjuster{}
	svc := testService(orders, nil, nil, adjuster, nil)

	in := checkoutInput()
	in.IdempotencyKey = "key-1"
	got, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "order-1" {
		t.Fatalf("expected the original order back, got %+v", got)
	}
	if adjuster.calls != 0 {
		t.Fatalf("replayed checkout adjusted stock again: %d call(s)", adjuster.calls)
	}
}

func TestCreateExhaustedCouponLeavesStockAlone(t *testing.T) {
	orders := &stubOrderRepo{createErr: orderrepo.ErrCouponExhausted}
	coupons := &stubCouponRepo{coupon: &domain.Coupon{
		ID:            "cp1",
		Code:          "SAVE10",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     testNow.Add(-time.Hour),
		Active:        true,
	}}
	adjuster := &stubAdjuster{}
	svc := testService(orders, nil, coupons, adjuster, nil)

	in := checkoutInput()
	in.CouponCode = "SAVE10"
	if _, err := svc.Create(context.Background(), in); err == nil {
		t.Fatalf("expected rejection")
	}
	if adjuster.calls != 0 {
		t.Fatalf("stock adjusted %d time(s) for a rolled-back order", adjuster.calls)
	}
}

func TestCreateMailFailureIsNonFatal(t *testing.T) {
	mailer := &stubMailer{err: errors.New("smtp down")}
	svc := testService(&stubOrderRepo{}, nil, nil, nil, mailer)

	created, err := svc.Create(context.Background(), checkoutInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one send attempt, got %d", len(mailer.sent))
	}
	if created == nil {
		t.Fatalf("expected order despite mail failure")
	}
}

func TestCreateVariantLabel(t *testing.T) {
	orders := &stubOrderRepo{}
	products := &stubProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Tee", ProductType: domain.ProductVariable, Variants: []domain.Variant{
			{ID: "v1", SKU: "TEE-BL-M", Color: "blue", Size: "M", Price: 13999},
		}},
	}}
	svc := testService(orders, products, nil, nil, nil)

	in := checkoutInput()
	in.Items = []domain.LineItem{{
		ID:        "p1-v1",
		ProductID: "p1",
		Quantity:  1,
		UnitPrice: 1,
		Variant:   &domain.ItemVariant{ID: "v1", Name: "Blue / M", Color: "blue", Size: "M", UnitPrice: 1},
	}}
	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Items[0].Variant != "blue-M" {
		t.Fatalf("expected variant label blue-M, got %q", created.Items[0].Variant)
	}
	if created.Items[0].UnitPrice != 13999 {
		t.Fatalf("expected variant price 13999, got %d", created.Items[0].UnitPrice)
	}
}

func TestUpdateStatusValidTransition(t *testing.T) {
	orders := &stubOrderRepo{byID: &domain.Order{ID: "order-1", Status: domain.OrderPending}}
	svc := testService(orders, nil, nil, nil, nil)

	got, err := svc.UpdateStatus(context.Background(), "order-1", domain.OrderProcessing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.OrderProcessing || orders.lastStatus != domain.OrderProcessing {
		t.Fatalf("expected processing, got %s", got.Status)
	}
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	orders := &stubOrderRepo{byID: &domain.Order{ID: "order-1", Status: domain.OrderDelivered}}
	svc := testService(orders, nil, nil, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), "order-1", domain.OrderShipped)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
