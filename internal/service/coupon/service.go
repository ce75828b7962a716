package coupon

import (
	"context"
	"time"

	rules "storefront-api/internal/coupon"
	"storefront-api/internal/domain"
	couponrepo "storefront-api/internal/repository/coupon"
)

type Service struct {
	repo couponRepo
	now  func() time.Time
}

type couponRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	ListVisible(ctx context.Context) ([]domain.Coupon, error)
}

func New(repo couponrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Validate looks up a coupon by code (case-insensitive) and evaluates
// its rules against the cart subtotal. On success it returns the coupon
// and the discount amount it grants right now.
func (s *Service) Validate(ctx context.Context, code string, cartSubtotal int64) (*domain.Coupon, int64, error) {
	normalized := rules.NormalizeCode(code)
	if normalized == "" {
		return nil, 0, domain.Validationf("coupon code required")
	}
	c, err := s.repo.GetByCode(ctx, normalized)
	if err != nil {
		return nil, 0, err
	}
	amount, err := rules.Evaluate(*c, cartSubtotal, s.now())
	if err != nil {
		return nil, 0, err
	}
	return c, amount, nil
}

// ListVisible returns the active coupons advertised on the site.
func (s *Service) ListVisible(ctx context.Context) ([]domain.Coupon, error) {
	return s.repo.ListVisible(ctx)
}
