package coupon

import (
	"context"

	"storefront-api/internal/domain"
)

type Repository interface {
	// GetByCode looks a coupon up by its normalized (uppercase) code.
	// Matching is case-insensitive.
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	// ListVisible returns active coupons flagged for display on the
	// public site.
	ListVisible(ctx context.Context) ([]domain.Coupon, error)
	Upsert(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
}
