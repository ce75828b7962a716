package order

import (
	"context"
	"errors"

	"storefront-api/internal/domain"
)

var (
	// ErrDuplicateIdempotencyKey signals that an order with the same
	// idempotency key already exists; the caller should return it
	// instead of creating a new one.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")
	// ErrCouponExhausted signals that the coupon's usage limit was hit
	// between validation and commit; the whole order is rolled back.
	ErrCouponExhausted = errors.New("coupon usage limit reached")
)

type Repository interface {
	// Create persists the order and its items in one transaction. When
	// couponID is non-empty the coupon's usage counter is advanced in
	// the same transaction, guarded by its usage limit.
	Create(ctx context.Context, o domain.Order, couponID string) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}
