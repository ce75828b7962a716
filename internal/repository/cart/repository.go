package cart

import (
	"context"

	"storefront-api/internal/domain"
)

// Repository persists cart snapshots. The whole cart (items plus the
// applied coupon's code/type/value) is saved after every transition and
// restored by id at session start.
type Repository interface {
	Create(ctx context.Context) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	Save(ctx context.Context, c domain.Cart) (*domain.Cart, error)
}
