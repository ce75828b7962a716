package product

import (
	"context"

	"storefront-api/internal/domain"
)

type ListFilter struct {
	// CategoryID narrows the listing to one category when set.
	CategoryID *string
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	// DecrementSimpleStock atomically lowers a simple product's stock by
	// qty, clamped at zero.
	DecrementSimpleStock(ctx context.Context, productID string, qty int) error
	// DecrementVariantStock atomically lowers one variant's stock by
	// qty, clamped at zero.
	DecrementVariantStock(ctx context.Context, productID, variantID string, qty int) error
}
