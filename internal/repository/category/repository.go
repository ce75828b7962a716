package category

import (
	"context"

	"storefront-api/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}
