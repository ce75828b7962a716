package product

import (
	"context"

	"storefront-api/internal/domain"
	productrepo "storefront-api/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, categoryID *string) ([]domain.Product, error) {
	return s.repo.List(ctx, productrepo.ListFilter{CategoryID: categoryID})
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}
