package category

import (
	"context"

	"storefront-api/internal/domain"
	categoryrepo "storefront-api/internal/repository/category"
)

type Service struct {
	repo categoryrepo.Repository
}

func New(repo categoryrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	return s.repo.Upsert(ctx, c)
}
