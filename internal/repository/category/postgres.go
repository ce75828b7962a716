package category

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-api/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id::text, slug, name, COALESCE(description, ''), created_at
FROM categories
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	const q = `
SELECT id::text, slug, name, COALESCE(description, ''), created_at
FROM categories
WHERE slug = $1
`
	var c domain.Category
	err := r.pool.QueryRow(ctx, q, slug).Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (slug, name, description)
VALUES ($1, $2, NULLIF($3, ''))
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    description = COALESCE(NULLIF(EXCLUDED.description, ''), categories.description)
RETURNING id::text, created_at
`
	out := c
	if err := r.pool.QueryRow(ctx, q, c.Slug, c.Name, c.Description).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}
