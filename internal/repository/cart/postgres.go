package cart

import (
	"context"
	"encoding/json"
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

func (r *postgresRepo) Create(ctx context.Context) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (items, coupon)
VALUES ('[]'::jsonb, NULL)
RETURNING id::text, created_at, updated_at
`
	var c domain.Cart
	if err := r.pool.QueryRow(ctx, q).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	const q = `
SELECT id::text, items, coupon, created_at, updated_at
FROM carts
WHERE id = $1
`
	var c domain.Cart
	var items, coupon []byte
	err := r.pool.QueryRow(ctx, q, id).Scan(&c.ID, &items, &coupon, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &c.Items); err != nil {
			return nil, err
		}
	}
	if len(coupon) > 0 {
		if err := json.Unmarshal(coupon, &c.Coupon); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (r *postgresRepo) Save(ctx context.Context, c domain.Cart) (*domain.Cart, error) {
	items, err := json.Marshal(c.Items)
	if err != nil {
		return nil, err
	}
	var coupon []byte
	if c.Coupon != nil {
		if coupon, err = json.Marshal(c.Coupon); err != nil {
			return nil, err
		}
	}

	const q = `
UPDATE carts
SET items = $2, coupon = $3, updated_at = now()
WHERE id = $1
RETURNING updated_at
`
	out := c
	if err := r.pool.QueryRow(ctx, q, c.ID, items, coupon).Scan(&out.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}
