package coupon

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-api/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const couponColumns = `id::text, code, COALESCE(description, ''), discount_type, discount_value, minimum_purchase, usage_limit, usage_count, valid_from, valid_until, active, show_on_site, created_at`

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	const q = `
SELECT ` + couponColumns + `
FROM coupons
WHERE UPPER(code) = UPPER($1)
`
	c, err := scanCoupon(r.pool.QueryRow(ctx, q, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("coupon repo: code=%s not found", code)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("coupon repo: get code=%s error=%v", code, err)
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) ListVisible(ctx context.Context) ([]domain.Coupon, error) {
	const q = `
SELECT ` + couponColumns + `
FROM coupons
WHERE active AND show_on_site
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("coupon repo: list visible error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Coupon) (*domain.Coupon, error) {
	const q = `
INSERT INTO coupons (id, code, description, discount_type, discount_value, minimum_purchase, usage_limit, usage_count, valid_from, valid_until, active, show_on_site)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), UPPER($2), NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (code) DO UPDATE SET
    description = EXCLUDED.description,
    discount_type = EXCLUDED.discount_type,
    discount_value = EXCLUDED.discount_value,
    minimum_purchase = EXCLUDED.minimum_purchase,
    usage_limit = EXCLUDED.usage_limit,
    valid_from = EXCLUDED.valid_from,
    valid_until = EXCLUDED.valid_until,
    active = EXCLUDED.active,
    show_on_site = EXCLUDED.show_on_site
RETURNING id::text, code, usage_count, created_at
`
	out := c
	err := r.pool.QueryRow(ctx, q,
		c.ID,
		c.Code,
		c.Description,
		string(c.DiscountType),
		c.DiscountValue,
		c.MinimumPurchase,
		c.UsageLimit,
		c.UsageCount,
		c.ValidFrom,
		c.ValidUntil,
		c.Active,
		c.ShowOnSite,
	).Scan(&out.ID, &out.Code, &out.UsageCount, &out.CreatedAt)
	if err != nil {
		r.logger.Printf("coupon repo: upsert code=%s error=%v", c.Code, err)
		return nil, err
	}
	return &out, nil
}

func scanCoupon(row pgx.Row) (*domain.Coupon, error) {
	var c domain.Coupon
	var discountType string
	if err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Description,
		&discountType,
		&c.DiscountValue,
		&c.MinimumPurchase,
		&c.UsageLimit,
		&c.UsageCount,
		&c.ValidFrom,
		&c.ValidUntil,
		&c.Active,
		&c.ShowOnSite,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	c.DiscountType = domain.DiscountType(discountType)
	return &c, nil
}
