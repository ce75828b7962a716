package product

import (
	"context"
	"encoding/json"
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

const productColumns = `id::text, slug, name, COALESCE(description, ''), price, compare_at_price, product_type, COALESCE(sku, ''), simple_stock, category_id::text, images, status, created_at`

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE status = 'active' AND ($1::uuid IS NULL OR category_id = $1::uuid)
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, filter.CategoryID)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	var ids []string
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}

	if err := r.attachVariants(ctx, result, ids); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	row := r.pool.QueryRow(ctx, q, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}

	variants, err := r.loadVariants(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Variants = variants
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO products (id, slug, name, description, price, compare_at_price, product_type, sku, simple_stock, category_id, images, status)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''), $9, $10::uuid, $11, $12)
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    compare_at_price = EXCLUDED.compare_at_price,
    product_type = EXCLUDED.product_type,
    sku = EXCLUDED.sku,
    simple_stock = EXCLUDED.simple_stock,
    category_id = EXCLUDED.category_id,
    images = EXCLUDED.images,
    status = EXCLUDED.status
RETURNING id::text, created_at
`
	out := p
	err = r.pool.QueryRow(ctx, q,
		p.ID,
		p.Slug,
		p.Name,
		p.Description,
		p.Price,
		p.CompareAtPrice,
		string(p.ProductType),
		p.SKU,
		p.SimpleStock,
		p.CategoryID,
		images,
		string(p.Status),
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert slug=%s error=%v", p.Slug, err)
		return nil, err
	}

	for i := range p.Variants {
		v, err := r.upsertVariant(ctx, out.ID, p.Variants[i])
		if err != nil {
			r.logger.Printf("product repo: upsert variant sku=%s error=%v", p.Variants[i].SKU, err)
			return nil, err
		}
		out.Variants[i] = *v
	}
	return &out, nil
}

func (r *postgresRepo) upsertVariant(ctx context.Context, productID string, v domain.Variant) (*domain.Variant, error) {
	const q = `
INSERT INTO product_variants (id, product_id, sku, color, size, price, stock)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)
ON CONFLICT (sku) DO UPDATE SET
    color = EXCLUDED.color,
    size = EXCLUDED.size,
    price = EXCLUDED.price,
    stock = EXCLUDED.stock
RETURNING id::text
`
	out := v
	if err := r.pool.QueryRow(ctx, q, v.ID, productID, v.SKU, v.Color, v.Size, v.Price, v.Stock).Scan(&out.ID); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) DecrementSimpleStock(ctx context.Context, productID string, qty int) error {
	const q = `
UPDATE products
SET simple_stock = GREATEST(simple_stock - $2, 0)
WHERE id = $1 AND product_type = 'simple'
`
	cmd, err := r.pool.Exec(ctx, q, productID, qty)
	if err != nil {
		r.logger.Printf("product repo: decrement stock id=%s error=%v", productID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DecrementVariantStock(ctx context.Context, productID, variantID string, qty int) error {
	const q = `
UPDATE product_variants
SET stock = GREATEST(stock - $3, 0)
WHERE product_id = $1 AND id = $2
`
	cmd, err := r.pool.Exec(ctx, q, productID, variantID, qty)
	if err != nil {
		r.logger.Printf("product repo: decrement variant stock product=%s variant=%s error=%v", productID, variantID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) attachVariants(ctx context.Context, products []domain.Product, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	const q = `
SELECT product_id::text, id::text, sku, COALESCE(color, ''), COALESCE(size, ''), price, stock
FROM product_variants
WHERE product_id = ANY($1::uuid[])
ORDER BY sku ASC
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		r.logger.Printf("product repo: list variants error=%v", err)
		return err
	}
	defer rows.Close()

	byID := make(map[string]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for rows.Next() {
		var productID string
		var v domain.Variant
		if err := rows.Scan(&productID, &v.ID, &v.SKU, &v.Color, &v.Size, &v.Price, &v.Stock); err != nil {
			return err
		}
		if p, ok := byID[productID]; ok {
			p.Variants = append(p.Variants, v)
		}
	}
	return rows.Err()
}

func (r *postgresRepo) loadVariants(ctx context.Context, productID string) ([]domain.Variant, error) {
	const q = `
SELECT id::text, sku, COALESCE(color, ''), COALESCE(size, ''), price, stock
FROM product_variants
WHERE product_id = $1
ORDER BY sku ASC
`
	rows, err := r.pool.Query(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []domain.Variant
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.SKU, &v.Color, &v.Size, &v.Price, &v.Stock); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var images []byte
	var productType, status string
	if err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.CompareAtPrice,
		&productType,
		&p.SKU,
		&p.SimpleStock,
		&p.CategoryID,
		&images,
		&status,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.ProductType = domain.ProductType(productType)
	p.Status = domain.ProductStatus(status)
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return nil, err
		}
	}
	return &p, nil
}
