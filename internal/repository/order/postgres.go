package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

func (r *postgresRepo) Create(ctx context.Context, o domain.Order, couponID string) (*domain.Order, error) {
	customer, err := json.Marshal(o.Customer)
	if err != nil {
		return nil, err
	}
	shipping, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return nil, err
	}
	billing, err := json.Marshal(o.BillingAddress)
	if err != nil {
		return nil, err
	}
	var coupon []byte
	if o.Coupon != nil {
		if coupon, err = json.Marshal(o.Coupon); err != nil {
			return nil, err
		}
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (order_number, customer, shipping_address, billing_address, subtotal, coupon, shipping, tax, total, status, payment_status, payment_method, notes, idempotency_key)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), NULLIF($14, ''))
RETURNING id::text, created_at
`
	out := o
	err = tx.QueryRow(ctx, insertOrder,
		o.OrderNumber,
		customer,
		shipping,
		billing,
		o.Subtotal,
		coupon,
		o.Shipping,
		o.Tax,
		o.Total,
		string(o.Status),
		string(o.PaymentStatus),
		string(o.PaymentMethod),
		o.Notes,
		o.IdempotencyKey,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "orders_idempotency_key_key" {
			return nil, ErrDuplicateIdempotencyKey
		}
		r.logger.Printf("order repo: insert number=%s error=%v", o.OrderNumber, err)
		return nil, err
	}

	const insertItem = `
INSERT INTO order_items (order_id, product_id, name, variant, variant_id, quantity, unit_price, total, position)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9)
`
	for i, item := range o.Items {
		if _, err := tx.Exec(ctx, insertItem,
			out.ID,
			item.ProductID,
			item.Name,
			item.Variant,
			item.VariantID,
			item.Quantity,
			item.UnitPrice,
			item.Total,
			i,
		); err != nil {
			r.logger.Printf("order repo: insert item order=%s error=%v", out.ID, err)
			return nil, err
		}
	}

	if couponID != "" {
		const bumpUsage = `
UPDATE coupons
SET usage_count = usage_count + 1
WHERE id = $1 AND (usage_limit IS NULL OR usage_count < usage_limit)
`
		cmd, err := tx.Exec(ctx, bumpUsage, couponID)
		if err != nil {
			r.logger.Printf("order repo: bump coupon usage id=%s error=%v", couponID, err)
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, ErrCouponExhausted
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

const orderColumns = `id::text, order_number, customer, shipping_address, billing_address, subtotal, coupon, shipping, tax, total, status, payment_status, COALESCE(payment_method, ''), COALESCE(notes, ''), COALESCE(idempotency_key, ''), created_at`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.fetchOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *postgresRepo) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	return r.fetchOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE idempotency_key = $1`, key)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		items, err := r.loadItems(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}
	return result, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	const q = `UPDATE orders SET status = $2 WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, q, id, string(status))
	if err != nil {
		r.logger.Printf("order repo: update status id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchOne(ctx context.Context, q string, arg interface{}) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: fetch error=%v", err)
		return nil, err
	}
	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *postgresRepo) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `
SELECT product_id, COALESCE(name, ''), COALESCE(variant, ''), COALESCE(variant_id, ''), quantity, unit_price, total
FROM order_items
WHERE order_id = $1
ORDER BY position ASC
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Variant, &it.VariantID, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var customer, shipping, billing, coupon []byte
	var status, paymentStatus, paymentMethod string
	if err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&customer,
		&shipping,
		&billing,
		&o.Subtotal,
		&coupon,
		&o.Shipping,
		&o.Tax,
		&o.Total,
		&status,
		&paymentStatus,
		&paymentMethod,
		&o.Notes,
		&o.IdempotencyKey,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.PaymentStatus = domain.PaymentStatus(paymentStatus)
	o.PaymentMethod = domain.PaymentMethod(paymentMethod)
	if err := json.Unmarshal(customer, &o.Customer); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(shipping, &o.ShippingAddress); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(billing, &o.BillingAddress); err != nil {
		return nil, err
	}
	if len(coupon) > 0 {
		if err := json.Unmarshal(coupon, &o.Coupon); err != nil {
			return nil, err
		}
	}
	return &o, nil
}
