package inventory

import (
	"context"
	"io"
	"log"

	"storefront-api/internal/domain"
	productrepo "storefront-api/internal/repository/product"
)

// Adjuster decrements stock counters for purchased line items. Failures
// are per-item and non-fatal: an unresolvable product or variant is
// logged and skipped so checkout is never blocked by inventory drift.
type Adjuster struct {
	products productRepo
	logger   *log.Logger
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	DecrementSimpleStock(ctx context.Context, productID string, qty int) error
	DecrementVariantStock(ctx context.Context, productID, variantID string, qty int) error
}

func New(products productrepo.Repository, logger *log.Logger) *Adjuster {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Adjuster{products: products, logger: logger}
}

// Adjust lowers stock for each line item. Decrements are atomic and
// clamped at zero in the store, so concurrent checkouts can never drive
// a counter negative.
func (a *Adjuster) Adjust(ctx context.Context, items []domain.LineItem) {
	for _, li := range items {
		p, err := a.products.GetByID(ctx, li.ProductID)
		if err != nil {
			a.logger.Printf("inventory: product %s not resolved, skipping: %v", li.ProductID, err)
			continue
		}

		switch p.ProductType {
		case domain.ProductVariable:
			if li.Variant == nil {
				a.logger.Printf("inventory: product %s is variable but line has no variant, skipping", li.ProductID)
				continue
			}
			if err := a.products.DecrementVariantStock(ctx, li.ProductID, li.Variant.ID, li.Quantity); err != nil {
				a.logger.Printf("inventory: decrement variant %s/%s failed: %v", li.ProductID, li.Variant.ID, err)
			}
		default:
			if err := a.products.DecrementSimpleStock(ctx, li.ProductID, li.Quantity); err != nil {
				a.logger.Printf("inventory: decrement product %s failed: %v", li.ProductID, err)
			}
		}
	}
}
