// Package seed inserts demo catalog data for manual testing. All
// writes go through the repository upserts, so running it repeatedly
// is safe.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-api/internal/domain"
	categoryrepo "storefront-api/internal/repository/category"
	couponrepo "storefront-api/internal/repository/coupon"
	productrepo "storefront-api/internal/repository/product"
)

// Apply loads the demo categories, products and coupons.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *log.Logger) error {
	categories := categoryrepo.NewPostgres(pool)
	products := productrepo.NewPostgres(pool, logger)
	coupons := couponrepo.NewPostgres(pool, logger)

	catIDs := map[string]string{}
	for _, c := range demoCategories() {
		saved, err := categories.Upsert(ctx, c)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
		catIDs[c.Slug] = saved.ID
	}

	for _, entry := range demoProducts() {
		p := entry.product
		if id, ok := catIDs[entry.categorySlug]; ok {
			p.CategoryID = &id
		}
		if _, err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Slug, err)
		}
	}

	for _, c := range demoCoupons() {
		if _, err := coupons.Upsert(ctx, c); err != nil {
			return fmt.Errorf("seed coupon %s: %w", c.Code, err)
		}
	}

	return nil
}

func demoCategories() []domain.Category {
	return []domain.Category{
		{Slug: "remeras", Name: "Remeras", Description: "Remeras de algodón"},
		{Slug: "buzos", Name: "Buzos", Description: "Buzos y hoodies"},
		{Slug: "accesorios", Name: "Accesorios"},
	}
}

type productEntry struct {
	categorySlug string
	product      domain.Product
}

func demoProducts() []productEntry {
	compareAt := int64(15999)
	return []productEntry{
		{
			categorySlug: "remeras",
			product: domain.Product{
				Slug:           "remera-basica",
				Name:           "Remera Básica",
				Description:    "Remera de algodón peinado",
				Price:          12999,
				CompareAtPrice: &compareAt,
				ProductType:    domain.ProductVariable,
				Status:         domain.ProductActive,
				Images:         []string{"/media/remera-basica.jpg"},
				Variants: []domain.Variant{
					{SKU: "REM-BAS-NEG-S", Color: "negro", Size: "S", Price: 12999, Stock: 10},
					{SKU: "REM-BAS-NEG-M", Color: "negro", Size: "M", Price: 12999, Stock: 15},
					{SKU: "REM-BAS-BLA-M", Color: "blanco", Size: "M", Price: 12999, Stock: 8},
					{SKU: "REM-BAS-BLA-L", Color: "blanco", Size: "L", Price: 13499, Stock: 5},
				},
			},
		},
		{
			categorySlug: "buzos",
			product: domain.Product{
				Slug:        "buzo-canguro",
				Name:        "Buzo Canguro",
				Description: "Buzo frisado con capucha",
				Price:       29999,
				ProductType: domain.ProductVariable,
				Status:      domain.ProductActive,
				Images:      []string{"/media/buzo-canguro.jpg"},
				Variants: []domain.Variant{
					{SKU: "BUZ-CAN-NEG-M", Color: "negro", Size: "M", Price: 29999, Stock: 6},
					{SKU: "BUZ-CAN-NEG-L", Color: "negro", Size: "L", Price: 29999, Stock: 4},
				},
			},
		},
		{
			categorySlug: "accesorios",
			product: domain.Product{
				Slug:        "gorra-trucker",
				Name:        "Gorra Trucker",
				Price:       8999,
				ProductType: domain.ProductSimple,
				SKU:         "GOR-TRU-001",
				SimpleStock: 25,
				Status:      domain.ProductActive,
				Images:      []string{"/media/gorra-trucker.jpg"},
			},
		},
		{
			categorySlug: "accesorios",
			product: domain.Product{
				Slug:        "tote-bag",
				Name:        "Tote Bag",
				Price:       6499,
				ProductType: domain.ProductSimple,
				SKU:         "TOT-BAG-001",
				SimpleStock: 40,
				Status:      domain.ProductActive,
			},
		},
	}
}

func demoCoupons() []domain.Coupon {
	minPurchase := int64(20000)
	usageLimit := 100
	until := time.Now().AddDate(1, 0, 0)
	return []domain.Coupon{
		{
			Code:          "SAVE10",
			Description:   "10% de descuento en tu compra",
			DiscountType:  domain.DiscountPercentage,
			DiscountValue: 10,
			ValidFrom:     time.Now().AddDate(0, -1, 0),
			Active:        true,
			ShowOnSite:    true,
		},
		{
			Code:            "BIENVENIDA15",
			Description:     "15% de descuento en compras mayores a $20000",
			DiscountType:    domain.DiscountPercentage,
			DiscountValue:   15,
			MinimumPurchase: &minPurchase,
			UsageLimit:      &usageLimit,
			ValidFrom:       time.Now().AddDate(0, -1, 0),
			ValidUntil:      &until,
			Active:          true,
			ShowOnSite:      true,
		},
		{
			Code:          "ENVIOGRATIS",
			Description:   "Envío gratis en tu pedido",
			DiscountType:  domain.DiscountFreeShipping,
			DiscountValue: 0,
			ValidFrom:     time.Now().AddDate(0, -1, 0),
			Active:        true,
			ShowOnSite:    false,
		},
		{
			Code:          "MENOS5000",
			Description:   "$5000 de descuento",
			DiscountType:  domain.DiscountFixed,
			DiscountValue: 5000,
			ValidFrom:     time.Now().AddDate(0, -1, 0),
			Active:        true,
			ShowOnSite:    false,
		},
	}
}
