package domain

import "time"

// ProductType distinguishes products with a single stock counter from
// products sold per variant.
type ProductType string

const (
	ProductSimple   ProductType = "simple"
	ProductVariable ProductType = "variable"
)

type ProductStatus string

const (
	ProductActive     ProductStatus = "active"
	ProductDraft      ProductStatus = "draft"
	ProductOutOfStock ProductStatus = "out_of_stock"
)

type Product struct {
	ID             string        `json:"id"`
	Slug           string        `json:"slug"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	Price          int64         `json:"price"`
	CompareAtPrice *int64        `json:"compareAtPrice,omitempty"`
	ProductType    ProductType   `json:"productType"`
	SKU            string        `json:"sku,omitempty"`
	SimpleStock    int           `json:"simpleStock"`
	Variants       []Variant     `json:"variants,omitempty"`
	CategoryID     *string       `json:"category,omitempty"`
	Images         []string      `json:"images,omitempty"`
	Status         ProductStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// Variant is a purchasable variation of a variable product. Its price
// overrides the product's nominal price.
type Variant struct {
	ID    string `json:"id"`
	SKU   string `json:"sku"`
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

// FindVariant returns the variant with the given id, or nil if the
// product has no such variant.
func (p *Product) FindVariant(id string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}
