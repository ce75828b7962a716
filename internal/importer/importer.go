// Package importer loads catalog CSV exports into the product table.
// A product occupies one row; variable products carry one extra row
// per variant, with the product columns left blank.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront-api/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

type csvRow struct {
	Slug        string
	Name        string
	Desc        string
	Price       int64
	ProductType string
	SKU         string
	Stock       int
	CategoryID  string
	ImageURLs   []string
	Variant     *domain.Variant
	Variants    []domain.Variant
}

// Run parses CSV rows and upserts products grouped by slug. Variant
// and image continuation rows attach to the most recent product row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *csvRow
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.Slug != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			if row.Variant != nil {
				current.Variants = append(current.Variants, *row.Variant)
			}
			continue
		}

		// Continuation rows (variants, images) belong to the current product.
		if current == nil {
			continue
		}
		if row.Variant != nil {
			current.Variants = append(current.Variants, *row.Variant)
		}
		if len(row.ImageURLs) > 0 {
			current.ImageURLs = append(current.ImageURLs, row.ImageURLs...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Slug == "" || row.Name == "" || row.Price == 0 {
		return fmt.Errorf("invalid product row (missing required fields) for slug %q", row.Slug)
	}

	typ := domain.ProductType(row.ProductType)
	if typ == "" {
		if len(row.Variants) > 0 {
			typ = domain.ProductVariable
		} else {
			typ = domain.ProductSimple
		}
	}
	if typ == domain.ProductVariable && len(row.Variants) == 0 {
		return fmt.Errorf("variable product %q has no variant rows", row.Slug)
	}

	p := domain.Product{
		Slug:        row.Slug,
		Name:        row.Name,
		Description: row.Desc,
		Price:       row.Price,
		ProductType: typ,
		SKU:         row.SKU,
		SimpleStock: row.Stock,
		Variants:    row.Variants,
		Images:      row.ImageURLs,
		Status:      domain.ProductActive,
	}
	if row.CategoryID != "" {
		p.CategoryID = &row.CategoryID
	}

	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Slug, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	slug := pick(record, index, "slug")
	name := pick(record, index, "name")
	desc := pick(record, index, "description")
	productType := pick(record, index, "type")
	sku := pick(record, index, "sku")
	categoryID := pick(record, index, "category")
	imageURL := pick(record, index, "image")

	variantSKU := pick(record, index, "variant.sku")

	if slug == "" && variantSKU == "" && imageURL == "" {
		return nil
	}

	row := &csvRow{
		Slug:        slug,
		Name:        name,
		Desc:        desc,
		Price:       pickInt64(record, index, "price"),
		ProductType: productType,
		SKU:         sku,
		Stock:       int(pickInt64(record, index, "stock")),
		CategoryID:  categoryID,
	}
	if imageURL != "" {
		row.ImageURLs = []string{imageURL}
	}
	if variantSKU != "" {
		row.Variant = &domain.Variant{
			SKU:   variantSKU,
			Color: pick(record, index, "variant.color"),
			Size:  pick(record, index, "variant.size"),
			Price: pickInt64(record, index, "variant.price"),
			Stock: int(pickInt64(record, index, "variant.stock")),
		}
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func pickInt64(record []string, index map[string]int, key string) int64 {
	v := pick(record, index, key)
	if v == "" {
		return 0
	}
	n, _ := strconv.ParseInt(v, 10, 64)
	return n
}
