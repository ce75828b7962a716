package importer

import (
	"context"
	"strings"
	"testing"

	"storefront-api/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `slug,name,description,price,type,sku,stock,category,image,variant.sku,variant.color,variant.size,variant.price,variant.stock
remera-basica,Remera Básica,Algodón peinado,12999,variable,,,cat-1,https://example.com/remera.jpg,REM-NEG-M,negro,M,12999,10
,,,,,,,,,REM-NEG-L,negro,L,12999,5
,,,,,,,,https://example.com/remera-2.jpg,,,,,
gorra-trucker,Gorra Trucker,,8999,simple,GOR-001,25,cat-2,,,,,,`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 products imported, got %d", count)
	}

	first := repo.items[0]
	if first.Slug != "remera-basica" || first.Price != 12999 || first.ProductType != domain.ProductVariable {
		t.Fatalf("unexpected product data: %+v", first)
	}
	if len(first.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(first.Variants))
	}
	if first.Variants[1].SKU != "REM-NEG-L" || first.Variants[1].Stock != 5 {
		t.Fatalf("unexpected second variant: %+v", first.Variants[1])
	}
	if len(first.Images) != 2 {
		t.Fatalf("expected 2 images, got %+v", first.Images)
	}
	if first.CategoryID == nil || *first.CategoryID != "cat-1" {
		t.Fatalf("expected category cat-1, got %v", first.CategoryID)
	}

	second := repo.items[1]
	if second.Slug != "gorra-trucker" || second.ProductType != domain.ProductSimple {
		t.Fatalf("unexpected product data: %+v", second)
	}
	if second.SimpleStock != 25 || second.SKU != "GOR-001" {
		t.Fatalf("expected simple stock fields: %+v", second)
	}
}

func TestCSVImporter_VariantRowsBeforeProductIgnored(t *testing.T) {
	csvData := `slug,name,price,variant.sku,variant.stock
,,,ORPHAN-1,3
tote-bag,Tote Bag,6499,,`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 product imported, got %d", count)
	}
	if len(repo.items[0].Variants) != 0 {
		t.Fatalf("orphan variant should not attach: %+v", repo.items[0].Variants)
	}
}

func TestCSVImporter_VariableWithoutVariantsFails(t *testing.T) {
	csvData := `slug,name,price,type
remera-rota,Remera Rota,9999,variable`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatal("expected error for variable product without variants")
	}
}

func TestCSVImporter_MissingRequiredFields(t *testing.T) {
	csvData := `slug,name,price
sin-precio,Sin Precio,`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatal("expected error for product without price")
	}
}
