package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinCatalog(t *testing.T) {
	c := Builtin()
	if c.Len() != 3 {
		t.Fatalf("expected 3 products, got %d", c.Len())
	}
	p, ok := c.At(1)
	if !ok || p.Name != "Resurrection Aromatique Hand Balm" {
		t.Fatalf("unexpected product at 1: %+v", p)
	}
	if len(p.Details) != 3 || p.Details[0] != "Intensely hydrating" {
		t.Fatalf("unexpected details: %v", p.Details)
	}
}

func TestCatalogIsReadOnly(t *testing.T) {
	c := Builtin()
	p, _ := c.At(0)
	p.Details[0] = "tampered"
	again, _ := c.At(0)
	if again.Details[0] == "tampered" {
		t.Fatal("caller mutation leaked into the catalog")
	}

	all := c.Products()
	all[0].Name = "other"
	if first, _ := c.At(0); first.Name == "other" {
		t.Fatal("Products() returned shared storage")
	}
}

func TestLookupAndContains(t *testing.T) {
	c := Builtin()
	p, ok := c.Lookup("  Geranium Leaf Body Cleanser ")
	if !ok {
		t.Fatal("expected lookup to trim and find the product")
	}
	if !c.Contains(p) {
		t.Fatal("expected catalog to contain its own product")
	}
	forged := p
	forged.Description = "different"
	if c.Contains(forged) {
		t.Fatal("expected altered product not to match")
	}
	if _, ok := c.Lookup("Unknown"); ok {
		t.Fatal("expected unknown lookup to fail")
	}
	if _, ok := c.At(-1); ok {
		t.Fatal("expected out of range index to fail")
	}

	var nilCatalog *Catalog
	if nilCatalog.Len() != 0 || nilCatalog.Products() != nil {
		t.Fatal("nil catalog should be empty")
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"empty", "products: []\n", ErrEmptyCatalog},
		{"missing name", "products:\n  - description: x\n", ErrInvalidProduct},
		{"duplicate", "products:\n  - name: A\n  - name: A\n", ErrInvalidProduct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := Parse([]byte("products: [")); err == nil {
		t.Fatal("expected YAML syntax error")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := "products:\n  - name: Parsley Seed Serum\n    description: Antioxidant serum.\n    details: [Lightweight]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 product, got %d", c.Len())
	}

	if c, err := Load(""); err != nil || c.Len() != 3 {
		t.Fatalf("expected builtin catalog for empty path, got %v / %v", c, err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestProductIsZero(t *testing.T) {
	if !(Product{}).IsZero() {
		t.Fatal("expected zero product")
	}
	if (Product{Name: "x"}).IsZero() {
		t.Fatal("named product is not zero")
	}
}
