// Package content holds the read-only product data shown by the showcase.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var builtinYAML []byte

var (
	// ErrEmptyCatalog is returned when a catalog defines no products.
	ErrEmptyCatalog = errors.New("content: catalog has no products")
	// ErrInvalidProduct is returned for products missing a name or with a duplicate name.
	ErrInvalidProduct = errors.New("content: invalid product")
)

// Product is one showcased item.
type Product struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Details     []string `yaml:"details"`
}

// IsZero reports whether p is the zero product.
func (p Product) IsZero() bool {
	return p.Name == "" && p.Description == "" && len(p.Details) == 0
}

// Equal compares products by value.
func (p Product) Equal(o Product) bool {
	if p.Name != o.Name || p.Description != o.Description || len(p.Details) != len(o.Details) {
		return false
	}
	for i := range p.Details {
		if p.Details[i] != o.Details[i] {
			return false
		}
	}
	return true
}

// Catalog is an ordered, immutable list of products.
type Catalog struct {
	products []Product
	byName   map[string]int
}

type catalogFile struct {
	Products []Product `yaml:"products"`
}

// Builtin returns the catalog compiled into the binary.
func Builtin() *Catalog {
	c, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("content: builtin catalog: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file. An empty path returns Builtin.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(f.Products...)
}

// New builds a catalog from products, rejecting empty or duplicate names.
func New(products ...Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byName:   make(map[string]int, len(products)),
	}
	for i, p := range products {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, fmt.Errorf("product %d: missing name: %w", i, ErrInvalidProduct)
		}
		if _, dup := c.byName[p.Name]; dup {
			return nil, fmt.Errorf("product %d: duplicate name %q: %w", i, p.Name, ErrInvalidProduct)
		}
		details := make([]string, len(p.Details))
		copy(details, p.Details)
		p.Details = details

		c.byName[p.Name] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// At returns the product at index i.
func (c *Catalog) At(i int) (Product, bool) {
	if c == nil || i < 0 || i >= len(c.products) {
		return Product{}, false
	}
	return c.products[i].clone(), true
}

// Lookup finds a product by name.
func (c *Catalog) Lookup(name string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	i, ok := c.byName[strings.TrimSpace(name)]
	if !ok {
		return Product{}, false
	}
	return c.products[i].clone(), true
}

// Contains reports whether p is exactly a product of the catalog.
func (c *Catalog) Contains(p Product) bool {
	got, ok := c.Lookup(p.Name)
	return ok && got.Equal(p)
}

// Products returns a copy of all products in order.
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.clone()
	}
	return out
}

func (p Product) clone() Product {
	d := make([]string, len(p.Details))
	copy(d, p.Details)
	p.Details = d
	return p
}
