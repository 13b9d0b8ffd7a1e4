// Package catalog defines the tradeable products and their categories.
// The product set is loaded once at game start and never changes afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Category is the closed set of product kinds.
type Category uint8

const (
	CategoryFood Category = iota
	CategoryElectronics
	CategoryClothing
	CategoryRawMaterial  // Factory input, never sold at retail
	CategoryManufactured // Factory output, never sold at retail
)

var categoryNames = [...]string{
	CategoryFood:         "Food",
	CategoryElectronics:  "Electronics",
	CategoryClothing:     "Clothing",
	CategoryRawMaterial:  "RawMaterial",
	CategoryManufactured: "Manufactured",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// IsRetail reports whether customers buy this category in stores.
func (c Category) IsRetail() bool {
	switch c {
	case CategoryFood, CategoryElectronics, CategoryClothing:
		return true
	default:
		return false
	}
}

// ParseCategory maps a category name (case-insensitive) to its Category.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

// ProductID identifies a product within a catalog.
type ProductID uint32

// Product is an immutable catalog item.
type Product struct {
	ID             ProductID
	Name           string
	Category       Category
	WholesalePrice decimal.Decimal // What the player pays per unit
	BasePrice      decimal.Decimal // Reference retail price for elasticity
}

// Catalog is an ordered, read-only product set.
type Catalog struct {
	products []Product
	byID     map[ProductID]int
}

// New validates products and builds a catalog ordered by ID.
func New(products []Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	sorted := make([]Product, len(products))
	copy(sorted, products)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	byID := make(map[ProductID]int, len(sorted))
	for i, p := range sorted {
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("product %d has no name", p.ID)
		}
		if !p.BasePrice.IsPositive() || !p.WholesalePrice.IsPositive() {
			return nil, fmt.Errorf("product %d (%s): prices must be positive", p.ID, p.Name)
		}
		byID[p.ID] = i
	}

	return &Catalog{products: sorted, byID: byID}, nil
}

// Product looks up a product by ID.
func (c *Catalog) Product(id ProductID) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Products returns every product in ID order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Retail returns the products customers can buy in stores.
func (c *Catalog) Retail() []Product {
	var out []Product
	for _, p := range c.products {
		if p.Category.IsRetail() {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

//go:embed products.yaml
var defaultCatalog []byte

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads a YAML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

type catalogFile struct {
	Products []struct {
		ID             uint32   `yaml:"id"`
		Name           string   `yaml:"name"`
		Category       string   `yaml:"category"`
		BasePrice      float64  `yaml:"base_price"`
		WholesalePrice *float64 `yaml:"wholesale_price"`
	} `yaml:"products"`
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	products := make([]Product, 0, len(file.Products))
	for _, raw := range file.Products {
		cat, err := ParseCategory(raw.Category)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", raw.ID, err)
		}
		base := decimal.NewFromFloat(raw.BasePrice).Round(2)
		wholesale := base
		if raw.WholesalePrice != nil {
			wholesale = decimal.NewFromFloat(*raw.WholesalePrice).Round(2)
		}
		products = append(products, Product{
			ID:             ProductID(raw.ID),
			Name:           raw.Name,
			Category:       cat,
			WholesalePrice: wholesale,
			BasePrice:      base,
		})
	}

	return New(products)
}
