// Package catalog holds the static product-to-price table the shop sells
// from. Prices are whole pesos.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownProduct = errors.New("unknown product")

// Catalog maps product names to unit prices. The table is fixed for the
// lifetime of the process; there are no mutation operations.
type Catalog struct {
	prices map[string]int64
}

// Default returns the shop's catalog.
func Default() *Catalog {
	return &Catalog{prices: map[string]int64{
		"Rose":      100,
		"Tulips":    80,
		"Keychains": 50,
	}}
}

// PriceOf looks up the unit price for a product.
func (c *Catalog) PriceOf(product string) (int64, error) {
	price, ok := c.prices[product]
	if !ok {
		return 0, fmt.Errorf("catalog: %q: %w", product, ErrUnknownProduct)
	}
	return price, nil
}

// Products returns all product names in a stable order.
func (c *Catalog) Products() []string {
	names := make([]string, 0, len(c.prices))
	for name := range c.prices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
