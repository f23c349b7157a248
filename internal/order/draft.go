package order

import (
	"errors"
	"fmt"

	"github.com/vyvy-garden/orderdesk/internal/catalog"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrIndexOutOfRange = errors.New("line item index out of range")
	ErrEmptyCart       = errors.New("order must contain at least one item")
	ErrUnknownProduct  = catalog.ErrUnknownProduct
)

// Draft is the in-progress, not-yet-validated order being composed.
type Draft struct {
	CustomerName   string
	ContactPhone   string
	DeliveryMethod DeliveryMethod
	Address        string
	PaymentMethod  PaymentMethod
	Notes          string
	Items          []LineItem
}

// AddLineItem appends a new item with the unit price snapshotted from the
// catalog. The input slice is not modified.
func AddLineItem(items []LineItem, cat *catalog.Catalog, product string, quantity int) ([]LineItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("order: quantity %d for %q: %w", quantity, product, ErrInvalidQuantity)
	}

	price, err := cat.PriceOf(product)
	if err != nil {
		return nil, fmt.Errorf("order: %w", err)
	}

	out := make([]LineItem, 0, len(items)+1)
	out = append(out, items...)
	out = append(out, LineItem{Product: product, Quantity: quantity, UnitPrice: price})
	return out, nil
}

// RemoveLineItem returns a copy of items without the entry at index.
// An out-of-range index is an error rather than a silent no-op.
func RemoveLineItem(items []LineItem, index int) ([]LineItem, error) {
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("order: index %d with %d items: %w", index, len(items), ErrIndexOutOfRange)
	}

	out := make([]LineItem, 0, len(items)-1)
	out = append(out, items[:index]...)
	out = append(out, items[index+1:]...)
	return out, nil
}
