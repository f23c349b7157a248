package order_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vyvy-garden/orderdesk/internal/catalog"
	"github.com/vyvy-garden/orderdesk/internal/order"
)

func TestAddLineItem(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		name     string
		items    []order.LineItem
		product  string
		quantity int
		want     []order.LineItem
		wantErr  error
	}{
		{
			name:     "first_item_snapshots_price",
			items:    nil,
			product:  "Rose",
			quantity: 2,
			want:     []order.LineItem{{Product: "Rose", Quantity: 2, UnitPrice: 100}},
		},
		{
			name:     "appends_after_existing",
			items:    []order.LineItem{{Product: "Rose", Quantity: 2, UnitPrice: 100}},
			product:  "Tulips",
			quantity: 1,
			want: []order.LineItem{
				{Product: "Rose", Quantity: 2, UnitPrice: 100},
				{Product: "Tulips", Quantity: 1, UnitPrice: 80},
			},
		},
		{
			name:     "zero_quantity",
			product:  "Rose",
			quantity: 0,
			wantErr:  order.ErrInvalidQuantity,
		},
		{
			name:     "negative_quantity",
			product:  "Rose",
			quantity: -3,
			wantErr:  order.ErrInvalidQuantity,
		},
		{
			name:     "unknown_product",
			product:  "Orchid",
			quantity: 1,
			wantErr:  order.ErrUnknownProduct,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := order.AddLineItem(tt.items, cat, tt.product, tt.quantity)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddLineItem_DoesNotMutateInput(t *testing.T) {
	cat := catalog.Default()
	items := []order.LineItem{{Product: "Rose", Quantity: 1, UnitPrice: 100}}

	_, err := order.AddLineItem(items, cat, "Tulips", 1)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRemoveLineItem(t *testing.T) {
	items := []order.LineItem{
		{Product: "Rose", Quantity: 2, UnitPrice: 100},
		{Product: "Tulips", Quantity: 1, UnitPrice: 80},
		{Product: "Keychains", Quantity: 4, UnitPrice: 50},
	}

	tests := []struct {
		name    string
		index   int
		want    []order.LineItem
		wantErr error
	}{
		{
			name:  "removes_middle",
			index: 1,
			want: []order.LineItem{
				{Product: "Rose", Quantity: 2, UnitPrice: 100},
				{Product: "Keychains", Quantity: 4, UnitPrice: 50},
			},
		},
		{
			name:  "removes_first",
			index: 0,
			want: []order.LineItem{
				{Product: "Tulips", Quantity: 1, UnitPrice: 80},
				{Product: "Keychains", Quantity: 4, UnitPrice: 50},
			},
		},
		{name: "negative_index", index: -1, wantErr: order.ErrIndexOutOfRange},
		{name: "index_past_end", index: 3, wantErr: order.ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := order.RemoveLineItem(items, tt.index)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemoveLineItem_TotalDropsByRemovedSubtotal(t *testing.T) {
	items := []order.LineItem{
		{Product: "Rose", Quantity: 2, UnitPrice: 100},
		{Product: "Tulips", Quantity: 3, UnitPrice: 80},
	}
	before := order.ComputeTotal(items)

	removed := items[1].Subtotal()
	after, err := order.RemoveLineItem(items, 1)
	assert.NoError(t, err)
	assert.Equal(t, before-removed, order.ComputeTotal(after))
}

func TestComputeTotal(t *testing.T) {
	assert.Equal(t, int64(0), order.ComputeTotal(nil))

	items := []order.LineItem{
		{Product: "Rose", Quantity: 2, UnitPrice: 100},
		{Product: "Tulips", Quantity: 1, UnitPrice: 80},
	}
	assert.Equal(t, int64(280), order.ComputeTotal(items))
}
