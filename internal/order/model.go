package order

import "time"

type DeliveryMethod string

const (
	DeliveryPickup  DeliveryMethod = "Pickup"
	DeliveryCourier DeliveryMethod = "Delivery"
)

func (d DeliveryMethod) String() string {
	return string(d)
}

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "Cash"
	PaymentGCash PaymentMethod = "GCash"
)

func (p PaymentMethod) String() string {
	return string(p)
}

// LineItem is one product-quantity-price entry in an order's cart.
// UnitPrice is a snapshot of the catalog price at the moment the item was
// added; it is never recomputed from a later catalog change.
type LineItem struct {
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"price"`
}

func (li LineItem) Subtotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}

// Order is a finalized, validated order. JSON field names match the
// persisted record schema.
type Order struct {
	ID             int64          `json:"id"`
	CustomerName   string         `json:"customerName"`
	ContactPhone   string         `json:"contactInfo"`
	DeliveryMethod DeliveryMethod `json:"deliveryMethod"`
	Address        string         `json:"address"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod"`
	Notes          string         `json:"notes,omitempty"`
	Items          []LineItem     `json:"items"`
	TotalPrice     int64          `json:"totalPrice"`
}

// PlacedAt is the order's creation time, derived from its
// timestamp-based ID.
func (o Order) PlacedAt() time.Time {
	return time.UnixMilli(o.ID)
}

// ComputeTotal sums the subtotals of all items.
func ComputeTotal(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}
