package order

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Contact numbers are local mobile numbers: exactly 11 digits starting
// with 09.
var phonePattern = regexp.MustCompile(`^09\d{9}$`)

// ValidationError carries every violated field together with its message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return "order: invalid fields: " + strings.Join(names, ", ")
}

// Validate checks a draft before it may become an Order. An empty cart is
// a blocking precondition and is reported as ErrEmptyCart on its own;
// all other violated fields are collected into a single ValidationError.
func Validate(d Draft) error {
	if len(d.Items) == 0 {
		return ErrEmptyCart
	}

	fields := make(map[string]string)

	if strings.TrimSpace(d.CustomerName) == "" {
		fields["customerName"] = "Name is required"
	}

	if strings.TrimSpace(d.ContactPhone) == "" {
		fields["contactInfo"] = "Contact info required"
	} else if !phonePattern.MatchString(d.ContactPhone) {
		fields["contactInfo"] = "Must start with 09 (11 digits)"
	}

	if d.DeliveryMethod == DeliveryCourier && strings.TrimSpace(d.Address) == "" {
		fields["address"] = "Address required for delivery"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// IDSource hands out unique timestamp-derived order ids.
type IDSource func() int64

// Finalize turns a validated draft into an Order. A zero existingID means
// a new order and a fresh id from ids; otherwise the id is reused (edit).
// The total is computed once here and stored; the address is forced empty
// for pickup orders.
func Finalize(d Draft, existingID int64, ids IDSource) (Order, error) {
	if err := Validate(d); err != nil {
		return Order{}, fmt.Errorf("order: finalize: %w", err)
	}

	id := existingID
	if id == 0 {
		id = ids()
	}

	payment := d.PaymentMethod
	if payment == "" {
		payment = PaymentCash
	}

	address := d.Address
	if d.DeliveryMethod == DeliveryPickup {
		address = ""
	}

	items := make([]LineItem, len(d.Items))
	copy(items, d.Items)

	return Order{
		ID:             id,
		CustomerName:   d.CustomerName,
		ContactPhone:   d.ContactPhone,
		DeliveryMethod: d.DeliveryMethod,
		Address:        address,
		PaymentMethod:  payment,
		Notes:          d.Notes,
		Items:          items,
		TotalPrice:     ComputeTotal(items),
	}, nil
}
