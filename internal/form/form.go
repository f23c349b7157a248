// Package form holds the transient state of the order form: the draft
// being composed, the line item about to be added, per-field errors and
// flash notices. It emits validated drafts; persistence is the service's
// job.
package form

import (
	"errors"
	"time"

	"github.com/vyvy-garden/orderdesk/internal/catalog"
	"github.com/vyvy-garden/orderdesk/internal/order"
)

const (
	defaultProduct  = "Rose"
	defaultQuantity = 1

	// FlashTTL is how long a transient notice stays visible.
	FlashTTL = 3 * time.Second
)

// Clock lets tests drive flash expiry.
type Clock func() time.Time

// Controller is the form state machine. It is not safe for concurrent
// use; each surface owns one.
type Controller struct {
	cat      *catalog.Catalog
	now      Clock
	flashTTL time.Duration

	draft     order.Draft
	editingID int64

	product  string
	quantity int

	fieldErrors map[string]string
	flash       string
	flashUntil  time.Time
}

func New(cat *catalog.Catalog) *Controller {
	return NewWithClock(cat, time.Now, FlashTTL)
}

func NewWithClock(cat *catalog.Catalog, now Clock, flashTTL time.Duration) *Controller {
	c := &Controller{cat: cat, now: now, flashTTL: flashTTL}
	c.Reset()
	return c
}

// Reset clears the whole form back to a fresh draft.
func (c *Controller) Reset() {
	c.draft = order.Draft{
		DeliveryMethod: order.DeliveryPickup,
		PaymentMethod:  order.PaymentCash,
	}
	c.editingID = 0
	c.product = defaultProduct
	c.quantity = defaultQuantity
	c.fieldErrors = make(map[string]string)
	c.clearFlash()
}

// Edit loads an existing order into the form for modification.
func (c *Controller) Edit(o order.Order) {
	c.Reset()
	c.editingID = o.ID
	c.draft = order.Draft{
		CustomerName:   o.CustomerName,
		ContactPhone:   o.ContactPhone,
		DeliveryMethod: o.DeliveryMethod,
		Address:        o.Address,
		PaymentMethod:  o.PaymentMethod,
		Notes:          o.Notes,
		Items:          append([]order.LineItem{}, o.Items...),
	}
}

func (c *Controller) Editing() bool    { return c.editingID != 0 }
func (c *Controller) EditingID() int64 { return c.editingID }

func (c *Controller) Draft() order.Draft { return c.draft }

func (c *Controller) SetCustomerName(name string) {
	c.draft.CustomerName = name
	delete(c.fieldErrors, "customerName")
}

// InputPhone applies the contact-number input guard: digits only, at
// most 11 of them. Rejected input leaves the field unchanged and raises
// a flash notice.
func (c *Controller) InputPhone(value string) {
	for _, r := range value {
		if r < '0' || r > '9' {
			c.setFlash("Only numbers allowed!")
			return
		}
	}
	if len(value) > 11 {
		c.setFlash("Max 11 digits!")
		return
	}
	c.clearFlash()
	c.draft.ContactPhone = value
	delete(c.fieldErrors, "contactInfo")
}

func (c *Controller) SetDeliveryMethod(m order.DeliveryMethod) {
	c.draft.DeliveryMethod = m
	delete(c.fieldErrors, "address")
}

func (c *Controller) SetAddress(addr string) {
	c.draft.Address = addr
	delete(c.fieldErrors, "address")
}

func (c *Controller) SetPaymentMethod(m order.PaymentMethod) {
	c.draft.PaymentMethod = m
}

func (c *Controller) SetNotes(notes string) {
	c.draft.Notes = notes
}

func (c *Controller) SelectProduct(product string) {
	c.product = product
}

func (c *Controller) SetQuantity(q int) {
	c.quantity = q
}

func (c *Controller) CurrentProduct() string { return c.product }
func (c *Controller) CurrentQuantity() int   { return c.quantity }

// AddItem moves the current selection into the cart, snapshotting its
// price, and resets the selection.
func (c *Controller) AddItem() error {
	items, err := order.AddLineItem(c.draft.Items, c.cat, c.product, c.quantity)
	if err != nil {
		if errors.Is(err, order.ErrInvalidQuantity) {
			c.setFlash("Quantity must be at least 1")
		} else {
			c.setFlash("That product is not in the catalog")
		}
		return err
	}

	c.draft.Items = items
	c.product = defaultProduct
	c.quantity = defaultQuantity
	c.clearFlash()
	return nil
}

func (c *Controller) RemoveItem(index int) error {
	items, err := order.RemoveLineItem(c.draft.Items, index)
	if err != nil {
		return err
	}
	c.draft.Items = items
	return nil
}

func (c *Controller) Total() int64 {
	return order.ComputeTotal(c.draft.Items)
}

// Submit validates the draft. On success it returns the draft and the id
// being edited (zero for a new order) and resets the form; the caller
// hands the pair to the service. On failure the field errors or flash
// notice are populated for display.
func (c *Controller) Submit() (order.Draft, int64, error) {
	err := order.Validate(c.draft)
	if err == nil {
		d, id := c.draft, c.editingID
		c.Reset()
		return d, id, nil
	}

	if errors.Is(err, order.ErrEmptyCart) {
		c.setFlash("Please add at least one item to the order!")
		return order.Draft{}, 0, err
	}

	var verr *order.ValidationError
	if errors.As(err, &verr) {
		for field, msg := range verr.Fields {
			c.fieldErrors[field] = msg
		}
	}
	return order.Draft{}, 0, err
}

// FieldError returns the message for a field, or "".
func (c *Controller) FieldError(field string) string {
	return c.fieldErrors[field]
}

// Flash returns the active transient notice, or "" once it has expired.
func (c *Controller) Flash() string {
	if c.flash == "" || c.now().After(c.flashUntil) {
		return ""
	}
	return c.flash
}

func (c *Controller) setFlash(msg string) {
	c.flash = msg
	c.flashUntil = c.now().Add(c.flashTTL)
}

func (c *Controller) clearFlash() {
	c.flash = ""
	c.flashUntil = time.Time{}
}
