// Package invoice turns a finalized order into a printable invoice: a
// pure layout transformation first, then a PDF rasterization of it.
package invoice

import (
	"fmt"
	"strings"

	"github.com/vyvy-garden/orderdesk/internal/order"
)

const (
	ShopName      = "VyVy's Garden"
	HeaderCaption = "Order Invoice"
	FooterCaption = "Thank you for supporting our small business!"
)

// MetaField is one label/value pair in the invoice metadata block.
type MetaField struct {
	Label string
	Value string
}

// Row is one line-item row of the invoice table.
type Row struct {
	Product   string
	UnitPrice string
	Quantity  string
	Subtotal  string
}

// Document is the full invoice layout, in render order. It carries no
// styling; the writer decides fonts and geometry.
type Document struct {
	ShopName string
	Caption  string
	Meta     []MetaField
	Columns  [4]string
	Rows     []Row
	Total    string
	Notes    string
	Footer   string
}

func peso(amount int64) string {
	return fmt.Sprintf("P%d", amount)
}

// Render builds the invoice document for an order. The transformation is
// deterministic and side-effect free.
func Render(o order.Order) Document {
	meta := []MetaField{
		{Label: "Order ID", Value: fmt.Sprintf("%d", o.ID)},
		{Label: "Date", Value: o.PlacedAt().Format("1/2/2006")},
		{Label: "Customer", Value: o.CustomerName},
		{Label: "Contact", Value: o.ContactPhone},
		{Label: "Payment", Value: o.PaymentMethod.String()},
		{Label: "Method", Value: o.DeliveryMethod.String()},
	}
	if o.DeliveryMethod == order.DeliveryCourier {
		meta = append(meta, MetaField{Label: "Addr", Value: o.Address})
	}

	rows := make([]Row, 0, len(o.Items))
	for _, item := range o.Items {
		rows = append(rows, Row{
			Product:   item.Product,
			UnitPrice: peso(item.UnitPrice),
			Quantity:  fmt.Sprintf("%d", item.Quantity),
			Subtotal:  peso(item.Subtotal()),
		})
	}

	return Document{
		ShopName: ShopName,
		Caption:  HeaderCaption,
		Meta:     meta,
		Columns:  [4]string{"Item", "Price", "Qty", "Subtotal"},
		Rows:     rows,
		Total:    "Total Amount: " + peso(o.TotalPrice),
		Notes:    o.Notes,
		Footer:   FooterCaption,
	}
}

// Filename names the exported file after the customer.
func Filename(o order.Order) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(o.CustomerName)
	return "Invoice_" + name + ".pdf"
}
