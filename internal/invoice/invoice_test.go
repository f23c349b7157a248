package invoice_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyvy-garden/orderdesk/internal/invoice"
	"github.com/vyvy-garden/orderdesk/internal/order"
)

func sampleOrder() order.Order {
	return order.Order{
		ID:             1700000000000,
		CustomerName:   "Ana",
		ContactPhone:   "09171234567",
		DeliveryMethod: order.DeliveryPickup,
		PaymentMethod:  order.PaymentCash,
		Items: []order.LineItem{
			{Product: "Rose", Quantity: 2, UnitPrice: 100},
			{Product: "Tulips", Quantity: 1, UnitPrice: 80},
		},
		TotalPrice: 280,
	}
}

func TestRender(t *testing.T) {
	doc := invoice.Render(sampleOrder())

	assert.Equal(t, "VyVy's Garden", doc.ShopName)
	assert.Equal(t, "Order Invoice", doc.Caption)
	assert.Equal(t, [4]string{"Item", "Price", "Qty", "Subtotal"}, doc.Columns)

	require.Len(t, doc.Meta, 6)
	assert.Equal(t, invoice.MetaField{Label: "Order ID", Value: "1700000000000"}, doc.Meta[0])
	assert.Equal(t, "Date", doc.Meta[1].Label)
	assert.Equal(t, invoice.MetaField{Label: "Customer", Value: "Ana"}, doc.Meta[2])
	assert.Equal(t, invoice.MetaField{Label: "Payment", Value: "Cash"}, doc.Meta[4])
	assert.Equal(t, invoice.MetaField{Label: "Method", Value: "Pickup"}, doc.Meta[5])

	require.Len(t, doc.Rows, 2)
	assert.Equal(t, invoice.Row{Product: "Rose", UnitPrice: "P100", Quantity: "2", Subtotal: "P200"}, doc.Rows[0])
	assert.Equal(t, invoice.Row{Product: "Tulips", UnitPrice: "P80", Quantity: "1", Subtotal: "P80"}, doc.Rows[1])

	assert.Equal(t, "Total Amount: P280", doc.Total)
	assert.Equal(t, "", doc.Notes)
	assert.Equal(t, "Thank you for supporting our small business!", doc.Footer)
}

func TestRender_DeliveryAddsAddressField(t *testing.T) {
	o := sampleOrder()
	o.DeliveryMethod = order.DeliveryCourier
	o.Address = "123 Garden St"

	doc := invoice.Render(o)
	require.Len(t, doc.Meta, 7)
	assert.Equal(t, invoice.MetaField{Label: "Addr", Value: "123 Garden St"}, doc.Meta[6])
}

func TestRender_NotesBlock(t *testing.T) {
	o := sampleOrder()
	o.Notes = "gift wrap please"

	assert.Equal(t, "gift wrap please", invoice.Render(o).Notes)
}

func TestRender_Deterministic(t *testing.T) {
	o := sampleOrder()
	assert.Equal(t, invoice.Render(o), invoice.Render(o))
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		customer string
		want     string
	}{
		{name: "plain", customer: "Ana", want: "Invoice_Ana.pdf"},
		{name: "spaces_kept", customer: "Ana Cruz", want: "Invoice_Ana Cruz.pdf"},
		{name: "path_separators_replaced", customer: "a/b\\c", want: "Invoice_a_b_c.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := sampleOrder()
			o.CustomerName = tt.customer
			assert.Equal(t, tt.want, invoice.Filename(o))
		})
	}
}

func TestPDFWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := invoice.NewPDFWriter("")

	err := w.Write(invoice.Render(sampleOrder()), &buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestPDFWriter_Write_MissingLogoDegradesGracefully(t *testing.T) {
	var buf bytes.Buffer
	w := invoice.NewPDFWriter(filepath.Join(t.TempDir(), "nope.jpg"))

	err := w.Write(invoice.Render(sampleOrder()), &buf)
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
