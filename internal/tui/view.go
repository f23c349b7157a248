package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vyvy-garden/orderdesk/internal/invoice"
	"github.com/vyvy-garden/orderdesk/internal/order"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1e5b33"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc3545"))
	flashStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc3545")).Bold(true)
	totalStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1e5b33"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	selectStyle = lipgloss.NewStyle().Bold(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

func (m appModel) View() string {
	var body string
	if m.view == viewOrders {
		body = m.viewOrders()
	} else {
		body = m.viewForm()
	}

	lines := []string{titleStyle.Render(invoice.ShopName), "", body}
	if m.status != "" {
		lines = append(lines, "", faintStyle.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) focusMarker(focus int) string {
	if m.focus == focus {
		return selectStyle.Render("> ")
	}
	return "  "
}

func (m appModel) fieldError(field string) string {
	if msg := m.ctrl.FieldError(field); msg != "" {
		return " " + errorStyle.Render(msg)
	}
	return ""
}

func (m appModel) viewForm() string {
	var b strings.Builder

	heading := "New Order"
	if m.ctrl.Editing() {
		heading = fmt.Sprintf("Edit Order #%d", m.ctrl.EditingID())
	}
	b.WriteString(titleStyle.Render(heading) + "\n\n")

	b.WriteString(m.focusMarker(focusName) + labelStyle.Render("Customer Name ") +
		m.nameInput.View() + m.fieldError("customerName") + "\n")
	b.WriteString(m.focusMarker(focusPhone) + labelStyle.Render("Contact No.   ") +
		m.phoneInput.View() + m.fieldError("contactInfo") + "\n\n")

	b.WriteString(labelStyle.Render("Build Your Order") + "\n")
	product := m.ctrl.CurrentProduct()
	price := int64(0)
	if p, err := m.cat.PriceOf(product); err == nil {
		price = p
	}
	b.WriteString(fmt.Sprintf("%s%s < %s (P%d) >\n",
		m.focusMarker(focusProduct), labelStyle.Render("Product  "), product, price))
	b.WriteString(m.focusMarker(focusQuantity) + labelStyle.Render("Quantity ") + m.qtyInput.View() + "\n")
	b.WriteString(m.focusMarker(focusAddItem) + "[ Add + ]\n")

	b.WriteString(m.viewCart() + "\n")

	b.WriteString(fmt.Sprintf("%s%s < %s >\n",
		m.focusMarker(focusPayment), labelStyle.Render("Payment  "), m.ctrl.Draft().PaymentMethod))
	b.WriteString(fmt.Sprintf("%s%s < %s >\n",
		m.focusMarker(focusDelivery), labelStyle.Render("Delivery "), m.ctrl.Draft().DeliveryMethod))

	if m.ctrl.Draft().DeliveryMethod == order.DeliveryCourier {
		b.WriteString(m.focusMarker(focusAddress) + labelStyle.Render("Address  ") +
			m.addressInput.View() + m.fieldError("address") + "\n")
	}

	b.WriteString(m.focusMarker(focusNotes) + labelStyle.Render("Notes") + "\n" + m.notesArea.View() + "\n\n")

	submit := "[ Submit Order ]"
	if m.ctrl.Editing() {
		submit = "[ Update Order ]"
	}
	b.WriteString(m.focusMarker(focusSubmit) + submit + "\n")

	if flash := m.ctrl.Flash(); flash != "" {
		b.WriteString("\n" + flashStyle.Render("! "+flash) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("tab: next field - enter: activate - ctrl+x: drop last item - ctrl+o: saved orders - ctrl+c: quit"))
	return b.String()
}

func (m appModel) viewCart() string {
	items := m.ctrl.Draft().Items
	if len(items) == 0 {
		return faintStyle.Render("  No items added yet.")
	}

	var b strings.Builder
	for _, item := range items {
		b.WriteString(fmt.Sprintf("  %dx %-10s P%d\n", item.Quantity, item.Product, item.Subtotal()))
	}
	b.WriteString(totalStyle.Render(fmt.Sprintf("  Total: P%d", m.ctrl.Total())))
	return b.String()
}

func (m appModel) viewOrders() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Saved Orders") + "\n\n")

	if len(m.orders) == 0 {
		b.WriteString(faintStyle.Render("No orders placed yet.") + "\n")
	}

	for i, o := range m.orders {
		marker := "  "
		if i == m.cursor {
			marker = selectStyle.Render("> ")
		}

		summary := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			summary = append(summary, fmt.Sprintf("%dx %s", item.Quantity, item.Product))
		}

		line := fmt.Sprintf("%s#%d  %-16s %-12s %-24s P%d",
			marker, o.ID, o.CustomerName, o.DeliveryMethod, strings.Join(summary, ", "), o.TotalPrice)
		if m.deleting[o.ID] {
			line = faintStyle.Render(line + "  (deleting...)")
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("e: edit - d: delete - i: invoice - n: new order - q: quit"))
	return b.String()
}
