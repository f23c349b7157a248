// Package tui is the interactive terminal surface of the order desk: an
// order form on the left of the workflow, the saved-order list behind it.
package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vyvy-garden/orderdesk/internal/catalog"
	"github.com/vyvy-garden/orderdesk/internal/form"
	"github.com/vyvy-garden/orderdesk/internal/invoice"
	"github.com/vyvy-garden/orderdesk/internal/order"
)

type view int

const (
	viewForm view = iota
	viewOrders
)

// Focus positions in the form view, top to bottom.
const (
	focusName = iota
	focusPhone
	focusProduct
	focusQuantity
	focusAddItem
	focusPayment
	focusDelivery
	focusAddress
	focusNotes
	focusSubmit
	focusCount
)

type refreshTickMsg struct{}

type appModel struct {
	svc  order.Service
	ctrl *form.Controller
	cat  *catalog.Catalog
	pdf  *invoice.PDFWriter

	view  view
	focus int

	nameInput    textinput.Model
	phoneInput   textinput.Model
	qtyInput     textinput.Model
	addressInput textinput.Model
	notesArea    textarea.Model

	productIdx int

	orders   []order.Order
	cursor   int
	deleting map[int64]bool

	status string
	width  int
	height int
}

func newAppModel(svc order.Service, cat *catalog.Catalog, pdf *invoice.PDFWriter) appModel {
	m := appModel{
		svc:      svc,
		ctrl:     form.New(cat),
		cat:      cat,
		pdf:      pdf,
		deleting: map[int64]bool{},
	}

	m.nameInput = textinput.New()
	m.nameInput.Placeholder = "Full Name"
	m.nameInput.CharLimit = 100
	m.nameInput.Width = 30
	m.nameInput.Focus()

	m.phoneInput = textinput.New()
	m.phoneInput.Placeholder = "09XXXXXXXXX"
	m.phoneInput.CharLimit = 11
	m.phoneInput.Width = 15

	m.qtyInput = textinput.New()
	m.qtyInput.Placeholder = "1"
	m.qtyInput.CharLimit = 4
	m.qtyInput.Width = 6
	m.qtyInput.SetValue("1")

	m.addressInput = textinput.New()
	m.addressInput.Placeholder = "Complete address"
	m.addressInput.CharLimit = 200
	m.addressInput.Width = 40

	m.notesArea = textarea.New()
	m.notesArea.Placeholder = "Special requests?"
	m.notesArea.SetWidth(40)
	m.notesArea.SetHeight(3)
	m.notesArea.ShowLineNumbers = false

	m.syncInputs()
	m.reloadOrders()
	return m
}

func refreshTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

func (m appModel) Init() tea.Cmd { return refreshTick() }

func (m *appModel) reloadOrders() {
	orders, err := m.svc.Orders(context.Background())
	if err != nil {
		m.status = "Failed to load orders: " + err.Error()
		return
	}
	m.orders = orders

	seen := map[int64]bool{}
	for _, o := range orders {
		seen[o.ID] = true
	}
	for id := range m.deleting {
		if !seen[id] {
			delete(m.deleting, id)
		}
	}
	if m.cursor >= len(m.orders) && m.cursor > 0 {
		m.cursor = len(m.orders) - 1
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshTickMsg:
		m.reloadOrders()
		return m, refreshTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
		if m.view == viewOrders {
			return m.updateOrders(msg)
		}
		return m.updateForm(msg)
	}

	return m, nil
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.setFocus(m.nextFocus(1))
		return m, nil
	case "shift+tab", "up":
		m.setFocus(m.nextFocus(-1))
		return m, nil
	case "ctrl+o":
		m.syncDraft()
		m.view = viewOrders
		return m, nil
	case "ctrl+x":
		// Drop the last cart entry.
		items := m.ctrl.Draft().Items
		if len(items) > 0 {
			_ = m.ctrl.RemoveItem(len(items) - 1)
		}
		return m, nil
	case "esc":
		if m.ctrl.Editing() {
			m.ctrl.Reset()
			m.syncInputs()
			m.status = "Edit cancelled"
		}
		return m, nil
	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		switch m.focus {
		case focusProduct:
			products := m.cat.Products()
			m.productIdx = (m.productIdx + delta + len(products)) % len(products)
			m.ctrl.SelectProduct(products[m.productIdx])
			return m, nil
		case focusPayment:
			m.togglePayment()
			return m, nil
		case focusDelivery:
			m.toggleDelivery()
			return m, nil
		}
	case "enter":
		switch m.focus {
		case focusAddItem:
			m.addItem()
			return m, nil
		case focusSubmit:
			m.submit()
			return m, nil
		case focusPayment:
			m.togglePayment()
			return m, nil
		case focusDelivery:
			m.toggleDelivery()
			return m, nil
		default:
			m.setFocus(m.nextFocus(1))
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusName:
		m.nameInput, cmd = m.nameInput.Update(msg)
		m.ctrl.SetCustomerName(m.nameInput.Value())
	case focusPhone:
		m.phoneInput, cmd = m.phoneInput.Update(msg)
		m.ctrl.InputPhone(m.phoneInput.Value())
		// The guard may have rejected the input; mirror the accepted value.
		m.phoneInput.SetValue(m.ctrl.Draft().ContactPhone)
		m.phoneInput.CursorEnd()
	case focusQuantity:
		m.qtyInput, cmd = m.qtyInput.Update(msg)
	case focusAddress:
		m.addressInput, cmd = m.addressInput.Update(msg)
		m.ctrl.SetAddress(m.addressInput.Value())
	case focusNotes:
		m.notesArea, cmd = m.notesArea.Update(msg)
		m.ctrl.SetNotes(m.notesArea.Value())
	}
	return m, cmd
}

func (m *appModel) addItem() {
	qty, err := strconv.Atoi(m.qtyInput.Value())
	if err != nil {
		qty = 0
	}
	m.ctrl.SetQuantity(qty)
	if err := m.ctrl.AddItem(); err != nil {
		return
	}
	m.productIdx = 0
	for i, p := range m.cat.Products() {
		if p == m.ctrl.CurrentProduct() {
			m.productIdx = i
		}
	}
	m.qtyInput.SetValue(strconv.Itoa(m.ctrl.CurrentQuantity()))
}

// syncDraft pushes the current input values into the controller before
// any submit or view change.
func (m *appModel) syncDraft() {
	m.ctrl.SetCustomerName(m.nameInput.Value())
	m.ctrl.SetAddress(m.addressInput.Value())
	m.ctrl.SetNotes(m.notesArea.Value())
}

// syncInputs pulls controller state back into the widgets (after Reset or
// Edit).
func (m *appModel) syncInputs() {
	d := m.ctrl.Draft()
	m.nameInput.SetValue(d.CustomerName)
	m.phoneInput.SetValue(d.ContactPhone)
	m.addressInput.SetValue(d.Address)
	m.notesArea.SetValue(d.Notes)
	m.qtyInput.SetValue(strconv.Itoa(m.ctrl.CurrentQuantity()))
	m.productIdx = 0
	for i, p := range m.cat.Products() {
		if p == m.ctrl.CurrentProduct() {
			m.productIdx = i
		}
	}
}

func (m *appModel) submit() {
	m.syncDraft()
	d, existingID, err := m.ctrl.Submit()
	if err != nil {
		return
	}

	o, err := m.svc.Submit(context.Background(), d, existingID)
	if err != nil {
		m.status = "Failed to save order: " + err.Error()
		return
	}

	if existingID == 0 {
		m.status = fmt.Sprintf("Order #%d saved", o.ID)
	} else {
		m.status = fmt.Sprintf("Order #%d updated", o.ID)
	}
	m.syncInputs()
	m.reloadOrders()
	m.view = viewOrders
}

func (m *appModel) togglePayment() {
	if m.ctrl.Draft().PaymentMethod == order.PaymentCash {
		m.ctrl.SetPaymentMethod(order.PaymentGCash)
	} else {
		m.ctrl.SetPaymentMethod(order.PaymentCash)
	}
}

func (m *appModel) toggleDelivery() {
	if m.ctrl.Draft().DeliveryMethod == order.DeliveryPickup {
		m.ctrl.SetDeliveryMethod(order.DeliveryCourier)
	} else {
		m.ctrl.SetDeliveryMethod(order.DeliveryPickup)
	}
}

// nextFocus steps over positions that are hidden in the current state
// (the address row only exists for delivery orders).
func (m *appModel) nextFocus(delta int) int {
	focus := m.focus
	for {
		focus = (focus + delta + focusCount) % focusCount
		if focus == focusAddress && m.ctrl.Draft().DeliveryMethod != order.DeliveryCourier {
			continue
		}
		return focus
	}
}

func (m *appModel) setFocus(focus int) {
	m.focus = focus

	m.nameInput.Blur()
	m.phoneInput.Blur()
	m.qtyInput.Blur()
	m.addressInput.Blur()
	m.notesArea.Blur()

	switch focus {
	case focusName:
		m.nameInput.Focus()
	case focusPhone:
		m.phoneInput.Focus()
	case focusQuantity:
		m.qtyInput.Focus()
	case focusAddress:
		m.addressInput.Focus()
	case focusNotes:
		m.notesArea.Focus()
	}
}

func (m appModel) updateOrders(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "n", "ctrl+o", "esc":
		m.view = viewForm
		m.setFocus(focusName)
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.orders)-1 {
			m.cursor++
		}
		return m, nil
	case "e":
		if o, ok := m.selectedOrder(); ok {
			m.ctrl.Edit(o)
			m.syncInputs()
			m.view = viewForm
			m.setFocus(focusName)
			m.status = fmt.Sprintf("Editing order #%d", o.ID)
		}
		return m, nil
	case "d":
		if o, ok := m.selectedOrder(); ok {
			if m.svc.DeleteDeferred(o.ID) {
				m.deleting[o.ID] = true
			}
		}
		return m, nil
	case "i":
		if o, ok := m.selectedOrder(); ok {
			m.exportInvoice(o)
		}
		return m, nil
	}
	return m, nil
}

func (m *appModel) selectedOrder() (order.Order, bool) {
	if m.cursor < 0 || m.cursor >= len(m.orders) {
		return order.Order{}, false
	}
	return m.orders[m.cursor], true
}

func (m *appModel) exportInvoice(o order.Order) {
	name := invoice.Filename(o)
	f, err := os.Create(name)
	if err != nil {
		m.status = "Invoice error: " + err.Error()
		return
	}
	defer f.Close()

	if err := m.pdf.Write(invoice.Render(o), f); err != nil {
		m.status = "Invoice error: " + err.Error()
		return
	}
	m.status = "Saved " + name
}

// Run starts the interactive app and blocks until it exits.
func Run(svc order.Service, cat *catalog.Catalog, pdf *invoice.PDFWriter) error {
	p := tea.NewProgram(newAppModel(svc, cat, pdf), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
