package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/vyvy-garden/orderdesk/internal/catalog"
	"github.com/vyvy-garden/orderdesk/internal/invoice"
	"github.com/vyvy-garden/orderdesk/internal/order"
)

type LineItemRequest struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// SubmitOrderRequest is the payload for creating or replacing an order.
// Unit prices are never part of the payload; they are snapshotted from
// the catalog at submission time.
type SubmitOrderRequest struct {
	CustomerName   string            `json:"customerName" validate:"required"`
	ContactInfo    string            `json:"contactInfo" validate:"required"`
	DeliveryMethod string            `json:"deliveryMethod" validate:"required,oneof=Pickup Delivery"`
	Address        string            `json:"address"`
	PaymentMethod  string            `json:"paymentMethod" validate:"omitempty,oneof=Cash GCash"`
	Notes          string            `json:"notes"`
	Items          []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	svc      order.Service
	cat      *catalog.Catalog
	pdf      *invoice.PDFWriter
	validate *validator.Validate
}

func NewOrderHandler(svc order.Service, cat *catalog.Catalog, pdf *invoice.PDFWriter) *OrderHandler {
	return &OrderHandler{
		svc:      svc,
		cat:      cat,
		pdf:      pdf,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Get("/orders", h.handleListOrders)
	router.Post("/orders", h.handleCreateOrder)
	router.Get("/orders/{id}", h.handleGetOrder)
	router.Put("/orders/{id}", h.handleUpdateOrder)
	router.Delete("/orders/{id}", h.handleDeleteOrder)
	router.Get("/orders/{id}/invoice", h.handleDownloadInvoice)
	router.Get("/catalog", h.handleGetCatalog)
}

func (h *OrderHandler) decodeSubmitRequest(w http.ResponseWriter, r *http.Request) (*SubmitOrderRequest, bool) {
	var payload SubmitOrderRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		log.Warn().Err(err).Msg("handler: failed to decode order payload")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload: %v", err))
		return nil, false
	}

	if err := h.validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   "Validation failed",
				Details: formatValidationErrors(validationErrors),
			})
		} else {
			log.Error().Err(err).Msg("handler: unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return nil, false
	}

	return &payload, true
}

// toDraft prices the requested items from the catalog and assembles the
// domain draft.
func (h *OrderHandler) toDraft(payload *SubmitOrderRequest) (order.Draft, error) {
	d := order.Draft{
		CustomerName:   payload.CustomerName,
		ContactPhone:   payload.ContactInfo,
		DeliveryMethod: order.DeliveryMethod(payload.DeliveryMethod),
		Address:        payload.Address,
		PaymentMethod:  order.PaymentMethod(payload.PaymentMethod),
		Notes:          payload.Notes,
	}

	var err error
	for _, item := range payload.Items {
		d.Items, err = order.AddLineItem(d.Items, h.cat, item.Product, item.Quantity)
		if err != nil {
			return order.Draft{}, err
		}
	}
	return d, nil
}

func (h *OrderHandler) submit(w http.ResponseWriter, r *http.Request, existingID int64, successCode int) {
	payload, ok := h.decodeSubmitRequest(w, r)
	if !ok {
		return
	}

	d, err := h.toDraft(payload)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), err.Error())
		return
	}

	created, err := h.svc.Submit(r.Context(), d, existingID)
	if err != nil {
		var verr *order.ValidationError
		if errors.As(err, &verr) {
			respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:   "Validation failed",
				Details: verr.Fields,
			})
			return
		}
		if errors.Is(err, order.ErrEmptyCart) {
			respondWithError(w, http.StatusBadRequest, "Please add at least one item to the order!")
			return
		}

		log.Error().Err(err).Msg("handler: failed to submit order")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err))
		return
	}

	respondWithJSON(w, successCode, created)
}

func clientMessage(err error) string {
	switch {
	case errors.Is(err, order.ErrDuplicateID):
		return "Order with this ID already exists"
	case errors.Is(err, order.ErrNotFound):
		return "Order not found"
	default:
		return "Failed to submit order"
	}
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, 0, http.StatusCreated)
}

func (h *OrderHandler) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	h.submit(w, r, id, http.StatusOK)
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.Orders(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to list orders")
		respondWithError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.OrderByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Error().Err(err).Int64("order_id", id).Msg("handler: failed to get order")
		respondWithError(w, http.StatusInternalServerError, "Failed to get order")
		return
	}
	respondWithJSON(w, http.StatusOK, o)
}

// handleDeleteOrder schedules the deferred removal and acknowledges
// immediately; the store mutation runs after the configured delay.
func (h *OrderHandler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	h.svc.DeleteDeferred(id)
	w.WriteHeader(http.StatusAccepted)
}

func (h *OrderHandler) handleDownloadInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	o, err := h.svc.OrderByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Error().Err(err).Int64("order_id", id).Msg("handler: failed to load order for invoice")
		respondWithError(w, http.StatusInternalServerError, "Failed to load order")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", invoice.Filename(o)))
	if err := h.pdf.Write(invoice.Render(o), w); err != nil {
		log.Error().Err(err).Int64("order_id", id).Msg("handler: failed to write invoice")
	}
}

func (h *OrderHandler) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	products := h.cat.Products()
	entries := make([]map[string]interface{}, 0, len(products))
	for _, name := range products {
		price, err := h.cat.PriceOf(name)
		if err != nil {
			continue
		}
		entries = append(entries, map[string]interface{}{"product": name, "price": price})
	}
	respondWithJSON(w, http.StatusOK, entries)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		log.Warn().Str("id", idParam).Msg("handler: failed to parse id parameter")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return 0, false
	}
	return id, true
}

func formatValidationErrors(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string)
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			details[fe.Field()] = "This field is required"
		case "min":
			details[fe.Field()] = "Must be at least " + fe.Param()
		case "oneof":
			details[fe.Field()] = "Must be one of: " + fe.Param()
		default:
			details[fe.Field()] = "Invalid value"
		}
	}
	return details
}
