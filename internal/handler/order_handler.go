package handler

import (
	"context"
	"math"
	"net/http"

	"menuhub/internal/model"
	"menuhub/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AddItemRequest is the body of POST /api/orders/{orderId}/items.
// Either MenuItemID or Name identifies the item.
type AddItemRequest struct {
	MenuItemID int64  `json:"menuItemId" validate:"omitempty,gt=0"`
	Name       string `json:"name" validate:"required_without=MenuItemID,max=100"`
	Quantity   int    `json:"quantity" validate:"required,gt=0,lte=2147483647"`
}

// OrderTotalResponse is the body of GET /api/orders/{orderId}/total.
type OrderTotalResponse struct {
	OrderID uuid.UUID `json:"orderId"`
	Total   string    `json:"total"`
}

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.CreateOrder(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// List handles GET /api/orders?limit=&offset=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", service.DefaultListLimit, 1, service.MaxListLimit)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	offset, err := queryInt(r, "offset", 0, 0, math.MaxInt32)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	orders, err := h.service.ListOrders(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{orderId}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	h.withOrder(w, r, h.service.GetOrder)
}

// Total handles GET /api/orders/{orderId}/total.
func (h *OrderHandler) Total(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDParam(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	total, err := h.service.GetOrderTotal(r.Context(), orderID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, OrderTotalResponse{OrderID: orderID, Total: total.StringFixed(2)})
}

// AddItem handles POST /api/orders/{orderId}/items.
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDParam(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req AddItemRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var order *model.Order
	if req.MenuItemID != 0 {
		order, err = h.service.AddItemToOrder(r.Context(), orderID, req.MenuItemID, req.Quantity)
	} else {
		order, err = h.service.AddItemToOrderByName(r.Context(), orderID, req.Name, req.Quantity)
	}
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// RemoveItem handles DELETE /api/orders/{orderId}/items/{menuItemId}?quantity=N.
func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDParam(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	menuItemID, err := menuItemIDParam(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	quantity, err := queryInt(r, "quantity", 1, 1, math.MaxInt32)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	order, err := h.service.RemoveItemFromOrder(r.Context(), orderID, menuItemID, quantity)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Cancel handles POST /api/orders/{orderId}/cancel.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.withOrder(w, r, h.service.CancelOrder)
}

// Complete handles POST /api/orders/{orderId}/complete.
func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.withOrder(w, r, h.service.CompleteOrder)
}

// withOrder runs an operation keyed by the orderId path parameter and writes the order.
func (h *OrderHandler) withOrder(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) (*model.Order, error)) {
	orderID, err := orderIDParam(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	order, err := op(r.Context(), orderID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
