package handler

import (
	"context"
	"net/http"
	"strconv"

	"menuhub/internal/model"
	"menuhub/internal/service"

	"github.com/rs/zerolog"
)

// StockRequest is the body of the add and remove stock endpoints.
type StockRequest struct {
	Amount int `json:"amount" validate:"required,gt=0,lte=2147483647"`
}

// BulkAdjustRequest maps menu item ids to signed stock deltas.
type BulkAdjustRequest struct {
	Adjustments map[string]int `json:"adjustments" validate:"required,min=1"`
}

// BulkAdjustResponse reports per-item success.
type BulkAdjustResponse struct {
	Results map[string]bool `json:"results"`
}

// AvailabilityResponse is the body of the availability endpoint.
type AvailabilityResponse struct {
	MenuItemID int64 `json:"menuItemId"`
	Quantity   int   `json:"quantity"`
	Available  bool  `json:"available"`
}

// InventoryHandler handles stock HTTP requests.
type InventoryHandler struct {
	service service.InventoryService
	logger  zerolog.Logger
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(service service.InventoryService, logger zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "inventory").Logger(),
	}
}

// Get handles GET /api/inventory/{menuItemId}.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := menuItemIDParam(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	rec, err := h.service.GetRecord(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Availability handles GET /api/inventory/{menuItemId}/availability?quantity=N.
func (h *InventoryHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := menuItemIDParam(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	required, err := queryInt(r, "quantity", 1, 1, 1_000_000)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	ok, err := h.service.CheckAvailability(r.Context(), id, required)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	qty, err := h.service.GetQuantity(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityResponse{MenuItemID: id, Quantity: qty, Available: ok})
}

// Add handles POST /api/inventory/{menuItemId}/add.
func (h *InventoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.service.AddStock)
}

// Remove handles POST /api/inventory/{menuItemId}/remove.
func (h *InventoryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.service.RemoveStock)
}

func (h *InventoryHandler) adjust(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64, amount int) (*model.InventoryRecord, error)) {
	id, err := menuItemIDParam(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req StockRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	rec, err := op(r.Context(), id, req.Amount)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Bulk handles POST /api/inventory/bulk.
func (h *InventoryHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req BulkAdjustRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	deltas := make(map[int64]int, len(req.Adjustments))
	for key, delta := range req.Adjustments {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, r, badRequest("invalid menu item id %q", key), h.logger)
			return
		}
		deltas[id] = delta
	}

	results, err := h.service.BulkAdjust(r.Context(), deltas)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	resp := BulkAdjustResponse{Results: make(map[string]bool, len(results))}
	for id, ok := range results {
		resp.Results[strconv.FormatInt(id, 10)] = ok
	}
	writeJSON(w, http.StatusOK, resp)
}

// LowStock handles GET /api/inventory/low-stock. With ?threshold=N it lists
// items strictly below N, otherwise items at or below their own threshold.
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	var (
		recs []model.InventoryRecord
		err  error
	)
	if r.URL.Query().Get("threshold") != "" {
		var threshold int
		threshold, err = queryInt(r, "threshold", 0, 1, 1_000_000)
		if err == nil {
			recs, err = h.service.ListItemsBelowThreshold(r.Context(), threshold)
		}
	} else {
		recs, err = h.service.ListLowStock(r.Context())
	}
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, recs)
}
