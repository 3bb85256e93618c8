package handler

import (
	"net/http"
	"strings"

	"menuhub/internal/model"
	"menuhub/internal/service"

	"github.com/rs/zerolog"
)

// MenuHandler handles menu catalog HTTP requests.
type MenuHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(service service.MenuService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger.With().Str("handler", "menu").Logger(),
	}
}

// List handles GET /api/menu, optionally filtered by ?category=.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		items []model.MenuItem
		err   error
	)
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		items, err = h.service.ListByCategory(r.Context(), category)
	} else {
		items, err = h.service.ListMenu(r.Context())
	}
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// GetByID handles GET /api/menu/{menuItemId}.
func (h *MenuHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := menuItemIDParam(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	item, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
