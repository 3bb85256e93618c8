package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"menuhub/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInventoryHandler_Get(t *testing.T) {
	mockService := new(MockInventoryService)
	mockService.On("GetRecord", mock.Anything, int64(2)).Return(&model.InventoryRecord{MenuItemID: 2, Quantity: 7, LowStockThreshold: 5}, nil)
	mockService.On("GetRecord", mock.Anything, int64(3)).Return(nil, model.ErrInventoryNotFound)
	handler := NewInventoryHandler(mockService, zerolog.Nop())

	w := httptest.NewRecorder()
	handler.Get(w, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "menuItemId", "2"))
	require.Equal(t, http.StatusOK, w.Code)
	var rec model.InventoryRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, 7, rec.Quantity)

	w = httptest.NewRecorder()
	handler.Get(w, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "menuItemId", "3"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	mockService.AssertExpectations(t)
}

func TestInventoryHandler_Availability(t *testing.T) {
	mockService := new(MockInventoryService)
	mockService.On("CheckAvailability", mock.Anything, int64(2), 4).Return(false, nil)
	mockService.On("GetQuantity", mock.Anything, int64(2)).Return(3, nil)
	handler := NewInventoryHandler(mockService, zerolog.Nop())

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/?quantity=4", nil), "menuItemId", "2")
	w := httptest.NewRecorder()
	handler.Availability(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got AvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, AvailabilityResponse{MenuItemID: 2, Quantity: 3, Available: false}, got)
	mockService.AssertExpectations(t)
}

func TestInventoryHandler_AddRemove(t *testing.T) {
	tests := []struct {
		name           string
		remove         bool
		body           string
		setup          func(m *MockInventoryService)
		expectedStatus int
	}{
		{
			name: "Add stock",
			body: `{"amount": 5}`,
			setup: func(m *MockInventoryService) {
				m.On("AddStock", mock.Anything, int64(2), 5).Return(&model.InventoryRecord{MenuItemID: 2, Quantity: 12}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Remove stock",
			remove: true,
			body:   `{"amount": 2}`,
			setup: func(m *MockInventoryService) {
				m.On("RemoveStock", mock.Anything, int64(2), 2).Return(&model.InventoryRecord{MenuItemID: 2, Quantity: 1}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Remove more than on hand",
			remove: true,
			body:   `{"amount": 20}`,
			setup: func(m *MockInventoryService) {
				m.On("RemoveStock", mock.Anything, int64(2), 20).Return(nil, model.ErrInsufficientStock)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{name: "Zero amount", body: `{"amount": 0}`, expectedStatus: http.StatusBadRequest},
		{name: "Negative amount", remove: true, body: `{"amount": -1}`, expectedStatus: http.StatusBadRequest},
		{name: "Amount above column range", body: `{"amount": 2147483648}`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockInventoryService)
			if tt.setup != nil {
				tt.setup(mockService)
			}
			handler := NewInventoryHandler(mockService, zerolog.Nop())

			req := withURLParams(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)), "menuItemId", "2")
			w := httptest.NewRecorder()
			if tt.remove {
				handler.Remove(w, req)
			} else {
				handler.Add(w, req)
			}

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestInventoryHandler_Bulk(t *testing.T) {
	mockService := new(MockInventoryService)
	mockService.On("BulkAdjust", mock.Anything, map[int64]int{1: 5, 2: -3}).
		Return(map[int64]bool{1: true, 2: false}, nil)
	handler := NewInventoryHandler(mockService, zerolog.Nop())

	w := httptest.NewRecorder()
	handler.Bulk(w, httptest.NewRequest(http.MethodPost, "/api/inventory/bulk", strings.NewReader(`{"adjustments": {"1": 5, "2": -3}}`)))

	require.Equal(t, http.StatusOK, w.Code)
	var got BulkAdjustResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, map[string]bool{"1": true, "2": false}, got.Results)
	mockService.AssertExpectations(t)

	for _, body := range []string{`{"adjustments": {}}`, `{"adjustments": {"abc": 1}}`, `{}`} {
		w := httptest.NewRecorder()
		handler.Bulk(w, httptest.NewRequest(http.MethodPost, "/api/inventory/bulk", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestInventoryHandler_LowStock(t *testing.T) {
	recs := []model.InventoryRecord{{MenuItemID: 4, Quantity: 1, LowStockThreshold: 5}}

	tests := []struct {
		name           string
		query          string
		setup          func(m *MockInventoryService)
		expectedStatus int
	}{
		{
			name: "Own thresholds",
			setup: func(m *MockInventoryService) {
				m.On("ListLowStock", mock.Anything).Return(recs, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "Explicit threshold",
			query: "?threshold=3",
			setup: func(m *MockInventoryService) {
				m.On("ListItemsBelowThreshold", mock.Anything, 3).Return(recs, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{name: "Zero threshold", query: "?threshold=0", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockInventoryService)
			if tt.setup != nil {
				tt.setup(mockService)
			}
			handler := NewInventoryHandler(mockService, zerolog.Nop())

			w := httptest.NewRecorder()
			handler.LowStock(w, httptest.NewRequest(http.MethodGet, "/api/inventory/low-stock"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
