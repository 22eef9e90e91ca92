package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/platewise/console-api/internal/enum"
	"github.com/platewise/console-api/internal/upstream"
)

// OrderStore defines the upstream methods needed by order handlers.
// Satisfied by *upstream.Client; narrow interface for testability.
type OrderStore interface {
	ListOrders(ctx context.Context, params upstream.ListOrdersParams) (upstream.OrdersPage, error)
}

// OrderHandler handles order read endpoints.
type OrderHandler struct {
	store OrderStore
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(store OrderStore) *OrderHandler {
	return &OrderHandler{store: store}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted inside a kitchen-scoped subrouter: /kitchens/{kid}/orders
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// orderListResponse wraps a list of orders with pagination metadata.
type orderListResponse struct {
	Orders []upstream.Order `json:"orders"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// List handles GET /kitchens/{kid}/orders with optional status,
// meal window and unbatched filters.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	kitchenID, err := uuid.Parse(chi.URLParam(r, "kid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid kitchen ID"})
		return
	}

	// Parse pagination
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	params := upstream.ListOrdersParams{
		KitchenID: kitchenID,
		Limit:     limit,
		Offset:    offset,
	}

	if s := r.URL.Query().Get("status"); s != "" {
		params.Status = s
	}
	if s := r.URL.Query().Get("meal_window"); s != "" {
		if !enum.IsValidMealWindow(s) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid meal_window"})
			return
		}
		params.MealWindow = s
	}
	if r.URL.Query().Get("unbatched") == "true" {
		params.Unbatched = true
	}

	page, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "delivery backend unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, orderListResponse{
		Orders: page.Orders,
		Total:  page.Total,
		Limit:  limit,
		Offset: offset,
	})
}
