package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/platewise/console-api/internal/upstream"
)

// StatsStore defines the upstream methods needed by stats handlers.
// Satisfied by *upstream.Client; narrow interface for testability.
type StatsStore interface {
	GetDeliveryStats(ctx context.Context, kitchenID uuid.UUID, startDate, endDate time.Time) (upstream.DeliveryStats, error)
}

// StatsHandler handles delivery performance endpoints. The numbers are
// backend-computed; this is a passthrough, not a client-side derivation.
type StatsHandler struct {
	store StatsStore
	now   func() time.Time
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(store StatsStore, now func() time.Time) *StatsHandler {
	return &StatsHandler{store: store, now: now}
}

// RegisterRoutes registers stats endpoints on the given Chi router.
// Expected to be mounted inside a kitchen-scoped subrouter: /kitchens/{kid}/stats
func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

type statsResponse struct {
	TotalOrders           int    `json:"total_orders"`
	SuccessfulDeliveries  int    `json:"successful_deliveries"`
	FailedDeliveries      int    `json:"failed_deliveries"`
	SuccessRate           string `json:"success_rate"`
	AvgDeliveriesPerBatch string `json:"avg_deliveries_per_batch"`
}

// Get handles GET /kitchens/{kid}/stats. Defaults to today's numbers;
// start_date/end_date widen the range.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	kitchenID, err := uuid.Parse(chi.URLParam(r, "kid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid kitchen ID"})
		return
	}

	startDate, endDate, err := parseDateRange(r, h.now(), 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	stats, err := h.store.GetDeliveryStats(r.Context(), kitchenID, startDate, endDate)
	if err != nil {
		log.Printf("ERROR: get delivery stats: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "delivery backend unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalOrders:           stats.TotalOrders,
		SuccessfulDeliveries:  stats.SuccessfulDeliveries,
		FailedDeliveries:      stats.FailedDeliveries,
		SuccessRate:           stats.SuccessRate.StringFixed(2),
		AvgDeliveriesPerBatch: stats.AvgDeliveriesPerBatch.StringFixed(2),
	})
}
