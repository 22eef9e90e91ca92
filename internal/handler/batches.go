package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/platewise/console-api/internal/batching"
	"github.com/platewise/console-api/internal/enum"
	"github.com/platewise/console-api/internal/mealwindow"
	"github.com/platewise/console-api/internal/upstream"
	"github.com/platewise/console-api/internal/ws"
)

// BatchStore defines the upstream methods needed by batch handlers.
// Satisfied by *upstream.Client; narrow interface for testability.
type BatchStore interface {
	GetKitchen(ctx context.Context, kitchenID uuid.UUID) (upstream.Kitchen, error)
	ListOrders(ctx context.Context, params upstream.ListOrdersParams) (upstream.OrdersPage, error)
	ListBatches(ctx context.Context, params upstream.ListBatchesParams) ([]upstream.Batch, error)
	AutoBatch(ctx context.Context, kitchenID uuid.UUID, mealWindow string) (upstream.AutoBatchResult, error)
	Dispatch(ctx context.Context, kitchenID uuid.UUID, mealWindow string, forceDispatch bool) (upstream.DispatchResult, error)
}

// Broadcaster pushes refresh events to connected dashboards.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	BroadcastToKitchen(kitchenID uuid.UUID, event ws.Event)
}

// BatchHandler handles batch management endpoints: listing, the dashboard
// summary, history, and the two mutating actions (auto-batch, dispatch).
type BatchHandler struct {
	store BatchStore
	hub   Broadcaster

	// now is injected so the dispatch gate can be exercised at fixed
	// wall-clock times; production wiring passes time.Now.
	now func() time.Time
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(store BatchStore, hub Broadcaster, now func() time.Time) *BatchHandler {
	return &BatchHandler{store: store, hub: hub, now: now}
}

// RegisterRoutes registers batch endpoints on the given Chi router.
// Expected to be mounted inside a kitchen-scoped subrouter: /kitchens/{kid}/batches
func (h *BatchHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/summary", h.Summary)
	r.Get("/history", h.History)
	r.Post("/auto-batch", h.AutoBatch)
	r.Post("/dispatch", h.Dispatch)
}

// --- Request / Response types ---

type autoBatchRequest struct {
	MealWindow string `json:"meal_window"`
}

type dispatchRequest struct {
	MealWindow    string `json:"meal_window"`
	ForceDispatch bool   `json:"force_dispatch"`
}

// dispatchBlockedResponse is the 409 payload for a timing block, whether
// detected locally or reported by the backend. ForceRequired tells the
// console to offer the one escalation path: confirm, then re-send with
// force_dispatch set.
type dispatchBlockedResponse struct {
	Error         string `json:"error"`
	TimeRemaining string `json:"time_remaining"`
	WindowEndsAt  string `json:"window_ends_at"`
	ForceRequired bool   `json:"force_required"`
}

type batchListResponse struct {
	Batches []upstream.Batch `json:"batches"`
}

type batchHistoryResponse struct {
	Batches []upstream.Batch      `json:"batches"`
	Lunch   batching.StatusCounts `json:"lunch"`
	Dinner  batching.StatusCounts `json:"dinner"`
}

// summaryResponse is everything the batch management dashboard shows for
// one kitchen and meal window, derived in a single round of fetches.
type summaryResponse struct {
	MealWindow       string                `json:"meal_window"`
	WindowEnded      bool                  `json:"window_ended"`
	TimeRemaining    string                `json:"time_remaining"`
	WindowEndsAt     string                `json:"window_ends_at"`
	CanDispatch      bool                  `json:"can_dispatch"`
	OrdersAvailable  int                   `json:"orders_available"`
	ReadyToDispatch  int                   `json:"ready_to_dispatch"`
	DeliveredOrders  int                   `json:"delivered_orders"`
	FailedOrders     int                   `json:"failed_orders"`
	Batches          batching.StatusCounts `json:"batches"`
}

// --- Handlers ---

// List handles GET /kitchens/{kid}/batches. Defaults to today's batches;
// start_date/end_date and status/meal_window narrow the listing.
func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
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

	params := upstream.ListBatchesParams{
		KitchenID: kitchenID,
		StartDate: startDate,
		EndDate:   endDate,
	}
	if s := r.URL.Query().Get("status"); s != "" {
		if !enum.IsValidBatchStatus(s) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
			return
		}
		params.Status = s
	}
	if s := r.URL.Query().Get("meal_window"); s != "" {
		if !enum.IsValidMealWindow(s) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid meal_window"})
			return
		}
		params.MealWindow = s
	}

	batches, err := h.store.ListBatches(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list batches: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "delivery backend unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, batchListResponse{Batches: batches})
}

// Summary handles GET /kitchens/{kid}/batches/summary?window=. One
// round of fetches (kitchen, today's batches, today's orders), then the
// clock, gate and aggregator produce every number the dashboard needs.
func (h *BatchHandler) Summary(w http.ResponseWriter, r *http.Request) {
	kitchenID, err := uuid.Parse(chi.URLParam(r, "kid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid kitchen ID"})
		return
	}

	window := r.URL.Query().Get("window")
	if !enum.IsValidMealWindow(window) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "window must be LUNCH or DINNER"})
		return
	}

	kitchen, err := h.store.GetKitchen(r.Context(), kitchenID)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "kitchen not found"})
			return
		}
		log.Printf("ERROR: get kitchen for summary: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "delivery backend unavailable"})
		return
	}

	now := h.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	batches, err := h.store.ListBatches(r.Context(), upstream.ListBatchesParams{
		KitchenID: kitchenID,
		StartDate: today,
		EndDate:   today,
	})
	if err != nil {
		log.Printf("ERROR: list batches for summary: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "delivery backend unavailable"})
		return
	}

	orders, err := h.store.ListOrders(r.Context(), upstream.ListOrdersParams{
		KitchenID:  kitchenID,
		MealWindow: window,
		Limit:      500,
	})
	if err != nil {
		log.Printf("ERROR: list orders for summary: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "delivery backend unavailable"})
		return
	}

	hours := kitchen.OperatingHours
	delivered, failed := batching.DeliveryTotals(batches, window)

	writeJSON(w, http.StatusOK, summaryResponse{
		MealWindow:      window,
		WindowEnded:     mealwindow.HasWindowEnded(hours, window, now),
		TimeRemaining:   mealwindow.TimeRemaining(hours, window, now),
		WindowEndsAt:    mealwindow.FormattedEndTime(hours, window),
		CanDispatch:     mealwindow.CanDispatch(hours, window, now, false),
		OrdersAvailable: batching.OrdersAvailableForBatching(orders.Orders, window),
		ReadyToDispatch: batching.ReadyToDispatchCount(batches, window),
		DeliveredOrders: delivered,
		FailedOrders:    failed,
		Batches:         batching.BatchesByStatus(batches, window),
	})
}

// History handles GET /kitchens/{kid}/batches/history. Defaults to the
// last 7 days; returns the raw batches plus per-window status counts.
func (h *BatchHandler) History(w http.ResponseWriter, r *http.Request) {
	kitchenID, err := uuid.Parse(chi.URLParam(r, "kid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid kitchen ID"})
		return
	}

	startDate, endDate, err := parseDateRange(r, h.now(), 6)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	params := upstream.ListBatchesParams{
		KitchenID: kitchenID,
		StartDate: startDate,
		EndDate:   endDate,
	}
	if s := r.URL.Query().Get("meal_window"); s != "" {
		if !enum.IsValidMealWindow(s) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid meal_window"})
			return
		}
		params.MealWindow = s
	}

	batches, err := h.store.ListBatches(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list batch history: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "delivery backend unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, batchHistoryResponse{
		Batches: batches,
		Lunch:   batching.BatchesByStatus(batches, enum.MealWindowLunch),
		Dinner:  batching.BatchesByStatus(batches, enum.MealWindowDinner),
	})
}

// AutoBatch handles POST /kitchens/{kid}/batches/auto-batch. The
// grouping itself happens in the backend; on success the kitchen's
// dashboards are told to re-fetch.
func (h *BatchHandler) AutoBatch(w http.ResponseWriter, r *http.Request) {
	kitchenID, err := uuid.Parse(chi.URLParam(r, "kid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid kitchen ID"})
		return
	}

	var req autoBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !enum.IsValidMealWindow(req.MealWindow) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "meal_window must be LUNCH or DINNER"})
		return
	}

	result, err := h.store.AutoBatch(r.Context(), kitchenID, req.MealWindow)
	if err != nil {
		log.Printf("ERROR: auto-batch: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "auto-batch failed, no orders were grouped"})
		return
	}

	h.broadcastRefresh(kitchenID, req.MealWindow)
	writeJSON(w, http.StatusOK, result)
}

// Dispatch handles POST /kitchens/{kid}/batches/dispatch. The gate is
// consulted exactly once here; a backend timing rejection (server clock
// ahead of ours) maps to the same 409 so the console offers the same
// force escalation either way.
func (h *BatchHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	kitchenID, err := uuid.Parse(chi.URLParam(r, "kid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid kitchen ID"})
		return
	}

	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !enum.IsValidMealWindow(req.MealWindow) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "meal_window must be LUNCH or DINNER"})
		return
	}

	kitchen, err := h.store.GetKitchen(r.Context(), kitchenID)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "kitchen not found"})
			return
		}
		log.Printf("ERROR: get kitchen for dispatch: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "delivery backend unavailable"})
		return
	}

	hours := kitchen.OperatingHours
	now := h.now()

	if !mealwindow.CanDispatch(hours, req.MealWindow, now, req.ForceDispatch) {
		writeJSON(w, http.StatusConflict, h.blockedResponse(hours, req.MealWindow, now))
		return
	}

	result, err := h.store.Dispatch(r.Context(), kitchenID, req.MealWindow, req.ForceDispatch)
	if err != nil {
		if errors.Is(err, upstream.ErrWindowOpen) {
			writeJSON(w, http.StatusConflict, h.blockedResponse(hours, req.MealWindow, now))
			return
		}
		log.Printf("ERROR: dispatch: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "dispatch failed, no batches were sent"})
		return
	}

	h.broadcastRefresh(kitchenID, req.MealWindow)
	writeJSON(w, http.StatusOK, result)
}

// --- Helpers ---

func (h *BatchHandler) blockedResponse(hours mealwindow.OperatingHours, window string, now time.Time) dispatchBlockedResponse {
	return dispatchBlockedResponse{
		Error:         fmt.Sprintf("%s window has not ended yet", window),
		TimeRemaining: mealwindow.TimeRemaining(hours, window, now),
		WindowEndsAt:  mealwindow.FormattedEndTime(hours, window),
		ForceRequired: true,
	}
}

func (h *BatchHandler) broadcastRefresh(kitchenID uuid.UUID, window string) {
	payload, err := json.Marshal(map[string]string{"meal_window": window})
	if err != nil {
		return
	}
	h.hub.BroadcastToKitchen(kitchenID, ws.Event{
		Type:    ws.EventBatchesUpdated,
		Payload: payload,
	})
}

// parseDateRange reads start_date/end_date (YYYY-MM-DD, both inclusive)
// from the query, defaulting to the window [today-pastDays, today].
func parseDateRange(r *http.Request, now time.Time, pastDays int) (time.Time, time.Time, error) {
	const layout = "2006-01-02"

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startDate := today.AddDate(0, 0, -pastDays)
	endDate := today

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.ParseInLocation(layout, s, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format: %w", err)
		}
		startDate = t
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.ParseInLocation(layout, s, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format: %w", err)
		}
		endDate = t
	}

	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must not be after end_date")
	}
	return startDate, endDate, nil
}
