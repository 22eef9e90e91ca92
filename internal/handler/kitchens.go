package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/platewise/console-api/internal/enum"
	"github.com/platewise/console-api/internal/mealwindow"
	"github.com/platewise/console-api/internal/upstream"
)

// KitchenStore defines the upstream methods needed by kitchen handlers.
// Satisfied by *upstream.Client; narrow interface for testability.
type KitchenStore interface {
	GetKitchen(ctx context.Context, kitchenID uuid.UUID) (upstream.Kitchen, error)
}

// KitchenHandler handles kitchen read endpoints.
type KitchenHandler struct {
	store KitchenStore
}

// NewKitchenHandler creates a new KitchenHandler.
func NewKitchenHandler(store KitchenStore) *KitchenHandler {
	return &KitchenHandler{store: store}
}

// RegisterRoutes registers kitchen endpoints on the given Chi router.
// Expected to be mounted inside a kitchen-scoped subrouter: /kitchens/{kid}
func (h *KitchenHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

type kitchenWindowResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	EndsAt    string `json:"ends_at"`
}

type kitchenResponse struct {
	ID             uuid.UUID                 `json:"id"`
	Name           string                    `json:"name"`
	ZoneID         *uuid.UUID                `json:"zone_id"`
	OperatingHours mealwindow.OperatingHours `json:"operating_hours"`
	Lunch          *kitchenWindowResponse    `json:"lunch"`
	Dinner         *kitchenWindowResponse    `json:"dinner"`
}

// Get handles GET /kitchens/{kid}: the kitchen plus its configured
// windows with console-ready end-time strings.
func (h *KitchenHandler) Get(w http.ResponseWriter, r *http.Request) {
	kitchenID, err := uuid.Parse(chi.URLParam(r, "kid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid kitchen ID"})
		return
	}

	kitchen, err := h.store.GetKitchen(r.Context(), kitchenID)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "kitchen not found"})
			return
		}
		log.Printf("ERROR: get kitchen: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "delivery backend unavailable"})
		return
	}

	resp := kitchenResponse{
		ID:             kitchen.ID,
		Name:           kitchen.Name,
		ZoneID:         kitchen.ZoneID,
		OperatingHours: kitchen.OperatingHours,
	}
	if kitchen.OperatingHours.Lunch != nil {
		resp.Lunch = windowResponse(kitchen.OperatingHours, *kitchen.OperatingHours.Lunch, enum.MealWindowLunch)
	}
	if kitchen.OperatingHours.Dinner != nil {
		resp.Dinner = windowResponse(kitchen.OperatingHours, *kitchen.OperatingHours.Dinner, enum.MealWindowDinner)
	}

	writeJSON(w, http.StatusOK, resp)
}

func windowResponse(hours mealwindow.OperatingHours, r mealwindow.HoursRange, window string) *kitchenWindowResponse {
	return &kitchenWindowResponse{
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		EndsAt:    mealwindow.FormattedEndTime(hours, window),
	}
}
