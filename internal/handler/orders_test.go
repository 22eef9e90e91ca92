package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/platewise/console-api/internal/enum"
	"github.com/platewise/console-api/internal/handler"
	"github.com/platewise/console-api/internal/middleware"
	"github.com/platewise/console-api/internal/upstream"
)

type mockOrderStore struct {
	listOrdersFn func(ctx context.Context, params upstream.ListOrdersParams) (upstream.OrdersPage, error)
}

func (m *mockOrderStore) ListOrders(ctx context.Context, params upstream.ListOrdersParams) (upstream.OrdersPage, error) {
	if m.listOrdersFn != nil {
		return m.listOrdersFn(ctx, params)
	}
	return upstream.OrdersPage{Orders: []upstream.Order{}}, nil
}

func setupOrderRouter(store *mockOrderStore) *chi.Mux {
	h := handler.NewOrderHandler(store)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Route("/kitchens/{kid}/orders", h.RegisterRoutes)
	return r
}

func TestOrderList_HappyPath(t *testing.T) {
	kitchenID := uuid.New()
	var gotParams upstream.ListOrdersParams
	store := &mockOrderStore{
		listOrdersFn: func(ctx context.Context, params upstream.ListOrdersParams) (upstream.OrdersPage, error) {
			gotParams = params
			return upstream.OrdersPage{
				Orders: []upstream.Order{{OrderNumber: "PW-1041", Status: enum.OrderStatusReady, MealWindow: enum.MealWindowLunch}},
				Total:  37,
			}, nil
		},
	}
	router := setupOrderRouter(store)

	rr := doAuthRequest(t, router, "GET",
		"/kitchens/"+kitchenID.String()+"/orders?meal_window=LUNCH&unbatched=true&limit=10&offset=20", nil, testClaims(kitchenID))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	if gotParams.KitchenID != kitchenID {
		t.Errorf("kitchen ID: got %v, want %v", gotParams.KitchenID, kitchenID)
	}
	if gotParams.MealWindow != enum.MealWindowLunch {
		t.Errorf("meal window: got %q, want LUNCH", gotParams.MealWindow)
	}
	if !gotParams.Unbatched {
		t.Error("unbatched filter not passed through")
	}
	if gotParams.Limit != 10 || gotParams.Offset != 20 {
		t.Errorf("pagination: got limit=%d offset=%d, want 10/20", gotParams.Limit, gotParams.Offset)
	}

	resp := decodeResponse(t, rr)
	if resp["total"] != float64(37) {
		t.Errorf("total: got %v, want 37", resp["total"])
	}
}

func TestOrderList_CapsLimit(t *testing.T) {
	kitchenID := uuid.New()
	var gotLimit int
	store := &mockOrderStore{
		listOrdersFn: func(ctx context.Context, params upstream.ListOrdersParams) (upstream.OrdersPage, error) {
			gotLimit = params.Limit
			return upstream.OrdersPage{Orders: []upstream.Order{}}, nil
		},
	}
	router := setupOrderRouter(store)

	rr := doAuthRequest(t, router, "GET",
		"/kitchens/"+kitchenID.String()+"/orders?limit=500", nil, testClaims(kitchenID))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if gotLimit != 100 {
		t.Errorf("limit: got %d, want capped at 100", gotLimit)
	}
}

func TestOrderList_RejectsInvalidWindow(t *testing.T) {
	kitchenID := uuid.New()
	router := setupOrderRouter(&mockOrderStore{})

	rr := doAuthRequest(t, router, "GET",
		"/kitchens/"+kitchenID.String()+"/orders?meal_window=BREAKFAST", nil, testClaims(kitchenID))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestOrderList_BackendFailure(t *testing.T) {
	kitchenID := uuid.New()
	store := &mockOrderStore{
		listOrdersFn: func(ctx context.Context, params upstream.ListOrdersParams) (upstream.OrdersPage, error) {
			return upstream.OrdersPage{}, context.DeadlineExceeded
		},
	}
	router := setupOrderRouter(store)

	rr := doAuthRequest(t, router, "GET",
		"/kitchens/"+kitchenID.String()+"/orders", nil, testClaims(kitchenID))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}
}
