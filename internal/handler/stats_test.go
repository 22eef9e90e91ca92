package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/platewise/console-api/internal/handler"
	"github.com/platewise/console-api/internal/middleware"
	"github.com/platewise/console-api/internal/upstream"
	"github.com/shopspring/decimal"
)

type mockStatsStore struct {
	getStatsFn func(ctx context.Context, kitchenID uuid.UUID, startDate, endDate time.Time) (upstream.DeliveryStats, error)
}

func (m *mockStatsStore) GetDeliveryStats(ctx context.Context, kitchenID uuid.UUID, startDate, endDate time.Time) (upstream.DeliveryStats, error) {
	if m.getStatsFn != nil {
		return m.getStatsFn(ctx, kitchenID, startDate, endDate)
	}
	return upstream.DeliveryStats{}, nil
}

func setupStatsRouter(store *mockStatsStore) *chi.Mux {
	h := handler.NewStatsHandler(store, fixedClock(12, 0))
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Route("/kitchens/{kid}/stats", h.RegisterRoutes)
	return r
}

func TestStatsGet_HappyPath(t *testing.T) {
	kitchenID := uuid.New()
	store := &mockStatsStore{
		getStatsFn: func(ctx context.Context, id uuid.UUID, start, end time.Time) (upstream.DeliveryStats, error) {
			return upstream.DeliveryStats{
				TotalOrders:           120,
				SuccessfulDeliveries:  114,
				FailedDeliveries:      6,
				SuccessRate:           decimal.RequireFromString("95"),
				AvgDeliveriesPerBatch: decimal.RequireFromString("7.5"),
			}, nil
		},
	}
	router := setupStatsRouter(store)

	rr := doAuthRequest(t, router, "GET", "/kitchens/"+kitchenID.String()+"/stats", nil, testClaims(kitchenID))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeResponse(t, rr)
	if resp["total_orders"] != float64(120) {
		t.Errorf("total_orders: got %v, want 120", resp["total_orders"])
	}
	if resp["success_rate"] != "95.00" {
		t.Errorf("success_rate: got %v, want \"95.00\"", resp["success_rate"])
	}
	if resp["avg_deliveries_per_batch"] != "7.50" {
		t.Errorf("avg_deliveries_per_batch: got %v, want \"7.50\"", resp["avg_deliveries_per_batch"])
	}
}

func TestStatsGet_PassesDateRange(t *testing.T) {
	kitchenID := uuid.New()
	var gotStart, gotEnd time.Time
	store := &mockStatsStore{
		getStatsFn: func(ctx context.Context, id uuid.UUID, start, end time.Time) (upstream.DeliveryStats, error) {
			gotStart, gotEnd = start, end
			return upstream.DeliveryStats{}, nil
		},
	}
	router := setupStatsRouter(store)

	rr := doAuthRequest(t, router, "GET",
		"/kitchens/"+kitchenID.String()+"/stats?start_date=2025-05-01&end_date=2025-05-07", nil, testClaims(kitchenID))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if got := gotStart.Format("2006-01-02"); got != "2025-05-01" {
		t.Errorf("start date: got %s, want 2025-05-01", got)
	}
	if got := gotEnd.Format("2006-01-02"); got != "2025-05-07" {
		t.Errorf("end date: got %s, want 2025-05-07", got)
	}
}

func TestStatsGet_BackendFailure(t *testing.T) {
	kitchenID := uuid.New()
	store := &mockStatsStore{
		getStatsFn: func(ctx context.Context, id uuid.UUID, start, end time.Time) (upstream.DeliveryStats, error) {
			return upstream.DeliveryStats{}, context.DeadlineExceeded
		},
	}
	router := setupStatsRouter(store)

	rr := doAuthRequest(t, router, "GET", "/kitchens/"+kitchenID.String()+"/stats", nil, testClaims(kitchenID))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadGateway)
	}
}
