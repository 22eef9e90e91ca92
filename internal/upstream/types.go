package upstream

import (
	"time"

	"github.com/google/uuid"
	"github.com/platewise/console-api/internal/mealwindow"
	"github.com/shopspring/decimal"
)

// Kitchen is the delivery backend's kitchen resource, reduced to what the
// console needs: identity and configured operating hours.
type Kitchen struct {
	ID             uuid.UUID                 `json:"id"`
	Name           string                    `json:"name"`
	ZoneID         *uuid.UUID                `json:"zone_id"`
	OperatingHours mealwindow.OperatingHours `json:"operating_hours"`
}

// Order is a backend-owned order snapshot. BatchID is set once the order
// has been absorbed into a batch.
type Order struct {
	ID          uuid.UUID  `json:"id"`
	OrderNumber string     `json:"order_number"`
	KitchenID   uuid.UUID  `json:"kitchen_id"`
	Status      string     `json:"status"`
	MealWindow  string     `json:"meal_window"`
	BatchID     *uuid.UUID `json:"batch_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Batch is a backend-owned grouping of orders for one kitchen and meal
// window. Status follows the backend's lifecycle verbatim; the console
// never derives it from other fields.
type Batch struct {
	ID              uuid.UUID   `json:"id"`
	BatchNumber     string      `json:"batch_number"`
	KitchenID       uuid.UUID   `json:"kitchen_id"`
	Status          string      `json:"status"`
	MealWindow      string      `json:"meal_window"`
	OrderIDs        []uuid.UUID `json:"order_ids"`
	DeliveredOrders int         `json:"delivered_orders"`
	FailedOrders    int         `json:"failed_orders"`
	DriverID        *uuid.UUID  `json:"driver_id"`
	ZoneID          *uuid.UUID  `json:"zone_id"`
	CreatedAt       time.Time   `json:"created_at"`
	DispatchedAt    *time.Time  `json:"dispatched_at"`
	CompletedAt     *time.Time  `json:"completed_at"`
}

// OrdersPage is a filtered order listing with the backend's total count.
type OrdersPage struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}

// AutoBatchResult reports what a POST auto-batch call did.
type AutoBatchResult struct {
	BatchesCreated  int `json:"batches_created"`
	BatchesUpdated  int `json:"batches_updated"`
	OrdersProcessed int `json:"orders_processed"`
}

// DispatchResult reports what a POST dispatch call did.
type DispatchResult struct {
	BatchesDispatched int `json:"batches_dispatched"`
}

// DeliveryStats is the backend-computed daily performance aggregate for a
// kitchen. Rates and averages arrive as decimal strings.
type DeliveryStats struct {
	TotalOrders           int             `json:"total_orders"`
	SuccessfulDeliveries  int             `json:"successful_deliveries"`
	FailedDeliveries      int             `json:"failed_deliveries"`
	SuccessRate           decimal.Decimal `json:"success_rate"`
	AvgDeliveriesPerBatch decimal.Decimal `json:"avg_deliveries_per_batch"`
}

// ListOrdersParams filters the backend order listing.
type ListOrdersParams struct {
	KitchenID  uuid.UUID
	Status     string
	MealWindow string
	Unbatched  bool
	Limit      int
	Offset     int
}

// ListBatchesParams filters the backend batch listing.
type ListBatchesParams struct {
	KitchenID  uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	Status     string
	MealWindow string
}
