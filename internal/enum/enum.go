package enum

// ── Meal windows ──

const (
	MealWindowLunch  = "LUNCH"
	MealWindowDinner = "DINNER"
)

func IsValidMealWindow(w string) bool {
	return w == MealWindowLunch || w == MealWindowDinner
}

// ── Batch lifecycle (owned by the delivery backend, mirrored here) ──
//
// COLLECTING → READY_FOR_DISPATCH → DISPATCHED → IN_PROGRESS →
// {COMPLETED | PARTIAL_COMPLETE}, CANCELLED reachable from any
// non-terminal state. The backend may skip READY_FOR_DISPATCH, so
// nothing here assumes the full sequence was observed.

const (
	BatchStatusCollecting       = "COLLECTING"
	BatchStatusReadyForDispatch = "READY_FOR_DISPATCH"
	BatchStatusDispatched       = "DISPATCHED"
	BatchStatusInProgress       = "IN_PROGRESS"
	BatchStatusCompleted        = "COMPLETED"
	BatchStatusPartialComplete  = "PARTIAL_COMPLETE"
	BatchStatusCancelled        = "CANCELLED"
)

// BatchStatuses lists every batch status in lifecycle order.
var BatchStatuses = []string{
	BatchStatusCollecting,
	BatchStatusReadyForDispatch,
	BatchStatusDispatched,
	BatchStatusInProgress,
	BatchStatusCompleted,
	BatchStatusPartialComplete,
	BatchStatusCancelled,
}

func IsValidBatchStatus(s string) bool {
	for _, v := range BatchStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ── Order statuses (subset relevant to batching) ──

const (
	OrderStatusPlaced    = "PLACED"
	OrderStatusAccepted  = "ACCEPTED"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusPickedUp  = "PICKED_UP"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusFailed    = "FAILED"
	OrderStatusCancelled = "CANCELLED"
)

// IsBatchable reports whether an order status is in the ready-set,
// i.e. eligible for inclusion in a new batch.
func IsBatchable(status string) bool {
	switch status {
	case OrderStatusPlaced, OrderStatusAccepted, OrderStatusPreparing, OrderStatusReady:
		return true
	}
	return false
}

// ── Operator roles ──

const (
	RoleAdmin  = "ADMIN"
	RoleOps    = "OPS"
	RoleViewer = "VIEWER"
)
