// Package batching reduces fetched batch and order snapshots into the
// counts the console dashboard shows. Everything here is pure: inputs
// come in as values, nothing reaches for the network or the clock, and
// calling twice on the same inputs yields the same outputs.
package batching

import (
	"github.com/platewise/console-api/internal/enum"
	"github.com/platewise/console-api/internal/upstream"
)

// StatusCounts holds per-status batch counts for one meal window. Zero
// counts are real values, not omissions: a "Cancelled: 0" tile is an
// expected dashboard output.
type StatusCounts struct {
	Collecting       int `json:"collecting"`
	ReadyForDispatch int `json:"ready_for_dispatch"`
	Dispatched       int `json:"dispatched"`
	InProgress       int `json:"in_progress"`
	Completed        int `json:"completed"`
	PartialComplete  int `json:"partial_complete"`
	Cancelled        int `json:"cancelled"`
	Total            int `json:"total"`
}

// OrdersAvailableForBatching counts orders that an auto-batch call would
// pick up: status in the ready-set, not yet absorbed into a batch, and
// matching the selected meal window.
func OrdersAvailableForBatching(orders []upstream.Order, window string) int {
	n := 0
	for _, o := range orders {
		if o.MealWindow != window {
			continue
		}
		if o.BatchID != nil {
			continue
		}
		if enum.IsBatchable(o.Status) {
			n++
		}
	}
	return n
}

// BatchesByStatus counts the window's batches in each lifecycle status.
// It counts whatever status is present verbatim; batches are not assumed
// to pass through READY_FOR_DISPATCH before DISPATCHED.
func BatchesByStatus(batches []upstream.Batch, window string) StatusCounts {
	var c StatusCounts
	for _, b := range batches {
		if b.MealWindow != window {
			continue
		}
		switch b.Status {
		case enum.BatchStatusCollecting:
			c.Collecting++
		case enum.BatchStatusReadyForDispatch:
			c.ReadyForDispatch++
		case enum.BatchStatusDispatched:
			c.Dispatched++
		case enum.BatchStatusInProgress:
			c.InProgress++
		case enum.BatchStatusCompleted:
			c.Completed++
		case enum.BatchStatusPartialComplete:
			c.PartialComplete++
		case enum.BatchStatusCancelled:
			c.Cancelled++
		default:
			// Unknown status still belongs to the window; keep the sum
			// property total == count(window batches) intact.
		}
		c.Total++
	}
	return c
}

// ReadyToDispatchCount counts the batches a dispatch call would act on:
// those still COLLECTING for the window.
func ReadyToDispatchCount(batches []upstream.Batch, window string) int {
	n := 0
	for _, b := range batches {
		if b.MealWindow == window && b.Status == enum.BatchStatusCollecting {
			n++
		}
	}
	return n
}

// DeliveryTotals sums delivered and failed order counts across the
// window's batches.
func DeliveryTotals(batches []upstream.Batch, window string) (delivered, failed int) {
	for _, b := range batches {
		if b.MealWindow != window {
			continue
		}
		delivered += b.DeliveredOrders
		failed += b.FailedOrders
	}
	return delivered, failed
}
