// Package upstream is the typed client for the delivery backend's REST
// API. Each endpoint decodes into exactly one response schema; a payload
// that doesn't match is an error, never a fallback to an alternate shape.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrWindowOpen is the backend's timing rejection of a dispatch call:
	// the meal window has not ended on the server's clock. Handlers map it
	// to the same force-escalation path as a local gate block.
	ErrWindowOpen = errors.New("meal window has not ended")

	// ErrNotFound covers 404s on single-resource fetches.
	ErrNotFound = errors.New("resource not found")
)

// windowOpenMarker is the substring the backend puts in its timing
// rejection message. Matching on it is the agreed contract for telling a
// timing block apart from a generic failure.
const windowOpenMarker = "window has not ended"

// Client calls the delivery backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// GetKitchen fetches one kitchen, including its operating hours.
func (c *Client) GetKitchen(ctx context.Context, kitchenID uuid.UUID) (Kitchen, error) {
	var k Kitchen
	err := c.get(ctx, "/kitchens/"+kitchenID.String(), nil, &k)
	return k, err
}

// ListOrders fetches orders for a kitchen with optional status, meal
// window and unbatched filters, paginated.
func (c *Client) ListOrders(ctx context.Context, params ListOrdersParams) (OrdersPage, error) {
	q := url.Values{}
	q.Set("kitchen_id", params.KitchenID.String())
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.MealWindow != "" {
		q.Set("meal_window", params.MealWindow)
	}
	if params.Unbatched {
		q.Set("unbatched", "true")
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}

	var page OrdersPage
	if err := c.get(ctx, "/orders", q, &page); err != nil {
		return OrdersPage{}, err
	}
	if page.Orders == nil {
		page.Orders = []Order{}
	}
	return page, nil
}

// ListBatches fetches batches for a kitchen within a date range, with
// optional status and meal window filters.
func (c *Client) ListBatches(ctx context.Context, params ListBatchesParams) ([]Batch, error) {
	q := url.Values{}
	q.Set("kitchen_id", params.KitchenID.String())
	q.Set("start_date", params.StartDate.Format("2006-01-02"))
	q.Set("end_date", params.EndDate.Format("2006-01-02"))
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.MealWindow != "" {
		q.Set("meal_window", params.MealWindow)
	}

	var resp struct {
		Batches []Batch `json:"batches"`
	}
	if err := c.get(ctx, "/batches", q, &resp); err != nil {
		return nil, err
	}
	if resp.Batches == nil {
		resp.Batches = []Batch{}
	}
	return resp.Batches, nil
}

// AutoBatch asks the backend to group batchable orders for the kitchen
// and meal window. The grouping algorithm lives entirely server-side.
func (c *Client) AutoBatch(ctx context.Context, kitchenID uuid.UUID, mealWindow string) (AutoBatchResult, error) {
	body := map[string]string{
		"kitchen_id":  kitchenID.String(),
		"meal_window": mealWindow,
	}
	var result AutoBatchResult
	err := c.post(ctx, "/batches/auto-batch", body, &result)
	return result, err
}

// Dispatch asks the backend to hand the kitchen's collecting batches to
// drivers. A timing rejection comes back as ErrWindowOpen so callers can
// offer the force escalation instead of a generic failure.
func (c *Client) Dispatch(ctx context.Context, kitchenID uuid.UUID, mealWindow string, forceDispatch bool) (DispatchResult, error) {
	body := map[string]interface{}{
		"kitchen_id":     kitchenID.String(),
		"meal_window":    mealWindow,
		"force_dispatch": forceDispatch,
	}
	var result DispatchResult
	err := c.post(ctx, "/batches/dispatch", body, &result)
	return result, err
}

// GetDeliveryStats fetches the backend-computed delivery aggregate for a
// kitchen and date range.
func (c *Client) GetDeliveryStats(ctx context.Context, kitchenID uuid.UUID, startDate, endDate time.Time) (DeliveryStats, error) {
	q := url.Values{}
	q.Set("kitchen_id", kitchenID.String())
	q.Set("start_date", startDate.Format("2006-01-02"))
	q.Set("end_date", endDate.Format("2006-01-02"))

	var stats DeliveryStats
	err := c.get(ctx, "/stats/deliveries", q, &stats)
	return stats, err
}

// --- Transport helpers ---

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.asError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("upstream response %s: decode: %w", req.URL.Path, err)
	}
	return nil
}

// asError turns a non-2xx upstream response into a typed error. The
// error body is expected to be {"error": "..."}; anything else still
// produces a status-tagged error rather than a silent retry.
func (c *Client) asError(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	if strings.Contains(strings.ToLower(payload.Error), windowOpenMarker) {
		return fmt.Errorf("%w: %s", ErrWindowOpen, payload.Error)
	}
	if payload.Error != "" {
		return fmt.Errorf("upstream status %d: %s", resp.StatusCode, payload.Error)
	}
	return fmt.Errorf("upstream status %d", resp.StatusCode)
}
