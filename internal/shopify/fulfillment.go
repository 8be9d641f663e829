package shopify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// GetFulfillmentOrders lists the fulfillment orders of an order. A non-JSON
// body is treated as "none exist" so the caller can fall back to the legacy
// fulfillment flow, matching how some shops simply lack the records.
func (c *Client) GetFulfillmentOrders(ctx context.Context, orderID int64) ([]FulfillmentOrder, error) {
	result, err := c.get(ctx, fmt.Sprintf("/orders/%d/fulfillment_orders.json", orderID))
	if err != nil {
		return nil, err
	}
	if result.JSON == nil {
		return nil, nil
	}

	var body struct {
		FulfillmentOrders []FulfillmentOrder `json:"fulfillment_orders"`
	}
	if err = result.Decode(&body); err != nil {
		return nil, nil
	}
	return body.FulfillmentOrders, nil
}

// GetOrder fetches the full order record.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	result, err := c.get(ctx, fmt.Sprintf("/orders/%d.json", orderID))
	if err != nil {
		return nil, err
	}
	var body struct {
		Order *Order `json:"order"`
	}
	if err = result.Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode order %d: %w", orderID, err)
	}
	if body.Order == nil {
		return nil, fmt.Errorf("order %d not found", orderID)
	}
	return body.Order, nil
}

// CreateFulfillment submits a fulfillment against the fulfillment-orders
// endpoint. A non-JSON response is logged and returned as-is: the remote
// operation may well have succeeded.
func (c *Client) CreateFulfillment(ctx context.Context, req FulfillmentRequest) (*APIResult, error) {
	result, err := c.post(ctx, "/fulfillments.json", map[string]any{"fulfillment": req})
	if err != nil {
		return nil, err
	}
	if result.JSON == nil {
		log.Warn().Int("status", result.Status).Msg("fulfillment response was not JSON")
	}
	return result, nil
}

// CreateLegacyFulfillment submits a classic per-order fulfillment for orders
// without fulfillment-order records.
func (c *Client) CreateLegacyFulfillment(ctx context.Context, orderID int64, req LegacyFulfillmentRequest) (*APIResult, error) {
	result, err := c.post(ctx, fmt.Sprintf("/orders/%d/fulfillments.json", orderID), map[string]any{"fulfillment": req})
	if err != nil {
		return nil, err
	}
	if result.JSON == nil {
		log.Warn().Int("status", result.Status).Int64("order_id", orderID).Msg("legacy fulfillment response was not JSON")
	}
	return result, nil
}
