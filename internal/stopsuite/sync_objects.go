package stopsuite

import (
	"context"
	"fmt"
	"net/http"
)

type createdObject struct {
	ID int64 `json:"id"`
}

// CreateCustomer creates a customer record and returns its id. A response
// without an id is a hard failure: every later step needs it.
func (c *Client) CreateCustomer(ctx context.Context, payload CustomerPayload) (int64, error) {
	resp, err := c.Do(ctx, http.MethodPost, "/customers/create/", nil, payload)
	if err != nil {
		return 0, err
	}
	var created createdObject
	if err = resp.Decode(&created); err != nil {
		return 0, fmt.Errorf("failed to create StopSuite customer: %w", err)
	}
	if created.ID == 0 {
		return 0, fmt.Errorf("failed to create StopSuite customer: no id in response (status %d)", resp.Status)
	}
	return created.ID, nil
}

// CreateCustomerLocation creates a location for a customer and returns its id.
func (c *Client) CreateCustomerLocation(ctx context.Context, payload LocationPayload) (int64, error) {
	resp, err := c.Do(ctx, http.MethodPost, "/customer-locations/create/", nil, payload)
	if err != nil {
		return 0, err
	}
	var created createdObject
	if err = resp.Decode(&created); err != nil {
		return 0, fmt.Errorf("failed to create StopSuite location: %w", err)
	}
	if created.ID == 0 {
		return 0, fmt.Errorf("failed to create StopSuite location: no id in response (status %d)", resp.Status)
	}
	return created.ID, nil
}

// CreateShopOrder creates a shop order. The raw Response is returned alongside
// the id so the caller can inspect the status of a failed attempt (the demo
// environment intermittently answers 502 with a non-JSON body).
func (c *Client) CreateShopOrder(ctx context.Context, payload ShopOrderPayload) (string, *Response, error) {
	resp, err := c.Do(ctx, http.MethodPost, "/shop-orders/create/", nil, payload)
	if err != nil {
		return "", nil, err
	}
	var created struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	if resp.JSON != nil {
		if err = resp.Decode(&created); err == nil && created.ID != 0 {
			return fmt.Sprintf("%d", created.ID), resp, nil
		}
	}
	return "", resp, fmt.Errorf("failed to create StopSuite shop order (status %d)", resp.Status)
}

// CreateDriverAction attaches a delivery stop to an existing route.
func (c *Client) CreateDriverAction(ctx context.Context, payload DriverActionPayload) error {
	resp, err := c.Do(ctx, http.MethodPost, "/driver-actions/create/", nil, payload)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("failed to create StopSuite driver action (status %d)", resp.Status)
	}
	return nil
}
