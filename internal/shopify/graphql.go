package shopify

import (
	"context"
	"fmt"
)

const routingStatusQuery = `
query {
  order(id: "gid://shopify/Order/%d") {
    id
    name
    displayFinancialStatus
    displayFulfillmentStatus
    physicalLocation { id name }
    fulfillmentOrders(first: 10) {
      edges {
        node {
          id
          status
          assignedLocation { location { id name } }
        }
      }
    }
  }
}`

// OrderRoutingStatus queries the Admin GraphQL API for an order's
// fulfillment-order and physical-location state. Returns nil when the order
// is unknown to Shopify.
func (c *Client) OrderRoutingStatus(ctx context.Context, orderID int64) (*RoutingStatus, error) {
	result, err := c.post(ctx, "/graphql.json", map[string]string{
		"query": fmt.Sprintf(routingStatusQuery, orderID),
	})
	if err != nil {
		return nil, err
	}

	var body struct {
		Data struct {
			Order *struct {
				Name                     string `json:"name"`
				DisplayFinancialStatus   string `json:"displayFinancialStatus"`
				DisplayFulfillmentStatus string `json:"displayFulfillmentStatus"`
				PhysicalLocation         *struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"physicalLocation"`
				FulfillmentOrders struct {
					Edges []struct {
						Node struct {
							ID     string `json:"id"`
							Status string `json:"status"`
						} `json:"node"`
					} `json:"edges"`
				} `json:"fulfillmentOrders"`
			} `json:"order"`
		} `json:"data"`
	}
	if err = result.Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode routing status: %w", err)
	}
	if body.Data.Order == nil {
		return nil, nil
	}

	status := &RoutingStatus{
		Name:                  body.Data.Order.Name,
		FinancialStatus:       body.Data.Order.DisplayFinancialStatus,
		FulfillmentStatus:     body.Data.Order.DisplayFulfillmentStatus,
		FulfillmentOrderCount: len(body.Data.Order.FulfillmentOrders.Edges),
	}
	if body.Data.Order.PhysicalLocation != nil {
		status.HasPhysicalLocation = true
		status.PhysicalLocationName = body.Data.Order.PhysicalLocation.Name
	}
	return status, nil
}
