package stopsuite

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// routeDetailBatchSize bounds how many route-detail requests run at once.
	routeDetailBatchSize = 5
	// routeDetailBatchPause is the gap between batches, to stay under the
	// upstream rate limit.
	routeDetailBatchPause = 200 * time.Millisecond
)

// ListRoutes fetches the route list, optionally bounded by a date window
// (YYYY-MM-DD, inclusive).
func (c *Client) ListRoutes(ctx context.Context, dateAfter, dateBefore string) ([]Route, error) {
	query := url.Values{}
	if dateAfter != "" {
		query.Set("date_after", dateAfter)
	}
	if dateBefore != "" {
		query.Set("date_before", dateBefore)
	}

	resp, err := c.Do(ctx, http.MethodGet, "/routes/", query, nil)
	if err != nil {
		return nil, err
	}
	var list struct {
		Results []Route `json:"results"`
	}
	if err = resp.Decode(&list); err != nil {
		return nil, fmt.Errorf("unexpected route list response: %w", err)
	}
	return list.Results, nil
}

// GetRoute fetches the full detail record for one route.
func (c *Client) GetRoute(ctx context.Context, routeID int64) (*RouteDetail, error) {
	resp, err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/routes/%d/", routeID), nil, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("route %d lookup failed (status %d)", routeID, resp.Status)
	}
	var detail RouteDetail
	if err = resp.Decode(&detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ActiveRouteDetails lists all routes, keeps the ones that are neither
// complete nor cancelled, and fetches their details in bounded batches.
// Requests inside a batch run concurrently; a failed fetch drops that route
// from the result rather than aborting the batch.
func (c *Client) ActiveRouteDetails(ctx context.Context) ([]RouteDetail, error) {
	routes, err := c.ListRoutes(ctx, "", "")
	if err != nil {
		return nil, err
	}

	var active []Route
	for _, r := range routes {
		if !r.Complete && !r.Cancelled {
			active = append(active, r)
		}
	}
	log.Info().Int("count", len(active)).Msg("active routes found")

	var details []RouteDetail
	for start := 0; start < len(active); start += routeDetailBatchSize {
		batch := active[start:min(start+routeDetailBatchSize, len(active))]

		results := make([]*RouteDetail, len(batch))
		var wg sync.WaitGroup
		for i, route := range batch {
			wg.Add(1)
			go func(i int, routeID int64) {
				defer wg.Done()
				detail, err := c.GetRoute(ctx, routeID)
				if err != nil {
					log.Warn().Err(err).Int64("route_id", routeID).Msg("route detail fetch failed")
					return
				}
				results[i] = detail
			}(i, route.ID)
		}
		wg.Wait()

		for _, d := range results {
			if d != nil {
				details = append(details, *d)
			}
		}

		if start+routeDetailBatchSize < len(active) {
			select {
			case <-ctx.Done():
				return details, ctx.Err()
			case <-time.After(routeDetailBatchPause):
			}
		}
	}
	return details, nil
}
