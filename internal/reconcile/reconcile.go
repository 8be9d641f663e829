package reconcile

import (
	"context"
	"fmt"
	"strconv"

	"github.com/enzy-delivery/carrier-sync/internal/shopify"
	"github.com/rs/zerolog/log"
)

// Service maps a completed StopSuite stop back to a Shopify order and marks
// it fulfilled. Orders with fulfillment-order records go through the modern
// endpoint; legacy orders fall back to a classic per-order fulfillment with
// the full line-item list.
type Service struct {
	shop        *shopify.Client
	resolvers   []Resolver
	carrierName string
	stopBaseURL string // deep-link base for tracking URLs
	locationID  int64  // default location for legacy fulfillments
}

func NewService(shop *shopify.Client, carrierName, stopBaseURL string, locationID int64) *Service {
	return &Service{
		shop:        shop,
		resolvers:   defaultResolvers(),
		carrierName: carrierName,
		stopBaseURL: stopBaseURL,
		locationID:  locationID,
	}
}

// HandleCompletion processes a verified StopSuite event. Only stop.completed
// events act; everything else is acknowledged and dropped.
func (s *Service) HandleCompletion(ctx context.Context, event *Event) (*Outcome, error) {
	if event == nil || event.Event != EventStopCompleted || event.Stop == nil {
		return &Outcome{Status: OutcomeIgnored, Message: "no stop.completed event found"}, nil
	}

	orderID, resolver := s.resolveOrderID(event)
	if orderID == 0 {
		log.Warn().Int64("stop_id", event.Stop.ID).Msg("no Shopify reference found in StopSuite payload")
		return &Outcome{Status: OutcomeNoReference, Message: "No Shopify reference found"}, nil
	}
	log.Info().
		Int64("stop_id", event.Stop.ID).
		Int64("order_id", orderID).
		Str("resolver", resolver).
		Msg("stop completed, mapped to Shopify order")

	tracking := s.trackingInfo(event.Stop)

	fulfillmentOrders, err := s.shop.GetFulfillmentOrders(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fulfillment-orders lookup failed: %w", err)
	}

	if len(fulfillmentOrders) > 0 {
		result, err := s.shop.CreateFulfillment(ctx, shopify.FulfillmentRequest{
			TrackingInfo: tracking,
			LineItemsByFulfillmentOrder: []shopify.FulfillmentOrderRef{
				{FulfillmentOrderID: fulfillmentOrders[0].ID},
			},
			NotifyCustomer: true,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Int64("order_id", orderID).Int("status", result.Status).Msg("fulfillment submitted")
		return &Outcome{Status: OutcomeFulfilled, OrderID: orderID}, nil
	}

	// Legacy path: no fulfillment-order records, so fetch the order's line
	// items and fulfill against the per-order endpoint.
	log.Info().Int64("order_id", orderID).Msg("no fulfillment orders, using legacy fulfillment")
	order, err := s.shop.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order lookup for legacy fulfillment failed: %w", err)
	}
	lineItems := make([]shopify.LegacyLineItem, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		lineItems = append(lineItems, shopify.LegacyLineItem{ID: item.ID, Quantity: item.Quantity})
	}

	result, err := s.shop.CreateLegacyFulfillment(ctx, orderID, shopify.LegacyFulfillmentRequest{
		LocationID:     s.locationID,
		NotifyCustomer: true,
		TrackingInfo:   tracking,
		LineItems:      lineItems,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int64("order_id", orderID).Int("status", result.Status).Msg("legacy fulfillment submitted")
	return &Outcome{Status: OutcomeFulfilled, OrderID: orderID, Legacy: true}, nil
}

func (s *Service) resolveOrderID(event *Event) (int64, string) {
	for _, r := range s.resolvers {
		if id, ok := r.Resolve(event); ok {
			return id, r.Name()
		}
	}
	return 0, ""
}

func (s *Service) trackingInfo(stop *Stop) shopify.TrackingInfo {
	trackingNumber := "NA"
	if len(stop.DriverActions) > 0 {
		trackingNumber = strconv.FormatInt(stop.DriverActions[0].ID, 10)
	}
	return shopify.TrackingInfo{
		Number:  trackingNumber,
		Company: s.carrierName,
		URL:     fmt.Sprintf("%s/stops/%d", s.stopBaseURL, stop.ID),
	}
}
