package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/enzy-delivery/carrier-sync/internal/shopify"
)

// fakeShop is a scripted Shopify Admin API.
type fakeShop struct {
	mu                sync.Mutex
	fulfillmentOrders string // JSON body for the fulfillment_orders endpoint
	requests          []string
	lastBody          map[string]json.RawMessage
}

func (f *fakeShop) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPost {
			body, _ := io.ReadAll(r.Body)
			f.lastBody = map[string]json.RawMessage{}
			json.Unmarshal(body, &f.lastBody)
		}
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/orders/12345/fulfillment_orders.json":
			fmt.Fprint(w, f.fulfillmentOrders)
		case r.URL.Path == "/orders/12345.json":
			fmt.Fprint(w, `{"order":{"id":12345,"line_items":[{"id":11,"quantity":2},{"id":12,"quantity":1}]}}`)
		case r.URL.Path == "/fulfillments.json" || r.URL.Path == "/orders/12345/fulfillments.json":
			fmt.Fprint(w, `{"fulfillment":{"id":555}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func (f *fakeShop) requestLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func newTestReconciler(t *testing.T, shop *fakeShop) *Service {
	t.Helper()
	srv := httptest.NewServer(shop.handler())
	t.Cleanup(srv.Close)
	client := shopify.NewClient(srv.URL, "token")
	return NewService(client, "Enzy Delivery", "https://demo4.stopsuite.com", 74583474349)
}

func completedEvent() *Event {
	return &Event{
		Event: EventStopCompleted,
		Stop: &Stop{
			ID:                987,
			ExternalReference: "shopify_12345",
			DriverActions:     []DriverAction{{ID: 4242, Notes: "handed to customer"}},
		},
	}
}

func TestHandleCompletionModernPath(t *testing.T) {
	shop := &fakeShop{fulfillmentOrders: `{"fulfillment_orders":[{"id":321,"status":"open"}]}`}
	svc := newTestReconciler(t, shop)

	outcome, err := svc.HandleCompletion(context.Background(), completedEvent())
	if err != nil {
		t.Fatalf("HandleCompletion: %v", err)
	}
	if outcome.Status != OutcomeFulfilled || outcome.Legacy {
		t.Fatalf("outcome = %+v, want modern fulfillment", outcome)
	}

	var fulfillment struct {
		TrackingInfo                shopify.TrackingInfo          `json:"tracking_info"`
		LineItemsByFulfillmentOrder []shopify.FulfillmentOrderRef `json:"line_items_by_fulfillment_order"`
	}
	if err := json.Unmarshal(shop.lastBody["fulfillment"], &fulfillment); err != nil {
		t.Fatalf("fulfillment body: %v", err)
	}
	if len(fulfillment.LineItemsByFulfillmentOrder) != 1 || fulfillment.LineItemsByFulfillmentOrder[0].FulfillmentOrderID != 321 {
		t.Errorf("fulfillment not scoped to fulfillment order 321: %+v", fulfillment)
	}
	if fulfillment.TrackingInfo.Number != "4242" || fulfillment.TrackingInfo.Company != "Enzy Delivery" {
		t.Errorf("tracking info = %+v", fulfillment.TrackingInfo)
	}
	if fulfillment.TrackingInfo.URL != "https://demo4.stopsuite.com/stops/987" {
		t.Errorf("tracking URL = %q", fulfillment.TrackingInfo.URL)
	}
}

func TestHandleCompletionLegacyFallback(t *testing.T) {
	shop := &fakeShop{fulfillmentOrders: `{"fulfillment_orders":[]}`}
	svc := newTestReconciler(t, shop)

	outcome, err := svc.HandleCompletion(context.Background(), completedEvent())
	if err != nil {
		t.Fatalf("HandleCompletion: %v", err)
	}
	if outcome.Status != OutcomeFulfilled || !outcome.Legacy {
		t.Fatalf("outcome = %+v, want legacy fulfillment", outcome)
	}

	log := shop.requestLog()
	last := log[len(log)-1]
	if last != "POST /orders/12345/fulfillments.json" {
		t.Errorf("last request = %q, want the legacy per-order endpoint", last)
	}

	var fulfillment shopify.LegacyFulfillmentRequest
	if err := json.Unmarshal(shop.lastBody["fulfillment"], &fulfillment); err != nil {
		t.Fatalf("fulfillment body: %v", err)
	}
	if len(fulfillment.LineItems) != 2 {
		t.Errorf("line items = %+v, want the order's full list", fulfillment.LineItems)
	}
	if fulfillment.LocationID != 74583474349 {
		t.Errorf("location_id = %d, want the configured default", fulfillment.LocationID)
	}
}

func TestHandleCompletionNoReference(t *testing.T) {
	shop := &fakeShop{fulfillmentOrders: `{"fulfillment_orders":[]}`}
	svc := newTestReconciler(t, shop)

	event := &Event{
		Event: EventStopCompleted,
		Stop:  &Stop{ID: 987, DriverActions: []DriverAction{{ID: 1, Notes: "no id in here"}}},
	}
	outcome, err := svc.HandleCompletion(context.Background(), event)
	if err != nil {
		t.Fatalf("HandleCompletion: %v", err)
	}
	if outcome.Status != OutcomeNoReference {
		t.Fatalf("outcome = %+v, want no_reference", outcome)
	}
	if len(shop.requestLog()) != 0 {
		t.Errorf("outbound calls made despite unresolvable reference: %v", shop.requestLog())
	}
}

func TestHandleCompletionIgnoresOtherEvents(t *testing.T) {
	shop := &fakeShop{}
	svc := newTestReconciler(t, shop)

	outcome, err := svc.HandleCompletion(context.Background(), &Event{Event: "stop.created", Stop: &Stop{ID: 1}})
	if err != nil {
		t.Fatalf("HandleCompletion: %v", err)
	}
	if outcome.Status != OutcomeIgnored {
		t.Fatalf("outcome = %+v, want ignored", outcome)
	}
	if len(shop.requestLog()) != 0 {
		t.Errorf("outbound calls made for a non-completion event: %v", shop.requestLog())
	}
}
