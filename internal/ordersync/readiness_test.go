package ordersync

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/enzy-delivery/carrier-sync/internal/shopify"
)

func graphqlOrder(fulfillmentOrders int, hasLocation bool) string {
	edges := ""
	for i := 0; i < fulfillmentOrders; i++ {
		if i > 0 {
			edges += ","
		}
		edges += fmt.Sprintf(`{"node":{"id":"gid://shopify/FulfillmentOrder/%d","status":"open"}}`, i+1)
	}
	location := "null"
	if hasLocation {
		location = `{"id":"gid://shopify/Location/74583474349","name":"Warehouse"}`
	}
	return fmt.Sprintf(`{"data":{"order":{"name":"#1001","physicalLocation":%s,"fulfillmentOrders":{"edges":[%s]}}}}`, location, edges)
}

func TestWaitForRoutingReadyOnSecondAttempt(t *testing.T) {
	var attempts int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&attempts, 1)
		w.Header().Set("Content-Type", "application/json")
		if n < 2 {
			fmt.Fprint(w, graphqlOrder(0, false))
			return
		}
		fmt.Fprint(w, graphqlOrder(1, true))
	}))
	defer srv.Close()

	shop := shopify.NewClient(srv.URL, "token")
	svc := NewService(nil, shop, nil, nil, nil, Config{PollAttempts: 3, PollInterval: time.Millisecond})

	ready, err := svc.WaitForRouting(context.Background(), 12345)
	if err != nil {
		t.Fatalf("WaitForRouting: %v", err)
	}
	if !ready {
		t.Fatal("expected routing to become ready on the second attempt")
	}
	if got := atomic.LoadInt64(&attempts); got != 2 {
		t.Errorf("attempts = %d, want 2 (stop early once ready)", got)
	}
}

func TestWaitForRoutingExhaustsAttempts(t *testing.T) {
	var attempts int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&attempts, 1)
		w.Header().Set("Content-Type", "application/json")
		// Fulfillment orders exist but no physical location: still not ready.
		fmt.Fprint(w, graphqlOrder(2, false))
	}))
	defer srv.Close()

	shop := shopify.NewClient(srv.URL, "token")
	svc := NewService(nil, shop, nil, nil, nil, Config{PollAttempts: 3, PollInterval: time.Millisecond})

	ready, err := svc.WaitForRouting(context.Background(), 12345)
	if err != nil {
		t.Fatalf("WaitForRouting: %v", err)
	}
	if ready {
		t.Fatal("routing reported ready without a physical location")
	}
	if got := atomic.LoadInt64(&attempts); got != 3 {
		t.Errorf("attempts = %d, want the full ceiling of 3", got)
	}
}
