package stopsuite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/enzy-delivery/carrier-sync/internal/signature"
)

const testSecret = "stopsuite-test-secret"

// verifyingHandler checks the signed headers the way the remote side would
// before delegating to next.
func verifyingHandler(t *testing.T, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Helper()
		if r.Header.Get("X-API-Key") == "" {
			t.Error("missing X-API-Key header")
		}
		body, _ := io.ReadAll(r.Body)
		ok := signature.VerifyClientSignature(
			r.Header.Get("X-Signature"),
			testSecret,
			r.Method,
			r.URL.Path,
			r.Header.Get("X-Timestamp"),
			r.Header.Get("X-Nonce"),
			string(body),
		)
		if !ok {
			t.Errorf("signature did not verify for %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func TestDoSignsCanonicalPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(verifyingHandler(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":42}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", testSecret)
	id, err := client.CreateCustomer(context.Background(), CustomerPayload{Name: "Jane Doe"})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if id != 42 {
		t.Errorf("customer id = %d, want 42", id)
	}
	if gotPath != "/api/client/customers/create/" {
		t.Errorf("request path = %q, want canonical /api/client/customers/create/", gotPath)
	}
}

func TestDoNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>502 Bad Gateway</html>")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", testSecret)
	resp, err := client.Do(context.Background(), http.MethodPost, "/shop-orders/create/", nil, ShopOrderPayload{})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.JSON != nil {
		t.Error("expected nil JSON for a non-JSON body")
	}
	if resp.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.Status)
	}
	if resp.Raw == "" {
		t.Error("raw body not preserved")
	}
}

func TestCreateShopOrderSurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "502")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", testSecret)
	id, resp, err := client.CreateShopOrder(context.Background(), ShopOrderPayload{})
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if id != "" {
		t.Errorf("id = %q, want empty", id)
	}
	if resp == nil || resp.Status != http.StatusBadGateway {
		t.Error("response status not surfaced to caller")
	}
}

func TestActiveRouteDetails(t *testing.T) {
	var detailCalls int64
	mux := http.NewServeMux()
	mux.HandleFunc("/api/client/routes/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"id": 1, "date": "2026-08-28", "complete": false, "cancelled": false},
				{"id": 2, "date": "2026-08-28", "complete": true, "cancelled": false},
				{"id": 3, "date": "2026-08-28", "complete": false, "cancelled": true},
				{"id": 4, "date": "2026-08-28", "complete": false, "cancelled": false},
			},
		})
	})
	mux.HandleFunc("/api/client/routes/1/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&detailCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":1,"date":"2026-08-28","stops":[{"id":10,"external_reference":"shopify_555"}]}`)
	})
	mux.HandleFunc("/api/client/routes/4/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&detailCalls, 1)
		// One failing detail fetch must not abort the batch.
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", testSecret)
	details, err := client.ActiveRouteDetails(context.Background())
	if err != nil {
		t.Fatalf("ActiveRouteDetails: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("got %d details, want 1 (failed fetch filtered, terminal routes skipped)", len(details))
	}
	if details[0].ID != 1 || len(details[0].Stops) != 1 {
		t.Errorf("unexpected detail record: %+v", details[0])
	}
	if atomic.LoadInt64(&detailCalls) != 2 {
		t.Errorf("detail endpoint called %d times, want 2 (only active routes)", detailCalls)
	}
}

func TestListRoutesDateWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("date_after") != "2026-08-28" || r.URL.Query().Get("date_before") != "2026-08-28" {
			t.Errorf("date window not forwarded: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", testSecret)
	if _, err := client.ListRoutes(context.Background(), "2026-08-28", "2026-08-28"); err != nil {
		t.Fatalf("ListRoutes: %v", err)
	}
}
