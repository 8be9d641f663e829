package signature

import (
	"strings"
	"testing"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	secret := "test-secret-key"
	method := "POST"
	path := "/api/client/customers/create/"
	timestamp := "1730000000"
	nonce := "9f3b2a1c"
	body := `{"name":"Jane Doe"}`

	sig := SignClientRequest(secret, method, path, timestamp, nonce, body)
	if !VerifyClientSignature(sig, secret, method, path, timestamp, nonce, body) {
		t.Fatal("signature did not verify against its own inputs")
	}

	// Any single-field mutation must break verification.
	if VerifyClientSignature(sig, secret, method, path, timestamp, nonce, body+" ") {
		t.Error("mutated body verified")
	}
	if VerifyClientSignature(sig, secret, method, path, "1730000001", nonce, body) {
		t.Error("mutated timestamp verified")
	}
	if VerifyClientSignature(sig, secret, method, path, timestamp, "9f3b2a1d", body) {
		t.Error("mutated nonce verified")
	}
	if VerifyClientSignature(sig, secret, "GET", path, timestamp, nonce, body) {
		t.Error("mutated method verified")
	}
	if VerifyClientSignature(strings.ToUpper(sig), secret, method, path, timestamp, nonce, body) {
		t.Error("case-mangled signature verified")
	}
}

func TestVerifyRejectsEmptyInputs(t *testing.T) {
	if VerifyClientSignature("", "secret", "GET", "/api/client/routes/", "1", "n", "") {
		t.Error("empty signature verified")
	}
	if VerifyClientSignature("deadbeef", "", "GET", "/api/client/routes/", "1", "n", "") {
		t.Error("empty secret verified")
	}
}

func TestNormalizeClientPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"/customers/create/", "/api/client/customers/create/"},
		{"customers/create", "/api/client/customers/create/"},
		{"/api/client/shop-orders/create/", "/api/client/shop-orders/create/"},
		{"/routes", "/api/client/routes/"},
		{"routes/42", "/api/client/routes/42/"},
	}
	for _, c := range cases {
		got := NormalizeClientPath(c.in)
		if got != c.want {
			t.Errorf("NormalizeClientPath(%q) = %q, want %q", c.in, got, c.want)
		}
		// Idempotence: a second pass must not change anything.
		if again := NormalizeClientPath(got); again != got {
			t.Errorf("NormalizeClientPath not idempotent: %q -> %q", got, again)
		}
	}
}

func TestShopWebhookVerify(t *testing.T) {
	secret := "shpss_webhook_secret"
	body := []byte(`{"id":6234567890,"name":"#1001"}`)

	sig := SignShopWebhook(secret, body)
	if !VerifyShopWebhook(secret, body, sig) {
		t.Fatal("shop webhook signature did not verify")
	}
	if VerifyShopWebhook(secret, []byte(`{"id":6234567891,"name":"#1001"}`), sig) {
		t.Error("mutated body verified")
	}
	if VerifyShopWebhook("wrong-secret", body, sig) {
		t.Error("wrong secret verified")
	}
	if VerifyShopWebhook(secret, body, "") {
		t.Error("missing header verified")
	}
}
