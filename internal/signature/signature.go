package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"github.com/zpmep/hmacutil"
)

// ClientPathPrefix is the root every StopSuite client endpoint lives under.
// The signed path and the request target must match byte for byte, so there
// is exactly one canonical form: prefixed with ClientPathPrefix and ending
// with a trailing slash. Query strings are never part of the signed path.
const ClientPathPrefix = "/api/client"

// NormalizeClientPath returns the canonical form of a StopSuite client path.
// It is idempotent: normalizing an already-normalized path is a no-op.
func NormalizeClientPath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != ClientPathPrefix && !strings.HasPrefix(path, ClientPathPrefix+"/") {
		path = ClientPathPrefix + path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}

// SignClientRequest computes the StopSuite request signature:
// hex(HMAC-SHA256(secret, METHOD|PATH|TIMESTAMP|NONCE|BODY)).
// The caller is responsible for passing an already-canonical path.
func SignClientRequest(secret, method, path, timestamp, nonce, body string) string {
	message := strings.Join([]string{method, path, timestamp, nonce, body}, "|")
	return hmacutil.HexStringEncode(hmacutil.SHA256, secret, message)
}

// VerifyClientSignature checks a provided StopSuite signature using a
// timing-safe comparison.
func VerifyClientSignature(provided, secret, method, path, timestamp, nonce, body string) bool {
	if provided == "" || secret == "" {
		return false
	}
	expected := SignClientRequest(secret, method, path, timestamp, nonce, body)
	return hmac.Equal([]byte(expected), []byte(provided))
}

// SignShopWebhook computes the Shopify webhook signature:
// base64(HMAC-SHA256(secret, body)).
func SignShopWebhook(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyShopWebhook checks the X-Shopify-Hmac-Sha256 header value against the
// raw request body.
func VerifyShopWebhook(secret string, body []byte, provided string) bool {
	if provided == "" || secret == "" {
		return false
	}
	expected := SignShopWebhook(secret, body)
	return hmac.Equal([]byte(expected), []byte(provided))
}
