package stopsuite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/enzy-delivery/carrier-sync/internal/signature"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Client talks to the StopSuite API. Every request is signed with a fresh
// timestamp and nonce over METHOD|PATH|TIMESTAMP|NONCE|BODY, and the signed
// path is always the exact path the request is sent to.
type Client struct {
	baseURL    string // scheme + host, no trailing slash
	apiKey     string
	secretKey  string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, secretKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Response is the outcome of a StopSuite call. JSON is nil when the remote
// returned a non-JSON body; callers get the raw text and status instead of an
// error, so "remote failed" and "remote succeeded but answered garbage" stay
// distinguishable.
type Response struct {
	Status int
	JSON   json.RawMessage
	Raw    string
}

// OK reports whether the HTTP status was 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if r.JSON == nil {
		return fmt.Errorf("non-JSON response (status %d): %s", r.Status, truncate(r.Raw, 200))
	}
	return json.Unmarshal(r.JSON, v)
}

// Do sends a signed request to a client endpoint. The path is normalized to
// its canonical form before signing and before dispatch.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, payload any) (*Response, error) {
	return c.doSigned(ctx, method, signature.NormalizeClientPath(path), query, payload)
}

func (c *Client) doSigned(ctx context.Context, method, canonicalPath string, query url.Values, payload any) (*Response, error) {
	var body string
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = string(b)
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	nonce := uuid.NewString()
	sig := signature.SignClientRequest(c.secretKey, method, canonicalPath, timestamp, nonce, body)

	target := c.baseURL + canonicalPath
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("X-Signature", sig)
	req.Header.Set("X-Timestamp", timestamp)
	req.Header.Set("X-Nonce", nonce)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach StopSuite: %w", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read StopSuite response: %w", err)
	}

	result := &Response{Status: resp.StatusCode}
	if json.Valid(text) && len(bytes.TrimSpace(text)) > 0 {
		result.JSON = json.RawMessage(text)
	} else {
		result.Raw = string(text)
		log.Warn().
			Int("status", resp.StatusCode).
			Str("path", canonicalPath).
			Str("body", truncate(result.Raw, 200)).
			Msg("non-JSON response from StopSuite")
	}
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
