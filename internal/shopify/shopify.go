package shopify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"resty.dev/v3"
)

// Client wraps the Shopify Admin API (REST + GraphQL) under one versioned
// admin URL. Authentication is a static access token on every request; there
// is no request signing on this side.
type Client struct {
	http     *resty.Client
	adminURL string
}

func NewClient(adminURL, accessToken string) *Client {
	httpClient := resty.New().
		SetBaseURL(adminURL).
		SetHeader("X-Shopify-Access-Token", accessToken).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:     httpClient,
		adminURL: adminURL,
	}
}

// APIResult carries the parsed body of an Admin API call, or the raw text
// when the remote answered non-JSON (an empty 204, an HTML error page). The
// remote operation may have taken effect either way, so this is not an error.
type APIResult struct {
	Status int
	JSON   json.RawMessage
	Raw    string
}

func (r *APIResult) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

func (r *APIResult) Decode(v any) error {
	if r.JSON == nil {
		return fmt.Errorf("non-JSON response (status %d)", r.Status)
	}
	return json.Unmarshal(r.JSON, v)
}

func (c *Client) get(ctx context.Context, path string) (*APIResult, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Shopify Admin API: %w", err)
	}
	return c.toResult(path, resp), nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*APIResult, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).Post(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Shopify Admin API: %w", err)
	}
	return c.toResult(path, resp), nil
}

func (c *Client) toResult(path string, resp *resty.Response) *APIResult {
	text := resp.String()
	result := &APIResult{Status: resp.StatusCode()}
	if len(text) > 0 && json.Valid([]byte(text)) {
		result.JSON = json.RawMessage(text)
	} else {
		result.Raw = text
		log.Warn().
			Int("status", result.Status).
			Str("path", path).
			Msg("non-JSON response from Shopify")
	}
	return result
}
