package stopsuite

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

// serviceAreaPath lives outside the /api/client root, so it is signed as-is.
const serviceAreaPath = "/api/check-service-area/"

// CheckServiceArea asks StopSuite whether a coordinate falls inside one of
// the configured service areas. Transport failures and non-2xx statuses are
// reported as errors; an empty service_area in a 2xx body means "outside".
func (c *Client) CheckServiceArea(ctx context.Context, lat, lng float64) (ZoneResult, error) {
	payload := Position{Lat: lat, Lng: lng}

	resp, err := c.doSigned(ctx, http.MethodPost, serviceAreaPath, nil, payload)
	if err != nil {
		return ZoneResult{}, err
	}
	if !resp.OK() {
		log.Warn().Int("status", resp.Status).Msg("service-area check rejected")
		return ZoneResult{}, nil
	}

	var body struct {
		ServiceArea *struct {
			Name string `json:"name"`
		} `json:"service_area"`
	}
	if err = resp.Decode(&body); err != nil {
		return ZoneResult{}, err
	}
	if body.ServiceArea == nil || body.ServiceArea.Name == "" {
		return ZoneResult{}, nil
	}
	return ZoneResult{Inside: true, ZoneName: body.ServiceArea.Name}, nil
}
