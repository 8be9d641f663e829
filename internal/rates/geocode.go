package rates

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"resty.dev/v3"
)

// Geocoder resolves a destination to coordinates. A nil result with a nil
// error means "could not geocode"; the rate engine treats that as a normal
// no-rate outcome, never as a failure.
type Geocoder interface {
	Geocode(ctx context.Context, dest Destination) (*Coordinates, error)
}

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeocoder resolves addresses through the Google Maps Geocoding API.
type GoogleGeocoder struct {
	http   *resty.Client
	apiKey string
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		http:   resty.New(),
		apiKey: apiKey,
	}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, dest Destination) (*Coordinates, error) {
	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParam("address", dest.SingleLine()).
		SetQueryParam("key", g.apiKey).
		Get(googleGeocodeURL)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}

	var body struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err = json.Unmarshal([]byte(resp.String()), &body); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if body.Status != "OK" || len(body.Results) == 0 {
		log.Debug().Str("status", body.Status).Str("address", dest.SingleLine()).Msg("address did not geocode")
		return nil, nil
	}
	loc := body.Results[0].Geometry.Location
	return &Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// ZIPGeocoder approximates coordinates from a local table of Nashville-area
// ZIP centroids, so the service keeps working without any external geocoding
// provider.
type ZIPGeocoder struct{}

func (ZIPGeocoder) Geocode(_ context.Context, dest Destination) (*Coordinates, error) {
	zip := dest.ZipCode()
	if len(zip) < 5 {
		return nil, nil
	}
	if c, ok := nashvilleZipCentroids[zip[:5]]; ok {
		return &c, nil
	}
	return nil, nil
}

// Approximate centers for Nashville-area ZIP codes.
var nashvilleZipCentroids = map[string]Coordinates{
	// Downtown Nashville
	"37201": {Lat: 36.1627, Lng: -86.7816},
	"37202": {Lat: 36.1659, Lng: -86.7844},
	"37203": {Lat: 36.1398, Lng: -86.7689},
	"37204": {Lat: 36.1573, Lng: -86.7679},
	"37205": {Lat: 36.1094, Lng: -86.8690},
	"37206": {Lat: 36.1826, Lng: -86.7426},
	"37207": {Lat: 36.2298, Lng: -86.7710},
	"37208": {Lat: 36.1761, Lng: -86.8078},
	"37209": {Lat: 36.1296, Lng: -86.8137},
	"37210": {Lat: 36.1829, Lng: -86.7334},
	"37211": {Lat: 36.0729, Lng: -86.7184},
	"37212": {Lat: 36.1357, Lng: -86.7897},
	"37213": {Lat: 36.1653, Lng: -86.7378},
	"37214": {Lat: 36.1625, Lng: -86.6689},
	"37215": {Lat: 36.1027, Lng: -86.8147},
	"37216": {Lat: 36.2156, Lng: -86.7332},
	"37217": {Lat: 36.1072, Lng: -86.6691},
	"37218": {Lat: 36.2088, Lng: -86.8355},
	"37219": {Lat: 36.1493, Lng: -86.7873},
	"37220": {Lat: 36.0643, Lng: -86.8008},
	"37221": {Lat: 36.0667, Lng: -86.9553},

	// Surrounding areas
	"37027": {Lat: 36.0656, Lng: -86.8992}, // Brentwood
	"37064": {Lat: 36.0339, Lng: -86.7903}, // Franklin
	"37067": {Lat: 36.0331, Lng: -86.7889}, // Franklin
	"37115": {Lat: 36.3143, Lng: -86.6914}, // Madison
	"37122": {Lat: 36.3931, Lng: -86.7532}, // Mount Juliet
	"37138": {Lat: 36.2728, Lng: -86.5772}, // Old Hickory
}
