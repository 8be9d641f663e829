package rates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Rate is one shipping option in the carrier-service response. Prices are
// strings in minor units, dates are YYYY-MM-DD.
type Rate struct {
	ServiceName     string `json:"service_name"`
	ServiceCode     string `json:"service_code"`
	TotalPrice      string `json:"total_price"`
	Currency        string `json:"currency"`
	LocationID      string `json:"location_id,omitempty"`
	MinDeliveryDate string `json:"min_delivery_date"`
	MaxDeliveryDate string `json:"max_delivery_date"`
}

// Destination is the shipping destination from a carrier-service request.
type Destination struct {
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Zip        string `json:"zip"`
	Country    string `json:"country"`
}

// ZipCode returns whichever postal-code field the platform populated.
func (d Destination) ZipCode() string {
	if d.PostalCode != "" {
		return d.PostalCode
	}
	return d.Zip
}

// SingleLine assembles the destination into one geocodable address string.
func (d Destination) SingleLine() string {
	street := strings.TrimSpace(d.Address1 + " " + d.Address2)
	return fmt.Sprintf("%s, %s, %s %s, %s", street, d.City, d.Province, d.ZipCode(), d.Country)
}

const (
	localServiceName = "Carbon Negative Local Delivery"
	localServiceCode = "CARBON_NEGATIVE_LOCAL"
	localPriceMinor  = "499"
	localCurrency    = "USD"
)

// Engine decides checkout-time shipping options: geocode the destination,
// test zone containment, and emit a single exclusive local-delivery rate when
// inside. Every failure mode yields zero rates so the platform falls back to
// its own defaults; nothing here may ever block checkout.
type Engine struct {
	geocoder   Geocoder
	zone       ZoneChecker
	locationID string
	now        func() time.Time
}

func NewEngine(geocoder Geocoder, zone ZoneChecker, locationID string) *Engine {
	return &Engine{
		geocoder:   geocoder,
		zone:       zone,
		locationID: locationID,
		now:        time.Now,
	}
}

// ResolveRates maps a destination to shipping options. The second return
// value signals that the rate is exclusive and platform defaults should be
// suppressed.
func (e *Engine) ResolveRates(ctx context.Context, dest Destination) ([]Rate, bool) {
	coords, err := e.geocoder.Geocode(ctx, dest)
	if err != nil {
		log.Warn().Err(err).Msg("geocoding failed, falling back to default rates")
		return nil, false
	}
	if coords == nil {
		log.Info().Str("address", dest.SingleLine()).Msg("address did not geocode, no custom rate")
		return nil, false
	}

	zone, err := e.zone.Contains(ctx, *coords)
	if err != nil {
		log.Warn().Err(err).Msg("zone check failed, falling back to default rates")
		return nil, false
	}
	if !zone.Inside {
		log.Info().
			Float64("lat", coords.Lat).
			Float64("lng", coords.Lng).
			Msg("destination outside delivery zone")
		return nil, false
	}

	log.Info().
		Float64("lat", coords.Lat).
		Float64("lng", coords.Lng).
		Str("zone", zone.ZoneName).
		Msg("destination inside delivery zone")

	return []Rate{{
		ServiceName:     localServiceName,
		ServiceCode:     localServiceCode,
		TotalPrice:      localPriceMinor,
		Currency:        localCurrency,
		LocationID:      e.locationID,
		MinDeliveryDate: e.deliveryDate(1),
		MaxDeliveryDate: e.deliveryDate(2),
	}}, true
}

func (e *Engine) deliveryDate(daysFromNow int) string {
	return e.now().AddDate(0, 0, daysFromNow).Format("2006-01-02")
}
