package rates

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubGeocoder struct {
	coords *Coordinates
	err    error
}

func (s stubGeocoder) Geocode(context.Context, Destination) (*Coordinates, error) {
	return s.coords, s.err
}

func nashvilleZone() RadiusZone {
	return RadiusZone{Name: "Nashville", Center: nashville, RadiusKm: 30}
}

func TestResolveRatesInsideZone(t *testing.T) {
	engine := NewEngine(ZIPGeocoder{}, nashvilleZone(), "81390698669")
	engine.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }

	dest := Destination{
		Address1:   "123 Broadway",
		City:       "Nashville",
		Province:   "TN",
		PostalCode: "37201",
		Country:    "US",
	}
	rates, exclusive := engine.ResolveRates(context.Background(), dest)
	if len(rates) != 1 {
		t.Fatalf("got %d rates, want exactly 1", len(rates))
	}
	if !exclusive {
		t.Error("in-zone rate must be exclusive")
	}

	rate := rates[0]
	if rate.ServiceCode != "CARBON_NEGATIVE_LOCAL" {
		t.Errorf("service_code = %q", rate.ServiceCode)
	}
	if rate.TotalPrice != "499" || rate.Currency != "USD" {
		t.Errorf("price = %s %s, want 499 USD", rate.TotalPrice, rate.Currency)
	}
	if rate.MinDeliveryDate != "2026-08-29" || rate.MaxDeliveryDate != "2026-08-30" {
		t.Errorf("delivery window = %s..%s, want next-day to two-day", rate.MinDeliveryDate, rate.MaxDeliveryDate)
	}
	if rate.LocationID != "81390698669" {
		t.Errorf("location_id = %q", rate.LocationID)
	}
}

func TestResolveRatesOutsideZone(t *testing.T) {
	engine := NewEngine(stubGeocoder{coords: &memphis}, nashvilleZone(), "")
	rates, exclusive := engine.ResolveRates(context.Background(), Destination{City: "Memphis", Province: "TN"})
	if len(rates) != 0 || exclusive {
		t.Errorf("expected no rates outside the zone, got %v", rates)
	}
}

func TestResolveRatesGeocodeMiss(t *testing.T) {
	// A Memphis ZIP is not in the local table: no coordinates, no rates,
	// and no error escapes.
	engine := NewEngine(ZIPGeocoder{}, nashvilleZone(), "")
	dest := Destination{Address1: "1 Main St", City: "Memphis", Province: "TN", PostalCode: "38103", Country: "US"}
	rates, exclusive := engine.ResolveRates(context.Background(), dest)
	if len(rates) != 0 || exclusive {
		t.Errorf("expected no rates for ungeocodable address, got %v", rates)
	}
}

func TestResolveRatesFailsOpenOnGeocoderError(t *testing.T) {
	engine := NewEngine(stubGeocoder{err: errors.New("provider down")}, nashvilleZone(), "")
	rates, exclusive := engine.ResolveRates(context.Background(), Destination{PostalCode: "37201"})
	if len(rates) != 0 || exclusive {
		t.Error("geocoder failure must fail open with zero rates")
	}
}

func TestDestinationSingleLine(t *testing.T) {
	d := Destination{Address1: "123 Broadway", City: "Nashville", Province: "TN", PostalCode: "37201", Country: "US"}
	want := "123 Broadway, Nashville, TN 37201, US"
	if got := d.SingleLine(); got != want {
		t.Errorf("SingleLine() = %q, want %q", got, want)
	}
}
