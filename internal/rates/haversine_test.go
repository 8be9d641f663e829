package rates

import (
	"context"
	"math"
	"testing"
)

var (
	nashville = Coordinates{Lat: 36.1627, Lng: -86.7816}
	memphis   = Coordinates{Lat: 35.1495, Lng: -90.0490}
)

func TestDistanceSymmetric(t *testing.T) {
	ab := Distance(nashville, memphis)
	ba := Distance(memphis, nashville)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", ab, ba)
	}
	// Nashville to Memphis is roughly 320 km as the crow flies.
	if ab < 300 || ab > 340 {
		t.Errorf("Nashville-Memphis distance = %f km, expected ~320", ab)
	}
}

func TestDistanceToSelfIsZero(t *testing.T) {
	if d := Distance(nashville, nashville); d != 0 {
		t.Errorf("Distance(A, A) = %f, want 0", d)
	}
}

func TestRadiusZoneInclusiveBoundary(t *testing.T) {
	center := Coordinates{Lat: 36.1627, Lng: -86.7816}
	// Move due north: one degree of latitude is ~111.19 km on a 6371 km
	// sphere, so place a point whose computed distance brackets the radius.
	boundary := Coordinates{Lat: center.Lat + 30.0/111.194926, Lng: center.Lng}
	d := Distance(center, boundary)

	zone := RadiusZone{Name: "Nashville", Center: center, RadiusKm: d}
	result, err := zone.Contains(context.Background(), boundary)
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if !result.Inside {
		t.Error("point exactly at the radius classified outside, boundary must be inclusive")
	}

	justOutside := Coordinates{Lat: boundary.Lat + 0.001, Lng: boundary.Lng}
	result, err = zone.Contains(context.Background(), justOutside)
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if result.Inside {
		t.Error("point beyond the radius classified inside")
	}
}

func TestRadiusZoneMemphisOutside(t *testing.T) {
	zone := RadiusZone{Name: "Nashville", Center: nashville, RadiusKm: 30}
	result, err := zone.Contains(context.Background(), memphis)
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if result.Inside {
		t.Error("Memphis classified inside the Nashville zone")
	}
}
