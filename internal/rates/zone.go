package rates

import (
	"context"

	"github.com/enzy-delivery/carrier-sync/internal/stopsuite"
)

// ZoneResult is the outcome of a containment test. Derived per request,
// never stored.
type ZoneResult struct {
	Inside   bool
	ZoneName string
}

// ZoneChecker tests whether a coordinate lies inside the delivery zone.
type ZoneChecker interface {
	Contains(ctx context.Context, c Coordinates) (ZoneResult, error)
}

// RadiusZone classifies a coordinate by its great-circle distance from a
// fixed center. The boundary is inclusive: a point exactly at the radius is
// inside.
type RadiusZone struct {
	Name     string
	Center   Coordinates
	RadiusKm float64
}

func (z RadiusZone) Contains(_ context.Context, c Coordinates) (ZoneResult, error) {
	if Distance(z.Center, c) <= z.RadiusKm {
		return ZoneResult{Inside: true, ZoneName: z.Name}, nil
	}
	return ZoneResult{}, nil
}

// RemoteZone delegates the containment test to the StopSuite
// check-service-area endpoint.
type RemoteZone struct {
	Dispatch *stopsuite.Client
}

func (z RemoteZone) Contains(ctx context.Context, c Coordinates) (ZoneResult, error) {
	result, err := z.Dispatch.CheckServiceArea(ctx, c.Lat, c.Lng)
	if err != nil {
		return ZoneResult{}, err
	}
	return ZoneResult{Inside: result.Inside, ZoneName: result.ZoneName}, nil
}
