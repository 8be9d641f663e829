package routewatch

import (
	"testing"

	"github.com/enzy-delivery/carrier-sync/internal/stopsuite"
)

func TestActiveRouteForSkipsTerminalRoutes(t *testing.T) {
	details := []stopsuite.RouteDetail{
		{Route: stopsuite.Route{ID: 1, Date: "2026-08-28", Complete: true}},
		{Route: stopsuite.Route{ID: 2, Date: "2026-08-28", Cancelled: true}},
		{Route: stopsuite.Route{ID: 3, Date: "2026-08-28", Name: "Downtown AM"}},
	}

	route := activeRouteFor(details, "2026-08-28")
	if route == nil || route.ID != 3 {
		t.Fatalf("route = %+v, want id 3 (first non-terminal route for the date)", route)
	}
}

func TestActiveRouteForWrongDate(t *testing.T) {
	details := []stopsuite.RouteDetail{
		{Route: stopsuite.Route{ID: 1, Date: "2026-08-27"}},
	}

	if route := activeRouteFor(details, "2026-08-28"); route != nil {
		t.Fatalf("route = %+v, want nil for a date with no routes", route)
	}
}

func TestActiveRouteForAllTerminal(t *testing.T) {
	details := []stopsuite.RouteDetail{
		{Route: stopsuite.Route{ID: 1, Date: "2026-08-28", Complete: true}},
		{Route: stopsuite.Route{ID: 2, Date: "2026-08-28", Cancelled: true}},
	}

	if route := activeRouteFor(details, "2026-08-28"); route != nil {
		t.Fatalf("route = %+v, want nil when every route for the date is terminal", route)
	}
}
