package google

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
)

func newTestRoutesClient(t *testing.T, handler http.HandlerFunc) *RoutesClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("COMPUTE_ROUTES_ENDPOINT", srv.URL)
	t.Setenv("COMPUTE_ROUTEMATRIX_ENDPOINT", srv.URL)
	t.Setenv("GOOGLE_MAX_RETRIES", "0")

	client, err := NewRoutesClient(logger.NewNop())
	if err != nil {
		t.Fatalf("NewRoutesClient: %v", err)
	}
	return client
}

func TestRouteMatrix(t *testing.T) {
	var gotBody routeMatrixRequest

	client := newTestRoutesClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		// Elements arrive in no guaranteed order.
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"originIndex":      0,
				"destinationIndex": 1,
				"duration":         "1200s",
				"condition":        "ROUTE_EXISTS",
				"travelAdvisory": map[string]any{
					"transitFare": map[string]any{"currencyCode": "USD", "units": "2", "nanos": 500000000},
				},
			},
			{
				"originIndex":      0,
				"destinationIndex": 0,
				"duration":         "600s",
				"condition":        "ROUTE_EXISTS",
			},
		})
	})

	departure := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	costs, err := client.RouteMatrix(context.Background(), "1 Origin Way", []string{"A St", "B St"}, departure)
	if err != nil {
		t.Fatalf("RouteMatrix: %v", err)
	}

	if gotBody.TravelMode != "TRANSIT" {
		t.Fatalf("travel mode = %q, want TRANSIT", gotBody.TravelMode)
	}
	if gotBody.DepartureTime != "2026-03-02T09:00:00Z" {
		t.Fatalf("departure time = %q", gotBody.DepartureTime)
	}
	if len(gotBody.Origins) != 1 || gotBody.Origins[0].Waypoint.Address != "1 Origin Way" {
		t.Fatalf("origins = %+v", gotBody.Origins)
	}
	if len(gotBody.Destinations) != 2 {
		t.Fatalf("destinations = %+v", gotBody.Destinations)
	}

	if len(costs) != 2 {
		t.Fatalf("got %d costs, want 2", len(costs))
	}
	if costs[0].DurationSeconds != 600 || costs[0].Fare != 0 || !costs[0].Reachable {
		t.Fatalf("costs[0] = %+v", costs[0])
	}
	if costs[1].DurationSeconds != 1200 || math.Abs(costs[1].Fare-2.5) > 1e-9 || !costs[1].Reachable {
		t.Fatalf("costs[1] = %+v, want duration 1200 fare 2.5", costs[1])
	}
}

func TestRouteMatrixNoRouteCondition(t *testing.T) {
	client := newTestRoutesClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"originIndex": 0, "destinationIndex": 0, "condition": "ROUTE_NOT_FOUND"},
		})
	})

	costs, err := client.RouteMatrix(context.Background(), "1 Origin Way", []string{"A St"}, time.Time{})
	if err != nil {
		t.Fatalf("RouteMatrix: %v", err)
	}
	if costs[0].Reachable {
		t.Fatalf("destination without a route marked reachable: %+v", costs[0])
	}
	if costs[0].DurationSeconds != 0 || costs[0].Fare != 0 {
		t.Fatalf("unreachable destination cost = %+v, want zero", costs[0])
	}
}

func TestRouteMatrixEmptyDestinations(t *testing.T) {
	client := newTestRoutesClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Errorf("no request expected for empty destinations")
	})

	costs, err := client.RouteMatrix(context.Background(), "1 Origin Way", nil, time.Time{})
	if err != nil {
		t.Fatalf("RouteMatrix: %v", err)
	}
	if len(costs) != 0 {
		t.Fatalf("got %d costs, want 0", len(costs))
	}
}

func TestRoute(t *testing.T) {
	var gotBody computeRoutesRequest

	client := newTestRoutesClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"routes": []map[string]any{
				{
					"duration": "900s",
					"polyline": map[string]string{"encodedPolyline": "abc123"},
					"legs": []map[string]any{
						{
							"stepsOverview": map[string]any{
								"multiModalSegments": []map[string]any{
									{"stepStartIndex": 0, "stepEndIndex": 2, "travelMode": "WALK"},
									{"stepStartIndex": 3, "stepEndIndex": 7, "travelMode": "TRANSIT"},
								},
							},
						},
					},
					"viewport": map[string]any{
						"low":  map[string]float64{"latitude": 37.7, "longitude": -122.5},
						"high": map[string]float64{"latitude": 37.8, "longitude": -122.3},
					},
				},
			},
		})
	})

	route, err := client.Route(context.Background(), "1 Origin Way", "10 Museum Rd", time.Time{})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}

	if gotBody.TravelMode != "TRANSIT" || gotBody.ComputeAlternativeRoutes {
		t.Fatalf("request = %+v", gotBody)
	}
	if gotBody.Destination.Waypoint.Address != "10 Museum Rd" {
		t.Fatalf("destination = %+v", gotBody.Destination)
	}

	if route.Polyline.EncodedPolyline != "abc123" {
		t.Fatalf("polyline = %+v", route.Polyline)
	}
	if len(route.Legs) != 1 || len(route.Legs[0].StepsOverview.MultiModalSegments) != 2 {
		t.Fatalf("legs = %+v", route.Legs)
	}
	if route.Legs[0].StepsOverview.MultiModalSegments[1].TravelMode != "TRANSIT" {
		t.Fatalf("segments = %+v", route.Legs[0].StepsOverview.MultiModalSegments)
	}
	if route.Viewport == nil || route.Viewport.Low.Latitude != 37.7 {
		t.Fatalf("viewport = %+v", route.Viewport)
	}
}

func TestRouteNoRoutes(t *testing.T) {
	client := newTestRoutesClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"routes": []any{}})
	})

	if _, err := client.Route(context.Background(), "a", "b", time.Time{}); err == nil {
		t.Fatalf("expected an error when no routes come back")
	}
}

func TestParseDurationSeconds(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"600s", 600},
		{"0s", 0},
		{"", 0},
		{"12.7s", 12},
		{"garbage", 0},
		{"-5s", 0},
	}
	for _, tc := range cases {
		if got := parseDurationSeconds(tc.in); got != tc.want {
			t.Fatalf("parseDurationSeconds(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseFare(t *testing.T) {
	if got := parseFare(nil); got != 0 {
		t.Fatalf("parseFare(nil) = %v, want 0", got)
	}
	if got := parseFare(&travelAdvisory{}); got != 0 {
		t.Fatalf("parseFare with no fare = %v, want 0", got)
	}
	got := parseFare(&travelAdvisory{TransitFare: &money{Units: "2", Nanos: 750000000}})
	if math.Abs(got-2.75) > 1e-9 {
		t.Fatalf("parseFare = %v, want 2.75", got)
	}
	got = parseFare(&travelAdvisory{TransitFare: &money{Nanos: 500000000}})
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("parseFare with nanos only = %v, want 0.5", got)
	}
}
