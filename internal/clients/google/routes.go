package google

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/utils"
)

const routeMatrixFieldMask = "originIndex,destinationIndex,duration,travelAdvisory.transitFare,condition"

const routesFieldMask = "routes.duration," +
	"routes.polyline," +
	"routes.travel_advisory.transitFare," +
	"routes.legs.stepsOverview," +
	"routes.viewport"

// RoutesClient wraps the Routes API computeRouteMatrix and computeRoutes
// endpoints, always in TRANSIT mode.
type RoutesClient struct {
	caller         *apiCaller
	routeEndpoint  string
	matrixEndpoint string
}

func NewRoutesClient(log *logger.Logger) (*RoutesClient, error) {
	apiKey := strings.TrimSpace(utils.GetEnv("GOOGLE_API_KEY", "", log))
	if apiKey == "" {
		return nil, fmt.Errorf("missing GOOGLE_API_KEY")
	}
	routeEndpoint := utils.GetEnv("COMPUTE_ROUTES_ENDPOINT", "https://routes.googleapis.com/directions/v2:computeRoutes", log)
	matrixEndpoint := utils.GetEnv("COMPUTE_ROUTEMATRIX_ENDPOINT", "https://routes.googleapis.com/distanceMatrix/v2:computeRouteMatrix", log)
	timeoutSec := utils.GetEnvAsInt("GOOGLE_TIMEOUT_SECONDS", 30, log)
	maxRetries := utils.GetEnvAsInt("GOOGLE_MAX_RETRIES", 3, log)

	return &RoutesClient{
		caller: &apiCaller{
			log:        log.With("client", "RoutesClient"),
			apiKey:     apiKey,
			httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
			maxRetries: maxRetries,
		},
		routeEndpoint:  routeEndpoint,
		matrixEndpoint: matrixEndpoint,
	}, nil
}

type waypoint struct {
	Address string `json:"address"`
}

type matrixWaypoint struct {
	Waypoint waypoint `json:"waypoint"`
}

type routeMatrixRequest struct {
	Origins       []matrixWaypoint `json:"origins"`
	Destinations  []matrixWaypoint `json:"destinations"`
	TravelMode    string           `json:"travelMode"`
	DepartureTime string           `json:"departureTime,omitempty"`
}

type money struct {
	CurrencyCode string `json:"currencyCode,omitempty"`
	Units        string `json:"units,omitempty"`
	Nanos        int64  `json:"nanos,omitempty"`
}

type travelAdvisory struct {
	TransitFare *money `json:"transitFare,omitempty"`
}

type routeMatrixElement struct {
	OriginIndex      int             `json:"originIndex"`
	DestinationIndex int             `json:"destinationIndex"`
	Duration         string          `json:"duration,omitempty"`
	TravelAdvisory   *travelAdvisory `json:"travelAdvisory,omitempty"`
	Condition        string          `json:"condition,omitempty"`
}

// RouteMatrix computes transit cost from one origin to every destination.
// The result is index-aligned with destinations; a destination the matrix
// reports no transit route for stays unreachable.
func (rc *RoutesClient) RouteMatrix(ctx context.Context, origin string, destinations []string, departure time.Time) ([]types.TransitCost, error) {
	if len(destinations) == 0 {
		return []types.TransitCost{}, nil
	}

	req := routeMatrixRequest{
		Origins:    []matrixWaypoint{{Waypoint: waypoint{Address: origin}}},
		TravelMode: "TRANSIT",
	}
	if !departure.IsZero() {
		req.DepartureTime = departure.UTC().Format(time.RFC3339)
	}
	for _, dest := range destinations {
		req.Destinations = append(req.Destinations, matrixWaypoint{Waypoint: waypoint{Address: dest}})
	}

	var elements []routeMatrixElement
	if err := rc.caller.post(ctx, rc.matrixEndpoint, routeMatrixFieldMask, req, &elements); err != nil {
		return nil, fmt.Errorf("compute route matrix: %w", err)
	}

	costs := make([]types.TransitCost, len(destinations))
	for _, el := range elements {
		if el.DestinationIndex < 0 || el.DestinationIndex >= len(costs) {
			continue
		}
		if el.Condition != "" && el.Condition != "ROUTE_EXISTS" {
			rc.caller.log.Warn("No transit route to destination",
				"destination", destinations[el.DestinationIndex],
				"condition", el.Condition,
			)
			continue
		}
		costs[el.DestinationIndex] = types.TransitCost{
			DurationSeconds: parseDurationSeconds(el.Duration),
			Fare:            parseFare(el.TravelAdvisory),
			Reachable:       true,
		}
	}
	return costs, nil
}

type computeRoutesRequest struct {
	Origin                   matrixWaypoint `json:"origin"`
	Destination              matrixWaypoint `json:"destination"`
	TravelMode               string         `json:"travelMode"`
	DepartureTime            string         `json:"departureTime,omitempty"`
	ComputeAlternativeRoutes bool           `json:"computeAlternativeRoutes"`
}

type computeRoutesResponse struct {
	Routes []struct {
		Duration string           `json:"duration,omitempty"`
		Polyline types.Polyline   `json:"polyline"`
		Legs     []types.RouteLeg `json:"legs,omitempty"`
		Viewport *types.Rect      `json:"viewport,omitempty"`
	} `json:"routes"`
}

// Route fetches the detailed transit route (geometry, step overview,
// viewport) from origin to a single destination.
func (rc *RoutesClient) Route(ctx context.Context, origin, destination string, departure time.Time) (*types.Route, error) {
	req := computeRoutesRequest{
		Origin:                   matrixWaypoint{Waypoint: waypoint{Address: origin}},
		Destination:              matrixWaypoint{Waypoint: waypoint{Address: destination}},
		TravelMode:               "TRANSIT",
		ComputeAlternativeRoutes: false,
	}
	if !departure.IsZero() {
		req.DepartureTime = departure.UTC().Format(time.RFC3339)
	}

	var resp computeRoutesResponse
	if err := rc.caller.post(ctx, rc.routeEndpoint, routesFieldMask, req, &resp); err != nil {
		return nil, fmt.Errorf("compute route: %w", err)
	}
	if len(resp.Routes) == 0 {
		return nil, fmt.Errorf("compute route: no route from %q to %q", origin, destination)
	}

	r := resp.Routes[0]
	return &types.Route{
		Polyline: r.Polyline,
		Legs:     r.Legs,
		Viewport: r.Viewport,
	}, nil
}

// parseDurationSeconds reads the proto JSON duration form, e.g. "600s".
func parseDurationSeconds(d string) int {
	d = strings.TrimSuffix(strings.TrimSpace(d), "s")
	if d == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(d, 64)
	if err != nil || secs < 0 {
		return 0
	}
	return int(secs)
}

// parseFare converts the proto Money shape (integer units as a string, plus
// nanos) into a float amount. A missing fare is 0.
func parseFare(ta *travelAdvisory) float64 {
	if ta == nil || ta.TransitFare == nil {
		return 0
	}
	units, err := strconv.ParseInt(strings.TrimSpace(ta.TransitFare.Units), 10, 64)
	if err != nil {
		units = 0
	}
	return float64(units) + float64(ta.TransitFare.Nanos)*1e-9
}
