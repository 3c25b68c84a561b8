package google

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/utils"
)

// Field mask for text search. Everything the feasibility filter and the
// scorers read off a Place must be requested here.
const placesFieldMask = "nextPageToken," +
	"places.id," +
	"places.displayName," +
	"places.types," +
	"places.formattedAddress," +
	"places.rating," +
	"places.priceLevel," +
	"places.currentOpeningHours.periods," +
	"places.utcOffsetMinutes," +
	"places.editorialSummary," +
	"places.goodForChildren," +
	"places.goodForGroups," +
	"places.accessibilityOptions," +
	"places.location"

// PlacesClient wraps the Places API text search endpoint.
type PlacesClient struct {
	caller   *apiCaller
	endpoint string
}

func NewPlacesClient(log *logger.Logger) (*PlacesClient, error) {
	apiKey := strings.TrimSpace(utils.GetEnv("GOOGLE_API_KEY", "", log))
	if apiKey == "" {
		return nil, fmt.Errorf("missing GOOGLE_API_KEY")
	}
	endpoint := utils.GetEnv("TEXTSEARCH_PLACES_ENDPOINT", "https://places.googleapis.com/v1/places:searchText", log)
	timeoutSec := utils.GetEnvAsInt("GOOGLE_TIMEOUT_SECONDS", 30, log)
	maxRetries := utils.GetEnvAsInt("GOOGLE_MAX_RETRIES", 3, log)

	return &PlacesClient{
		caller: &apiCaller{
			log:        log.With("client", "PlacesClient"),
			apiKey:     apiKey,
			httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
			maxRetries: maxRetries,
		},
		endpoint: endpoint,
	}, nil
}

type textSearchRequest struct {
	TextQuery    string        `json:"textQuery"`
	LocationBias *locationBias `json:"locationBias,omitempty"`
	PageSize     int           `json:"pageSize,omitempty"`
	PageToken    string        `json:"pageToken,omitempty"`
}

type locationBias struct {
	Rectangle types.Rect `json:"rectangle"`
}

type textSearchResponse struct {
	Places        []types.Place `json:"places"`
	NextPageToken string        `json:"nextPageToken"`
}

// SearchText returns one page of places matching the query, biased toward the
// given rectangle, plus the continuation token for the next page ("" when the
// search space is exhausted).
func (pc *PlacesClient) SearchText(ctx context.Context, query string, bias types.Rect, pageSize int, pageToken string) ([]types.Place, string, error) {
	req := textSearchRequest{
		TextQuery:    query,
		LocationBias: &locationBias{Rectangle: bias},
		PageSize:     pageSize,
		PageToken:    pageToken,
	}

	var resp textSearchResponse
	if err := pc.caller.post(ctx, pc.endpoint, placesFieldMask, req, &resp); err != nil {
		return nil, "", fmt.Errorf("places text search: %w", err)
	}
	return resp.Places, resp.NextPageToken, nil
}
