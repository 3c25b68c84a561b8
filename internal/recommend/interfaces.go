package recommend

import (
	"context"
	"time"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
)

// PlaceSearcher is the paginated place search collaborator.
type PlaceSearcher interface {
	SearchText(ctx context.Context, query string, bias types.Rect, pageSize int, pageToken string) ([]types.Place, string, error)
}

// TransitPlanner answers transit cost questions: batched costs for the
// feasibility filter and scorers, and full route detail for presentation.
type TransitPlanner interface {
	RouteMatrix(ctx context.Context, origin string, destinations []string, departure time.Time) ([]types.TransitCost, error)
	Route(ctx context.Context, origin, destination string, departure time.Time) (*types.Route, error)
}

// Embedder turns texts into fixed-length vectors, deterministically for
// identical input within a call.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// LikerSource reports the users who liked a place.
type LikerSource interface {
	LikersOf(ctx context.Context, placeID string) ([]types.CommunityUser, error)
}
