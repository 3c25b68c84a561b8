package recommend

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
)

// Fetcher retrieves feasible candidate options: paginated place search with a
// retry-until-quota loop, the feasibility filter, and route detail attach.
type Fetcher struct {
	search  PlaceSearcher
	transit TransitPlanner
	cfg     Config
	log     *logger.Logger
}

func NewFetcher(search PlaceSearcher, transit TransitPlanner, cfg Config, log *logger.Logger) *Fetcher {
	return &Fetcher{
		search:  search,
		transit: transit,
		cfg:     cfg,
		log:     log.With("component", "Fetcher"),
	}
}

// FetchOptions returns up to count feasible candidates with route detail
// attached, or fewer if the search space is exhausted. A failed page fetch
// ends the loop early with the candidates accepted so far.
func (f *Fetcher) FetchOptions(ctx context.Context, query string, count int, settings types.Settings) ([]*types.Option, error) {
	accepted := make([]*types.Option, 0, count)
	pageToken := ""

	for round := 0; round < f.cfg.MaxRetrievalRounds && len(accepted) < count; round++ {
		if round > 0 && pageToken == "" {
			break
		}

		places, nextToken, err := f.search.SearchText(ctx, query, settings.SearchBias, count-len(accepted), pageToken)
		if err != nil {
			f.log.Warn("Place search page failed, returning partial results",
				"round", round,
				"accepted", len(accepted),
				"error", err,
			)
			break
		}
		if len(places) == 0 {
			break
		}

		batch, err := f.buildOptions(ctx, places, settings)
		if err != nil {
			f.log.Warn("Route matrix failed, returning partial results",
				"round", round,
				"accepted", len(accepted),
				"error", err,
			)
			break
		}

		for _, opt := range batch {
			if len(accepted) >= count {
				break
			}
			if f.Feasible(opt, settings) {
				accepted = append(accepted, opt)
			}
		}

		pageToken = nextToken
	}

	f.attachRoutes(ctx, accepted, settings)
	return accepted, nil
}

// buildOptions pairs one search page with its route-matrix costs and derives
// the extracted attributes each candidate is filtered and scored on.
func (f *Fetcher) buildOptions(ctx context.Context, places []types.Place, settings types.Settings) ([]*types.Option, error) {
	addresses := make([]string, len(places))
	for i, p := range places {
		addresses[i] = p.FormattedAddress
	}

	costs, err := f.transit.RouteMatrix(ctx, settings.OriginAddress, addresses, settings.DepartureTime)
	if err != nil {
		return nil, err
	}

	options := make([]*types.Option, 0, len(places))
	for i, place := range places {
		var cost types.TransitCost
		if i < len(costs) {
			cost = costs[i]
		}
		options = append(options, &types.Option{
			Place: place,
			Extracted: types.ExtractedAttributes{
				PriceLevel:         place.NumericPriceLevel(),
				AccessibilityScore: place.AccessibilityScore(),
				Fare:               cost.Fare,
				DurationSeconds:    cost.DurationSeconds,
				Reachable:          cost.Reachable,
			},
		})
	}
	return options, nil
}

// Feasible is the hard accept/reject predicate applied before scoring.
// Tightening any threshold can only shrink the accepted set.
func (f *Fetcher) Feasible(opt *types.Option, settings types.Settings) bool {
	ex := opt.Extracted
	// A place transit cannot reach must never be ranked; its zero cost would
	// otherwise top the transit score.
	if !ex.Reachable {
		return false
	}
	if settings.PreferredFare.IsStrong && ex.Fare > settings.PreferredFare.Fare {
		return false
	}
	if settings.PreferredDuration.IsStrong && ex.DurationSeconds > settings.PreferredDuration.DurationSeconds {
		return false
	}
	if ex.PriceLevel > settings.Budget {
		return false
	}
	// A place with no rating yet is not penalized.
	if opt.Place.Rating > 0 && opt.Place.Rating < settings.MinRating {
		return false
	}

	arrival := settings.DepartureTime.Add(time.Duration(ex.DurationSeconds) * time.Second)
	return openAtArrival(&opt.Place, arrival)
}

// openAtArrival checks the weekday-indexed schedule at the estimated arrival
// instant, in the place's local time. The boundary is open <= arrival < close,
// and a period closing on a later weekday spans midnight. Schedules with fewer
// than seven days of data are treated as open: missing data must never
// penalize ranking.
func openAtArrival(p *types.Place, arrival time.Time) bool {
	hours := p.CurrentOpeningHours
	if hours == nil || len(hours.Periods) < 7 {
		return true
	}

	local := arrival.UTC().Add(time.Duration(p.UTCOffsetMinutes) * time.Minute)
	day := int(local.Weekday())
	minuteOfDay := local.Hour()*60 + local.Minute()

	for _, period := range hours.Periods {
		openMinute := period.Open.Hour*60 + period.Open.Minute

		if period.Close == nil {
			if period.Open.Day == day && minuteOfDay >= openMinute {
				return true
			}
			continue
		}

		closeMinute := period.Close.Hour*60 + period.Close.Minute
		if period.Close.Day == period.Open.Day {
			if period.Open.Day == day && openMinute <= minuteOfDay && minuteOfDay < closeMinute {
				return true
			}
			continue
		}

		// Overnight period: open until midnight on the open day, then from
		// midnight until the close time on the close day.
		if period.Open.Day == day && minuteOfDay >= openMinute {
			return true
		}
		if period.Close.Day == day && minuteOfDay < closeMinute {
			return true
		}
	}
	return false
}

// attachRoutes fetches one detailed transit route per accepted candidate,
// fanned out concurrently. A failure for one candidate leaves its route nil
// and never aborts the batch.
func (f *Fetcher) attachRoutes(ctx context.Context, options []*types.Option, settings types.Settings) {
	if len(options) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.cfg.FanOutLimit)

	for _, opt := range options {
		opt := opt
		g.Go(func() error {
			route, err := f.transit.Route(gctx, settings.OriginAddress, opt.Place.FormattedAddress, settings.DepartureTime)
			if err != nil {
				f.log.Warn("Route detail fetch failed for candidate",
					"place_id", opt.Place.ID,
					"error", err,
				)
				return nil
			}
			opt.Route = route
			return nil
		})
	}
	_ = g.Wait()
}
