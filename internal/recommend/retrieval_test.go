package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
)

type searchPage struct {
	places    []types.Place
	nextToken string
	err       error
}

type fakeSearcher struct {
	pages []searchPage
	calls int
}

func (s *fakeSearcher) SearchText(_ context.Context, _ string, _ types.Rect, _ int, _ string) ([]types.Place, string, error) {
	if s.calls >= len(s.pages) {
		return nil, "", nil
	}
	page := s.pages[s.calls]
	s.calls++
	return page.places, page.nextToken, page.err
}

type fakePlanner struct {
	costs       map[string]types.TransitCost
	unreachable map[string]bool
	matrixErr   error
	routeErr    map[string]error
}

func (p *fakePlanner) RouteMatrix(_ context.Context, _ string, destinations []string, _ time.Time) ([]types.TransitCost, error) {
	if p.matrixErr != nil {
		return nil, p.matrixErr
	}
	costs := make([]types.TransitCost, len(destinations))
	for i, dest := range destinations {
		if p.unreachable[dest] {
			continue
		}
		cost := p.costs[dest]
		cost.Reachable = true
		costs[i] = cost
	}
	return costs, nil
}

func (p *fakePlanner) Route(_ context.Context, _ string, destination string, _ time.Time) (*types.Route, error) {
	if err := p.routeErr[destination]; err != nil {
		return nil, err
	}
	return &types.Route{Polyline: types.Polyline{EncodedPolyline: "poly:" + destination}}, nil
}

func testPlace(id string, rating float64) types.Place {
	return types.Place{
		ID:               id,
		DisplayName:      types.LocalizedText{Text: "Place " + id},
		FormattedAddress: id + " Test St",
		Rating:           rating,
	}
}

func newTestFetcher(search PlaceSearcher, transit TransitPlanner) *Fetcher {
	return NewFetcher(search, transit, DefaultConfig(), logger.NewNop())
}

func openSettings() types.Settings {
	return types.Settings{
		OriginAddress: "1 Origin Way",
		DepartureTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Budget:        4,
	}
}

func TestFetchOptionsSinglePage(t *testing.T) {
	search := &fakeSearcher{pages: []searchPage{
		{places: []types.Place{testPlace("a", 4.5), testPlace("b", 4.0)}},
	}}
	planner := &fakePlanner{costs: map[string]types.TransitCost{
		"a Test St": {DurationSeconds: 600, Fare: 2},
		"b Test St": {DurationSeconds: 900, Fare: 3},
	}}

	options, err := newTestFetcher(search, planner).FetchOptions(context.Background(), "coffee", 5, openSettings())
	if err != nil {
		t.Fatalf("FetchOptions: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("got %d options, want 2", len(options))
	}
	if options[0].Extracted.Fare != 2 || options[0].Extracted.DurationSeconds != 600 {
		t.Fatalf("option a extracted = %+v", options[0].Extracted)
	}
	for _, opt := range options {
		if opt.Route == nil || opt.Route.Polyline.EncodedPolyline != "poly:"+opt.Place.FormattedAddress {
			t.Fatalf("option %s missing route detail: %+v", opt.Place.ID, opt.Route)
		}
	}
}

func TestFetchOptionsPaginatesUntilQuota(t *testing.T) {
	search := &fakeSearcher{pages: []searchPage{
		{places: []types.Place{testPlace("a", 4.8), testPlace("b", 2.0)}, nextToken: "t1"},
		{places: []types.Place{testPlace("c", 4.2), testPlace("d", 4.9)}, nextToken: "t2"},
	}}
	planner := &fakePlanner{}

	settings := openSettings()
	settings.MinRating = 4 // rejects b, forcing a second page

	options, err := newTestFetcher(search, planner).FetchOptions(context.Background(), "museum", 3, settings)
	if err != nil {
		t.Fatalf("FetchOptions: %v", err)
	}
	if search.calls != 2 {
		t.Fatalf("searched %d pages, want 2", search.calls)
	}
	if len(options) != 3 {
		t.Fatalf("got %d options, want 3", len(options))
	}
	for i, wantID := range []string{"a", "c", "d"} {
		if options[i].Place.ID != wantID {
			t.Fatalf("options[%d] = %s, want %s", i, options[i].Place.ID, wantID)
		}
	}
}

func TestFetchOptionsStopsWithoutPageToken(t *testing.T) {
	search := &fakeSearcher{pages: []searchPage{
		{places: []types.Place{testPlace("a", 1.0)}},
		{places: []types.Place{testPlace("b", 5.0)}},
	}}

	settings := openSettings()
	settings.MinRating = 4

	options, err := newTestFetcher(search, &fakePlanner{}).FetchOptions(context.Background(), "park", 3, settings)
	if err != nil {
		t.Fatalf("FetchOptions: %v", err)
	}
	if search.calls != 1 {
		t.Fatalf("searched %d pages after empty token, want 1", search.calls)
	}
	if len(options) != 0 {
		t.Fatalf("got %d options, want 0", len(options))
	}
}

func TestFetchOptionsBoundedRounds(t *testing.T) {
	var pages []searchPage
	for i := 0; i < 10; i++ {
		pages = append(pages, searchPage{
			places:    []types.Place{testPlace(fmt.Sprintf("p%d", i), 1.0)},
			nextToken: fmt.Sprintf("t%d", i),
		})
	}
	search := &fakeSearcher{pages: pages}

	settings := openSettings()
	settings.MinRating = 4 // every page rejected, quota never met

	cfg := DefaultConfig()
	f := NewFetcher(search, &fakePlanner{}, cfg, logger.NewNop())
	if _, err := f.FetchOptions(context.Background(), "bar", 5, settings); err != nil {
		t.Fatalf("FetchOptions: %v", err)
	}
	if search.calls != cfg.MaxRetrievalRounds {
		t.Fatalf("searched %d pages, want capped at %d", search.calls, cfg.MaxRetrievalRounds)
	}
}

func TestFetchOptionsPartialOnPageFailure(t *testing.T) {
	search := &fakeSearcher{pages: []searchPage{
		{places: []types.Place{testPlace("a", 1.0), testPlace("b", 5.0)}, nextToken: "t1"},
		{err: errors.New("quota exhausted")},
	}}

	settings := openSettings()
	settings.MinRating = 4

	options, err := newTestFetcher(search, &fakePlanner{}).FetchOptions(context.Background(), "zoo", 3, settings)
	if err != nil {
		t.Fatalf("FetchOptions should swallow a page failure, got %v", err)
	}
	if len(options) != 1 || options[0].Place.ID != "b" {
		t.Fatalf("got %+v, want the single candidate accepted before the failure", options)
	}
}

func TestFetchOptionsPartialOnMatrixFailure(t *testing.T) {
	search := &fakeSearcher{pages: []searchPage{
		{places: []types.Place{testPlace("a", 4.5)}},
	}}
	planner := &fakePlanner{matrixErr: errors.New("routes unavailable")}

	options, err := newTestFetcher(search, planner).FetchOptions(context.Background(), "gym", 3, openSettings())
	if err != nil {
		t.Fatalf("FetchOptions should swallow a matrix failure, got %v", err)
	}
	if len(options) != 0 {
		t.Fatalf("got %d options, want 0", len(options))
	}
}

func TestFetchOptionsRouteFailureLeavesRouteNil(t *testing.T) {
	search := &fakeSearcher{pages: []searchPage{
		{places: []types.Place{testPlace("a", 4.5), testPlace("b", 4.5)}},
	}}
	planner := &fakePlanner{
		routeErr: map[string]error{"a Test St": errors.New("no transit route")},
	}

	options, err := newTestFetcher(search, planner).FetchOptions(context.Background(), "cafe", 5, openSettings())
	if err != nil {
		t.Fatalf("FetchOptions: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("got %d options, want 2", len(options))
	}
	if options[0].Route != nil {
		t.Fatalf("failed route fetch should leave route nil, got %+v", options[0].Route)
	}
	if options[1].Route == nil {
		t.Fatalf("healthy candidate lost its route")
	}
}

func TestFetchOptionsDropsUnreachableDestinations(t *testing.T) {
	search := &fakeSearcher{pages: []searchPage{
		{places: []types.Place{testPlace("island", 4.9), testPlace("b", 4.0)}},
	}}
	planner := &fakePlanner{
		costs:       map[string]types.TransitCost{"b Test St": {DurationSeconds: 600, Fare: 2}},
		unreachable: map[string]bool{"island Test St": true},
	}

	options, err := newTestFetcher(search, planner).FetchOptions(context.Background(), "viewpoint", 5, openSettings())
	if err != nil {
		t.Fatalf("FetchOptions: %v", err)
	}
	if len(options) != 1 || options[0].Place.ID != "b" {
		t.Fatalf("got %+v, want only the reachable candidate", options)
	}
}

func TestFeasibleRejectsUnreachable(t *testing.T) {
	f := newTestFetcher(&fakeSearcher{}, &fakePlanner{})
	settings := openSettings()

	// An unreachable candidate carries zero fare and duration; without the
	// reachability check it would sail through every threshold and then top
	// the transit score.
	unreachable := &types.Option{Place: testPlace("island", 4.9)}
	if f.Feasible(unreachable, settings) {
		t.Fatalf("candidate with no transit route accepted")
	}

	reachable := &types.Option{
		Place:     testPlace("b", 4.0),
		Extracted: types.ExtractedAttributes{Fare: 2, DurationSeconds: 600, Reachable: true},
	}
	if !f.Feasible(reachable, settings) {
		t.Fatalf("reachable candidate rejected")
	}
}

func TestFeasibleStrongPreferences(t *testing.T) {
	f := newTestFetcher(&fakeSearcher{}, &fakePlanner{})

	cheapFast := &types.Option{
		Place:     testPlace("a", 4.8),
		Extracted: types.ExtractedAttributes{Fare: 2, DurationSeconds: 600, Reachable: true},
	}
	pricySlow := &types.Option{
		Place:     testPlace("b", 4.0),
		Extracted: types.ExtractedAttributes{Fare: 8, DurationSeconds: 1200, Reachable: true},
	}

	settings := openSettings()
	settings.MinRating = 4
	settings.PreferredFare = types.FarePreference{Fare: 5, IsStrong: true}

	if !f.Feasible(cheapFast, settings) {
		t.Fatalf("candidate under the fare cap rejected")
	}
	if f.Feasible(pricySlow, settings) {
		t.Fatalf("candidate over the strong fare cap accepted")
	}

	// The same cap held weakly rejects nothing.
	settings.PreferredFare.IsStrong = false
	if !f.Feasible(pricySlow, settings) {
		t.Fatalf("weak fare preference must not reject")
	}

	settings.PreferredDuration = types.DurationPreference{DurationSeconds: 900, IsStrong: true}
	if f.Feasible(pricySlow, settings) {
		t.Fatalf("candidate over the strong duration cap accepted")
	}
}

func TestFeasibleBudgetAndRating(t *testing.T) {
	f := newTestFetcher(&fakeSearcher{}, &fakePlanner{})
	settings := openSettings()
	settings.Budget = 2
	settings.MinRating = 4

	expensive := &types.Option{Place: testPlace("a", 4.5)}
	expensive.Place.PriceLevel = "PRICE_LEVEL_EXPENSIVE"
	expensive.Extracted.PriceLevel = expensive.Place.NumericPriceLevel()
	expensive.Extracted.Reachable = true
	if f.Feasible(expensive, settings) {
		t.Fatalf("price level 3 accepted against budget 2")
	}

	lowRated := &types.Option{Place: testPlace("b", 3.9)}
	lowRated.Extracted.Reachable = true
	if f.Feasible(lowRated, settings) {
		t.Fatalf("rating 3.9 accepted against minimum 4")
	}

	unrated := &types.Option{Place: testPlace("c", 0)}
	unrated.Extracted.Reachable = true
	if !f.Feasible(unrated, settings) {
		t.Fatalf("missing rating must not reject")
	}
}

func TestFeasibleTighterMinRatingShrinksAcceptance(t *testing.T) {
	f := newTestFetcher(&fakeSearcher{}, &fakePlanner{})
	candidates := []*types.Option{
		{Place: testPlace("a", 3.0)},
		{Place: testPlace("b", 4.0)},
		{Place: testPlace("c", 4.7)},
		{Place: testPlace("d", 0)},
	}
	for _, opt := range candidates {
		opt.Extracted.Reachable = true
	}

	loose := openSettings()
	loose.MinRating = 3
	tight := openSettings()
	tight.MinRating = 4.5

	for _, opt := range candidates {
		if f.Feasible(opt, tight) && !f.Feasible(opt, loose) {
			t.Fatalf("place %s accepted by the tighter filter but not the looser one", opt.Place.ID)
		}
	}
}

func TestOpenAtArrival(t *testing.T) {
	fullWeek := func(openHour, closeHour int) *types.OpeningHours {
		hours := &types.OpeningHours{}
		for day := 0; day < 7; day++ {
			hours.Periods = append(hours.Periods, types.OpeningPeriod{
				Open:  types.TimePoint{Day: day, Hour: openHour},
				Close: &types.TimePoint{Day: day, Hour: closeHour},
			})
		}
		return hours
	}

	// 2026-03-02 is a Monday.
	monday := func(hour, minute int) time.Time {
		return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
	}

	place := testPlace("a", 4.0)
	place.CurrentOpeningHours = fullWeek(9, 17)

	cases := []struct {
		name    string
		arrival time.Time
		want    bool
	}{
		{"mid-day", monday(12, 0), true},
		{"at open", monday(9, 0), true},
		{"before open", monday(8, 59), false},
		{"at close", monday(17, 0), false},
		{"just before close", monday(16, 59), true},
	}
	for _, tc := range cases {
		if got := openAtArrival(&place, tc.arrival); got != tc.want {
			t.Fatalf("%s: openAtArrival = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOpenAtArrivalUTCOffset(t *testing.T) {
	place := testPlace("a", 4.0)
	place.UTCOffsetMinutes = -480 // UTC-8
	hours := &types.OpeningHours{}
	for day := 0; day < 7; day++ {
		hours.Periods = append(hours.Periods, types.OpeningPeriod{
			Open:  types.TimePoint{Day: day, Hour: 9},
			Close: &types.TimePoint{Day: day, Hour: 17},
		})
	}
	place.CurrentOpeningHours = hours

	// 20:00 UTC on Monday is 12:00 local, inside hours.
	if !openAtArrival(&place, time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)) {
		t.Fatalf("noon local rejected")
	}
	// 12:00 UTC is 04:00 local, before opening.
	if openAtArrival(&place, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("4am local accepted")
	}
}

func TestOpenAtArrivalIncompleteScheduleIsOpen(t *testing.T) {
	arrival := time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC)

	noHours := testPlace("a", 4.0)
	if !openAtArrival(&noHours, arrival) {
		t.Fatalf("place without schedule rejected")
	}

	partial := testPlace("b", 4.0)
	partial.CurrentOpeningHours = &types.OpeningHours{
		Periods: []types.OpeningPeriod{
			{Open: types.TimePoint{Day: 1, Hour: 9}, Close: &types.TimePoint{Day: 1, Hour: 10}},
		},
	}
	if !openAtArrival(&partial, arrival) {
		t.Fatalf("place with incomplete schedule rejected")
	}
}

func TestOpenAtArrivalOvernightPeriod(t *testing.T) {
	place := testPlace("a", 4.0)
	hours := &types.OpeningHours{}
	for day := 0; day < 7; day++ {
		// Opens in the evening, closes past midnight the next day.
		hours.Periods = append(hours.Periods, types.OpeningPeriod{
			Open:  types.TimePoint{Day: day, Hour: 18},
			Close: &types.TimePoint{Day: (day + 1) % 7, Hour: 2},
		})
	}
	place.CurrentOpeningHours = hours

	if !openAtArrival(&place, time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)) {
		t.Fatalf("late evening inside an overnight period rejected")
	}
	// The window spans midnight into the close day.
	if !openAtArrival(&place, time.Date(2026, 3, 3, 0, 30, 0, 0, time.UTC)) {
		t.Fatalf("00:30 inside an 18:00-02:00 window rejected")
	}
	if openAtArrival(&place, time.Date(2026, 3, 3, 2, 0, 0, 0, time.UTC)) {
		t.Fatalf("arrival at the overnight close accepted")
	}
	if openAtArrival(&place, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("noon accepted against an evening-only schedule")
	}
}
