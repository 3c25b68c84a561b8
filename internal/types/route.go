package types

// TransitCost is one route-matrix element reduced to the values the ranking
// engine cares about. Reachable is false when the matrix reported no transit
// route to the destination; the cost fields are meaningless in that case.
type TransitCost struct {
	DurationSeconds int     `json:"durationSeconds"`
	Fare            float64 `json:"fare"`
	Reachable       bool    `json:"reachable"`
}

type Polyline struct {
	EncodedPolyline string `json:"encodedPolyline"`
}

type NavigationInstruction struct {
	Maneuver     string `json:"maneuver,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// MultiModalSegment is one stretch of a transit leg sharing a travel mode.
type MultiModalSegment struct {
	StepStartIndex        int                    `json:"stepStartIndex"`
	StepEndIndex          int                    `json:"stepEndIndex"`
	TravelMode            string                 `json:"travelMode,omitempty"`
	NavigationInstruction *NavigationInstruction `json:"navigationInstruction,omitempty"`
}

type StepsOverview struct {
	MultiModalSegments []MultiModalSegment `json:"multiModalSegments,omitempty"`
}

type RouteLeg struct {
	StepsOverview StepsOverview `json:"stepsOverview"`
}

// Route is the detailed geometry attached to an accepted candidate for
// presentation; it plays no part in scoring.
type Route struct {
	Polyline Polyline   `json:"polyline"`
	Legs     []RouteLeg `json:"legs,omitempty"`
	Viewport *Rect      `json:"viewport,omitempty"`
}
