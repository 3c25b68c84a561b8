package types

// ExtractedAttributes is derived once per place at retrieval time from the
// raw Place and its route-matrix element. All numeric fields are non-negative.
type ExtractedAttributes struct {
	PriceLevel         int     `json:"priceLevel"`
	AccessibilityScore float64 `json:"accessibilityScore"`
	Fare               float64 `json:"fare"`
	DurationSeconds    int     `json:"duration"`
	Reachable          bool    `json:"reachable"`
}

// ScoreSet holds the three per-candidate scores, each normalized to [0,1]
// over the candidate set of a single recommendation call.
type ScoreSet struct {
	Interest   float64 `json:"interest"`
	Preference float64 `json:"preference"`
	Transit    float64 `json:"transit"`
}

// Option is one candidate place under consideration for a single
// recommendation call. It is created during retrieval, enriched by the
// scorers, read by the ranker, and discarded with the response.
type Option struct {
	Place     Place               `json:"place"`
	Extracted ExtractedAttributes `json:"extracted"`
	Route     *Route              `json:"route,omitempty"`
	Scores    ScoreSet            `json:"scores"`
	Boost     float64             `json:"communityBoost"`
	Total     float64             `json:"total"`
}
