package types

import "time"

type FarePreference struct {
	Fare     float64 `json:"fare"`
	IsStrong bool    `json:"isStrong"`
}

type DurationPreference struct {
	DurationSeconds int  `json:"duration"`
	IsStrong        bool `json:"isStrong"`
}

// Settings are the per-request user constraints. They are immutable for the
// duration of one recommendation call.
type Settings struct {
	OriginAddress     string             `json:"originAddress"`
	SearchBias        Rect               `json:"searchBias"`
	DepartureTime     time.Time          `json:"departureTime"`
	PreferredFare     FarePreference     `json:"preferredFare"`
	PreferredDuration DurationPreference `json:"preferredDuration"`
	Budget            int                `json:"budget"`
	MinRating         float64            `json:"minRating"`
	GoodForChildren   bool               `json:"goodForChildren"`
	GoodForGroups     bool               `json:"goodForGroups"`
	IsAccessible      bool               `json:"isAccessible"`
}

// Weights are the blend coefficients for the three score dimensions. They are
// not constrained to be non-negative or to sum to 1; the weight learner
// preserves their component sum across any single update.
type Weights struct {
	Interest   float64 `json:"interest"`
	Preference float64 `json:"preference"`
	Transit    float64 `json:"transit"`
}
