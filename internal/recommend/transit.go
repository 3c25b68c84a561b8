package recommend

import (
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
)

// TransitScorer ranks candidates by monetized trip cost: fare plus travel
// time converted into fare units. Cheaper trips score higher.
type TransitScorer struct {
	cfg Config
}

func NewTransitScorer(cfg Config) *TransitScorer {
	return &TransitScorer{cfg: cfg}
}

// Score returns one normalized score per option, index-aligned.
func (s *TransitScorer) Score(options []*types.Option) []float64 {
	scores := make([]float64, len(options))
	if len(options) == 0 {
		return scores
	}

	for i, opt := range options {
		cost := opt.Extracted.Fare + float64(opt.Extracted.DurationSeconds)*s.cfg.ValueOfSecond
		if cost <= 0 {
			// A genuinely free instant trip; avoid dividing by zero.
			cost = 1e-9
		}
		scores[i] = 1 / cost
	}

	NormalizeInPlace(scores)
	return scores
}
