package recommend

import (
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
)

// PreferenceScorer measures how well each candidate's attributes match the
// user's stated constraints, as cosine similarity between two fixed
// five-dimensional vectors.
type PreferenceScorer struct {
	cfg Config
}

func NewPreferenceScorer(cfg Config) *PreferenceScorer {
	return &PreferenceScorer{cfg: cfg}
}

// Score returns one normalized score per option, index-aligned.
func (s *PreferenceScorer) Score(settings types.Settings, options []*types.Option) []float64 {
	scores := make([]float64, len(options))
	if len(options) == 0 {
		return scores
	}

	user := s.userVector(settings)
	for i, opt := range options {
		scores[i] = CosineSimilarity(user, s.candidateVector(settings, opt))
	}

	NormalizeInPlace(scores)
	return scores
}

// userVector softens the budget ceiling downward and the rating floor upward
// so near-misses are not punished as hard as the raw thresholds imply.
func (s *PreferenceScorer) userVector(settings types.Settings) []float32 {
	return []float32{
		float32(Bias(float64(settings.Budget)/float64(s.cfg.MaxPriceLevel), s.cfg.BiasExponent, true)),
		float32(Bias(settings.MinRating/s.cfg.MaxRating, s.cfg.BiasExponent, false)),
		boolDim(settings.GoodForChildren),
		boolDim(settings.GoodForGroups),
		boolDim(settings.IsAccessible),
	}
}

func (s *PreferenceScorer) candidateVector(settings types.Settings, opt *types.Option) []float32 {
	// Accessibility counts only when the user asked for it; an accessible
	// place gets no unsolicited credit.
	accessibility := 0.0
	if settings.IsAccessible {
		accessibility = opt.Extracted.AccessibilityScore
	}

	return []float32{
		float32(float64(opt.Extracted.PriceLevel) / float64(s.cfg.MaxPriceLevel)),
		float32(opt.Place.Rating / s.cfg.MaxRating),
		boolDim(opt.Place.GoodForChildren),
		boolDim(opt.Place.GoodForGroups),
		float32(accessibility),
	}
}

func boolDim(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
