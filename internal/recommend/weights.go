package recommend

import (
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
)

const numScoreDimensions = 3

// LearnWeights adjusts the blend weights from a single like or unlike event.
// scores are the triplets of the previously returned candidates in ranked
// order; likedIndex is the rank of the candidate the event targets. An
// out-of-range index is a no-op. The three weight deltas always sum to zero,
// so the component sum of the weights is invariant across an update.
func LearnWeights(scores []types.ScoreSet, likedIndex int, current types.Weights, isUnlike bool) types.Weights {
	if likedIndex < 0 || likedIndex >= len(scores) {
		return current
	}

	rawError := accumulateError(scores, likedIndex)
	if isUnlike {
		for dim := range rawError {
			rawError[dim] = -rawError[dim]
		}
	}

	adjustment := rebalance(rawError)
	return types.Weights{
		Interest:   current.Interest + adjustment[0],
		Preference: current.Preference + adjustment[1],
		Transit:    current.Transit + adjustment[2],
	}
}

// accumulateError collects, per score dimension, the rank-discordance error
// between the liked candidate and every candidate. A pair contributes only
// when the dimension's score gap disagrees with the actual rank order; the
// contribution is signed by rank distance and weighted by the squared gap, so
// larger and more severely misordered gaps are corrected more.
func accumulateError(scores []types.ScoreSet, likedIndex int) [numScoreDimensions]float64 {
	var errs [numScoreDimensions]float64
	liked := dims(scores[likedIndex])

	for rank, set := range scores {
		other := dims(set)
		for dim := 0; dim < numScoreDimensions; dim++ {
			diff := liked[dim] - other[dim]
			misranked := (diff > 0 && likedIndex > rank) || (diff < 0 && likedIndex < rank)
			if !misranked {
				continue
			}
			errs[dim] += float64(likedIndex-rank) * diff * diff
		}
	}
	return errs
}

// rebalance makes the three raw adjustments sum to exactly zero before they
// are applied. Dimensions with a raw adjustment of exactly zero absorb the
// negated total evenly; when every dimension moved, the mean is subtracted
// from each instead.
func rebalance(raw [numScoreDimensions]float64) [numScoreDimensions]float64 {
	zeroDims := 0
	total := 0.0
	for _, v := range raw {
		total += v
		if v == 0 {
			zeroDims++
		}
	}

	out := raw
	if zeroDims > 0 {
		share := -total / float64(zeroDims)
		for dim, v := range raw {
			if v == 0 {
				out[dim] = share
			}
		}
		return out
	}

	mean := total / numScoreDimensions
	for dim := range out {
		out[dim] -= mean
	}
	return out
}

func dims(s types.ScoreSet) [numScoreDimensions]float64 {
	return [numScoreDimensions]float64{s.Interest, s.Preference, s.Transit}
}
