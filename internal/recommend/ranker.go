package recommend

import (
	"sort"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
)

// Rank computes each option's total as the weighted blend of its three
// normalized scores multiplied by its community boost, then sorts descending.
// Ties break on place ID so the order is reproducible.
func Rank(options []*types.Option, weights types.Weights) {
	for _, opt := range options {
		blend := weights.Interest*opt.Scores.Interest +
			weights.Preference*opt.Scores.Preference +
			weights.Transit*opt.Scores.Transit
		opt.Total = blend * opt.Boost
	}

	sort.Slice(options, func(i, j int) bool {
		if options[i].Total != options[j].Total {
			return options[i].Total > options[j].Total
		}
		return options[i].Place.ID < options[j].Place.ID
	})
}
