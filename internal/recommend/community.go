package recommend

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
)

// CommunityScorer derives a multiplicative boost per candidate from other
// users who liked the same place, weighted by how similar those users are to
// the requester. No social signal means the multiplicative identity.
type CommunityScorer struct {
	likers LikerSource
	embed  Embedder
	cfg    Config
	log    *logger.Logger
}

func NewCommunityScorer(likers LikerSource, embed Embedder, cfg Config, log *logger.Logger) *CommunityScorer {
	return &CommunityScorer{
		likers: likers,
		embed:  embed,
		cfg:    cfg,
		log:    log.With("component", "CommunityScorer"),
	}
}

// Boosts returns one boost per option, index-aligned, each >= 1. A failed
// liker lookup leaves that candidate at the identity boost.
func (s *CommunityScorer) Boosts(ctx context.Context, requester *types.User, options []*types.Option) []float64 {
	boosts := make([]float64, len(options))
	for i := range boosts {
		boosts[i] = 1
	}
	if len(options) == 0 {
		return boosts
	}

	likersByOption := s.fetchLikers(ctx, requester.ID, options)

	// Each other user is scored once, no matter how many candidates they
	// liked.
	unique := make(map[string]types.CommunityUser)
	for _, likers := range likersByOption {
		for _, u := range likers {
			unique[u.ID] = u
		}
	}
	if len(unique) == 0 {
		return boosts
	}

	similarity := s.userSimilarities(ctx, requester, unique)

	for i, likers := range likersByOption {
		if len(likers) == 0 {
			continue
		}
		sum := 0.0
		for _, u := range likers {
			// Every like contributes at least 1, so more likes always raise
			// the boost; the +1 shift keeps the radicand non-negative.
			sum += similarity[u.ID] + 1
		}
		boosts[i] = math.Sqrt(1 + sum)
	}
	return boosts
}

// fetchLikers looks up each candidate's likers concurrently, dropping the
// requester's own like from every list.
func (s *CommunityScorer) fetchLikers(ctx context.Context, requesterID string, options []*types.Option) [][]types.CommunityUser {
	likersByOption := make([][]types.CommunityUser, len(options))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FanOutLimit)

	for i, opt := range options {
		i, opt := i, opt
		g.Go(func() error {
			likers, err := s.likers.LikersOf(gctx, opt.Place.ID)
			if err != nil {
				s.log.Warn("Community like lookup failed, boosting neutrally",
					"place_id", opt.Place.ID,
					"error", err,
				)
				return nil
			}
			kept := likers[:0]
			for _, u := range likers {
				if u.ID != requesterID {
					kept = append(kept, u)
				}
			}
			likersByOption[i] = kept
			return nil
		})
	}
	_ = g.Wait()

	return likersByOption
}

// userSimilarities scores every unique other user against the requester as
// the mean of interest-embedding cosine similarity and liked-place Jaccard
// similarity.
func (s *CommunityScorer) userSimilarities(ctx context.Context, requester *types.User, unique map[string]types.CommunityUser) map[string]float64 {
	ids := make([]string, 0, len(unique))
	for id := range unique {
		ids = append(ids, id)
	}

	interestSim := s.interestSimilarities(ctx, requester, ids, unique)

	requesterLikes := requester.LikedPlaceIDs()
	similarity := make(map[string]float64, len(ids))
	for _, id := range ids {
		likeSim := jaccard(requesterLikes, unique[id].LikedPlaceIDs)
		similarity[id] = (interestSim[id] + likeSim) / 2
	}
	return similarity
}

// interestSimilarities embeds the requester's interest text and every other
// user's in one batch. Users with no interests, or any embedding failure,
// contribute 0 on the interest half.
func (s *CommunityScorer) interestSimilarities(ctx context.Context, requester *types.User, ids []string, unique map[string]types.CommunityUser) map[string]float64 {
	sims := make(map[string]float64, len(ids))

	requesterText := requester.InterestText()
	if requesterText == "" {
		return sims
	}

	inputs := []string{requesterText}
	withInterests := make([]string, 0, len(ids))
	for _, id := range ids {
		text := unique[id].InterestText()
		if text == "" {
			continue
		}
		inputs = append(inputs, text)
		withInterests = append(withInterests, id)
	}
	if len(withInterests) == 0 {
		return sims
	}

	vecs, err := s.embed.Embed(ctx, inputs)
	if err != nil {
		s.log.Warn("Interest embedding for community similarity failed, using like overlap only", "error", err)
		return sims
	}

	requesterVec := vecs[0]
	for i, id := range withInterests {
		sims[id] = CosineSimilarity(requesterVec, vecs[i+1])
	}
	return sims
}

// jaccard is intersection over union of two identifier sets; 0 when either
// is empty.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inA := make(map[string]struct{}, len(a))
	for _, id := range a {
		inA[id] = struct{}{}
	}
	seenB := make(map[string]struct{}, len(b))
	intersection := 0
	union := len(inA)
	for _, id := range b {
		if _, dup := seenB[id]; dup {
			continue
		}
		seenB[id] = struct{}{}
		if _, shared := inA[id]; shared {
			intersection++
		} else {
			union++
		}
	}
	return float64(intersection) / float64(union)
}
