package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/apperr"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/recommend"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/repos"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
)

type RecommendationService interface {
	// Recommend returns up to count candidates for the query, ranked
	// descending by blended score.
	Recommend(ctx context.Context, userID, query string, count int, settings types.Settings) ([]*types.Option, error)
	// RecordPreference toggles a like/unlike, learns new blend weights from
	// the event, and persists them.
	RecordPreference(ctx context.Context, userID, placeID string, returned []*types.Option, isUnlike bool) error
}

type recommendationService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	fetcher    *recommend.Fetcher
	interest   *recommend.InterestScorer
	preference *recommend.PreferenceScorer
	transit    *recommend.TransitScorer
	community  *recommend.CommunityScorer
}

func NewRecommendationService(
	db *gorm.DB,
	log *logger.Logger,
	cfg recommend.Config,
	userRepo repos.UserRepo,
	placeLikeRepo repos.PlaceLikeRepo,
	search recommend.PlaceSearcher,
	transitPlanner recommend.TransitPlanner,
	embedder recommend.Embedder,
) RecommendationService {
	serviceLog := log.With("service", "RecommendationService")
	likerSource := &repoLikerSource{db: db, repo: placeLikeRepo}
	return &recommendationService{
		db:         db,
		log:        serviceLog,
		userRepo:   userRepo,
		fetcher:    recommend.NewFetcher(search, transitPlanner, cfg, serviceLog),
		interest:   recommend.NewInterestScorer(embedder, cfg, serviceLog),
		preference: recommend.NewPreferenceScorer(cfg),
		transit:    recommend.NewTransitScorer(cfg),
		community:  recommend.NewCommunityScorer(likerSource, embedder, cfg, serviceLog),
	}
}

func (rs *recommendationService) Recommend(ctx context.Context, userID, query string, count int, settings types.Settings) ([]*types.Option, error) {
	log := rs.log.With("request_id", uuid.NewString(), "user_id", userID)

	if err := validateRequest(userID, query, count, settings); err != nil {
		return nil, err
	}

	user, err := rs.userRepo.GetOrCreate(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user profile: %w", err)
	}

	options, err := rs.fetcher.FetchOptions(ctx, query, count, settings)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	if len(options) == 0 {
		log.Info("No feasible candidates", "query", query)
		return []*types.Option{}, nil
	}

	interestScores, err := rs.interest.Score(ctx, query, user.Interests, options)
	if err != nil {
		return nil, err
	}
	preferenceScores := rs.preference.Score(settings, options)
	transitScores := rs.transit.Score(options)
	boosts := rs.community.Boosts(ctx, user, options)

	for i, opt := range options {
		opt.Scores = types.ScoreSet{
			Interest:   interestScores[i],
			Preference: preferenceScores[i],
			Transit:    transitScores[i],
		}
		opt.Boost = boosts[i]
	}

	recommend.Rank(options, user.Weights())

	log.Info("Recommendation ranked",
		"query", query,
		"requested", count,
		"returned", len(options),
	)
	return options, nil
}

func (rs *recommendationService) RecordPreference(ctx context.Context, userID, placeID string, returned []*types.Option, isUnlike bool) error {
	if userID == "" || placeID == "" {
		return fmt.Errorf("%w: user id and place id required", apperr.ErrInvalidArgument)
	}

	user, err := rs.userRepo.GetOrCreate(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("load user profile: %w", err)
	}

	if isUnlike {
		err = rs.userRepo.RemoveLike(ctx, nil, userID, placeID)
	} else {
		err = rs.userRepo.AddLike(ctx, nil, userID, placeID)
	}
	if err != nil {
		return fmt.Errorf("toggle like: %w", err)
	}

	likedIndex := -1
	scores := make([]types.ScoreSet, len(returned))
	for i, opt := range returned {
		scores[i] = opt.Scores
		if opt.Place.ID == placeID {
			likedIndex = i
		}
	}

	newWeights := recommend.LearnWeights(scores, likedIndex, user.Weights(), isUnlike)
	if err := rs.userRepo.SetWeights(ctx, nil, userID, newWeights); err != nil {
		return fmt.Errorf("persist weights: %w", err)
	}

	rs.log.Info("Preference recorded",
		"user_id", userID,
		"place_id", placeID,
		"is_unlike", isUnlike,
		"liked_index", likedIndex,
	)
	return nil
}

func validateRequest(userID, query string, count int, settings types.Settings) error {
	switch {
	case userID == "":
		return fmt.Errorf("%w: user id required", apperr.ErrInvalidArgument)
	case query == "":
		return fmt.Errorf("%w: query required", apperr.ErrInvalidArgument)
	case count <= 0:
		return fmt.Errorf("%w: candidate count must be positive", apperr.ErrInvalidArgument)
	case settings.OriginAddress == "":
		return fmt.Errorf("%w: origin address required", apperr.ErrInvalidArgument)
	case settings.Budget < 0:
		return fmt.Errorf("%w: budget must be non-negative", apperr.ErrInvalidArgument)
	case settings.MinRating < 0:
		return fmt.Errorf("%w: minimum rating must be non-negative", apperr.ErrInvalidArgument)
	case settings.PreferredFare.IsStrong && settings.PreferredFare.Fare <= 0:
		return fmt.Errorf("%w: strict fare preference must be positive", apperr.ErrInvalidArgument)
	case settings.PreferredDuration.IsStrong && settings.PreferredDuration.DurationSeconds <= 0:
		return fmt.Errorf("%w: strict duration preference must be positive", apperr.ErrInvalidArgument)
	case settings.DepartureTime.IsZero():
		return fmt.Errorf("%w: departure time required", apperr.ErrInvalidArgument)
	}
	return nil
}

// repoLikerSource adapts the place-like repo to the engine's LikerSource.
type repoLikerSource struct {
	db   *gorm.DB
	repo repos.PlaceLikeRepo
}

func (ls *repoLikerSource) LikersOf(ctx context.Context, placeID string) ([]types.CommunityUser, error) {
	return ls.repo.LikersOf(ctx, nil, placeID)
}
