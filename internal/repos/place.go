package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
)

// PlaceLikeRepo answers "who liked this place" for the community boost.
type PlaceLikeRepo interface {
	LikersOf(ctx context.Context, tx *gorm.DB, placeID string) ([]types.CommunityUser, error)
}

type placeLikeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlaceLikeRepo(db *gorm.DB, baseLog *logger.Logger) PlaceLikeRepo {
	repoLog := baseLog.With("repo", "PlaceLikeRepo")
	return &placeLikeRepo{db: db, log: repoLog}
}

func (pr *placeLikeRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return pr.db
}

func (pr *placeLikeRepo) LikersOf(ctx context.Context, tx *gorm.DB, placeID string) ([]types.CommunityUser, error) {
	var place types.LikedPlace
	err := pr.conn(tx).WithContext(ctx).
		Preload("Users.LikedPlaces").
		First(&place, "id = ?", placeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []types.CommunityUser{}, nil
	}
	if err != nil {
		return nil, err
	}

	likers := make([]types.CommunityUser, 0, len(place.Users))
	for _, u := range place.Users {
		likers = append(likers, types.CommunityUser{
			ID:            u.ID,
			Interests:     u.Interests,
			LikedPlaceIDs: u.LikedPlaceIDs(),
		})
	}
	return likers, nil
}
