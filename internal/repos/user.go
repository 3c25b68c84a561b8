package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/apperr"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
)

type UserRepo interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID string) (*types.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID string) (*types.User, error)
	UpdateInterests(ctx context.Context, tx *gorm.DB, userID string, interests []string) error
	SetWeights(ctx context.Context, tx *gorm.DB, userID string, weights types.Weights) error
	AddLike(ctx context.Context, tx *gorm.DB, userID, placeID string) error
	RemoveLike(ctx context.Context, tx *gorm.DB, userID, placeID string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return ur.db
}

func (ur *userRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, userID string) (*types.User, error) {
	if userID == "" {
		return nil, apperr.ErrInvalidArgument
	}

	user := types.User{
		ID:               userID,
		Interests:        []string{},
		WeightInterest:   1,
		WeightPreference: 1,
		WeightTransit:    1,
	}
	if err := ur.conn(tx).WithContext(ctx).
		Where(types.User{ID: userID}).
		Preload("LikedPlaces").
		FirstOrCreate(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, userID string) (*types.User, error) {
	var user types.User
	err := ur.conn(tx).WithContext(ctx).
		Preload("LikedPlaces").
		First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *userRepo) UpdateInterests(ctx context.Context, tx *gorm.DB, userID string, interests []string) error {
	if interests == nil {
		interests = []string{}
	}
	result := ur.conn(tx).WithContext(ctx).
		Model(&types.User{ID: userID}).
		Update("interests", interests)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (ur *userRepo) SetWeights(ctx context.Context, tx *gorm.DB, userID string, weights types.Weights) error {
	result := ur.conn(tx).WithContext(ctx).
		Model(&types.User{ID: userID}).
		Updates(map[string]interface{}{
			"weight_interest":   weights.Interest,
			"weight_preference": weights.Preference,
			"weight_transit":    weights.Transit,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (ur *userRepo) AddLike(ctx context.Context, tx *gorm.DB, userID, placeID string) error {
	conn := ur.conn(tx).WithContext(ctx)

	place := types.LikedPlace{ID: placeID}
	if err := conn.Where(types.LikedPlace{ID: placeID}).FirstOrCreate(&place).Error; err != nil {
		return err
	}
	return conn.Model(&types.User{ID: userID}).
		Association("LikedPlaces").
		Append(&place)
}

func (ur *userRepo) RemoveLike(ctx context.Context, tx *gorm.DB, userID, placeID string) error {
	return ur.conn(tx).WithContext(ctx).
		Model(&types.User{ID: userID}).
		Association("LikedPlaces").
		Delete(&types.LikedPlace{ID: placeID})
}
