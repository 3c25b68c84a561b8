package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/apperr"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/repos"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
)

type UserService interface {
	// GetProfile returns the user's profile, creating a fresh one on first
	// sight of the identifier.
	GetProfile(ctx context.Context, userID string) (*types.User, error)
	UpdateInterests(ctx context.Context, userID string, interests []string) (*types.User, error)
	GetLikes(ctx context.Context, userID string) ([]*types.LikedPlace, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
	}
}

func (us *userService) GetProfile(ctx context.Context, userID string) (*types.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id required", apperr.ErrInvalidArgument)
	}
	return us.userRepo.GetOrCreate(ctx, nil, userID)
}

func (us *userService) UpdateInterests(ctx context.Context, userID string, interests []string) (*types.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id required", apperr.ErrInvalidArgument)
	}

	cleaned := make([]string, 0, len(interests))
	for _, interest := range interests {
		interest = strings.TrimSpace(interest)
		if interest != "" {
			cleaned = append(cleaned, interest)
		}
	}

	if err := us.userRepo.UpdateInterests(ctx, nil, userID, cleaned); err != nil {
		return nil, fmt.Errorf("update interests: %w", err)
	}
	return us.userRepo.GetByID(ctx, nil, userID)
}

func (us *userService) GetLikes(ctx context.Context, userID string) ([]*types.LikedPlace, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	return user.LikedPlaces, nil
}
