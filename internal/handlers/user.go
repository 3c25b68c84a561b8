package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/apperr"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/services"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/types"
)

type UserHandler struct {
	log     *logger.Logger
	userSvc services.UserService
	recSvc  services.RecommendationService
}

func NewUserHandler(log *logger.Logger, userSvc services.UserService, recSvc services.RecommendationService) *UserHandler {
	return &UserHandler{
		log:     log.With("handler", "UserHandler"),
		userSvc: userSvc,
		recSvc:  recSvc,
	}
}

// GET /api/user/:id
// Creates a profile with the given id if not found, otherwise returns it.
func (uh *UserHandler) GetUser(c *gin.Context) {
	user, err := uh.userSvc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		uh.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type interestsRequest struct {
	Interests []string `json:"interests"`
}

// PUT /api/user/:id/interests
func (uh *UserHandler) UpdateInterests(c *gin.Context) {
	var req interestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := uh.userSvc.UpdateInterests(c.Request.Context(), c.Param("id"), req.Interests)
	if err != nil {
		uh.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GET /api/user/:id/likes
func (uh *UserHandler) GetLikes(c *gin.Context) {
	likes, err := uh.userSvc.GetLikes(c.Request.Context(), c.Param("id"))
	if err != nil {
		uh.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likedPlaces": likes})
}

type likeRequest struct {
	PlaceID  string          `json:"placeId"`
	Options  []*types.Option `json:"options"`
	IsUnlike bool            `json:"isUnlike"`
}

// PUT /api/user/:id/like
// Toggles a like and lets the weight learner update the user's blend weights
// from the event.
func (uh *UserHandler) LikeAndUpdateWeights(c *gin.Context) {
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := uh.recSvc.RecordPreference(c.Request.Context(), c.Param("id"), req.PlaceID, req.Options, req.IsUnlike)
	if err != nil {
		uh.respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (uh *UserHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		uh.log.Error("User request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
