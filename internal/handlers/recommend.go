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

type RecommendationHandler struct {
	log    *logger.Logger
	recSvc services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, recSvc services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		log:    log.With("handler", "RecommendationHandler"),
		recSvc: recSvc,
	}
}

type recommendRequest struct {
	UserID   string         `json:"userId"`
	Query    string         `json:"query"`
	Count    int            `json:"count"`
	Settings types.Settings `json:"settings"`
}

// POST /api/recommend
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Count == 0 {
		req.Count = 10
	}

	options, err := h.recSvc.Recommend(c.Request.Context(), req.UserID, req.Query, req.Count, req.Settings)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("Recommendation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "recommendation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"options": options})
}
