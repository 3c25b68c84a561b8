package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/handlers"
)

type RouterConfig struct {
	RecommendationHandler *handlers.RecommendationHandler
	UserHandler           *handlers.UserHandler
	AllowedOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/recommend", cfg.RecommendationHandler.Recommend)

		api.GET("/user/:id", cfg.UserHandler.GetUser)
		api.PUT("/user/:id/interests", cfg.UserHandler.UpdateInterests)
		api.GET("/user/:id/likes", cfg.UserHandler.GetLikes)
		api.PUT("/user/:id/like", cfg.UserHandler.LikeAndUpdateWeights)
	}

	return router
}
