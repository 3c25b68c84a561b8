package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/clients/google"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/clients/openai"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/clients/redis"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/db"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/handlers"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/logger"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/recommend"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/repos"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/server"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/services"
	"github.com/Andrew-Chu-MetaU-Engineering/matador/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("PORT", "8080", log)
	allowedOrigins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)
	engineCfg := recommend.ConfigFromEnv(log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	placeLikeRepo := repos.NewPlaceLikeRepo(thePG, log)

	// Clients
	log.Info("Setting up Clients from main...")
	placesClient, err := google.NewPlacesClient(log)
	if err != nil {
		log.Error("Could not init PlacesClient", "error", err)
		os.Exit(1)
	}
	routesClient, err := google.NewRoutesClient(log)
	if err != nil {
		log.Error("Could not init RoutesClient", "error", err)
		os.Exit(1)
	}
	embedder, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAIClient", "error", err)
		os.Exit(1)
	}
	if embedCache, cacheErr := redis.NewEmbeddingCache(log); cacheErr != nil {
		log.Warn("Embedding cache unavailable, calling provider directly", "error", cacheErr)
	} else {
		embedder = openai.NewCachedClient(embedder, embedCache, log)
	}

	// Services
	log.Info("Setting up Services from main...")
	userService := services.NewUserService(thePG, log, userRepo)
	recommendationService := services.NewRecommendationService(
		thePG, log, engineCfg,
		userRepo, placeLikeRepo,
		placesClient, routesClient, embedder,
	)

	// Handlers
	log.Info("Setting up Handlers from main...")
	recommendationHandler := handlers.NewRecommendationHandler(log, recommendationService)
	userHandler := handlers.NewUserHandler(log, userService, recommendationService)

	// Router
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		RecommendationHandler: recommendationHandler,
		UserHandler:           userHandler,
		AllowedOrigins:        origins,
	})

	log.Info("Starting server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
