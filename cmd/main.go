package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studylane/studylane-backend/internal/catalog"
	"github.com/studylane/studylane-backend/internal/db"
	"github.com/studylane/studylane-backend/internal/handlers"
	"github.com/studylane/studylane-backend/internal/logger"
	"github.com/studylane/studylane-backend/internal/middleware"
	"github.com/studylane/studylane-backend/internal/observability"
	"github.com/studylane/studylane-backend/internal/repos"
	"github.com/studylane/studylane-backend/internal/retrieval"
	"github.com/studylane/studylane-backend/internal/server"
	"github.com/studylane/studylane-backend/internal/services"
	"github.com/studylane/studylane-backend/internal/utils"
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

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "studylane-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOTel(ctx)
		}()
	}

	// Catalog
	registry, err := catalog.Load(utils.GetEnv("SKILL_CATALOG_PATH", "", log))
	if err != nil {
		log.Error("Failed to load skill catalog", "error", err)
		os.Exit(1)
	}

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
	skillStateRepo := repos.NewSkillStateRepo(thePG, log)
	interactionRepo := repos.NewInteractionRepo(thePG, log)
	questionRepo := repos.NewQuestionRepo(thePG, log)
	chunkRepo := repos.NewKnowledgeChunkRepo(thePG, log)

	// Retrieval
	log.Info("Setting up retrieval from main...")
	var searcher retrieval.Searcher
	embedder, err := retrieval.NewOpenAIEmbedder(log)
	if err != nil {
		log.Warn("Embedder init failed, semantic retrieval disabled", "error", err)
	}
	vector, err := retrieval.NewQdrantSearcher(log)
	if err != nil {
		log.Warn("Vector store init failed, semantic retrieval disabled", "error", err)
	}
	var rdb *redis.Client
	if redisAddr := utils.GetEnv("REDIS_ADDR", "", log); redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: utils.GetEnv("REDIS_PASSWORD", "", log),
			DB:       utils.GetEnvAsInt("REDIS_DB", 0, log),
		})
	}
	if embedder != nil {
		embedder = retrieval.NewCachedEmbedder(log, embedder, rdb)
	}
	searcher = retrieval.NewBridge(log, embedder, vector, chunkRepo)

	// Services
	log.Info("Setting up Services from main...")
	masteryService := services.NewMasteryService(skillStateRepo, log)
	performanceService := services.NewPerformanceService(interactionRepo, log)
	questionRecommender := services.NewQuestionRecommender(questionRepo, log)
	contextService := services.NewContextService(searcher, log)
	interactionService := services.NewInteractionService(thePG, interactionRepo, questionRepo, masteryService, log)
	plannerService := services.NewPlannerService(registry, masteryService, performanceService, questionRecommender, contextService, log)

	// Handlers
	log.Info("Setting up handlers from main...")
	planHandler := handlers.NewPlanHandler(log, plannerService)
	answerHandler := handlers.NewAnswerHandler(log, interactionService)
	catalogHandler := handlers.NewCatalogHandler(registry)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		RequestLogger:  middleware.NewRequestLogger(log),
		PlanHandler:    planHandler,
		AnswerHandler:  answerHandler,
		CatalogHandler: catalogHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
