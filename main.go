package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ISTS-2025/project-repository-service/internal/auth"
	"github.com/ISTS-2025/project-repository-service/internal/authz"
	"github.com/ISTS-2025/project-repository-service/internal/cache"
	"github.com/ISTS-2025/project-repository-service/internal/config"
	"github.com/ISTS-2025/project-repository-service/internal/events"
	"github.com/ISTS-2025/project-repository-service/internal/handlers"
	"github.com/ISTS-2025/project-repository-service/internal/repositories/postgres"
	"github.com/ISTS-2025/project-repository-service/internal/services"
	"github.com/ISTS-2025/project-repository-service/internal/storage"
	"github.com/ISTS-2025/project-repository-service/internal/utils"
	"github.com/ISTS-2025/project-repository-service/internal/validator"
	"github.com/ISTS-2025/project-repository-service/pkg"
)

func main() {
	seed := flag.Bool("seed", false, "install the role, permission and career catalogs, then exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis: %v", err)
		}
	}

	// Initialize repositories
	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}
	repo := repoManager.GetRepository()

	if *seed {
		if err := services.Seed(context.Background(), repo, slogLogger); err != nil {
			log.Fatalf("Seed failed: %v", err)
		}
		return
	}

	// Authorization gate with a cached subject resolver
	subjectCache := cache.NewCacheHelper(redisClient, cache.SubjectCacheConfig.Prefix)
	gate := authz.NewDefaultGate(authz.NewSubjectResolver(repo, subjectCache))

	// Event bus: Kafka when brokers are configured, in-process otherwise
	var publisher events.EventPublisher
	var subscriber message.Subscriber
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, slogLogger)
		if err != nil {
			log.Fatalf("Failed to create Kafka publisher: %v", err)
		}
		kafkaSubscriber, err := events.NewKafkaSubscriber(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, slogLogger)
		if err != nil {
			log.Fatalf("Failed to create Kafka subscriber: %v", err)
		}
		publisher = events.NewEventPublisher(kafkaPublisher, slogLogger)
		subscriber = kafkaSubscriber
	} else {
		bus := events.NewGoChannelBus(slogLogger)
		publisher = events.NewEventPublisher(bus, slogLogger)
		subscriber = bus
	}

	// Avatar storage
	store, err := storage.NewStorage(cfg.Upload)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize services
	serviceManager := services.NewServiceManager(services.Dependencies{
		DB:           db,
		Repo:         repo,
		Logger:       slogLogger,
		Validator:    validator.New(),
		Gate:         gate,
		Tokens:       auth.NewTokenManager(cfg.JWT),
		Publisher:    publisher,
		Subscriber:   subscriber,
		Storage:      store,
		ProjectCache: cache.NewCacheHelper(redisClient, cache.ProjectCacheConfig.Prefix),
		Config:       cfg,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, logger, auth.NewTokenManager(cfg.JWT))

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	// Avatars are served statically when stored on local disk
	if cfg.Upload.MinioEndpoint == "" {
		router.Static(cfg.Upload.URLPrefix, cfg.Upload.Dir)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	if err := repoManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown repositories: %v", err)
	}

	logger.Info("Server exited")
}
