package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventsystem/service-booking/internal/application"
	"github.com/eventsystem/service-booking/internal/config"
	bookingDomain "github.com/eventsystem/service-booking/internal/domain/booking"
	bookingEvents "github.com/eventsystem/service-booking/internal/events"
	"github.com/eventsystem/service-booking/internal/handler"
	"github.com/eventsystem/service-booking/internal/platform/cache"
	"github.com/eventsystem/service-booking/internal/platform/database"
	"github.com/eventsystem/service-booking/internal/platform/health"
	"github.com/eventsystem/service-booking/internal/platform/kafka"
	"github.com/eventsystem/service-booking/internal/platform/logger"
	"github.com/eventsystem/service-booking/internal/platform/middleware"
	"github.com/eventsystem/service-booking/internal/repository"
	"github.com/eventsystem/service-booking/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.IsDevelopment() && cfg.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Connect to Redis for the booking view cache
	redisClient, err := cache.NewClient(ctx, cfg.RedisConfig)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	viewCache := cache.NewNamespace(redisClient, "booking_view", cfg.CacheTTL)

	// Connect to the media store
	mediaStore, err := storage.NewMinioStore(storage.Config{
		Endpoint:  cfg.StorageConfig.Endpoint,
		AccessKey: cfg.StorageConfig.AccessKey,
		SecretKey: cfg.StorageConfig.SecretKey,
		Bucket:    cfg.StorageConfig.Bucket,
		Region:    cfg.StorageConfig.Region,
		UseSSL:    cfg.StorageConfig.UseSSL,
	}, log)
	if err != nil {
		log.Fatal("failed to create media store client", zap.Error(err))
	}
	if err := mediaStore.EnsureBucket(ctx); err != nil {
		// Uploads retry bucket creation, so a store that is still starting is not fatal.
		log.Warn("media bucket not ready", zap.String("bucket", cfg.StorageConfig.Bucket), zap.Error(err))
	}

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	venueRepo := repository.NewGormVenueRepository(db)
	eventRepo := repository.NewGormEventRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	bookingViewRepo := repository.NewGormBookingViewRepository(db)

	// Initialize application services
	guard := bookingDomain.NewGuard(bookingRepo)
	notifier := application.NewChangeNotifier(kafkaProducer, viewCache, cfg.KafkaConfig.Topic, log)
	mediaService := application.NewMediaService(mediaStore, log)

	venueService := application.NewVenueService(venueRepo, guard, mediaService, notifier, log)
	eventService := application.NewEventService(eventRepo, guard, notifier, log)
	bookingService := application.NewBookingService(
		bookingRepo,
		bookingViewRepo,
		venueRepo,
		eventRepo,
		viewCache,
		notifier,
		log,
	)

	// Start the change event consumer in a goroutine
	changeConsumer := bookingEvents.NewChangeConsumer(
		cfg.KafkaConfig.Brokers,
		cfg.KafkaConfig.GroupID,
		cfg.KafkaConfig.Topic,
		viewCache,
		log,
	)
	defer func() { _ = changeConsumer.Close() }()

	go func() {
		log.Info("starting change event consumer", zap.String("topic", cfg.KafkaConfig.Topic))
		if err := changeConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("change event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	venueHandler := handler.NewVenueHandler(venueService)
	eventHandler := handler.NewEventHandler(eventService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	adminBookingHandler := handler.NewAdminBookingHandler(bookingService)

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}
	healthHandler := health.NewHandler(cfg.ServiceName, map[string]health.Check{
		"postgres": sqlDB.PingContext,
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
		"storage": mediaStore.Ping,
	}, log)
	healthHandler.RegisterRoutes(router)

	// Register routes
	venueHandler.RegisterRoutes(&router.RouterGroup)
	eventHandler.RegisterRoutes(&router.RouterGroup)
	bookingHandler.RegisterRoutes(&router.RouterGroup)
	adminBookingHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
