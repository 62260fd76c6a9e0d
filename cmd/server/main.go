package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vikrant465/booking-service/internal/application"
	"github.com/Vikrant465/booking-service/internal/config"
	"github.com/Vikrant465/booking-service/internal/database"
	"github.com/Vikrant465/booking-service/internal/domain/ride"
	"github.com/Vikrant465/booking-service/internal/events"
	"github.com/Vikrant465/booking-service/internal/geo"
	"github.com/Vikrant465/booking-service/internal/handler"
	"github.com/Vikrant465/booking-service/internal/logger"
	"github.com/Vikrant465/booking-service/internal/middleware"
	"github.com/Vikrant465/booking-service/internal/repository"
	"github.com/Vikrant465/booking-service/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "booking-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting booking-service",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig.DSN(), log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(&repository.RideHistoryModel{}); err != nil {
		log.Fatal("failed to run auto-migration", zap.Error(err))
	}

	// Initialize Kafka publisher
	publisher := events.NewKafkaPublisher(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = publisher.Close() }()

	// Initialize the geocoding and directions client
	geoClient := geo.NewClient(
		cfg.GeoConfig.BaseURL,
		cfg.GeoConfig.AccessToken,
		cfg.GeoConfig.HTTPTimeout,
	)

	// Initialize application service
	bookingService := application.NewBookingService(
		session.NewStore(),
		geoClient,
		geoClient,
		ride.NewRateTableEstimator(),
		application.NewDispatchSimulator(cfg.DispatchDuration, cfg.DispatchTick, log),
		&application.StubPaymentGateway{},
		repository.NewGormHistoryRepository(db),
		publisher,
		cfg.SearchQuietWindow,
		log,
	)

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	historyHandler := handler.NewHistoryHandler(bookingService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())

	// Register health check routes
	healthHandler := handler.NewHealthHandler(db, "booking-service")
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup)
	historyHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down booking-service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("booking-service stopped")
}
