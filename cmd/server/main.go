package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	domainRepo "telecare-notifier/internal/domain/repository"
	"telecare-notifier/internal/infrastructure/config"
	"telecare-notifier/internal/infrastructure/oauth"
	"telecare-notifier/internal/infrastructure/persistence"
	"telecare-notifier/internal/infrastructure/router"
	"telecare-notifier/internal/interface/handler"
	notifierRepo "telecare-notifier/internal/interface/repository"
	"telecare-notifier/internal/usecase"
	"telecare-notifier/pkg/logger"
	"telecare-notifier/pkg/metrics"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Telecare Notifier")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up PostgreSQL connection
	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up MongoDB connection for the callback audit log
	log.Info("Connecting to MongoDB")
	mongoClient, mongoDB, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Metrics
	appMetrics := metrics.NewMetrics("telecare_notifier")

	// Set up repositories
	bookingRepo := notifierRepo.NewGormBookingRepository(gormDB)
	partyRepo := notifierRepo.NewGormPartyRepository(gormDB)
	notificationRepo := notifierRepo.NewGormNotificationRepository(gormDB)
	callbackLogRepo := notifierRepo.NewMongoCallbackLogRepository(mongoDB)

	// Push delivery capability
	var pushSender domainRepo.PushSender
	switch cfg.PushProvider {
	case "fcm":
		fcmOAuth := oauth.NewFCMOAuth(cfg.FCMCredentials, log)
		tokenSource, err := fcmOAuth.GetTokenSource(ctx)
		if err != nil {
			log.Fatal("Failed to set up FCM credentials", "error", err)
		}
		pushSender, err = notifierRepo.NewFCMPushSender(ctx, tokenSource, cfg.FCMProjectID, cfg.PushChunkSize, log)
		if err != nil {
			log.Fatal("Failed to create FCM push sender", "error", err)
		}
	default:
		pushSender = notifierRepo.NewExpoPushSender(cfg.ExpoPushURL, cfg.PushChunkSize, log)
	}
	log.Info("Push provider ready", "provider", cfg.PushProvider)

	// Set up usecases
	resolver := usecase.NewPartyResolver(partyRepo, log)
	updater := usecase.NewBookingUpdater(bookingRepo, log)
	dispatcher := usecase.NewDispatcher(resolver, notificationRepo, pushSender, appMetrics, log)
	paymentProcessor := usecase.NewPaymentProcessor(cfg.LiqPayPrivateKey, updater, resolver, dispatcher, callbackLogRepo, appMetrics, log)
	eventProcessor := usecase.NewEventProcessor(bookingRepo, partyRepo, resolver, dispatcher, appMetrics, log)

	// Set up HTTP handlers and routes
	webhookHandler := handler.NewWebhookHandler(paymentProcessor, appMetrics, log)
	eventHandler := handler.NewEventHandler(eventProcessor, appMetrics, log)
	broadcastHandler := handler.NewBroadcastHandler(eventProcessor, appMetrics, log)

	mux := chi.NewRouter()
	router.SetupRoutes(mux, cfg.AdminSecret, log, webhookHandler, eventHandler, broadcastHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Telecare Notifier stopped")
}
