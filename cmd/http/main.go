package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paybridge-service/internal/app/config"
	"paybridge-service/internal/app/delivery/http/controllers"
	"paybridge-service/internal/app/delivery/http/middlewares"
	"paybridge-service/internal/app/delivery/http/routers"
	"paybridge-service/internal/app/drivers/database"
	"paybridge-service/internal/app/drivers/logger"
	"paybridge-service/internal/app/drivers/messaging"
	"paybridge-service/internal/app/drivers/storage"
	"paybridge-service/internal/app/services/core/sessions"
	"paybridge-service/internal/app/services/core/verification"
	"paybridge-service/internal/app/services/core/webhook"
	"paybridge-service/internal/app/services/shared/audit"
	"paybridge-service/internal/app/services/shared/payment_gateway"
	"paybridge-service/internal/app/services/shared/paymentevents"
	"paybridge-service/internal/app/services/shared/redisstore"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	startupLog := logger.NewLogrusLogger(internalConfig)

	if err := internalConfig.Validate(); err != nil {
		startupLog.Fatalf("Invalid configuration: %v", err)
	}

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Minio:          minioClient,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	bootstrapTheApp(bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			startupLog.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	startupLog.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		startupLog.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		startupLog.Fatalf("Failed to release resources: %v", err)
	}

	startupLog.Println("Server exiting")
}

func bootstrapTheApp(bootstrap config.Bootstrap) {
	mongoDatabase := bootstrap.MongoDB.Database(bootstrap.DriverConfig.MongoDB.DbName)

	// Middlewares
	appMiddlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)

	// Gateway
	hashEngine := payment_gateway.NewHashEngine(
		bootstrap.InternalConfig.PayU.MerchantKey,
		bootstrap.InternalConfig.PayU.MerchantSalt,
	)
	gatewayClient, err := payment_gateway.NewPayUClient(&bootstrap.InternalConfig.PayU, hashEngine, bootstrap.Logger)
	if err != nil {
		logrus.Fatalf("Failed to initialize gateway client: %v", err)
	}

	// Shared infrastructure
	dedupStore := redisstore.NewWebhookDedupStore(bootstrap.Redis)
	eventPublisher := paymentevents.NewRabbitMQPublisher(bootstrap.RabbitMQ, bootstrap.InternalConfig.App.PaymentEventsQueue)
	auditArchive := audit.NewMinioWebhookArchive(bootstrap.Minio, bootstrap.InternalConfig.App.RejectedWebhookBucketName)

	// Sessions
	sessionRepository := sessions.NewSessionMongoRepository(mongoDatabase)
	sessionUsecase := sessions.NewSessionUsecase(
		gatewayClient,
		sessionRepository,
		eventPublisher,
		hashEngine,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)

	// Webhook
	webhookUsecase := webhook.NewWebhookUsecase(
		sessionUsecase,
		sessionRepository,
		eventPublisher,
		dedupStore,
		auditArchive,
		hashEngine,
		bootstrap.Logger,
	)

	// Verification
	verificationUsecase := verification.NewVerificationUsecase(gatewayClient, bootstrap.InternalConfig, bootstrap.Logger)

	// Controllers
	paymentController := controllers.NewPaymentController(
		bootstrap.Logger,
		sessionUsecase,
		sessionRepository,
		verificationUsecase,
		bootstrap.InternalConfig,
	)
	webhookController := controllers.NewWebhookController(bootstrap.Logger, webhookUsecase)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, appMiddlewares, paymentController, webhookController)
}
