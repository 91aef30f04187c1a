// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/larrybwosi/realstate-sub001/config"
	"github.com/larrybwosi/realstate-sub001/cron"
	"github.com/larrybwosi/realstate-sub001/database"
	ledgerRepo "github.com/larrybwosi/realstate-sub001/database/repository/ledger"
	tenantRepo "github.com/larrybwosi/realstate-sub001/database/repository/tenant"
	"github.com/larrybwosi/realstate-sub001/handlers"
	"github.com/larrybwosi/realstate-sub001/middleware"
	"github.com/larrybwosi/realstate-sub001/routes"
	"github.com/larrybwosi/realstate-sub001/services/notification"
	"github.com/larrybwosi/realstate-sub001/services/payment"
	"github.com/larrybwosi/realstate-sub001/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	ledger := ledgerRepo.NewMongoLedgerRepo()
	tenants := tenantRepo.NewMongoTenantRepo()

	// gateway plumbing.
	tokenManager := payment.NewTokenManager(
		config.AppConfig.MpesaBaseURL,
		config.AppConfig.MpesaConsumerKey,
		config.AppConfig.MpesaConsumerSecret,
		config.AppConfig.MpesaTimeout,
	)
	gateway := payment.NewDarajaClient(
		config.AppConfig.MpesaBaseURL,
		tokenManager,
		config.AppConfig.MpesaShortcode,
		config.AppConfig.MpesaPasskey,
		config.AppConfig.MpesaCallbackURL,
		config.AppConfig.MpesaTimeout,
	)

	// services.
	notificationService, err := notification.NewDefaultNotificationService(tenants)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	paymentService := payment.NewPaymentService(ledger, gateway, notificationService, logger)
	paymentService.MaxReconcileAttempts = config.AppConfig.SweepMaxAttempts
	paymentService.SweepConcurrency = config.AppConfig.SweepConcurrency

	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)
	bookingHandler := handlers.NewBookingHandler(ledger, logger)

	// Register routes.
	routes.RegisterRoutes(router, paymentHandler, bookingHandler)

	// Background reconciliation sweep.
	cron.InitReconcileWorker(paymentService)

	utils.StartHealthMonitor(
		database.MongoClient,
		utils.GetCacheClient(),
		utils.GetQueueClient(),
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
