package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telecare/config"
	"telecare/cron"
	"telecare/database"
	bookingRepoPkg "telecare/database/repository/booking"
	formRepoPkg "telecare/database/repository/form"
	overrideRepoPkg "telecare/database/repository/override"
	providerRepoPkg "telecare/database/repository/provider"
	recordsRepoPkg "telecare/database/repository/records"
	slotRepoPkg "telecare/database/repository/slot"
	"telecare/handlers"
	"telecare/middleware"
	"telecare/routes"
	"telecare/services/availability"
	bookingSvc "telecare/services/booking"
	"telecare/services/events"
	formSvc "telecare/services/form"
	"telecare/services/notification"
	paymentSvc "telecare/services/payment"
	providerSvc "telecare/services/provider"
	slotSvc "telecare/services/slot"
	"telecare/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitSessionCache()

	location := config.ServiceLocation()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	provRepo := providerRepoPkg.NewMongoProviderRepo()
	overrideRepo := overrideRepoPkg.NewMongoOverrideRepo()
	formRepo := formRepoPkg.NewMongoFormRepo()
	recordsRepo := recordsRepoPkg.NewMongoRecordRepo()

	for name, ensure := range map[string]func() error{
		"slots":     slotRepo.EnsureIndexes,
		"bookings":  bookingRepo.EnsureIndexes,
		"providers": provRepo.EnsureIndexes,
		"overrides": overrideRepo.EnsureIndexes,
		"forms":     formRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	// services.
	publisher := events.NewRedisPublisher(utils.GetCacheClient(), logger)
	sessionRegistry := notification.NewRedisSessionRegistry(utils.GetSessionCacheClient())
	notificationService := notification.NewDefaultNotificationService(
		sessionRegistry, utils.GetSessionCacheClient(), logger)

	slotService := &slotSvc.DefaultSlotService{
		Repo:      slotRepo,
		Providers: provRepo,
		Records:   recordsRepo,
		Events:    publisher,
		Logger:    logger,
		Location:  location,
	}

	availabilityService := &availability.DefaultAvailabilityService{
		Providers: provRepo,
		Overrides: overrideRepo,
		Bookings:  bookingRepo,
		Policy:    config.AppConfig.AssignmentPolicy,
		Logger:    logger,
		Location:  location,
	}

	bookingService := &bookingSvc.DefaultBookingService{
		Repo:         bookingRepo,
		Slots:        slotService,
		Availability: availabilityService,
		Notifier:     notificationService,
		Events:       publisher,
		Logger:       logger,
	}

	providerService := &providerSvc.DefaultProviderService{
		Repo:      provRepo,
		Overrides: overrideRepo,
		Logger:    logger,
		Location:  location,
	}

	formService := &formSvc.DefaultFormService{
		Repo:   formRepo,
		Logger: logger,
	}

	queueClient := cron.NewQueueClient()
	defer queueClient.Close()

	paymentService := &paymentSvc.DefaultPaymentService{
		Bookings: bookingService,
		Repo:     bookingRepo,
		Forms:    formRepo,
		Slots:    slotService,
		Records:  recordsRepo,
		Queue:    queueClient,
		Events:   publisher,
		Logger:   logger,
	}

	cron.InitWorker(slotService, location)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Slots:     slotService,
		Bookings:  bookingService,
		Providers: providerService,
		Forms:     formService,
		Payments:  paymentService,
		Records:   recordsRepo,
		Sessions:  sessionRegistry,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

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
