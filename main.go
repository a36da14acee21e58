package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-storefront-payments/src/config"
	"go-storefront-payments/src/controllers"
	"go-storefront-payments/src/infrastructure"
	"go-storefront-payments/src/infrastructure/auth"
	"go-storefront-payments/src/infrastructure/gateway"
	"go-storefront-payments/src/infrastructure/log"
	"go-storefront-payments/src/infrastructure/metrics"
	"go-storefront-payments/src/infrastructure/mongo"
	"go-storefront-payments/src/infrastructure/rabbitmq"
	"go-storefront-payments/src/services/catalog"
	"go-storefront-payments/src/services/dlq"
	"go-storefront-payments/src/services/events"
	"go-storefront-payments/src/services/notification"
	notificationHandlers "go-storefront-payments/src/services/notification/handlers"
	"go-storefront-payments/src/services/order/domain/persistence"
	"go-storefront-payments/src/services/payment"

	_ "go-storefront-payments/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

// @title        Storefront Payments API
// @version      1.0
// @description  Checkout and payment verification for the storefront, backed by Razorpay.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := log.NewLogger()

	configs, err := config.LoadConfig()
	if err != nil {
		logger.Fatal(ctx, "Failed to load configuration", err)
	}
	logger.Info(ctx, "Configuration loaded successfully")

	client, err := mongo.Connect(ctx, configs)
	if err != nil {
		logger.Fatal(ctx, "Failed to connect to MongoDB", err)
	}
	defer client.Disconnect(context.Background())
	logger.Info(ctx, "MongoDB connection successful")

	orderRepository := persistence.NewOrderRepository(configs, client)
	if err := orderRepository.EnsureIndexes(ctx); err != nil {
		logger.Fatal(ctx, "Failed to create order indexes", err)
	}

	productRepository := catalog.NewProductRepository(mongo.Database(configs, client))
	if err := productRepository.EnsureIndexes(ctx); err != nil {
		logger.Fatal(ctx, "Failed to create product indexes", err)
	}
	catalogService := catalog.NewCatalogService(logger, productRepository)
	if err := seedProducts(ctx, catalogService, logger); err != nil {
		logger.Fatal(ctx, "Failed to seed products", err)
	}

	rabbitmqService, err := rabbitmq.NewRabbitMQService(configs.RabbitMQHostName, configs.RabbitMQExchange, configs.RabbitMQQueueName)
	if err != nil {
		logger.Fatal(ctx, "Failed to create RabbitMQ service", err)
	}
	defer rabbitmqService.Close()

	if !rabbitmqService.IsHealthy() {
		logger.Fatal(ctx, "RabbitMQ connection is not healthy", nil)
	}
	logger.Info(ctx, "RabbitMQ connection successful")

	recorder := metrics.NewRecorder()

	paymentService := payment.NewPaymentService(
		logger,
		orderRepository,
		orderRepository,
		productRepository,
		gateway.NewRazorpayGateway(configs.RazorpayKeyID, configs.RazorpayKeySecret),
		rabbitmqService,
		recorder,
		payment.Settings{
			KeySecret:      configs.RazorpayKeySecret,
			Currency:       configs.Currency,
			PublishRetries: 3,
			RetryDelay:     100 * time.Millisecond,
		},
	)
	notificationService := notification.NewNotificationService(logger)

	dlqHandler := dlq.NewDLQHandler(orderRepository, logger)

	eventListener := infrastructure.NewEventListener(rabbitmqService, logger)
	eventListener.RegisterHandler(events.PaymentInitiated, notificationHandlers.NewPaymentInitiatedEventHandler(rabbitmqService, logger))
	eventListener.RegisterHandler(events.PaymentCompleted, notificationHandlers.NewPaymentCompletedEventHandler(rabbitmqService, orderRepository, notificationService, logger))
	eventListener.RegisterHandler(events.PaymentFailed, notificationHandlers.NewPaymentFailedEventHandler(rabbitmqService, notificationService, logger))
	for _, topic := range events.Topics {
		eventListener.RegisterHandler(events.DLQ(topic), dlqHandler.ForTopic(topic))
	}

	go func() {
		if err := eventListener.StartListening(ctx); err != nil {
			logger.Fatal(ctx, "Failed to start event listeners", err)
		}
	}()
	logger.Info(ctx, "Event listeners started successfully")

	paymentController := controllers.NewPaymentController(
		paymentService,
		auth.Middleware(configs.JWTSecret),
		auth.RequireRole(configs.OpsRole),
		controllers.NewIPRateLimiter(configs.VerifyRateRPS, configs.VerifyRateBurst).Handler(),
	)
	catalogController := controllers.NewCatalogController(catalogService)

	app := fiber.New(fiber.Config{
		ReadBufferSize:  81920,
		WriteBufferSize: 81920,
		ServerHeader:    "Storefront-Payments",
		ErrorHandler:    controllers.ErrorHandler(logger),
	})

	app.Use(cors.New(cors.Config{
		AllowCredentials: true,
		AllowOriginsFunc: func(_ string) bool { return true },
	}))
	app.Use(recover.New())
	app.Use(recorder.Middleware())
	app.Use(controllers.RequestLogger(logger))

	app.Get("/api/swagger/*", fiberSwagger.WrapHandler)
	app.Get("/metrics", recorder.Handler())
	app.Get("/api/healthCheck", func(c *fiber.Ctx) error {
		if err := client.Ping(c.UserContext(), nil); err != nil {
			logger.Exception(c.UserContext(), "Health check: MongoDB ping failed", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
		}

		if !rabbitmqService.IsHealthy() {
			logger.Warn(c.UserContext(), "Health check: RabbitMQ connection is unhealthy")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "message queue connection failed",
			})
		}

		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})

	paymentController.Route(app)
	catalogController.Route(app)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	serverShutdown := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Starting server on port "+configs.HTTPPort)
		if err := app.Listen(":" + configs.HTTPPort); err != nil {
			serverShutdown <- err
		}
	}()

	select {
	case <-c:
		logger.Info(ctx, "Shutdown signal received, shutting down gracefully...")
	case err := <-serverShutdown:
		logger.Exception(ctx, "Server error occurred", err)
	}

	// stop listeners before the broker connection is closed
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Exception(ctx, "Server shutdown error", err)
	}

	logger.Info(ctx, "Server shutdown complete")
}

// seedProducts makes sure a fresh database has something to browse. Ids are
// fixed so restarts do not duplicate the catalog.
func seedProducts(ctx context.Context, catalogService catalog.CatalogService, logger log.Logger) error {
	products := []catalog.Product{
		{ID: "65a000000000000000000001", Name: "Cotton Crew T-Shirt", Description: "Soft everyday cotton tee", Price: 499, Stock: 120, Category: []string{"tshirts"}, Gender: "unisex"},
		{ID: "65a000000000000000000002", Name: "Linen Summer Shirt", Description: "Breathable linen shirt", Price: 1299, Discount: 10, Stock: 60, Category: []string{"shirts"}, Gender: "men"},
		{ID: "65a000000000000000000003", Name: "High-Rise Denim Jeans", Description: "Stretch denim, straight fit", Price: 1899, Stock: 45, Category: []string{"jeans"}, Gender: "women"},
		{ID: "65a000000000000000000004", Name: "Canvas Tote Bag", Description: "Heavy canvas tote with inner pocket", Price: 699, Stock: 80, Category: []string{"bags"}, Gender: "unisex"},
		{ID: "65a000000000000000000005", Name: "Wool Blend Scarf", Description: "Warm wool blend scarf", Price: 899, Discount: 15, Stock: 30, Category: []string{"accessories"}, Gender: "unisex"},
	}

	for _, product := range products {
		if err := catalogService.SeedProduct(ctx, product); err != nil {
			logger.Exception(ctx, "Failed to seed product: "+product.Name, err)
			return err
		}
	}

	logger.Info(ctx, "Products seeded successfully")
	return nil
}
