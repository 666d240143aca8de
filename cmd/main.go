package main

import (
	"context"
	"log"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"dineflow/internal/caching"
	"dineflow/internal/config"
	"dineflow/internal/handlers"
	"dineflow/internal/jobs/background"
	"dineflow/internal/messaging"
	"dineflow/internal/middleware"
	"dineflow/internal/realtime"
	"dineflow/internal/repositories"
	"dineflow/internal/services"
	"dineflow/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()

	// Database
	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(context.Background(), pool); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	// Redis cache
	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// RabbitMQ kitchen channel. The service degrades to log-only
	// notifications when the broker is down.
	kitchenNotifier := services.NewLogKitchenNotifier()
	amqpConn, err := messaging.New(cfg.AMQPURL)
	if err != nil {
		log.Printf("WARNING: RabbitMQ unavailable, kitchen notifications disabled: %v", err)
	} else {
		defer amqpConn.Close()
		kitchenNotifier = services.NewKitchenNotifier(messaging.NewPublisher(amqpConn))
	}

	// MinIO image storage
	minioSvc, err := services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to create MinIO client: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(context.Background(), cfg.ImageBucket); err != nil {
		log.Printf("WARNING: Failed to ensure image bucket: %v", err)
	}

	// Realtime hub
	hub := realtime.NewHub()
	go hub.Run()

	// Repositories
	tableRepo := repositories.NewTableRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	itemRepo := repositories.NewOrderItemRepo(pool)
	completedRepo := repositories.NewCompletedOrderRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	reportRepo := repositories.NewReportRepo(pool)
	foodRepo := repositories.NewFoodRepo(pool)

	// Seed the table pool on first boot.
	tables, err := tableRepo.List(context.Background())
	if err != nil {
		log.Fatalf("Failed to list tables: %v", err)
	}
	if len(tables) == 0 {
		if _, err := tableRepo.CreateRange(context.Background(), cfg.TableCount); err != nil {
			log.Fatalf("Failed to seed tables: %v", err)
		}
		log.Printf("Seeded %d tables", cfg.TableCount)
	}

	// Services
	tableSvc := services.NewTableService(pool, tableRepo, orderRepo, itemRepo, completedRepo, paymentRepo, hub)
	orderSvc := services.NewOrderService(pool, orderRepo, itemRepo, tableRepo, foodRepo, hub, kitchenNotifier)
	paymentSvc := services.NewPaymentService(pool, orderRepo, itemRepo, tableRepo, completedRepo, paymentRepo, cacheSvc, hub)
	reportingSvc := services.NewReportingService(reportRepo, cacheSvc)
	menuSvc := services.NewMenuService(foodRepo, minioSvc, cfg.ImageBucket, hub)

	// Background jobs
	scheduler, err := background.NewJobScheduler(reportingSvc)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Handlers
	tableHandlers := handlers.NewTableHandlers(tableSvc)
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	paymentHandlers := handlers.NewPaymentHandlers(paymentSvc)
	reportHandlers := handlers.NewReportHandlers(reportingSvc)
	menuHandlers := handlers.NewMenuHandlers(menuSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, amqpConn)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// Realtime feed. Clients pass ?client_id=... and send the same value as
	// X-Client-ID on REST calls so their own actions are not echoed back.
	e.GET("/ws", func(c echo.Context) error {
		hub.ServeWS(c.Response(), c.Request())
		return nil
	})

	// API routes
	v1 := e.Group("/v1")

	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.NewJWTConfig(cfg.JWTSecret)))

	staff := middleware.RequireRole(middleware.RoleManager, middleware.RoleWaiter)
	kitchen := middleware.RequireRole(middleware.RoleManager, middleware.RoleWaiter, middleware.RoleChef)
	managerOnly := middleware.RequireRole(middleware.RoleManager)

	// Table routes
	protected.GET("/tables", tableHandlers.ListTables, staff)
	protected.GET("/tables/:id", tableHandlers.GetTable, staff)
	protected.PUT("/tables/:id/status", tableHandlers.UpdateTableStatus, staff)
	protected.POST("/tables/initialize", tableHandlers.InitializeTables, managerOnly)

	// Order routes
	protected.GET("/orders", orderHandlers.ListOrders, kitchen)
	protected.POST("/orders", orderHandlers.CreateOrder, staff)
	protected.GET("/orders/:id", orderHandlers.GetOrder, kitchen)
	protected.PUT("/orders/:id/status", orderHandlers.UpdateOrderStatus, kitchen)
	protected.POST("/orders/:id/items", orderHandlers.AddOrderItem, staff)
	protected.PUT("/orders/:id/items/:item_id", orderHandlers.UpdateOrderItem, staff)
	protected.DELETE("/orders/:id/items/:item_id", orderHandlers.DeleteOrderItem, staff)
	protected.POST("/orders/:id/items/serve", orderHandlers.ServeOrderItems, staff)

	// Payment routes
	protected.POST("/payments/checkout", paymentHandlers.Checkout, staff)
	protected.GET("/payments", paymentHandlers.ListPayments, staff)
	protected.GET("/payments/:id", paymentHandlers.GetReceipt, staff)

	// Menu routes
	protected.GET("/menu", menuHandlers.ListFoods, kitchen)
	protected.GET("/menu/:id", menuHandlers.GetFood, kitchen)
	protected.POST("/menu", menuHandlers.CreateFood, managerOnly)
	protected.PUT("/menu/:id", menuHandlers.UpdateFood, managerOnly)
	protected.PUT("/menu/:id/availability", menuHandlers.SetFoodAvailability, staff)
	protected.POST("/menu/:id/image", menuHandlers.UploadFoodImage, managerOnly)
	protected.DELETE("/menu/:id", menuHandlers.DeleteFood, managerOnly)

	// Report routes
	protected.GET("/reports/revenue", reportHandlers.Revenue, managerOnly)
	protected.GET("/reports/top-foods", reportHandlers.TopFoods, managerOnly)
	protected.GET("/reports/employees", reportHandlers.EmployeeSummary, managerOnly)
	protected.GET("/reports/dashboard", reportHandlers.Dashboard, managerOnly)

	log.Printf("Dineflow server v%s starting on port %s", version, cfg.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
