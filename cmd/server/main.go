package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/enerlytics/enerlytics/internal/adapter/cache"
	"github.com/enerlytics/enerlytics/internal/adapter/client"
	"github.com/enerlytics/enerlytics/internal/adapter/http/fiber/handlers"
	"github.com/enerlytics/enerlytics/internal/adapter/http/fiber/middleware"
	"github.com/enerlytics/enerlytics/internal/adapter/queue"
	"github.com/enerlytics/enerlytics/internal/adapter/storage/postgres"
	"github.com/enerlytics/enerlytics/internal/adapter/vault"
	wsAdapter "github.com/enerlytics/enerlytics/internal/adapter/websocket"
	"github.com/enerlytics/enerlytics/internal/infrastructure/circuitbreaker"
	"github.com/enerlytics/enerlytics/internal/observability/telemetry"
	"github.com/enerlytics/enerlytics/internal/ports"
	"github.com/enerlytics/enerlytics/internal/scheduler"
	"github.com/enerlytics/enerlytics/internal/service/device"
	"github.com/enerlytics/enerlytics/internal/service/ingestion"
	"github.com/enerlytics/enerlytics/internal/service/notification"
	"github.com/enerlytics/enerlytics/internal/service/usage"
	"github.com/enerlytics/enerlytics/internal/service/user"
	"github.com/enerlytics/enerlytics/pkg/config"
)

const (
	serviceName    = "enerlytics"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting Enerlytics",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// 3. Resolve Secrets from Vault (optional)
	if cfg.Vault.Enabled {
		secrets, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
		if err != nil {
			logger.Fatal("Failed to connect to Vault", zap.Error(err))
		}
		if url, err := secrets.GetDatabaseURL(); err == nil {
			cfg.Database.URL = url
		} else {
			logger.Warn("Vault lookup for database URL failed, using config value", zap.Error(err))
		}
		if key, err := secrets.GetSendGridAPIKey(); err == nil {
			cfg.Notification.SendGridAPIKey = key
		} else {
			logger.Warn("Vault lookup for SendGrid key failed, using config value", zap.Error(err))
		}
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.Tracing.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, serviceVersion, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			logger.Error("Error closing database", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// 6. Initialize Cache (Redis, with in-memory fallback)
	var appCache ports.Cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL, logger)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to local cache", zap.Error(err))
		appCache = cache.NewLocalCache(time.Minute, logger)
	} else {
		appCache = redisCache
	}
	defer appCache.Close()

	// 7. Initialize Message Queue
	mq, err := newMessageQueue(cfg.Queue, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	defer mq.Close()

	// 8. Initialize Repositories
	deviceRepo := postgres.NewDeviceRepository(db, logger)
	userRepo := postgres.NewUserRepository(db, logger)
	pointStore := postgres.NewPointStore(db, logger)

	// 9. Initialize Services (Business Logic Layer)
	deviceService := device.NewService(deviceRepo, appCache, cfg.Redis.CacheTTL, logger)
	userService := user.NewService(userRepo, appCache, cfg.Redis.CacheTTL, logger)
	ingestionService := ingestion.NewService(mq, cfg.Queue.UsageTopic, logger)

	// 10. Start Telemetry Consumer
	writer := usage.NewWriter(pointStore, logger)
	if err := mq.Subscribe(cfg.Queue.UsageTopic, cfg.Queue.ConsumerGroup, writer.HandleEnergyUsageEvent); err != nil {
		logger.Fatal("Failed to subscribe to usage topic", zap.Error(err))
	}

	// 11. Start Threshold Aggregation Scheduler
	breaker := circuitbreaker.NewHTTPClient(breakerSettings(cfg), logger)
	deviceDirectory := client.NewDeviceClient(cfg.Services.DeviceBaseURL, cfg.Services.LookupTimeout, breaker, logger)
	userDirectory := client.NewUserClient(cfg.Services.UserBaseURL, cfg.Services.LookupTimeout, breaker, logger)

	aggregator := usage.NewAggregator(
		pointStore,
		deviceDirectory,
		userDirectory,
		mq,
		cfg.Queue.AlertTopic,
		cfg.Alerting.Window,
		cfg.Alerting.Message,
		logger,
	)

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	thresholdScheduler := scheduler.New("threshold-check", cfg.Alerting.Window, aggregator.CheckEnergyThresholds, logger)
	go thresholdScheduler.Start(rootCtx)

	// 12. Start Alert Fan-out (WebSocket + Email)
	alertHub := wsAdapter.NewAlertHub(logger)
	go alertHub.Run()
	if err := mq.Subscribe(cfg.Queue.AlertTopic, "alert-stream", alertHub.HandleAlertEvent); err != nil {
		logger.Fatal("Failed to subscribe alert hub", zap.Error(err))
	}

	if cfg.Notification.Enabled {
		provider := notification.NewSendGridProvider(
			cfg.Notification.SendGridAPIKey,
			cfg.Notification.FromEmail,
			cfg.Notification.FromName,
		)
		notifier := notification.NewService(provider, logger)
		if err := notifier.Start(mq, cfg.Queue.AlertTopic); err != nil {
			logger.Fatal("Failed to subscribe notification service", zap.Error(err))
		}
	}

	// 13. Initialize HTTP Server (Fiber)
	app := fiber.New(fiber.Config{
		AppName:      serviceName,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ErrorHandler: middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(cfg.HTTP.AllowedOrigins),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	registerRoutes(app, cfg, db, appCache, alertHub, deviceService, userService, ingestionService, logger)

	// 14. Start Server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
		logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 15. Wait for Shutdown Signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func newMessageQueue(cfg config.QueueConfig, logger *zap.Logger) (queue.MessageQueue, error) {
	switch cfg.Driver {
	case "rabbitmq":
		return queue.NewRabbitMQQueue(cfg.RabbitMQURL, logger)
	default:
		return queue.NewNATSQueue(cfg.NATSURL, logger)
	}
}

func breakerSettings(cfg *config.Config) circuitbreaker.Settings {
	settings := circuitbreaker.DefaultSettings("batch-lookup")
	if cfg.CircuitBreaker.MaxRequests > 0 {
		settings.MaxRequests = cfg.CircuitBreaker.MaxRequests
	}
	if cfg.CircuitBreaker.Interval > 0 {
		settings.Interval = cfg.CircuitBreaker.Interval
	}
	if cfg.CircuitBreaker.Timeout > 0 {
		settings.Timeout = cfg.CircuitBreaker.Timeout
	}
	return settings
}

func corsOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	out := origins[0]
	for _, o := range origins[1:] {
		out += "," + o
	}
	return out
}

func registerRoutes(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	appCache ports.Cache,
	alertHub *wsAdapter.AlertHub,
	deviceService ports.DeviceService,
	userService ports.UserService,
	ingestionService ports.IngestionService,
	logger *zap.Logger,
) {
	// Health checks
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "up"})
	})
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := postgres.Ping(ctx, db); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "down",
				"reason": "database unreachable",
			})
		}
		if err := appCache.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "down",
				"reason": "cache unreachable",
			})
		}
		return c.JSON(fiber.Map{"status": "up"})
	})

	// Prometheus metrics
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	api := app.Group("/api/v1")

	ingestionHandler := handlers.NewIngestionHandler(ingestionService, logger)
	api.Post("/ingestions", ingestionHandler.Ingest)

	deviceHandler := handlers.NewDeviceHandler(deviceService, logger)
	devices := api.Group("/devices")
	devices.Post("/", deviceHandler.Create)
	devices.Get("/", deviceHandler.List)
	devices.Get("/batch", deviceHandler.GetBatch)
	devices.Get("/owner/:ownerId", deviceHandler.ListByOwner)
	devices.Get("/:id", deviceHandler.Get)
	devices.Put("/:id", deviceHandler.Update)
	devices.Delete("/:id", deviceHandler.Delete)

	userHandler := handlers.NewUserHandler(userService, logger)
	users := api.Group("/users")
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/batch", userHandler.GetBatch)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Live alert stream
	app.Use("/ws/alerts", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/alerts", websocket.New(alertHub.Serve))
}
