package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"celenk/internal/config"
	"celenk/internal/handlers"
	"celenk/internal/logging"
	"celenk/internal/middleware"
	"celenk/internal/repositories"
	"celenk/internal/seed"
	"celenk/internal/services"
	"celenk/pkg/emailjs"
	"celenk/pkg/imagestore"
	"celenk/pkg/paytr"
	"celenk/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the wired storefront API together with the resources it owns.
type App struct {
	Fiber         *fiber.App
	DB            *gorm.DB
	Notifications *services.NotificationService
	mq            *rabbitmq.Client
	logger        *zap.Logger
}

// NewApp opens the database, builds every service and registers the routes.
// Missing integrations degrade to their fallbacks instead of failing.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	logger = logging.OrNop(logger)
	for _, w := range cfg.Warnings() {
		logger.Warn("configuration", zap.String("warning", w))
	}

	// --- Database ---
	db, err := repositories.OpenDatabase(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := repositories.Migrate(db); err != nil {
		return nil, err
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	pricingRepo := repositories.NewGORMPricingRepository(db)
	settingsRepo := repositories.NewGORMSettingsRepository(db)
	blogRepo := repositories.NewGORMBlogRepository(db)
	adminRepo := repositories.NewGORMAdminRepository(db)

	// --- Integrations ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var mqClient *rabbitmq.Client
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Logger: logger})
		if err != nil {
			logger.Warn("RabbitMQ unavailable, notifications are delivered in-process", zap.Error(err))
		} else {
			publisher = mqClient
		}
	}

	var emailSender services.EmailSender
	if cfg.EmailJS.Enabled() {
		emailSender = emailjs.NewClient(emailjs.Config{
			ServiceID:  cfg.EmailJS.ServiceID,
			PublicKey:  cfg.EmailJS.PublicKey,
			PrivateKey: cfg.EmailJS.PrivateKey,
		}, httpClient)
	}

	var gateway services.PaymentGateway
	if cfg.PayTR.Enabled() {
		gateway = paytr.NewClient(paytr.Config{
			MerchantID:   cfg.PayTR.MerchantID,
			MerchantKey:  cfg.PayTR.MerchantKey,
			MerchantSalt: cfg.PayTR.MerchantSalt,
			TestMode:     cfg.PayTR.TestMode,
			OkURL:        cfg.PayTR.OkURL,
			FailURL:      cfg.PayTR.FailURL,
		}, httpClient)
	}

	var store services.ImageStore
	serveUploads := false
	if cfg.CloudinaryURL != "" {
		store, err = imagestore.NewCloudinary(cfg.CloudinaryURL, "celenk")
		if err != nil {
			return nil, err
		}
	} else {
		store, err = imagestore.NewLocal(cfg.UploadDir, cfg.BaseURL+"/uploads")
		if err != nil {
			return nil, err
		}
		serveUploads = true
	}

	// --- Services ---
	settingsService := services.NewSettingsService(settingsRepo, logger)
	pricingService := services.NewPricingService(pricingRepo, settingsService, logger)
	productService := services.NewProductService(productRepo, logger)
	notificationService := services.NewNotificationService(publisher, emailSender, services.NotificationConfig{
		AdminTemplateID:    cfg.EmailJS.AdminTemplateID,
		CustomerTemplateID: cfg.EmailJS.CustomerTemplateID,
		AdminEmail:         cfg.EmailJS.AdminEmail,
	}, logger)
	orderService := services.NewOrderService(orderRepo, pricingService, settingsService, notificationService, services.OrderServiceConfig{
		StoreWhatsApp: cfg.WhatsAppPhone,
		Location:      cfg.Location,
	}, logger)
	paymentService := services.NewPaymentService(gateway, orderService, settingsService, logger)
	authService := services.NewAuthService(adminRepo, cfg.SessionSecret, cfg.SessionTTL, logger)
	blogService := services.NewBlogService(blogRepo, logger)
	uploadService := services.NewUploadService(store, logger)

	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPasswordHash); err != nil {
		return nil, err
	}
	if cfg.SeedFile != "" {
		f, err := seed.Load(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		if _, err := seed.NewSeeder(productService, pricingService, settingsService, logger).Apply(ctx, f); err != nil {
			return nil, err
		}
	}

	// --- Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:   "celenk",
		BodyLimit: services.MaxUploadBytes + 1<<20,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: !strings.Contains(cfg.CORSOrigins, "*"),
	}))
	if serveUploads {
		app.Static("/uploads", cfg.UploadDir)
	}

	handlers.NewHealthHandler(db).RegisterRoutes(app)

	api := app.Group("/api", middleware.AdminSession(authService, logger))
	requireAdmin := middleware.AdminRequired()

	handlers.NewAuthHandler(authService, strings.HasPrefix(cfg.BaseURL, "https://"), logger).RegisterRoutes(api)
	handlers.NewProductHandler(productService, logger).RegisterRoutes(api, requireAdmin)
	handlers.NewOrderHandler(orderService, logger).RegisterRoutes(api, requireAdmin)
	handlers.NewPricingHandler(pricingService, logger).RegisterRoutes(api, requireAdmin)
	handlers.NewSettingsHandler(settingsService, logger).RegisterRoutes(api, requireAdmin)
	handlers.NewBlogHandler(blogService, logger).RegisterRoutes(api, requireAdmin)
	handlers.NewPaymentHandler(paymentService, logger).RegisterRoutes(api)
	handlers.NewUploadHandler(uploadService, logger).RegisterRoutes(api, requireAdmin)

	// --- Notification consumer ---
	if mqClient != nil {
		if err := mqClient.Consume(notificationService.HandleQueuedEvent); err != nil {
			logger.Warn("RabbitMQ consumer not started", zap.Error(err))
		} else {
			logger.Info("consuming order notifications", zap.String("queue", rabbitmq.OrderNotificationsQueue))
		}
	}

	return &App{
		Fiber:         app,
		DB:            db,
		Notifications: notificationService,
		mq:            mqClient,
		logger:        logger,
	}, nil
}

// Shutdown stops the HTTP server, drains pending notifications and closes
// the queue and database connections.
func (a *App) Shutdown(timeout time.Duration) error {
	var errs []error
	if err := a.Fiber.ShutdownWithTimeout(timeout); err != nil {
		errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
	}
	a.Notifications.Wait()
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	app, err := NewApp(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Starting server", zap.String("addr", cfg.AppPort))
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Shutting down server...")
	if err := app.Shutdown(10 * time.Second); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	logger.Info("Server gracefully stopped")
}
