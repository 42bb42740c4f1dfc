package app

import (
	"context"
	"fmt"
	"time"

	"eduhealth_backend/database"
	"eduhealth_backend/internal/ai"
	"eduhealth_backend/internal/config"
	"eduhealth_backend/internal/email"
	"eduhealth_backend/internal/handlers"
	"eduhealth_backend/internal/logger"
	"eduhealth_backend/internal/middleware"
	"eduhealth_backend/internal/repositories"
	"eduhealth_backend/internal/routes"
	"eduhealth_backend/internal/services"
	"eduhealth_backend/internal/services/payment"
	"eduhealth_backend/internal/validator"
	"eduhealth_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ginRouter := SetupRouter(ctx, cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	// Repositories
	userRepo := repositories.NewUserRepository(gormDB)
	txRepo := repositories.NewTransactionRepository(gormDB)
	courseRepo := repositories.NewCourseRepository(gormDB)
	wellnessRepo := repositories.NewWellnessRepository(gormDB)
	chatRepo := repositories.NewChatRepository(gormDB)

	// External clients
	gateway := payment.NewPaystackClient(payment.PaystackConfig{
		SecretKey: cfg.Paystack.SecretKey,
		PublicKey: cfg.Paystack.PublicKey,
		BaseURL:   cfg.Paystack.BaseURL,
		Timeout:   time.Duration(cfg.Paystack.TimeoutSec) * time.Second,
	})
	aiClient := ai.NewClient(ai.Config{
		APIKey:        cfg.Groq.APIKey,
		BaseURL:       cfg.Groq.BaseURL,
		FastModel:     cfg.Groq.FastModel,
		BalancedModel: cfg.Groq.BalancedModel,
		Timeout:       time.Duration(cfg.Groq.TimeoutSec) * time.Second,
	})

	var sender email.Sender
	if cfg.Email.SMTPHost != "" {
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
	} else {
		logger.Warn("SMTP not configured, receipt emails disabled")
		sender = email.NoopSender{}
	}

	// Services
	pricing := payment.NewPricing(cfg.Paystack.Currency, cfg.Paystack.ExchangeRate)
	paymentService := payment.NewService(userRepo, txRepo, gateway, pricing, cfg.Paystack.CallbackURL)
	reconciler := payment.NewReconciler(txRepo, gateway).WithReceipts(userRepo, sender)

	authService := services.NewAuthService(userRepo)
	courseService := services.NewCourseService(courseRepo)
	wellnessService := services.NewWellnessService(wellnessRepo)
	chatService := services.NewChatService(chatRepo, courseRepo, wellnessRepo, aiClient)

	// Handlers
	base := handlers.NewBaseHandler(validator.New())
	appHandlers := &handlers.AppHandlers{
		AuthHandler:     handlers.NewAuthHandler(base, authService),
		PaymentHandler:  handlers.NewPaymentHandler(base, paymentService, reconciler),
		CourseHandler:   handlers.NewCourseHandler(base, courseService),
		WellnessHandler: handlers.NewWellnessHandler(base, wellnessService),
		ChatHandler:     handlers.NewChatHandler(base, chatService),
	}

	// Background workers
	workers.NewSubscriptionWorker(userRepo).Start(ctx)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers, userRepo)

	return ginRouter
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.CORSMiddleware(),
	)
	return ginRouter
}
