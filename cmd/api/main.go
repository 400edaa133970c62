package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/tetianalytvynovska/tax-system/api/swagger" // swagger docs
	"github.com/tetianalytvynovska/tax-system/internal/config"
	"github.com/tetianalytvynovska/tax-system/internal/database"
	"github.com/tetianalytvynovska/tax-system/internal/handler"
	"github.com/tetianalytvynovska/tax-system/internal/mail"
	"github.com/tetianalytvynovska/tax-system/internal/middleware"
	"github.com/tetianalytvynovska/tax-system/internal/repository"
	"github.com/tetianalytvynovska/tax-system/internal/service"
	"github.com/tetianalytvynovska/tax-system/internal/websocket"
)

// @title           TaxAgent API
// @version         1.0
// @description     Tax declaration management backend: reports, definitions, exports and admin analytics.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.NewConnection(cfg.DBPath)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("connected to sqlite database", zap.String("path", cfg.DBPath))

	if err := database.SeedAdmin(db, cfg.AdminName, cfg.AdminEmail, cfg.AdminIPN, cfg.AdminPassword); err != nil {
		logger.Fatal("admin seeding failed", zap.Error(err))
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(logger)
	go wsHub.Run()

	var mailer mail.Mailer
	if cfg.MailConfigured() {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPortString(), cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	} else {
		logger.Warn("SMTP not configured, 2FA codes will only be logged")
		mailer = mail.NewNoOpMailer(logger)
	}

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	defRepo := repository.NewTaxDefinitionRepository(db)
	reportRepo := repository.NewReportRepository(db)
	twoFactorRepo := repository.NewTwoFactorRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	authService := service.NewAuthService(userRepo, twoFactorRepo, auditRepo, mailer, string(middleware.GetJWTSecret()), logger)
	defService := service.NewTaxDefinitionService(defRepo, auditRepo, logger)
	reportService := service.NewReportService(reportRepo, defRepo, userRepo, txManager, auditRepo, wsHub, logger)
	summaryService := service.NewSummaryService(reportRepo, userRepo)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService, db, logger)
	reportHandler := handler.NewReportHandler(reportService, defService, db, logger)
	adminHandler := handler.NewAdminHandler(defService, summaryService, auditService, userRepo, db, logger)

	// Set up Gin Router
	router := gin.Default()
	router.Use(middleware.RequestID())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Request-ID"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	api := router.Group("/api")
	authHandler.RegisterRoutes(api)
	reportHandler.RegisterRoutes(api)
	adminHandler.RegisterRoutes(api)

	logger.Info("server listening", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
