package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"moneta.backend/internal/config"
	domainerrors "moneta.backend/internal/domain/errors"
	"moneta.backend/internal/infrastructure/jobs"
	"moneta.backend/internal/infrastructure/models"
	"moneta.backend/internal/infrastructure/repositories"
	"moneta.backend/internal/interfaces/http/handlers"
	"moneta.backend/internal/interfaces/http/middleware"
	"moneta.backend/internal/interfaces/http/response"
	"moneta.backend/internal/interfaces/http/validation"
	"moneta.backend/internal/usecases"
	"moneta.backend/pkg/jwt"
	"moneta.backend/pkg/logger"
	"moneta.backend/pkg/mailer"
	"moneta.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newSessionStore = redis.NewSessionStore
	runServer       = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register request validators
	if err := validation.Register(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	// Connect to database using GORM
	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(
			&models.User{},
			&models.Session{},
			&models.Verification{},
			&models.Wallet{},
			&models.Expense{},
			&models.Income{},
		); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Println("✅ Database migrations applied")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessExpiry,
		cfg.Auth.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	verificationRepo := repositories.NewVerificationRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize Session Store
	sessionStore, err := newSessionStore(cfg.Auth.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	// Initialize usecases
	mail := mailer.NewLogMailer(cfg.Mail.FromEmail)
	authUsecase := usecases.NewAuthUsecase(
		userRepo, sessionRepo, verificationRepo,
		jwtService, sessionStore, mail,
		cfg.Auth.SessionExpiry, cfg.Auth.ResetTokenExpiry, cfg.Auth.BaseURL,
	)
	walletUsecase := usecases.NewWalletUsecase(walletRepo, transactionRepo, uow)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	walletHandler := handlers.NewWalletHandler(walletUsecase)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupJob := jobs.NewSessionCleanupJob(sessionRepo, verificationRepo)
	go cleanupJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error(c.Request.Context(), "Panic recovered", zap.Any("panic", recovered))
		response.Error(c, domainerrors.InternalError(fmt.Errorf("panic: %v", recovered)))
	}))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerNoRouteHandler(r)
	registerRootRoute(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIRoutes(r, routeDeps{
		authHandler:       authHandler,
		walletHandler:     walletHandler,
		sessionMiddleware: middleware.SessionMiddleware(authUsecase),
		requireAuth:       middleware.RequireAuth(),
		authRateLimit:     middleware.RateLimitMiddleware(cfg.Auth.RateLimitRPS, cfg.Auth.RateLimitBurst),
		signInRateLimit:   middleware.RateLimitMiddleware(cfg.Auth.SignInRateLimitRPS, cfg.Auth.SignInRateLimitBurst),
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		cleanupJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 Moneta Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
