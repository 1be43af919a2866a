package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pitstop/pitstop-api/internal/config"
	"github.com/pitstop/pitstop-api/internal/email"
	authHandler "github.com/pitstop/pitstop-api/internal/handler/auth"
	bookingHandler "github.com/pitstop/pitstop-api/internal/handler/booking"
	catalogHandler "github.com/pitstop/pitstop-api/internal/handler/catalog"
	chatHandler "github.com/pitstop/pitstop-api/internal/handler/chat"
	contentHandler "github.com/pitstop/pitstop-api/internal/handler/content"
	discountHandler "github.com/pitstop/pitstop-api/internal/handler/discount"
	healthHandler "github.com/pitstop/pitstop-api/internal/handler/health"
	paymentHandler "github.com/pitstop/pitstop-api/internal/handler/payment"
	planHandler "github.com/pitstop/pitstop-api/internal/handler/plan"
	reportHandler "github.com/pitstop/pitstop-api/internal/handler/report"
	settingHandler "github.com/pitstop/pitstop-api/internal/handler/setting"
	userHandler "github.com/pitstop/pitstop-api/internal/handler/user"
	walletHandler "github.com/pitstop/pitstop-api/internal/handler/wallet"
	"github.com/pitstop/pitstop-api/internal/middleware"
	"github.com/pitstop/pitstop-api/internal/repository/postgres"
	"github.com/pitstop/pitstop-api/internal/router"
	authService "github.com/pitstop/pitstop-api/internal/service/auth"
	availabilityService "github.com/pitstop/pitstop-api/internal/service/availability"
	bookingService "github.com/pitstop/pitstop-api/internal/service/booking"
	catalogService "github.com/pitstop/pitstop-api/internal/service/catalog"
	chatService "github.com/pitstop/pitstop-api/internal/service/chat"
	contentService "github.com/pitstop/pitstop-api/internal/service/content"
	discountService "github.com/pitstop/pitstop-api/internal/service/discount"
	paymentService "github.com/pitstop/pitstop-api/internal/service/payment"
	planService "github.com/pitstop/pitstop-api/internal/service/plan"
	reportService "github.com/pitstop/pitstop-api/internal/service/report"
	settingService "github.com/pitstop/pitstop-api/internal/service/setting"
	userService "github.com/pitstop/pitstop-api/internal/service/user"
	walletService "github.com/pitstop/pitstop-api/internal/service/wallet"
	"github.com/pitstop/pitstop-api/pkg/auth"
	"github.com/pitstop/pitstop-api/pkg/logger"
	redisBroker "github.com/pitstop/pitstop-api/pkg/messaging/redis"
	"github.com/pitstop/pitstop-api/pkg/metrics"
	"github.com/pitstop/pitstop-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	appLogger := logger.NewLogger(nil)
	zl := appLogger.ZL

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redisBroker.NewRedisBroker(redisBroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &zl)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("pitstop", "api")

	userRepo := postgres.NewUserRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	availRepo := postgres.NewAvailabilityRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	discountRepo := postgres.NewDiscountRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	contentRepo := postgres.NewContentRepository(db)
	walletRepo := postgres.NewWalletRepository(db)
	chatRepo := postgres.NewChatRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	settingRepo := postgres.NewSettingRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	jwtSvc := auth.NewJWTService(auth.JWTConfig{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	hasher := security.NewBcryptHasher(0)
	emailSvc := email.NewSMTPService(cfg.SMTP)

	availSvc := availabilityService.NewService(availRepo, bookingRepo, catalogRepo, cfg.Availability)
	authSvc := authService.NewService(userRepo, tokenRepo, jwtSvc, hasher, emailSvc, &zl)
	userSvc := userService.NewService(userRepo)
	catalogSvc := catalogService.NewService(catalogRepo)
	discountSvc := discountService.NewService(discountRepo)
	bookingSvc := bookingService.NewService(bookingRepo, paymentRepo, outboxRepo, userRepo, catalogRepo, availSvc, discountSvc, emailSvc, &zl)
	paymentSvc := paymentService.NewService(paymentRepo, &zl)
	planSvc := planService.NewService(planRepo)
	contentSvc := contentService.NewService(contentRepo)
	walletSvc := walletService.NewService(walletRepo)
	chatSvc := chatService.NewService(chatRepo, broker, &zl)
	reportSvc := reportService.NewService(reportRepo)
	settingSvc := settingService.NewService(settingRepo)

	authMW := middleware.NewAuthMiddleware(jwtSvc)

	handlers := &router.Handlers{
		Health:   healthHandler.NewHandler(db),
		Auth:     authHandler.NewHandler(authSvc),
		User:     userHandler.NewHandler(userSvc),
		Catalog:  catalogHandler.NewHandler(catalogSvc),
		Booking:  bookingHandler.NewHandler(bookingSvc, availSvc, m),
		Payment:  paymentHandler.NewHandler(paymentSvc, cfg.Payment.WebhookSecret, m),
		Discount: discountHandler.NewHandler(discountSvc),
		Plan:     planHandler.NewHandler(planSvc),
		Content:  contentHandler.NewHandler(contentSvc),
		Wallet:   walletHandler.NewHandler(walletSvc),
		Chat:     chatHandler.NewHandler(chatSvc),
		Report:   reportHandler.NewHandler(reportSvc),
		Setting:  settingHandler.NewHandler(settingSvc),
	}

	engine := router.New(cfg, handlers, authMW, &zl)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error(err, "forced shutdown")
	}
}
