package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KanujanS/LMS/internal/cache"
	"github.com/KanujanS/LMS/internal/clients"
	"github.com/KanujanS/LMS/internal/config"
	"github.com/KanujanS/LMS/internal/data"
	"github.com/KanujanS/LMS/internal/db"
	"github.com/KanujanS/LMS/internal/events"
	"github.com/KanujanS/LMS/internal/handler"
	"github.com/KanujanS/LMS/internal/logging"
	"github.com/KanujanS/LMS/internal/middleware"
	"github.com/KanujanS/LMS/internal/service"
)

func main() {
	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	logger := logging.New(zapLogger)
	ctx = logging.ContextWithLogger(ctx, logger)

	cfg, err := config.New()
	if err != nil {
		logger.Fatal(ctx, "cannot create config", zap.Error(err))
	}
	logger.Info(ctx, "created config")

	database, err := db.New(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "cannot create db", zap.Error(err))
	}
	defer database.Close()
	logger.Info(ctx, "connected db")

	userRepo := data.NewUserRepository(database)
	courseRepo := data.NewCourseRepository(database)
	purchaseRepo := data.NewPurchaseRepository(database)
	progressRepo := data.NewProgressRepository(database)

	redisConn := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})
	defer redisConn.Close()
	redisCache := cache.NewRedisCache(redisConn)

	uploader, err := clients.NewCloudinaryUploader(cfg.CloudinaryURL)
	if err != nil {
		logger.Fatal(ctx, "cannot create media uploader", zap.Error(err))
	}

	stripeClient := clients.NewStripeClient(
		cfg.StripeSecretKey,
		cfg.StripeWebhookSecret,
		cfg.Currency,
		cfg.CheckoutSuccessURL,
		cfg.CheckoutCancelURL,
	)

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaEnrollmentTopic)
	defer producer.Close()

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	courseService := service.NewCourseService(courseRepo, userRepo, purchaseRepo, progressRepo, uploader)
	paymentService := service.NewPaymentService(purchaseRepo, userRepo, courseRepo, stripeClient, producer)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(courseService, paymentService)
	courseHandler := handler.NewCourseHandler(courseService, redisCache, cfg.CatalogCacheTTL)
	educatorHandler := handler.NewEducatorHandler(courseService, authService, redisCache)
	webhookHandler := handler.NewWebhookHandler(stripeClient, paymentService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	r := chi.NewRouter()
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, 40<<20) // course thumbnails come in as multipart
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/users", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authMiddleware)
		userHandler.RegisterRoutes(r, authMiddleware)
	})

	r.Route("/courses", func(r chi.Router) {
		courseHandler.RegisterRoutes(r)
	})

	r.Route("/educator", func(r chi.Router) {
		educatorHandler.RegisterRoutes(r, authMiddleware)
	})

	r.Route("/webhooks", func(r chi.Router) {
		webhookHandler.RegisterRoutes(r)
	})

	port := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info(ctx, "Starting server", zap.String("port", port))

	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "cannot start http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info(ctx, "Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal(ctx, "server forced to shutdown", zap.Error(err))
	}
	logger.Info(ctx, "Server stopped")
}
