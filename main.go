package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-ordering-api/cache"
	"food-ordering-api/config"
	"food-ordering-api/events"
	"food-ordering-api/handlers"
	"food-ordering-api/logger"
	"food-ordering-api/middleware"
	"food-ordering-api/routes"
	"food-ordering-api/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}
	appLog := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(appLog)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	startCtx, cancel := config.WithTimeout(15 * time.Second)
	db, err := config.OpenStore(startCtx, cfg.Database)
	cancel()
	if err != nil {
		log.Fatalf("❌ database: %v", err)
	}
	defer db.Close()
	log.Printf("✅ Database connected (%s)", cfg.Database.Driver)

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		p, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatalf("❌ rabbitmq: %v", err)
		}
		publisher = p
		log.Printf("✅ RabbitMQ connected, exchange %s", cfg.AMQPExchange)
	}
	defer publisher.Close()

	var limiter gin.HandlerFunc
	if cfg.RedisURL != "" {
		redisCtx, cancel := config.WithTimeout(5 * time.Second)
		rdb, err := config.ConnectRedis(redisCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Fatalf("❌ redis: %v", err)
		}
		defer rdb.Close()
		limiter = middleware.RateLimiter(rdb, cfg.RateLimit, cfg.RateWindow, logger.WithComponent(appLog, "ratelimit"))
		log.Printf("✅ Redis rate limiter enabled (%d req / %s)", cfg.RateLimit, cfg.RateWindow)
	}

	tokens, err := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("❌ token service: %v", err)
	}
	authSvc := services.NewAuthService(db, tokens, appLog)

	if err := handlers.RegisterValidators(); err != nil {
		log.Fatalf("❌ validators: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLogger(logger.WithComponent(appLog, "http")))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "🍛 Welcome to the Food Ordering API",
			"docs":    "/api/routes",
			"health":  "/health",
			"roles":   []string{"user", "admin"},
		})
	})

	routes.SetupRoutes(r, routes.Deps{
		Auth:      middleware.NewAuth(authSvc, appLog),
		DB:        db,
		Users:     handlers.NewAuthHandler(authSvc, appLog),
		Menu:      handlers.NewMenuHandler(services.NewMenuService(db, cache.NewMenuCache(cache.DefaultTTL), appLog), appLog),
		Orders:    handlers.NewOrderHandler(services.NewOrderService(db, publisher, appLog), appLog),
		Admins:    handlers.NewAdminHandler(services.NewAdminService(db, appLog), appLog),
		Customers: handlers.NewCustomerHandler(services.NewCustomerService(db), appLog),
		Limiter:   limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("shutdown signal received, draining connections...")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("server shutdown", "error", err)
	}
}
