package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RimBin/yakiwood-shop-sub002/config"
	catalogrepo "github.com/RimBin/yakiwood-shop-sub002/internal/catalog/repository"
	inventoryhandler "github.com/RimBin/yakiwood-shop-sub002/internal/inventory/handler"
	"github.com/RimBin/yakiwood-shop-sub002/internal/inventory/listener"
	inventoryrepo "github.com/RimBin/yakiwood-shop-sub002/internal/inventory/repository"
	inventoryusecase "github.com/RimBin/yakiwood-shop-sub002/internal/inventory/usecase"
	"github.com/RimBin/yakiwood-shop-sub002/internal/pricing"
	pricinghandler "github.com/RimBin/yakiwood-shop-sub002/internal/pricing/handler"
	pricingrepo "github.com/RimBin/yakiwood-shop-sub002/internal/pricing/repository"
	pricingusecase "github.com/RimBin/yakiwood-shop-sub002/internal/pricing/usecase"
	"github.com/RimBin/yakiwood-shop-sub002/pkg/broker"
	"github.com/RimBin/yakiwood-shop-sub002/pkg/cache"
	"github.com/RimBin/yakiwood-shop-sub002/pkg/database/postgres"
	"github.com/RimBin/yakiwood-shop-sub002/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	log := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer log.Sync()

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("redis unavailable, pricing rule cache disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	catalogRepo := catalogrepo.NewPGRepository(db)
	pricingRepo := pricingrepo.NewPGRepository(db)
	inventoryRepo := inventoryrepo.NewPGRepository(db)

	var pricingCache pricing.Cache
	if redisClient != nil {
		pricingCache = redisClient
	}
	pricingUC := pricingusecase.NewPricingUseCase(pricingRepo, catalogRepo, pricingCache, log, cfg.Pricing, cfg.Shipping)
	inventoryUC := inventoryusecase.NewInventoryUseCase(inventoryRepo, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer consumer.Close()

	orderListener := listener.NewInventoryListener(consumer, inventoryUC, log)
	go orderListener.Listen(ctx)

	if cfg.Server.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/api")
	pricinghandler.NewPricingHandler(pricingUC, cfg.JWT.SecretKey, log).RegisterRoutes(api)
	inventoryhandler.NewInventoryHandler(inventoryUC, log).RegisterRoutes(api)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         cfg.Server.HTTPPort,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", cfg.Server.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
