package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/NiccAngelo/my-shopify/cache"
	"github.com/NiccAngelo/my-shopify/config"
	"github.com/NiccAngelo/my-shopify/middleware"
	"github.com/NiccAngelo/my-shopify/models"
	"github.com/NiccAngelo/my-shopify/routes"
)

func main() {
	config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db := initDatabase(logger)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		logger.Fatal("automigrate failed", zap.Error(err))
	}

	pc := cache.NewProductCache(config.RedisAddr())
	if pc != nil {
		logger.Info("product cache enabled", zap.String("addr", config.RedisAddr()))
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.Metrics())

	routes.SetupRoutes(r, db, pc)

	srv := &http.Server{
		Addr:    ":" + config.Port(),
		Handler: r,
	}

	go func() {
		logger.Info("server listening", zap.String("port", config.Port()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}

	// Drain the connection pool last so in-flight transactions finish.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// initDatabase opens the GORM connection and sizes the shared pool.
func initDatabase(logger *zap.Logger) *gorm.DB {
	dsn := config.DatabaseURL()
	if dsn == "" {
		dsn = config.DatabaseDSN()
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		logger.Fatal("db connection failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("db pool unavailable", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("db ping failed", zap.Error(err))
	}
	return db
}
