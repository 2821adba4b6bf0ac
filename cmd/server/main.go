package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/teamup-cl/notify-api/internal/config"
	"github.com/teamup-cl/notify-api/internal/handler"
	"github.com/teamup-cl/notify-api/internal/middleware"
	"github.com/teamup-cl/notify-api/internal/model"
	"github.com/teamup-cl/notify-api/internal/repository"
	"github.com/teamup-cl/notify-api/internal/service"
	"github.com/teamup-cl/notify-api/migrations"
	"github.com/teamup-cl/notify-api/pkg/fcm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// @title           TeamUp Notify API
// @version         1.0
// @description     Push-notification fan-out for newly created activities: audience resolution by location and sport preference, alert dedup, FCM dispatch.

// @contact.name   API Support
// @contact.email  soporte@teamup.cl

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @BasePath  /api/v1

func main() {
	// ==================== Load Config ====================
	cfg := config.Load()
	log.Printf("🚀 Starting TeamUp Notify API [env=%s]", cfg.App.Env)

	// ==================== Database (PostgreSQL) ====================
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.App.Env == "production" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// ==================== Run Migrations ====================
	if err := migrations.Run(cfg.DB.URL()); err != nil {
		log.Printf("⚠️  Migration warning: %v", err)
		log.Println("📦 Falling back to GORM AutoMigrate...")
		if err := db.AutoMigrate(
			&model.Sport{},
			&model.Activity{},
			&model.Profile{},
			&model.UserPreferredLocation{},
			&model.Alert{},
		); err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
	}
	log.Println("✅ Database migrated successfully")

	// ==================== Redis (access-token cache) ====================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("⚠️  Redis not available: %v (token caching disabled)", err)
		rdb = nil
	} else {
		log.Println("✅ Connected to Redis")
	}

	// ==================== Firebase Messaging ====================
	var sa *fcm.ServiceAccount
	if cfg.FCM.ServiceAccountJSON != "" {
		sa, err = fcm.ParseServiceAccount([]byte(cfg.FCM.ServiceAccountJSON))
	} else if cfg.FCM.ServiceAccountFile != "" {
		sa, err = fcm.LoadServiceAccountFile(cfg.FCM.ServiceAccountFile)
	} else {
		log.Fatal("❌ FIREBASE_SERVICE_ACCOUNT_JSON or FIREBASE_SERVICE_ACCOUNT_FILE must be set")
	}
	if err != nil {
		log.Fatalf("❌ Invalid Firebase service account: %v", err)
	}
	log.Printf("✅ Firebase service account loaded [project=%s]", sa.ProjectID)

	tokenProvider := fcm.NewTokenProvider(sa, cfg.FCM.Timeout, rdb)
	fcmClient := fcm.NewClient(sa, tokenProvider, cfg.FCM.Timeout)
	legacyClient := fcm.NewLegacyClient(cfg.FCM.LegacyServerKey, cfg.FCM.Timeout)
	if cfg.FCM.LegacyServerKey == "" {
		log.Println("⚠️  FCM_SERVER_KEY not set, legacy event-created endpoint will fail sends")
	}

	// ==================== Initialize Layers ====================
	activityRepo := repository.NewActivityRepository(db)
	sportRepo := repository.NewSportRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	audienceService := service.NewAudienceService(prefRepo, profileRepo)
	notifyService := service.NewNotifyService(
		activityRepo, sportRepo, audienceService, alertRepo,
		fcmClient, legacyClient, cfg.Notify.OnlyNew,
	)

	notifyHandler := handler.NewNotifyHandler(notifyService)

	// ==================== Gin Router ====================
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, model.ErrorResponse{Error: "Only POST"})
	})

	// Swagger
	router.StaticFile("/docs/swagger.json", "./docs/swagger.json")
	url := ginSwagger.URL("/docs/swagger.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))

	// Global middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "notify-api",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// ==================== API Routes ====================
	api := router.Group("/api/v1")
	{
		notifications := api.Group("/notifications")
		{
			notifications.POST("/activity-created", notifyHandler.ActivityCreated)
			// Deprecated legacy transport, same semantics
			notifications.POST("/event-created", notifyHandler.EventCreated)
		}
	}

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	log.Printf("🌐 TeamUp Notify API running on http://0.0.0.0:%s", cfg.App.Port)
	log.Printf("📋 API docs: http://0.0.0.0:%s/swagger/index.html", cfg.App.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server exited gracefully")
}
