package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/fashionmart/storefront-api/config"
	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/repository"
	"github.com/fashionmart/storefront-api/routes"
	"github.com/fashionmart/storefront-api/services"
	"github.com/fashionmart/storefront-api/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	logger := config.InitLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("starting Fashion Mart API server")

	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load configuration", err)
	}
	config.InitLogger(cfg.LogLevel)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		fatal("failed to connect to database", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := repository.New(config.GetDB(), cfg.DBTimeout)
	if err := store.AutoMigrate(ctx, models.All()...); err != nil {
		fatal("failed to migrate database", err)
	}
	slog.Info("database migration completed")

	if err := services.NewAuthService(store, cfg).EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		fatal("failed to bootstrap admin", err)
	}

	if err := initServices(ctx, cfg); err != nil {
		fatal("failed to initialize services", err)
	}

	router := routes.NewRouter(cfg)
	addr := ":" + cfg.Port
	slog.Info("server listening", "addr", addr, "env", cfg.GoEnv)
	if err := router.Run(addr); err != nil {
		fatal("server stopped", err)
	}
}

// initServices picks the session, notification and image backends from cfg
func initServices(ctx context.Context, cfg *config.Config) error {
	if cfg.RedisURL != "" {
		sessions, err := services.NewRedisSessionStore(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return err
		}
		services.SetSessionStore(sessions)
		slog.Info("session store: redis")
	} else {
		services.SetSessionStore(services.NewMemorySessionStore(cfg.SessionTTL))
		slog.Warn("REDIS_URL not set, carts are kept in process memory")
	}

	if cfg.PostmarkServerToken != "" {
		services.SetNotifier(services.NewPostmarkNotifier(cfg.PostmarkServerToken, cfg.EmailSender))
		slog.Info("order confirmations: postmark")
	}

	if cfg.UsesS3() {
		s3Service, err := services.NewS3Service(ctx, cfg)
		if err != nil {
			return err
		}
		services.SetImageService(services.NewS3ImageService(s3Service))
		slog.Info("product images: s3", "bucket", cfg.AWSS3Bucket)
	} else {
		services.SetImageService(services.NewLocalImageService(utils.UploadDir))
		slog.Info("product images: local disk", "dir", utils.UploadDir)
	}
	return nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
