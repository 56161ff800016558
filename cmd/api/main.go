package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"corpsite/internal/api"
	"corpsite/internal/config"
	"corpsite/internal/database"
	"corpsite/internal/upload"
)

func main() {
	cfg := config.MustLoad()
	log.Printf("api bootstrapped with db host=%s port=%d db=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Printf("database connection ready")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	log.Printf("database migrated")

	if err := os.MkdirAll(cfg.Uploads.Root, 0o755); err != nil {
		log.Fatalf("create upload root: %v", err)
	}
	uploads := upload.NewSaver(cfg.Uploads.Root, cfg.Uploads.ClamdAddr)

	// Redis 不可用时联系表单限流与后台通知自动退化，API 本身照常服务。
	var (
		redisClient *redis.Client
		asynqClient *asynq.Client
	)
	candidate := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	if err := candidate.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis unreachable, rate limiting and notifications disabled",
			slog.String("addr", cfg.Redis.Addr()),
			slog.String("error", err.Error()),
		)
		_ = candidate.Close()
	} else {
		redisClient = candidate
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
		defer func() {
			if err := asynqClient.Close(); err != nil {
				logger.Error("close asynq client failed", slog.Any("error", err))
			}
			if err := redisClient.Close(); err != nil {
				logger.Error("close redis client failed", slog.Any("error", err))
			}
		}()
	}

	router := api.NewRouter(cfg, logger)
	api.RegisterRoutes(router, db, uploads, asynqClient, redisClient, logger, cfg.Contact.RatePerHour)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	log.Printf("api listening on %s", address)

	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}
