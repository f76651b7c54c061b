package main

import (
	"net/http"

	"go.uber.org/zap"

	"webucket/internal/config"
	"webucket/internal/handlers"
	"webucket/internal/middleware"
	"webucket/internal/repo"
	"webucket/internal/service"
)

func main() {
	cfg := config.NewConfig()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	middleware.SetLogger(sugar)
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	bucketRepo := repo.NewBucketRepository(gormDB)
	memberRepo := repo.NewMembershipRepository(gormDB)
	itemRepo := repo.NewItemRepository(gormDB)
	imageRepo := repo.NewImageRepository(gormDB)

	userService := service.NewUserService(userRepo)
	bucketService := service.NewBucketService(bucketRepo, memberRepo, itemRepo, userRepo)
	itemService := service.NewItemService(itemRepo, bucketRepo, memberRepo)
	imageService := service.NewImageService(imageRepo, bucketRepo, itemRepo, memberRepo, cfg.ItemImageMax)

	h := handlers.NewHandler(userService, bucketService, itemService, imageService, sugar, cfg)

	sugar.Infow("Starting server",
		"addr", cfg.RunAddress,
		"token_ttl_minutes", cfg.TokenTTLMinutes,
		"cors_origins", cfg.CORSOrigins,
	)

	if err := http.ListenAndServe(cfg.RunAddress, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
