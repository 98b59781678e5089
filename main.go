package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freelance-marketplace/config"
	"freelance-marketplace/database"
	"freelance-marketplace/handlers"
	"freelance-marketplace/logger"
	"freelance-marketplace/middleware"
	"freelance-marketplace/models"
	"freelance-marketplace/services"
	"freelance-marketplace/storage"
	"freelance-marketplace/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ invalid configuration")
	}
	logger.Init(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore(cfg)
	locker := newLocker(ctx, cfg)

	progression := services.NewProgressionService(store, locker, cfg.AutoCreateProgress)
	achievements := services.NewAchievementService(store, progression)
	marketplace := services.NewMarketplaceService(store, progression, achievements)

	var icons *storage.IconStore
	if cfg.R2Enabled() {
		icons, err = storage.NewR2IconStore(ctx, storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			Bucket:          cfg.R2BucketName,
			CDNBaseURL:      cfg.CDNBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize R2 client")
		}
	} else {
		logger.Warn().Msg("⚠️  R2 not configured, achievement icon upload disabled")
	}

	var sweep *workers.AchievementSweepWorker
	if cfg.SweepEnabled {
		sweep = workers.NewAchievementSweepWorker(store, achievements, cfg.SweepInterval)
		if err := sweep.Start(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to start achievement sweep")
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(recover.New())

	// 🔐 only Gateway requests allowed
	app.Use(middleware.GatewayAuthMiddleware(cfg.GatewayToken))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, Cache-Control",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	handlers.SetupRoutes(app, handlers.Deps{
		Achievements: achievements,
		Progression:  progression,
		Marketplace:  marketplace,
		Stream:       services.NewUnlockStream(achievements),
		Icons:        icons,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error().Err(err).Msg("server error")
		}
	}()

	logger.Info().Str("port", cfg.Port).Str("origins", cfg.Origins()).Msg("✅ Server running")

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	if sweep != nil {
		if err := sweep.Stop(); err != nil {
			logger.Warn().Err(err).Msg("sweep shutdown")
		}
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn().Err(err).Msg("server shutdown")
	}
}

// openStore prefers Postgres; DOCUMENT_API_URL selects the hosted REST store.
func openStore(cfg *config.Config) database.DocumentStore {
	if cfg.DatabaseURL != "" {
		db, err := database.OpenPostgres(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err := db.AutoMigrate(models.All()...); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
		logger.Info().Msg("✅ Using Postgres document store")
		return database.NewGormStore(db)
	}

	store, err := database.NewRemoteStore(cfg.DocumentAPIURL, cfg.DocumentAPIKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure document API")
	}
	logger.Warn().Msg("⚠️  Using hosted document API: multi-step unlocks are not transactional")
	return store
}

func newLocker(ctx context.Context, cfg *config.Config) services.Locker {
	if cfg.RedisAddr == "" {
		return services.NewLocalLocker()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
	}
	logger.Info().Str("addr", cfg.RedisAddr).Msg("✅ Using Redis per-user locks")
	return services.NewRedisLocker(client, cfg.LockTTL)
}
