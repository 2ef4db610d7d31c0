package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/youssefadel/eduplatform-backend/internal/cron"
	"github.com/youssefadel/eduplatform-backend/internal/notifications"
	videosvc "github.com/youssefadel/eduplatform-backend/internal/videos"
	"github.com/youssefadel/eduplatform-backend/pkg/bunny"
	"github.com/youssefadel/eduplatform-backend/pkg/config"
	"github.com/youssefadel/eduplatform-backend/pkg/db"
	"github.com/youssefadel/eduplatform-backend/pkg/instance"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
	"github.com/youssefadel/eduplatform-backend/pkg/metrics"
	"github.com/youssefadel/eduplatform-backend/pkg/migrate"
	"github.com/youssefadel/eduplatform-backend/pkg/redis"
)

const lockKeyFormat = "edu:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry()

	notificationJob, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:     logg,
		Repository: notifications.NewRepository(dbClient.DB()),
		Retention:  cfg.Cron.NotificationRetentionDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification cleanup job", err)
		os.Exit(1)
	}
	registry.Register(notificationJob)

	bunnyClient, err := bunny.NewClient(cfg.Bunny, logg)
	if err != nil {
		logg.Warn(logg.WithField(context.Background(), "error", err.Error()), "video CDN client not configured; skipping orphan video reconcile job")
	} else {
		orphanJob, err := cron.NewOrphanVideoJob(cron.OrphanVideoJobParams{
			Logger:     logg,
			Library:    bunnyClient,
			Lessons:    videosvc.NewRepository(dbClient.DB()),
			GraceHours: cfg.Cron.OrphanVideoGraceHours,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create orphan video job", err)
			os.Exit(1)
		}
		registry.Register(orphanJob)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
