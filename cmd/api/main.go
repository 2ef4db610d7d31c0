package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/youssefadel/eduplatform-backend/api/routes"
	"github.com/youssefadel/eduplatform-backend/internal/access"
	activitysvc "github.com/youssefadel/eduplatform-backend/internal/activity"
	authsvc "github.com/youssefadel/eduplatform-backend/internal/auth"
	coursesvc "github.com/youssefadel/eduplatform-backend/internal/courses"
	"github.com/youssefadel/eduplatform-backend/internal/discounts"
	lessonsvc "github.com/youssefadel/eduplatform-backend/internal/lessons"
	"github.com/youssefadel/eduplatform-backend/internal/notifications"
	"github.com/youssefadel/eduplatform-backend/internal/playback"
	purchasesvc "github.com/youssefadel/eduplatform-backend/internal/purchases"
	statsvc "github.com/youssefadel/eduplatform-backend/internal/stats"
	usersvc "github.com/youssefadel/eduplatform-backend/internal/users"
	videosvc "github.com/youssefadel/eduplatform-backend/internal/videos"
	"github.com/youssefadel/eduplatform-backend/internal/videotoken"
	"github.com/youssefadel/eduplatform-backend/pkg/bunny"
	"github.com/youssefadel/eduplatform-backend/pkg/config"
	"github.com/youssefadel/eduplatform-backend/pkg/db"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
	"github.com/youssefadel/eduplatform-backend/pkg/migrate"
	"github.com/youssefadel/eduplatform-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	gormDB := dbClient.DB()

	signer := videotoken.NewSigner(cfg.Bunny.LibraryID, cfg.Bunny.StreamSecret, cfg.Bunny.TokenTTL)
	if !signer.Ready() {
		logg.Warn(context.Background(), "video token signing not configured; playback degrades to unsigned URLs")
	}

	builder, err := playback.NewBuilder(signer, cfg.Bunny.DeliveryHost)
	if err != nil {
		logg.Error(context.Background(), "failed to build playback builder", err)
		os.Exit(1)
	}

	bunnyClient, err := bunny.NewClient(cfg.Bunny, logg)
	if err != nil {
		logg.Warn(logg.WithField(context.Background(), "error", err.Error()), "video CDN client not configured; lesson video management disabled")
		bunnyClient = nil
	}

	authService, err := authsvc.NewService(authsvc.NewRepository(gormDB), cfg.JWT, cfg.Password)
	if err != nil {
		fatal(logg, "auth service", err)
	}
	usersService, err := usersvc.NewService(usersvc.NewRepository(gormDB), cfg.Password)
	if err != nil {
		fatal(logg, "users service", err)
	}
	accessService, err := access.NewService(access.NewUsersRepo(gormDB), access.NewPurchasesRepo(gormDB))
	if err != nil {
		fatal(logg, "access service", err)
	}
	activityService, err := activitysvc.NewService(activitysvc.NewRepository(gormDB))
	if err != nil {
		fatal(logg, "activity service", err)
	}
	notificationsService, err := notifications.NewService(notifications.NewRepository(gormDB))
	if err != nil {
		fatal(logg, "notifications service", err)
	}
	discountsService, err := discounts.NewService(discounts.NewRepository(gormDB))
	if err != nil {
		fatal(logg, "discounts service", err)
	}
	coursesService, err := coursesvc.NewService(coursesvc.NewRepository(gormDB), bunnyClient, logg)
	if err != nil {
		fatal(logg, "courses service", err)
	}
	lessonsService, err := lessonsvc.NewService(lessonsvc.NewRepository(gormDB), accessService, builder, activityService, logg)
	if err != nil {
		fatal(logg, "lessons service", err)
	}
	purchasesService, err := purchasesvc.NewService(
		purchasesvc.NewRepository(gormDB),
		coursesvc.NewRepository(gormDB),
		discountsService,
		notificationsService,
		activityService,
		dbClient,
		logg,
	)
	if err != nil {
		fatal(logg, "purchases service", err)
	}
	videosService, err := videosvc.NewService(videosvc.NewRepository(gormDB), bunnyClient, logg)
	if err != nil {
		fatal(logg, "videos service", err)
	}
	statsService, err := statsvc.NewService(statsvc.NewRepository(gormDB))
	if err != nil {
		fatal(logg, "stats service", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Auth:          authService,
			Users:         usersService,
			Courses:       coursesService,
			Lessons:       lessonsService,
			Purchases:     purchasesService,
			Videos:        videosService,
			Notifications: notificationsService,
			Activity:      activityService,
			Stats:         statsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func fatal(logg *logger.Logger, what string, err error) {
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
