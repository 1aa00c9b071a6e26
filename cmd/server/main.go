package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/shelf_server/internal/app"
	"github.com/Freeeeeet/shelf_server/internal/config"
	"github.com/Freeeeeet/shelf_server/internal/controller"
	"github.com/Freeeeeet/shelf_server/internal/controller/httpapi"
	"github.com/Freeeeeet/shelf_server/internal/jobs"
	"github.com/Freeeeeet/shelf_server/internal/notifier"
	"github.com/Freeeeeet/shelf_server/internal/repository"
	"github.com/Freeeeeet/shelf_server/internal/service"
	"github.com/Freeeeeet/shelf_server/migrations"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Sugar().Infow("Starting shelf server",
		"environment", cfg.Environment,
		"http_addr", cfg.HTTPAddr,
		"email_enabled", cfg.EmailEnabled(),
		"telegram_enabled", cfg.TelegramToken != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("✅ Connected to database")

	if cfg.MigrationsAuto {
		migrator, err := app.NewMigrator(pool, migrations.FS, logger)
		if err != nil {
			return err
		}
		if err := migrator.Run(ctx); err != nil {
			migrator.Close()
			return err
		}
		migrator.Close()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}
	logger.Info("✅ Connected to redis", zap.String("addr", cfg.Redis.Addr))

	queue := jobs.NewQueue(rdb, logger, jobs.Options{
		Prefix:            cfg.Jobs.Prefix,
		VisibilityTimeout: cfg.Jobs.VisibilityTimeout,
		MaxAttempts:       cfg.Jobs.MaxAttempts,
	})

	// Репозитории
	bookingRepo := repository.NewBookingRepository(pool)
	assetRepo := repository.NewAssetRepository(pool)
	organizationRepo := repository.NewOrganizationRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	teamMemberRepo := repository.NewTeamMemberRepository(pool)
	qrRepo := repository.NewQrRepository(pool)

	var tgBot *bot.Bot
	if cfg.TelegramToken != "" {
		tgBot, err = bot.New(cfg.TelegramToken)
		if err != nil {
			return err
		}
	}

	var channels notifier.Multi
	if cfg.EmailEnabled() {
		channels = append(channels, notifier.NewEmailNotifier(notifier.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, logger))
	}
	if tgBot != nil {
		channels = append(channels, notifier.NewTelegramNotifier(tgBot, logger))
	}

	// Сервисы
	permissionService := service.NewPermissionService(organizationRepo, logger)
	assetService := service.NewAssetService(assetRepo, logger)
	bookingService := service.NewBookingService(bookingRepo, bookingRepo, assetRepo, teamMemberRepo, organizationRepo, queue, logger)
	userService := service.NewUserService(userRepo, logger)
	qrService := service.NewQrService(qrRepo, assetRepo, cfg.ServerURL, logger)

	workers := service.NewReminderWorkers(bookingRepo, queue, channels, cfg.ServerURL, logger)
	workers.Register(queue)

	scheduler := app.NewScheduler(queue, cfg.Jobs.PollInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if tgBot != nil {
		botController := controller.NewBotController(tgBot, userService, bookingService, cfg.ServerURL, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Failed to register bot commands", zap.Error(err))
		}
		go botController.Start(ctx)
	}

	api := httpapi.NewServer(httpapi.Options{
		JWTSecret:      []byte(cfg.JWTSecret),
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		RateLimitRPS:   cfg.HTTP.RateLimitRPS,
		RateLimitBurst: cfg.HTTP.RateLimitBurst,
	}, permissionService, assetService, bookingService, qrService, userService, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
