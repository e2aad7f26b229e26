package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-mailroom/mailroom-api/internal/handler"
	"github.com/campus-mailroom/mailroom-api/internal/repository"
	"github.com/campus-mailroom/mailroom-api/internal/service"
	"github.com/campus-mailroom/mailroom-api/pkg/cache"
	"github.com/campus-mailroom/mailroom-api/pkg/config"
	"github.com/campus-mailroom/mailroom-api/pkg/database"
	"github.com/campus-mailroom/mailroom-api/pkg/logger"
	"github.com/campus-mailroom/mailroom-api/pkg/storage"
)

// @title Mailroom API
// @version 1.0.0
// @description Campus mailroom package tracking and departmental purchase requests.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	app, err := buildApp(cfg, db, redisClient, logr)
	if err != nil {
		return err
	}

	app.notifications.Start(ctx)
	defer app.notifications.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: newRouter(cfg, app, logr),
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type app struct {
	metrics       *service.MetricsService
	auth          *service.AuthService
	notifications *service.NotificationService

	packages   *handler.PackageHandler
	users      *handler.UserHandler
	categories *handler.SpendCategoryHandler
	professors *handler.ProfessorHandler
	orders     *handler.OrderHandler
	authH      *handler.AuthHandler
	admin      *handler.AdminHandler
	ops        *handler.MetricsHandler
}

func buildApp(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, logr *zap.Logger) (*app, error) {
	validate := validator.New()
	metrics := service.NewMetricsService()

	packageRepo := repository.NewPackageRepository(db)
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	categoryRepo := repository.NewSpendCategoryRepository(db)
	professorRepo := repository.NewProfessorRepository(db)

	packageCache := service.NewPackageCache(
		repository.NewPackageCacheRepository(redisClient),
		metrics,
		cfg.Packages.SummaryCacheTTL,
		logr,
		redisClient != nil,
	)

	notifications := service.NewNotificationService(packageRepo, service.LogArrivalSender{Logger: logr}, metrics, logr, service.NotificationConfig{
		Enabled: cfg.Notifications.Enabled,
		Workers: cfg.Notifications.Workers,
		Retries: cfg.Notifications.Retries,
	})

	packageSvc := service.NewPackageService(packageRepo, validate, packageCache, metrics, notifications, logr, service.PackageConfig{
		StrictCheckout: cfg.Packages.StrictCheckout,
		ExportMaxRows:  cfg.Packages.ExportMaxRows,
	})
	userSvc := service.NewUserService(userRepo, packageSvc, validate, logr)
	categorySvc := service.NewSpendCategoryService(categoryRepo, validate, logr)
	professorSvc := service.NewProfessorService(professorRepo, validate, logr)

	receiptStore, err := storage.NewLocalStorage(cfg.Receipts.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("receipt storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Receipts.SignedURLSecret, cfg.Receipts.SignedURLTTL)
	receiptSvc := service.NewReceiptService(orderRepo, receiptStore, signer, cfg.Receipts.MaxFileSizeBytes, logr)
	orderSvc := service.NewOrderService(orderRepo, userRepo, professorRepo, categoryRepo, receiptSvc, validate, logr)

	authSvc, err := service.NewAuthService(validate, logr, service.AuthConfig{
		PasswordHash:  cfg.Admin.PasswordHash,
		Password:      cfg.Admin.Password,
		SessionSecret: cfg.Admin.SessionSecret,
		SessionTTL:    cfg.Admin.SessionTTL,
	})
	if err != nil {
		if cfg.Admin.GateEnabled {
			return nil, err
		}
		logr.Warn("admin login disabled", zap.Error(err))
	}

	checks := map[string]handler.Pinger{"postgres": db}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	a := &app{
		metrics:       metrics,
		auth:          authSvc,
		notifications: notifications,
		packages:      handler.NewPackageHandler(packageSvc),
		users:         handler.NewUserHandler(userSvc, orderSvc),
		categories:    handler.NewSpendCategoryHandler(categorySvc),
		professors:    handler.NewProfessorHandler(professorSvc),
		orders:        handler.NewOrderHandler(orderSvc, receiptSvc, cfg.APIPrefix+"/receipts/"),
		admin:         handler.NewAdminHandler(),
		ops:           handler.NewMetricsHandler(metrics, checks),
	}
	if authSvc != nil {
		a.authH = handler.NewAuthHandler(authSvc)
	}
	return a, nil
}
