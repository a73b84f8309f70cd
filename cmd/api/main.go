package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/pattadon/shopstock-backend/api/routes"
	"github.com/pattadon/shopstock-backend/internal/alerts"
	"github.com/pattadon/shopstock-backend/internal/inventory"
	"github.com/pattadon/shopstock-backend/internal/media"
	"github.com/pattadon/shopstock-backend/internal/orders"
	"github.com/pattadon/shopstock-backend/internal/overview"
	"github.com/pattadon/shopstock-backend/internal/picking"
	"github.com/pattadon/shopstock-backend/internal/products"
	"github.com/pattadon/shopstock-backend/internal/users"
	"github.com/pattadon/shopstock-backend/pkg/config"
	"github.com/pattadon/shopstock-backend/pkg/db"
	"github.com/pattadon/shopstock-backend/pkg/logger"
	"github.com/pattadon/shopstock-backend/pkg/migrate"
	"github.com/pattadon/shopstock-backend/pkg/redis"
	"github.com/pattadon/shopstock-backend/pkg/storage/gcs"
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

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing object storage", err)
		}
	}()

	gormDB := dbClient.DB()
	ledgerRepo := inventory.NewRepository(gormDB)
	productRepo := products.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	pickingRepo := picking.NewRepository(gormDB)
	userRepo := users.NewRepository(gormDB)
	notificationRepo := alerts.NewNotificationRepository(gormDB)

	inventoryService, err := inventory.NewService(ledgerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	productService, err := products.NewService(productRepo, ledgerRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}
	pickingService, err := picking.NewService(pickingRepo, orderRepo, productRepo, ledgerRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create picking service", err)
		os.Exit(1)
	}
	alertService, err := alerts.NewService(productRepo, notificationRepo, redisClient, cfg.Alerts)
	if err != nil {
		logg.Error(context.Background(), "failed to create alert service", err)
		os.Exit(1)
	}
	userService, err := users.NewService(userRepo, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	mediaService, err := media.NewService(gcsClient, cfg.GCS, cfg.Media)
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}
	overviewService, err := overview.NewService(userRepo, orderRepo, productRepo, pickingRepo, alertService)
	if err != nil {
		logg.Error(context.Background(), "failed to create overview service", err)
		os.Exit(1)
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
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			DB:        dbClient,
			Cache:     redisClient,
			Users:     userService,
			Products:  productService,
			Inventory: inventoryService,
			Orders:    orderService,
			Picking:   pickingService,
			Alerts:    alertService,
			Media:     mediaService,
			Overview:  overviewService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
