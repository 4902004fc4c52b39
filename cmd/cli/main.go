package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/streamstock/internal/client/cli"
	"github.com/dmitrijs2005/streamstock/internal/client/client"
	"github.com/dmitrijs2005/streamstock/internal/client/config"
	"github.com/dmitrijs2005/streamstock/internal/client/media"
	"github.com/dmitrijs2005/streamstock/internal/client/repositories"
	"github.com/dmitrijs2005/streamstock/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/streamstock/internal/client/services"
	"github.com/dmitrijs2005/streamstock/internal/client/session"
	"github.com/dmitrijs2005/streamstock/internal/client/token"
	"github.com/dmitrijs2005/streamstock/internal/filex"
	"github.com/dmitrijs2005/streamstock/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogBackend, cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := run(ctx, cfg, logger); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	area, err := client.AreaByName(cfg.Area)
	if err != nil {
		return err
	}

	if _, err := filex.EnsureParentDir(cfg.DBPath); err != nil {
		return err
	}

	db, err := repositories.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", cfg.DBPath, "error", err)
		return err
	}
	defer db.Close()

	var repo credentials.Repository = credentials.NewSQLiteRepository(db)
	if cfg.StorageSecret != "" {
		sealed, err := credentials.NewSealedRepository(ctx, repo, []byte(cfg.StorageSecret))
		if err != nil {
			return err
		}
		repo = sealed
	}

	store := token.NewStore(repo, area.Name)
	bus := session.NewBus()

	api, err := client.New(client.Config{
		BaseURL:        cfg.APIBaseURL,
		Area:           area,
		Store:          store,
		Sink:           bus.Sink(area.LogoutTopic),
		Logger:         logger.With("area", area.Name),
		RequestTimeout: cfg.RequestTimeout,
		RefreshTimeout: cfg.RefreshTimeout,
		ExpiryBuffer:   cfg.ExpiryBuffer,
		RateLimit:      cfg.RateLimit,
	})
	if err != nil {
		return err
	}

	svc := cli.Services{
		Auth:     services.NewAuthService(api, store, area, api.Sink()),
		Catalog:  services.NewCatalogService(api),
		Purchase: services.NewPurchaseService(api),
		Supplier: services.NewSupplierService(api),
		Wallet:   services.NewWalletService(api),
		Admin:    services.NewAdminService(api),
		Media:    media.NewUploader(cfg.Media, logger),
	}

	cli.NewApp(cfg, area, bus, svc, logger).Run(ctx)
	return nil
}
