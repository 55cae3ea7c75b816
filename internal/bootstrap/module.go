package bootstrap

import (
	"context"
	"log/slog"
	nethttp "net/http"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"opsdeck/internal/bootstrap/config"
	"opsdeck/internal/bootstrap/database"
	"opsdeck/internal/bootstrap/logging"
	cacheinfra "opsdeck/internal/infrastructure/cache"
	"opsdeck/internal/infrastructure/events"
	sqliterepo "opsdeck/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "opsdeck/internal/infrastructure/persistence/sqlite/uow"
	"opsdeck/internal/ports"
	transport "opsdeck/internal/transport/http"
	"opsdeck/internal/usecase/assets"
	"opsdeck/internal/usecase/dashboard"
	"opsdeck/internal/usecase/kitchen"
	"opsdeck/internal/usecase/scan"
	"opsdeck/internal/usecase/vehicles"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewAssetRepository,
			fx.As(new(ports.AssetRepository)),
		),
		fx.Annotate(
			sqliterepo.NewKitchenRepository,
			fx.As(new(ports.KitchenRepository)),
		),
		fx.Annotate(
			sqliterepo.NewVehicleRepository,
			fx.As(new(ports.VehicleRepository)),
		),
		fx.Annotate(
			sqliterepo.NewDashboardRepository,
			fx.As(new(ports.DashboardRepository)),
		),
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.KVCache)),
		),
		fx.Annotate(
			cacheinfra.NewMemory,
			fx.As(new(ports.RequestCache)),
		),
	),
	fx.Provide(providePublisher),
	fx.Provide(provideAssetService),
	fx.Provide(provideKitchenService),
	fx.Provide(vehicles.NewService),
	fx.Provide(provideDashboardService),
	fx.Provide(provideDeviceRegistry),
	fx.Provide(provideScanManager),
	fx.Provide(provideRouter),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func providePublisher(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (ports.EventPublisher, error) {
	if !cfg.NATS.Enabled {
		logging.Info(ctx, "event publishing disabled")
		return events.NoopPublisher{}, nil
	}

	publisher, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}

func provideAssetService(repo ports.AssetRepository, publisher ports.EventPublisher, cache ports.RequestCache) *assets.Service {
	return assets.NewService(repo, publisher, cache)
}

func provideKitchenService(cfg config.Config, repo ports.KitchenRepository, unit ports.UnitOfWork, cache ports.RequestCache, publisher ports.EventPublisher) *kitchen.Service {
	return kitchen.NewService(repo, unit, cache, publisher, kitchen.Config{
		NotificationsTTL: cfg.Cache.NotificationsTTL,
		BundleTTL:        cfg.Cache.BundleTTL,
	})
}

func provideDashboardService(cfg config.Config, repo ports.DashboardRepository, cache ports.RequestCache) *dashboard.Service {
	return dashboard.NewService(repo, cache, dashboard.Config{
		StatsTTL: cfg.Cache.DashboardTTL,
	})
}

func provideDeviceRegistry(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*scan.DeviceRegistry, error) {
	registry, err := scan.NewDeviceRegistry(cfg.Scanner.ProfilesFile)
	if err != nil {
		return nil, err
	}

	if cfg.Scanner.Watch {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				return registry.Watch(ctx)
			},
			OnStop: func(context.Context) error {
				return registry.Close()
			},
		})
	}
	return registry, nil
}

func provideScanManager(assetSvc *assets.Service, kv ports.KVCache, registry *scan.DeviceRegistry) *scan.Manager {
	return scan.NewManager(assetSvc, kv, registry)
}

func provideRouter(
	assetSvc *assets.Service,
	kitchenSvc *kitchen.Service,
	vehicleSvc *vehicles.Service,
	dashboardSvc *dashboard.Service,
	scans *scan.Manager,
) nethttp.Handler {
	return transport.NewRouter(transport.Services{
		Assets:    assetSvc,
		Kitchen:   kitchenSvc,
		Vehicles:  vehicleSvc,
		Dashboard: dashboardSvc,
		Scans:     scans,
	})
}
