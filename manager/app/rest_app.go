package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Gthulhu/erp/config"
	"github.com/Gthulhu/erp/manager/domain"
	"github.com/Gthulhu/erp/manager/migration"
	"github.com/Gthulhu/erp/manager/rest"
	"github.com/Gthulhu/erp/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const (
	revocationPruneInterval = 10 * time.Minute
	bootstrapTimeout        = 30 * time.Second
	defaultListenAddr       = ":8080"
)

// NewRestApp wires the manager: it migrates the database, seeds the bootstrap
// accounts and serves the REST API.
func NewRestApp(configName string, configDirPath string) (*fx.App, error) {
	handlerModule, err := HandlerModule(configName, configDirPath)
	if err != nil {
		return nil, err
	}

	app := fx.New(
		handlerModule,
		fx.Invoke(migration.RunMongoMigration),
		fx.Invoke(BootstrapAccounts),
		fx.Invoke(StartRestApp),
		fx.Invoke(StartRevocationPruner),
	)
	return app, nil
}

// BootstrapAccounts makes sure the configured super admin, and the demo
// manager when configured, can sign in.
func BootstrapAccounts(cfg config.AccountConfig, svc domain.Service) error {
	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	defer cancel()
	if err := svc.CreateAdminUserIfNotExists(ctx, cfg.AdminEmail, cfg.AdminPassword.Value()); err != nil {
		return err
	}
	return svc.CreateDemoUserIfNotExists(ctx, cfg.DemoEmail, cfg.DemoPassword.Value())
}

// StartRestApp serves the API on cfg.Host for the lifetime of the app.
func StartRestApp(lc fx.Lifecycle, cfg config.ServerConfig, handler *rest.Handler) error {
	engine := echo.New()
	engine.HideBanner = true
	engine.HidePort = true
	handler.SetupRoutes(engine)

	addr := cfg.Host
	if addr == "" {
		addr = defaultListenAddr
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log := logger.Logger(ctx)
			go func() {
				log.Info().Str("addr", addr).Msg("rest server listening")
				if err := engine.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Str("addr", addr).Msg("rest server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Logger(ctx).Info().Msg("shutting down rest server")
			return engine.Shutdown(ctx)
		},
	})
	return nil
}

// StartRevocationPruner periodically drops revoked token ids whose tokens
// have expired.
func StartRevocationPruner(lc fx.Lifecycle, svc domain.Service) {
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(revocationPruneInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						svc.PruneRevokedTokens(runCtx)
					case <-runCtx.Done():
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
			}
			return nil
		},
	})
}
