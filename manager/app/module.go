package app

import (
	"fmt"
	"io"
	"os"

	"github.com/Gthulhu/erp/config"
	"github.com/Gthulhu/erp/manager/repository"
	"github.com/Gthulhu/erp/manager/rest"
	"github.com/Gthulhu/erp/manager/service"
	"github.com/Gthulhu/erp/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// ConfigModule loads the named config file, initialises logging from it and
// supplies each config section to the graph.
func ConfigModule(configName string, configPath string) (fx.Option, error) {
	cfg, err := config.InitManagerConfig(configName, configPath)
	if err != nil {
		return nil, err
	}
	if err := initLogger(cfg.Logging); err != nil {
		return nil, err
	}

	return fx.Supply(
		cfg,
		cfg.MongoDB,
		cfg.Server,
		cfg.Key,
		cfg.Account,
		cfg.Auth,
	), nil
}

func initLogger(cfg config.LoggingConfig) error {
	var out io.Writer = os.Stdout
	if cfg.FilePath != "" {
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file %s: %w", cfg.FilePath, err)
		}
		out = f
	}
	logger.InitLoggerWithOptions(logger.Options{
		Level:   cfg.Level,
		Console: cfg.Console,
		Output:  out,
	})
	return nil
}

// RepoModule creates an Fx module that provides the repository layer, return domain.Repository
func RepoModule(configName string, configPath string) (fx.Option, error) {
	configModule, err := ConfigModule(configName, configPath)
	if err != nil {
		return nil, err
	}

	return fx.Options(
		configModule,
		fx.Provide(repository.NewRepository),
	), nil
}

// ServiceModule creates an Fx module that provides the service layer, return domain.Service
func ServiceModule(configName string, configPath string) (fx.Option, error) {
	repoModule, err := RepoModule(configName, configPath)
	if err != nil {
		return nil, err
	}

	return fx.Options(
		repoModule,
		fx.Provide(func() prometheus.Registerer { return prometheus.DefaultRegisterer }),
		fx.Provide(service.NewService),
	), nil
}

// HandlerModule creates an Fx module that provides the REST handler, return *rest.Handler
func HandlerModule(configName string, configPath string) (fx.Option, error) {
	serviceModule, err := ServiceModule(configName, configPath)
	if err != nil {
		return nil, err
	}

	return fx.Options(
		serviceModule,
		fx.Provide(rest.NewHandler),
	), nil
}
