package migration

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/Gthulhu/erp/config"
	"github.com/Gthulhu/erp/pkg/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mongodb"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

//go:embed mongo/*.json
var mongoMigrations embed.FS

// RunMongoMigration applies every pending index migration to the configured
// database.
func RunMongoMigration(cfg config.MongoDBConfig) error {
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Logger(context.Background()).Debug().Msg("mongo schema is up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("run mongo migrate, err: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read mongo migrate version, err: %w", err)
	}
	logger.Logger(context.Background()).Info().Uint("version", version).Bool("dirty", dirty).Msg("mongo migration applied")
	return nil
}

// newMigrator opens migrate on a client of its own. migrate's mongodb driver
// is built on the v1 driver, so the repository's client cannot be shared.
func newMigrator(cfg config.MongoDBConfig) (*migrate.Migrate, error) {
	src, err := iofs.New(mongoMigrations, "mongo")
	if err != nil {
		return nil, fmt.Errorf("load mongo migrations, err: %w", err)
	}
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb for migration, err: %w", err)
	}
	driver, err := mongodb.WithInstance(client, &mongodb.Config{
		DatabaseName: cfg.Database,
		Locking:      mongodb.Locking{Enabled: true},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("init mongo migrate driver, err: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, cfg.Database, driver)
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("init mongo migrate, err: %w", err)
	}
	return m, nil
}

// clientOptions mirrors the repository's connection, CA bundle included.
func clientOptions(cfg config.MongoDBConfig) (*options.ClientOptions, error) {
	opts := options.Client().ApplyURI(cfg.URI())
	tlsCfg, err := cfg.TLSConfig()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}
