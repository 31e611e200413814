package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Gthulhu/erp/config"
	"github.com/Gthulhu/erp/manager/domain"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/fx"
)

const (
	userCollection     = "users"
	auditLogCollection = "audit_logs"

	connectTimeout = 10 * time.Second
)

type Params struct {
	fx.In
	MongoConfig config.MongoDBConfig
}

func NewRepository(params Params) (domain.Repository, error) {
	client, err := newMongoClient(params.MongoConfig)
	if err != nil {
		return nil, err
	}
	return &repo{
		client: client,
		db:     client.Database(params.MongoConfig.Database),
	}, nil
}

type repo struct {
	client *mongo.Client
	db     *mongo.Database
}

func newMongoClient(cfg config.MongoDBConfig) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(cfg.URI())
	tlsCfg, err := cfg.TLSConfig()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		opts.SetTLSConfig(tlsCfg)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb, err: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb, err: %w", err)
	}
	return client, nil
}
