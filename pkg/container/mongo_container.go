package container

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Gthulhu/erp/config"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	mongoImage   = "mongo"
	mongoTag     = "8.2.2"
	mongoPort    = 27017
	mongoPortTCP = "27017/tcp"
)

// RunMongoContainer starts, or reuses when already running, a MongoDB
// container named name whose root account is cfg's user. cfg.Port pins the
// host port; empty lets docker pick one. The returned config points at the
// container.
func RunMongoContainer(builder *ContainerBuilder, name string, cfg config.MongoDBConfig) (config.MongoDBConfig, error) {
	existing, err := builder.FindContainer(name)
	if err != nil {
		return cfg, err
	}
	if existing != nil && existing.State == "running" {
		return reuseMongoContainer(builder, existing, cfg)
	}

	opts := &dockertest.RunOptions{
		Name:       name,
		Repository: mongoImage,
		Tag:        mongoTag,
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=" + cfg.User,
			"MONGO_INITDB_ROOT_PASSWORD=" + cfg.Password.Value(),
		},
	}
	if cfg.Database != "" {
		opts.Env = append(opts.Env, "MONGO_INITDB_DATABASE="+cfg.Database)
	}
	if cfg.Port != "" {
		opts.PortBindings = map[docker.Port][]docker.PortBinding{
			mongoPortTCP: {{HostIP: "127.0.0.1", HostPort: cfg.Port}},
		}
	}

	resource, err := builder.RunWithOptions(opts)
	if err != nil {
		return cfg, err
	}
	builder.AddContainer(resource.Container.ID, ContainerInfo{Name: name, Type: ContainerTypeMongoDB})

	cfg.Host = resource.GetBoundIP(mongoPortTCP)
	cfg.Port = resource.GetPort(mongoPortTCP)
	if err := builder.Retry(func() error { return pingMongo(cfg) }); err != nil {
		return cfg, fmt.Errorf("wait for mongo container %s: %w", name, err)
	}
	return cfg, nil
}

func reuseMongoContainer(builder *ContainerBuilder, c *docker.APIContainers, cfg config.MongoDBConfig) (config.MongoDBConfig, error) {
	for _, bind := range c.Ports {
		if bind.PrivatePort != mongoPort || bind.PublicPort == 0 {
			continue
		}
		builder.AddContainer(c.ID, ContainerInfo{Name: c.Names[0], Type: ContainerTypeMongoDB})
		cfg.Host = bind.IP
		cfg.Port = strconv.FormatInt(bind.PublicPort, 10)
		return cfg, nil
	}
	return cfg, fmt.Errorf("mongo container %s publishes no port for %d", c.ID, mongoPort)
}

func pingMongo(cfg config.MongoDBConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI()))
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(ctx) }()
	return client.Ping(ctx, nil)
}
