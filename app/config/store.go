package config

import (
	"context"

	"todo-lists/app/services"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// OpenStore connects to the configured backend.
func OpenStore(ctx context.Context, cfg *Config) (services.Store, error) {
	switch cfg.Store.Backend {
	case BackendMongo:
		client, err := InitMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		grip.Info(message.Fields{
			"message":    "connected to mongo",
			"database":   cfg.Mongo.Database,
			"collection": cfg.Mongo.Collection,
		})
		return services.NewMongoStore(client, cfg.Mongo.Database, cfg.Mongo.Collection), nil
	case BackendNeo4j:
		driver, err := InitNeo4j(cfg.Neo4j)
		if err != nil {
			return nil, err
		}
		grip.Info(message.Fields{
			"message":  "created neo4j driver",
			"uri":      cfg.Neo4j.URI,
			"database": cfg.Neo4j.Database,
		})
		return services.NewNeo4jStore(driver, cfg.Neo4j.Database), nil
	default:
		return nil, errors.Errorf("unknown store backend '%s'", cfg.Store.Backend)
	}
}
