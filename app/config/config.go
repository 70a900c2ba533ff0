package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const (
	DefaultConfigFile      = "todo.toml"
	DefaultAddr            = "0.0.0.0:5000"
	DefaultShutdownTimeout = 10
	DefaultBackend         = BackendMongo
	DefaultMongoURI        = "mongodb://db:27017/restdb"
	DefaultMongoDatabase   = "restdb"
	DefaultMongoCollection = "lists"
	DefaultConnectTimeout  = 10
	DefaultNeo4jURI        = "neo4j://neo4j:7687"
	DefaultLogLevel        = "info"

	BackendMongo = "mongo"
	BackendNeo4j = "neo4j"
)

// Config is the service configuration. Values are applied in order:
// defaults, the TOML file, TODO_* environment variables, command line flags.
type Config struct {
	HTTP  HTTPConfig  `toml:"http"`
	Store StoreConfig `toml:"store"`
	Mongo MongoConfig `toml:"mongo"`
	Neo4j Neo4jConfig `toml:"neo4j"`
	Log   LogConfig   `toml:"log"`
}

// HTTPConfig is the [http] section: the listen address and how long a
// graceful shutdown waits for open requests.
type HTTPConfig struct {
	Addr                string `toml:"addr" validate:"required"`
	ShutdownTimeoutSecs int    `toml:"shutdown_timeout_secs" validate:"gte=0"`
}

// StoreConfig is the [store] section. Backend is "mongo" or "neo4j".
type StoreConfig struct {
	Backend string `toml:"backend" validate:"oneof=mongo neo4j"`
}

// MongoConfig is the [mongo] section used by the mongo backend.
type MongoConfig struct {
	URI                string `toml:"uri"`
	Database           string `toml:"database"`
	Collection         string `toml:"collection"`
	ConnectTimeoutSecs int    `toml:"connect_timeout_secs" validate:"gte=0"`
}

// Neo4jConfig is the [neo4j] section used by the neo4j backend. An empty
// Database selects the server default.
type Neo4jConfig struct {
	URI      string `toml:"uri"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

// LogConfig is the [log] section. Level is the lowest grip level printed.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=emergency alert critical error warning notice info debug trace"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:                DefaultAddr,
			ShutdownTimeoutSecs: DefaultShutdownTimeout,
		},
		Store: StoreConfig{Backend: DefaultBackend},
		Mongo: MongoConfig{
			URI:                DefaultMongoURI,
			Database:           DefaultMongoDatabase,
			Collection:         DefaultMongoCollection,
			ConnectTimeoutSecs: DefaultConnectTimeout,
		},
		Neo4j: Neo4jConfig{
			URI:      DefaultNeo4jURI,
			Username: "neo4j",
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// Load builds the configuration from the defaults, the TOML file at path and
// the environment. An empty path reads DefaultConfigFile if it exists.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrapf(err, "loading config file '%s'", path)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFromEnv(cfg *Config) error {
	strs := map[string]*string{
		"TODO_HTTP_ADDR":        &cfg.HTTP.Addr,
		"TODO_STORE_BACKEND":    &cfg.Store.Backend,
		"TODO_MONGO_URI":        &cfg.Mongo.URI,
		"TODO_MONGO_DATABASE":   &cfg.Mongo.Database,
		"TODO_MONGO_COLLECTION": &cfg.Mongo.Collection,
		"TODO_NEO4J_URI":        &cfg.Neo4j.URI,
		"TODO_NEO4J_USERNAME":   &cfg.Neo4j.Username,
		"TODO_NEO4J_PASSWORD":   &cfg.Neo4j.Password,
		"TODO_NEO4J_DATABASE":   &cfg.Neo4j.Database,
		"TODO_LOG_LEVEL":        &cfg.Log.Level,
	}
	for name, field := range strs {
		if v, ok := os.LookupEnv(name); ok {
			*field = v
		}
	}

	ints := map[string]*int{
		"TODO_HTTP_SHUTDOWN_TIMEOUT_SECS": &cfg.HTTP.ShutdownTimeoutSecs,
		"TODO_MONGO_CONNECT_TIMEOUT_SECS": &cfg.Mongo.ConnectTimeoutSecs,
	}
	for name, field := range ints {
		v, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parsing %s", name)
		}
		*field = n
	}

	return nil
}

// Validate checks field constraints and the settings the chosen backend needs.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	switch c.Store.Backend {
	case BackendMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" || c.Mongo.Collection == "" {
			return errors.New("mongo backend requires a uri, database and collection")
		}
	case BackendNeo4j:
		if c.Neo4j.URI == "" {
			return errors.New("neo4j backend requires a uri")
		}
	}

	return nil
}
